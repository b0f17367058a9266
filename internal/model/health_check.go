package model

import (
	"time"
)

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusOffline   HealthStatus = "offline"
)

// HealthCheck worker 心跳时上报的健康样本，保存在 Redis 环形列表中
type HealthCheck struct {
	WorkerID       string       `json:"workerId"`
	Status         HealthStatus `json:"status"`
	ResponseTime   int          `json:"responseTime"` // 毫秒
	CPUUsage       *float64     `json:"cpuUsage,omitempty"`
	MemoryUsage    *float64     `json:"memoryUsage,omitempty"`
	NetworkLatency *int         `json:"networkLatency,omitempty"`
	ErrorCount     int          `json:"errorCount"`
	ErrorMessage   string       `json:"errorMessage,omitempty"`
	CheckedAt      time.Time    `json:"checkedAt"`
}
