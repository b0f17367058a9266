package dto

import "time"

// AssignJobDTO jobId 为空时自动生成
type AssignJobDTO struct {
	JobID           string `json:"jobId" binding:"omitempty,max=64"`
	ScheduledPostID string `json:"scheduledPostId" binding:"max=64"`
	Platform        string `json:"platform" binding:"required,oneof=facebook instagram tiktok twitter youtube linkedin"`
	JobType         string `json:"jobType" binding:"required,max=30"`
	Priority        int    `json:"priority" binding:"min=0,max=10"`
	MaxRetries      *int   `json:"maxRetries" binding:"omitempty,min=0,max=10"`
}

// DispatchJobDTO 由调度器挑选最优 worker
type DispatchJobDTO struct {
	AssignJobDTO
	Region           string   `json:"region" binding:"max=50"`
	ExcludeWorkerIDs []string `json:"excludeWorkerIds"`
	PreferWorkerIDs  []string `json:"preferWorkerIds"`
}

// UpdateJobDTO worker 回报任务状态；failed 时 shouldRetry 为 false 直接终止
type UpdateJobDTO struct {
	Status      string `json:"status" binding:"required,oneof=started completed failed"`
	Error       string `json:"error" binding:"max=1000"`
	ShouldRetry *bool  `json:"shouldRetry"`
}

type WorkerJobDTO struct {
	JobID           string     `json:"jobId"`
	WorkerID        string     `json:"workerId"`
	ScheduledPostID string     `json:"scheduledPostId"`
	Platform        string     `json:"platform"`
	JobType         string     `json:"jobType"`
	Priority        int        `json:"priority"`
	Status          string     `json:"status"`
	RetryCount      int        `json:"retryCount"`
	MaxRetries      int        `json:"maxRetries"`
	LastError       string     `json:"lastError"`
	AssignedAt      time.Time  `json:"assignedAt"`
	StartedAt       *time.Time `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// HealthCheckDTO worker 心跳上报
type HealthCheckDTO struct {
	Status         string   `json:"status" binding:"required,oneof=healthy degraded unhealthy offline"`
	ResponseTime   int      `json:"responseTime" binding:"min=0"`
	CPUUsage       *float64 `json:"cpuUsage" binding:"omitempty,min=0,max=100"`
	MemoryUsage    *float64 `json:"memoryUsage" binding:"omitempty,min=0,max=100"`
	NetworkLatency *int     `json:"networkLatency" binding:"omitempty,min=0"`
	ErrorCount     int      `json:"errorCount" binding:"min=0"`
	ErrorMessage   string   `json:"errorMessage" binding:"max=1000"`
}

type HealthHistoryQueryDTO struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
