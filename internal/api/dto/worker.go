package dto

import "time"

type WorkerCapabilityDTO struct {
	Platform string   `json:"platform" binding:"required"`
	Actions  []string `json:"actions" binding:"required,min=1,dive,required"`
}

// RegisterWorkerDTO worker 启动时注册
type RegisterWorkerDTO struct {
	WorkerID           string                `json:"workerId" binding:"required,max=100"`
	Name               string                `json:"name" binding:"required,max=255"`
	Description        string                `json:"description" binding:"max=1000"`
	Platforms          []string              `json:"platforms" binding:"required,min=1,dive,required"`
	Capabilities       []WorkerCapabilityDTO `json:"capabilities" binding:"omitempty,dive"`
	Region             string                `json:"region" binding:"required,max=50"`
	DeploymentPlatform string                `json:"deploymentPlatform" binding:"max=30"`
	EndpointURL        string                `json:"endpointUrl" binding:"omitempty,url,max=512"`
	RegistrationSecret string                `json:"registrationSecret" binding:"omitempty,min=8,max=72"`
	MaxConcurrentJobs  *int                  `json:"maxConcurrentJobs" binding:"omitempty,min=1,max=100"`
	Priority           *int                  `json:"priority" binding:"omitempty,min=1,max=5"`
	Tags               []string              `json:"tags"`
}

// UpdateWorkerDTO 部分更新，nil 字段保持不变
type UpdateWorkerDTO struct {
	Name              *string               `json:"name" binding:"omitempty,max=255"`
	Description       *string               `json:"description" binding:"omitempty,max=1000"`
	Platforms         []string              `json:"platforms" binding:"omitempty,min=1,dive,required"`
	Capabilities      []WorkerCapabilityDTO `json:"capabilities" binding:"omitempty,dive"`
	Region            *string               `json:"region" binding:"omitempty,max=50"`
	EndpointURL       *string               `json:"endpointUrl" binding:"omitempty,url,max=512"`
	Status            *string               `json:"status" binding:"omitempty,oneof=active inactive draining"`
	IsEnabled         *bool                 `json:"isEnabled"`
	MaxConcurrentJobs *int                  `json:"maxConcurrentJobs" binding:"omitempty,min=1,max=100"`
	Priority          *int                  `json:"priority" binding:"omitempty,min=1,max=5"`
	Tags              []string              `json:"tags"`
}

type WorkerListQueryDTO struct {
	Platform string `form:"platform"`
	Region   string `form:"region"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive draining"`
	IsOnline *bool  `form:"isOnline"`
}

// WorkerDTO 对外展示的 worker 信息，不含注册密钥
type WorkerDTO struct {
	WorkerID           string                `json:"workerId"`
	Name               string                `json:"name"`
	Description        string                `json:"description"`
	Platforms          []string              `json:"platforms"`
	Capabilities       []WorkerCapabilityDTO `json:"capabilities"`
	Region             string                `json:"region"`
	DeploymentPlatform string                `json:"deploymentPlatform"`
	EndpointURL        string                `json:"endpointUrl"`
	Status             string                `json:"status"`
	IsOnline           bool                  `json:"isOnline"`
	IsEnabled          bool                  `json:"isEnabled"`
	MaxConcurrentJobs  int                   `json:"maxConcurrentJobs"`
	Priority           int                   `json:"priority"`
	AvgResponseTime    int                   `json:"avgResponseTime"`
	Tags               []string              `json:"tags"`
	CurrentLoad        int64                 `json:"currentLoad"`
	LastPingAt         *time.Time            `json:"lastPingAt"`
	LastJobAt          *time.Time            `json:"lastJobAt"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// RegisterWorkerResultDTO token 仅在注册时返回一次
type RegisterWorkerResultDTO struct {
	Worker    *WorkerDTO `json:"worker"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

type WorkerLoadDTO struct {
	WorkerID          string `json:"workerId"`
	CurrentLoad       int64  `json:"currentLoad"`
	MaxConcurrentJobs int    `json:"maxConcurrentJobs"`
	Available         int64  `json:"available"`
}

// WorkerMetricsDTO 单个 worker 的任务统计
type WorkerMetricsDTO struct {
	WorkerID        string  `json:"workerId"`
	TotalJobs       int64   `json:"totalJobs"`
	CompletedJobs   int64   `json:"completedJobs"`
	FailedJobs      int64   `json:"failedJobs"`
	InProgressJobs  int64   `json:"inProgressJobs"`
	SuccessRate     float64 `json:"successRate"`
	CurrentLoad     int64   `json:"currentLoad"`
	Utilization     float64 `json:"utilization"`
	AvgResponseTime int     `json:"avgResponseTime"`
}

type WorkerStatsDTO struct {
	TotalWorkers   int64 `json:"totalWorkers"`
	OnlineWorkers  int64 `json:"onlineWorkers"`
	ActiveWorkers  int64 `json:"activeWorkers"`
	JobsInProgress int64 `json:"jobsInProgress"`
}
