package model

import (
	"time"
)

type JobStatus string

const (
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusStarted   JobStatus = "started"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// LiveJobStatuses 计入 worker 负载的状态
var LiveJobStatuses = []JobStatus{JobStatusAssigned, JobStatusStarted}

// Valid 校验状态取值
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusAssigned, JobStatusStarted, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// Terminal completed 与 failed 均为终态
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransition 状态机：assigned -> started/failed, started -> completed/failed
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case JobStatusAssigned:
		return next == JobStatusStarted || next == JobStatusFailed
	case JobStatusStarted:
		return next == JobStatusCompleted || next == JobStatusFailed
	}
	return false
}

// WorkerJob 分配给某个 worker 的一次发布任务
type WorkerJob struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	JobID           string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_job_id" json:"jobId"`
	WorkerID        string     `gorm:"type:varchar(100);not null;index:idx_worker_status,priority:1" json:"workerId"`
	ScheduledPostID string     `gorm:"type:varchar(64)" json:"scheduledPostId"`
	Platform        string     `gorm:"type:varchar(30);not null" json:"platform"`
	JobType         string     `gorm:"type:varchar(30);not null" json:"jobType"`
	Priority        int        `gorm:"not null;default:0" json:"priority"`
	Status          JobStatus  `gorm:"type:varchar(20);not null;index:idx_worker_status,priority:2" json:"status"`
	RetryCount      int        `gorm:"not null;default:0" json:"retryCount"`
	MaxRetries      int        `gorm:"not null;default:3" json:"maxRetries"`
	LastError       string     `gorm:"type:varchar(1000)" json:"lastError"`
	AssignedAt      time.Time  `gorm:"not null" json:"assignedAt"`
	StartedAt       *time.Time `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (WorkerJob) TableName() string {
	return "worker_jobs"
}
