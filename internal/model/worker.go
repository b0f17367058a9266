package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type WorkerStatus string

const (
	WorkerStatusActive   WorkerStatus = "active"
	WorkerStatusInactive WorkerStatus = "inactive"
	WorkerStatusDraining WorkerStatus = "draining"
)

// Valid 校验状态取值
func (s WorkerStatus) Valid() bool {
	switch s {
	case WorkerStatusActive, WorkerStatusInactive, WorkerStatusDraining:
		return true
	}
	return false
}

// Worker 分布式发布进程，启动时注册，心跳时更新
// 当前负载不落库，始终由 worker_jobs 统计得出
type Worker struct {
	ID                     uint64             `gorm:"primaryKey" json:"id"`
	WorkerID               string             `gorm:"type:varchar(100);not null;uniqueIndex:idx_worker_id" json:"workerId"`
	Name                   string             `gorm:"type:varchar(255);not null" json:"name"`
	Description            string             `gorm:"type:varchar(1000)" json:"description"`
	Platforms              StringList         `gorm:"type:json" json:"platforms"`
	Capabilities           WorkerCapabilities `gorm:"type:json" json:"capabilities"`
	Region                 string             `gorm:"type:varchar(50);not null;index:idx_region" json:"region"`
	DeploymentPlatform     string             `gorm:"type:varchar(30)" json:"deploymentPlatform"`
	EndpointURL            string             `gorm:"type:varchar(512)" json:"endpointUrl"`
	RegistrationSecretHash string             `gorm:"type:varchar(255)" json:"-"`
	Status                 WorkerStatus       `gorm:"type:varchar(20);not null;default:'active';index:idx_status" json:"status"`
	IsOnline               bool               `gorm:"type:tinyint(1);not null;default:0" json:"isOnline"`
	IsEnabled              bool               `gorm:"type:tinyint(1);not null;default:1" json:"isEnabled"`
	MaxConcurrentJobs      int                `gorm:"not null;default:3" json:"maxConcurrentJobs"`
	Priority               int                `gorm:"not null;default:1" json:"priority"`
	AvgResponseTime        int                `gorm:"not null;default:0" json:"avgResponseTime"` // 毫秒
	Tags                   StringList         `gorm:"type:json" json:"tags"`
	LastPingAt             *time.Time         `json:"lastPingAt"`
	LastJobAt              *time.Time         `json:"lastJobAt"`
	CreatedAt              time.Time          `json:"createdAt"`
	UpdatedAt              time.Time          `json:"updatedAt"`
}

func (Worker) TableName() string {
	return "workers"
}

// WorkerCapability 某平台上支持的动作，如 post_text / post_video
type WorkerCapability struct {
	Platform string   `json:"platform"`
	Actions  []string `json:"actions"`
}

// WorkerCapabilities 以 JSON 数组存储
type WorkerCapabilities []WorkerCapability

func (c WorkerCapabilities) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]WorkerCapability(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *WorkerCapabilities) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*c = WorkerCapabilities{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSON value:", value))
	}
	if len(bytes) == 0 {
		*c = WorkerCapabilities{}
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// Supports 判断 worker 是否能在 platform 上执行 jobType
// 未声明任何能力的 worker 视为支持其平台上的全部任务类型
func (w *Worker) Supports(platform, jobType string) bool {
	if !w.Platforms.Contains(platform) {
		return false
	}
	if jobType == "" || len(w.Capabilities) == 0 {
		return true
	}
	for _, c := range w.Capabilities {
		if c.Platform != platform {
			continue
		}
		for _, a := range c.Actions {
			if a == jobType {
				return true
			}
		}
	}
	return false
}
