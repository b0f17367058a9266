package model

import (
	"time"
)

// Channel 分发目标（粉丝页 / 社交账号），由外部注册流程维护，本服务只读
type Channel struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Platform        string     `gorm:"type:varchar(30);not null;index:idx_platform" json:"platform"`
	IsConnected     bool       `gorm:"type:tinyint(1);not null;default:0" json:"isConnected"`
	IsActive        bool       `gorm:"type:tinyint(1);not null;default:1" json:"isActive"`
	TagIDs          StringList `gorm:"type:json;column:tag_ids" json:"tagIds"`
	PreferredTagIDs StringList `gorm:"type:json;column:preferred_tag_ids" json:"preferredTagIds"`
	ExcludedTagIDs  StringList `gorm:"type:json;column:excluded_tag_ids" json:"excludedTagIds"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (Channel) TableName() string {
	return "channels"
}
