package model

import (
	"time"
)

type ContentStatus string

const (
	ContentStatusActive   ContentStatus = "active"
	ContentStatusArchived ContentStatus = "archived"
)

// ContentItem 内容库中的一条可发布内容
type ContentItem struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"type:varchar(255)" json:"title"`
	Body        string        `gorm:"type:text;not null" json:"body"`
	Fingerprint string        `gorm:"type:varchar(512);index:idx_fingerprint" json:"fingerprint"`
	TagIDs      StringList    `gorm:"type:json;column:tag_ids" json:"tagIds"`
	Status      ContentStatus `gorm:"type:varchar(20);not null;default:'active';index:idx_status" json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
