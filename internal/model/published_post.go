package model

import (
	"time"
)

const PublishedPostStatusPosted = "posted"

// PublishedPost 已发布帖子的历史记录，任务完成后由外部写入，写入后不可变
type PublishedPost struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	ChannelID      uint64     `gorm:"not null;index:idx_channel_id" json:"channelId"`
	ContentID      uint64     `gorm:"not null;default:0" json:"contentId"`
	Platform       string     `gorm:"type:varchar(30);not null;index:idx_platform_published,priority:1" json:"platform"`
	Status         string     `gorm:"type:varchar(20);not null" json:"status"`
	PublishedAt    *time.Time `gorm:"index:idx_platform_published,priority:2" json:"publishedAt"`
	Likes          int64      `gorm:"not null;default:0" json:"likes"`
	Comments       int64      `gorm:"not null;default:0" json:"comments"`
	Shares         int64      `gorm:"not null;default:0" json:"shares"`
	Reach          int64      `gorm:"not null;default:0" json:"reach"`
	EngagementRate *float64   `json:"engagementRate"` // 平台回传的互动率
	CreatedAt      time.Time  `json:"createdAt"`
}

func (PublishedPost) TableName() string {
	return "published_posts"
}
