package dto

import "Lighthouse/internal/pkg/engagement"

type BestTimesQueryDTO struct {
	Platform string `form:"platform" binding:"omitempty,oneof=facebook instagram tiktok twitter youtube linkedin"`
	TopN     int    `form:"topN" binding:"omitempty,min=1,max=50"`
	DaysBack int    `form:"daysBack" binding:"omitempty,min=1,max=365"`
	Timezone string `form:"timezone" binding:"omitempty,max=64"`
}

type PatternsQueryDTO struct {
	Platform string `form:"platform" binding:"omitempty,oneof=facebook instagram tiktok twitter youtube linkedin"`
	MinPosts int    `form:"minPosts" binding:"omitempty,min=1,max=1000"`
	DaysBack int    `form:"daysBack" binding:"omitempty,min=1,max=365"`
	Timezone string `form:"timezone" binding:"omitempty,max=64"`
}

type HeatmapQueryDTO struct {
	Platform string `form:"platform" binding:"omitempty,oneof=facebook instagram tiktok twitter youtube linkedin"`
	DaysBack int    `form:"daysBack" binding:"omitempty,min=1,max=365"`
	Timezone string `form:"timezone" binding:"omitempty,max=64"`
}

type PlatformStatsQueryDTO struct {
	DaysBack int    `form:"daysBack" binding:"omitempty,min=1,max=365"`
	Timezone string `form:"timezone" binding:"omitempty,max=64"`
}

// BestTimesDTO 最佳发布时间推荐
type BestTimesDTO struct {
	Timezone        string                      `json:"timezone"`
	DaysBack        int                         `json:"daysBack"`
	Recommendations []engagement.Recommendation `json:"recommendations"`
}

// PostingPatternsDTO 时间槽统计，按平均互动率降序
type PostingPatternsDTO struct {
	Timezone string                    `json:"timezone"`
	DaysBack int                       `json:"daysBack"`
	Patterns []engagement.TimeSlotStat `json:"patterns"`
}

// HeatmapDTO matrix[星期][小时]，0=Sunday
type HeatmapDTO struct {
	Timezone string                    `json:"timezone"`
	DaysBack int                       `json:"daysBack"`
	Matrix   [7][24]float64            `json:"matrix"`
	Buckets  []engagement.TimeSlotStat `json:"buckets"`
}

type PlatformStatsDTO struct {
	DaysBack  int                          `json:"daysBack"`
	Platforms []engagement.PlatformSummary `json:"platforms"`
}
