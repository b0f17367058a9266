// Package engagement 将历史发布记录按 (平台, 小时, 星期) 分桶并计算互动统计
package engagement

import (
	"sort"
	"time"
)

// Sample 一条已发布帖子的互动快照
type Sample struct {
	Platform       string
	PublishedAt    time.Time
	Likes          int64
	Comments       int64
	Shares         int64
	Reach          int64
	EngagementRate *float64 // 平台回传的互动率，为空时按计数推算
}

// TimeSlotStat 单个时间槽的聚合统计
type TimeSlotStat struct {
	Platform          string  `json:"platform"`
	Hour              int     `json:"hour"`
	DayOfWeek         int     `json:"dayOfWeek"` // 0=Sunday
	PostCount         int     `json:"postCount"`
	AvgLikes          float64 `json:"avgLikes"`
	AvgComments       float64 `json:"avgComments"`
	AvgShares         float64 `json:"avgShares"`
	AvgReach          float64 `json:"avgReach"`
	AvgEngagementRate float64 `json:"avgEngagementRate"`
}

type slotKey struct {
	platform string
	hour     int
	day      int
}

type slotAcc struct {
	count    int
	likes    int64
	comments int64
	shares   int64
	reach    int64
	rate     float64
}

// Rate 取存储的互动率，否则按 (likes+comments+shares)/reach 计算
func Rate(s Sample) float64 {
	if s.EngagementRate != nil {
		return *s.EngagementRate
	}
	if s.Reach > 0 {
		return float64(s.Likes+s.Comments+s.Shares) / float64(s.Reach)
	}
	return 0
}

// Aggregate 按 loc 时区分桶，仅输出样本数 >= minPosts 的时间槽，按平均互动率降序（稳定排序）
func Aggregate(samples []Sample, loc *time.Location, minPosts int) []TimeSlotStat {
	if loc == nil {
		loc = time.UTC
	}

	accs := make(map[slotKey]*slotAcc)
	order := make([]slotKey, 0)

	for _, s := range samples {
		local := s.PublishedAt.In(loc)
		key := slotKey{platform: s.Platform, hour: local.Hour(), day: int(local.Weekday())}
		acc, ok := accs[key]
		if !ok {
			acc = &slotAcc{}
			accs[key] = acc
			order = append(order, key)
		}
		acc.count++
		acc.likes += s.Likes
		acc.comments += s.Comments
		acc.shares += s.Shares
		acc.reach += s.Reach
		acc.rate += Rate(s)
	}

	stats := make([]TimeSlotStat, 0, len(order))
	for _, key := range order {
		acc := accs[key]
		if acc.count < minPosts {
			continue
		}
		n := float64(acc.count)
		stats = append(stats, TimeSlotStat{
			Platform:          key.platform,
			Hour:              key.hour,
			DayOfWeek:         key.day,
			PostCount:         acc.count,
			AvgLikes:          float64(acc.likes) / n,
			AvgComments:       float64(acc.comments) / n,
			AvgShares:         float64(acc.shares) / n,
			AvgReach:          float64(acc.reach) / n,
			AvgEngagementRate: acc.rate / n,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].AvgEngagementRate > stats[j].AvgEngagementRate
	})
	return stats
}
