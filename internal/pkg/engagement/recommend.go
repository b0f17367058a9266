package engagement

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Confidence 推荐置信度
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

const (
	highRatio   = 0.7
	mediumRatio = 0.4
)

// Recommendation 最佳发布时间推荐
type Recommendation struct {
	Platform          string     `json:"platform"`
	Hour              int        `json:"hour"`
	DayOfWeek         int        `json:"dayOfWeek"`
	TimeLabel         string     `json:"timeLabel"`
	DayLabel          string     `json:"dayLabel"`
	Score             float64    `json:"score"`
	AvgEngagementRate float64    `json:"avgEngagementRate"`
	PostCount         int        `json:"postCount"`
	Confidence        Confidence `json:"confidence"`
}

// ConfidenceFor 样本数相对最大样本数的占比决定置信度
func ConfidenceFor(count, maxCount int) Confidence {
	if maxCount <= 0 {
		return ConfidenceLow
	}
	ratio := float64(count) / float64(maxCount)
	switch {
	case ratio >= highRatio:
		return ConfidenceHigh
	case ratio >= mediumRatio:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// HourLabel 12 小时制，如 "2:00 PM"
func HourLabel(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}

// DayLabel 0=Sunday
func DayLabel(day int) string {
	return time.Weekday(day).String()
}

// Score 平均互动率 * 100，保留两位小数
func Score(avgRate float64) float64 {
	return math.Round(avgRate*100*100) / 100
}

// Recommend 将已排序的时间槽转换为推荐列表
// perPlatform 为 true 时每个平台各取 topN 后再整体按得分重排，避免大流量平台挤占其他平台
func Recommend(stats []TimeSlotStat, topN int, perPlatform bool) []Recommendation {
	maxCount := 0
	for _, s := range stats {
		maxCount = max(maxCount, s.PostCount)
	}

	var picked []TimeSlotStat
	if perPlatform {
		groups := make(map[string][]TimeSlotStat)
		platforms := make([]string, 0)
		for _, s := range stats {
			if _, ok := groups[s.Platform]; !ok {
				platforms = append(platforms, s.Platform)
			}
			groups[s.Platform] = append(groups[s.Platform], s)
		}
		for _, p := range platforms {
			picked = append(picked, truncate(groups[p], topN)...)
		}
	} else {
		picked = truncate(stats, topN)
	}

	recs := make([]Recommendation, 0, len(picked))
	for _, s := range picked {
		recs = append(recs, Recommendation{
			Platform:          s.Platform,
			Hour:              s.Hour,
			DayOfWeek:         s.DayOfWeek,
			TimeLabel:         HourLabel(s.Hour),
			DayLabel:          DayLabel(s.DayOfWeek),
			Score:             Score(s.AvgEngagementRate),
			AvgEngagementRate: s.AvgEngagementRate,
			PostCount:         s.PostCount,
			Confidence:        ConfidenceFor(s.PostCount, maxCount),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

func truncate(stats []TimeSlotStat, n int) []TimeSlotStat {
	if n > 0 && len(stats) > n {
		return stats[:n]
	}
	return stats
}
