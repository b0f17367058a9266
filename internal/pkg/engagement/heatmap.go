package engagement

// Heatmap 7x24 矩阵，值为平均互动率 * 100；多平台时按样本数加权合并
func Heatmap(stats []TimeSlotStat) [7][24]float64 {
	var weighted [7][24]float64
	var counts [7][24]int
	for _, s := range stats {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 || s.Hour < 0 || s.Hour > 23 {
			continue
		}
		weighted[s.DayOfWeek][s.Hour] += s.AvgEngagementRate * float64(s.PostCount)
		counts[s.DayOfWeek][s.Hour] += s.PostCount
	}

	var grid [7][24]float64
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if counts[d][h] > 0 {
				grid[d][h] = Score(weighted[d][h] / float64(counts[d][h]))
			}
		}
	}
	return grid
}

// PlatformSummary 平台维度汇总
type PlatformSummary struct {
	Platform          string  `json:"platform"`
	TotalPosts        int     `json:"totalPosts"`
	TotalLikes        int64   `json:"totalLikes"`
	TotalComments     int64   `json:"totalComments"`
	TotalShares       int64   `json:"totalShares"`
	TotalReach        int64   `json:"totalReach"`
	AvgEngagementRate float64 `json:"avgEngagementRate"`
	BestSlot          string  `json:"bestSlot,omitempty"`
}

// SummarizePlatforms 按平台汇总样本；stats 为已排序的时间槽，用于取每个平台的最佳时段
func SummarizePlatforms(samples []Sample, stats []TimeSlotStat) []PlatformSummary {
	index := make(map[string]int)
	out := make([]PlatformSummary, 0)
	rates := make([]float64, 0)

	for _, s := range samples {
		i, ok := index[s.Platform]
		if !ok {
			i = len(out)
			index[s.Platform] = i
			out = append(out, PlatformSummary{Platform: s.Platform})
			rates = append(rates, 0)
		}
		out[i].TotalPosts++
		out[i].TotalLikes += s.Likes
		out[i].TotalComments += s.Comments
		out[i].TotalShares += s.Shares
		out[i].TotalReach += s.Reach
		rates[i] += Rate(s)
	}

	for i := range out {
		if out[i].TotalPosts > 0 {
			out[i].AvgEngagementRate = rates[i] / float64(out[i].TotalPosts)
		}
	}

	for _, st := range stats {
		i, ok := index[st.Platform]
		if !ok || out[i].BestSlot != "" {
			continue
		}
		out[i].BestSlot = DayLabel(st.DayOfWeek) + " " + HourLabel(st.Hour)
	}
	return out
}
