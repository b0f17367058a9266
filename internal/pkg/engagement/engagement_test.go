package engagement

import (
	"math"
	"testing"
	"time"
)

// 2025-01-07 是星期二
func tuesdayAt(hour int, loc *time.Location) time.Time {
	return time.Date(2025, 1, 7, hour, 15, 0, 0, loc)
}

func repeat(n int, s Sample) []Sample {
	out := make([]Sample, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestRate(t *testing.T) {
	stored := 0.42
	if got := Rate(Sample{Likes: 1, Reach: 10, EngagementRate: &stored}); got != stored {
		t.Fatalf("stored rate ignored: %v", got)
	}
	if got := Rate(Sample{Likes: 5, Comments: 3, Shares: 2, Reach: 100}); got != 0.1 {
		t.Fatalf("computed rate = %v, want 0.1", got)
	}
	if got := Rate(Sample{Likes: 5}); got != 0 {
		t.Fatalf("rate without reach = %v, want 0", got)
	}
}

func TestAggregateConvertsTimezone(t *testing.T) {
	hcm, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 07:00 UTC 周二 = 14:00 越南时间周二
	samples := repeat(3, Sample{Platform: "facebook", PublishedAt: tuesdayAt(7, time.UTC), Likes: 10, Reach: 100})

	stats := Aggregate(samples, hcm, 3)
	if len(stats) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(stats))
	}
	if stats[0].Hour != 14 || stats[0].DayOfWeek != 2 {
		t.Fatalf("unexpected slot %d/%d", stats[0].DayOfWeek, stats[0].Hour)
	}
	if stats[0].AvgLikes != 10 || math.Abs(stats[0].AvgEngagementRate-0.1) > 1e-9 {
		t.Fatalf("unexpected averages %+v", stats[0])
	}
}

func TestAggregateMinPostsAndOrdering(t *testing.T) {
	var samples []Sample
	samples = append(samples, repeat(3, Sample{Platform: "facebook", PublishedAt: tuesdayAt(9, time.UTC), Likes: 1, Reach: 100})...)
	samples = append(samples, repeat(4, Sample{Platform: "facebook", PublishedAt: tuesdayAt(20, time.UTC), Likes: 9, Reach: 100})...)
	samples = append(samples, repeat(2, Sample{Platform: "tiktok", PublishedAt: tuesdayAt(9, time.UTC), Likes: 50, Reach: 100})...)

	stats := Aggregate(samples, time.UTC, 3)
	if len(stats) != 2 {
		t.Fatalf("expected 2 buckets after minPosts filter, got %d", len(stats))
	}
	if stats[0].Hour != 20 || stats[1].Hour != 9 {
		t.Fatalf("buckets not sorted by engagement: %+v", stats)
	}
	for i := 1; i < len(stats); i++ {
		if stats[i].AvgEngagementRate > stats[i-1].AvgEngagementRate {
			t.Fatal("stats not sorted descending")
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	if stats := Aggregate(nil, time.UTC, 3); len(stats) != 0 {
		t.Fatalf("expected empty result, got %d", len(stats))
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		count, max int
		want       Confidence
	}{
		{10, 12, ConfidenceHigh},
		{12, 12, ConfidenceHigh},
		{5, 12, ConfidenceMedium},
		{4, 12, ConfidenceLow},
		{1, 0, ConfidenceLow},
	}
	for _, tt := range tests {
		if got := ConfidenceFor(tt.count, tt.max); got != tt.want {
			t.Fatalf("ConfidenceFor(%d, %d) = %s, want %s", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestHourLabel(t *testing.T) {
	tests := map[int]string{0: "12:00 AM", 9: "9:00 AM", 12: "12:00 PM", 14: "2:00 PM", 23: "11:00 PM"}
	for h, want := range tests {
		if got := HourLabel(h); got != want {
			t.Fatalf("HourLabel(%d) = %q, want %q", h, got, want)
		}
	}
	if DayLabel(2) != "Tuesday" || DayLabel(0) != "Sunday" {
		t.Fatal("unexpected day labels")
	}
}

func TestRecommendTuesdayHighConfidence(t *testing.T) {
	var samples []Sample
	samples = append(samples, repeat(10, Sample{Platform: "facebook", PublishedAt: tuesdayAt(14, time.UTC), Likes: 30, Reach: 100})...)
	samples = append(samples, repeat(12, Sample{Platform: "facebook", PublishedAt: tuesdayAt(8, time.UTC), Likes: 5, Reach: 100})...)

	recs := Recommend(Aggregate(samples, time.UTC, 3), 5, false)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	top := recs[0]
	if top.TimeLabel != "2:00 PM" || top.DayLabel != "Tuesday" {
		t.Fatalf("unexpected top slot %+v", top)
	}
	if top.Confidence != ConfidenceHigh {
		t.Fatalf("confidence = %s, want high (10/12)", top.Confidence)
	}
	if top.Score != 30 {
		t.Fatalf("score = %v, want 30", top.Score)
	}
}

func TestRecommendPerPlatformQuota(t *testing.T) {
	var samples []Sample
	// facebook 大量高互动时段
	for h := 0; h < 6; h++ {
		samples = append(samples, repeat(20, Sample{Platform: "facebook", PublishedAt: tuesdayAt(h, time.UTC), Likes: int64(50 + h), Reach: 100})...)
	}
	// tiktok 少量低互动时段
	samples = append(samples, repeat(3, Sample{Platform: "tiktok", PublishedAt: tuesdayAt(10, time.UTC), Likes: 2, Reach: 100})...)
	samples = append(samples, repeat(3, Sample{Platform: "tiktok", PublishedAt: tuesdayAt(11, time.UTC), Likes: 1, Reach: 100})...)

	recs := Recommend(Aggregate(samples, time.UTC, 3), 2, true)
	if len(recs) != 4 {
		t.Fatalf("expected 2 per platform (4 total), got %d", len(recs))
	}

	perPlatform := map[string]int{}
	for i, r := range recs {
		perPlatform[r.Platform]++
		if i > 0 && r.Score > recs[i-1].Score {
			t.Fatal("combined list not sorted by score")
		}
	}
	if perPlatform["facebook"] != 2 || perPlatform["tiktok"] != 2 {
		t.Fatalf("per-platform quota not respected: %v", perPlatform)
	}
	if recs[0].Platform != "facebook" || recs[0].Hour != 5 {
		t.Fatalf("unexpected top recommendation %+v", recs[0])
	}
}

func TestHeatmapWeightedMerge(t *testing.T) {
	stats := []TimeSlotStat{
		{Platform: "facebook", Hour: 14, DayOfWeek: 2, PostCount: 3, AvgEngagementRate: 0.1},
		{Platform: "tiktok", Hour: 14, DayOfWeek: 2, PostCount: 1, AvgEngagementRate: 0.5},
	}
	grid := Heatmap(stats)
	// (0.1*3 + 0.5*1) / 4 = 0.2
	if grid[2][14] != 20 {
		t.Fatalf("cell = %v, want 20", grid[2][14])
	}
	if grid[0][0] != 0 {
		t.Fatalf("empty cell = %v, want 0", grid[0][0])
	}
}

func TestSummarizePlatforms(t *testing.T) {
	var samples []Sample
	samples = append(samples, repeat(2, Sample{Platform: "facebook", PublishedAt: tuesdayAt(14, time.UTC), Likes: 10, Comments: 5, Shares: 5, Reach: 100})...)
	samples = append(samples, Sample{Platform: "tiktok", PublishedAt: tuesdayAt(9, time.UTC), Likes: 1})

	stats := Aggregate(samples, time.UTC, 1)
	out := SummarizePlatforms(samples, stats)
	if len(out) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(out))
	}
	fb := out[0]
	if fb.Platform != "facebook" || fb.TotalPosts != 2 || fb.TotalLikes != 20 || fb.TotalReach != 200 {
		t.Fatalf("unexpected facebook summary %+v", fb)
	}
	if math.Abs(fb.AvgEngagementRate-0.2) > 1e-9 {
		t.Fatalf("avg rate = %v, want 0.2", fb.AvgEngagementRate)
	}
	if fb.BestSlot != "Tuesday 2:00 PM" {
		t.Fatalf("best slot = %q", fb.BestSlot)
	}
}
