package service

import (
	"Lighthouse/internal/model"
	"context"
	"testing"
)

func channel(id uint64, platform string, tags, preferred, excluded []string) *model.Channel {
	return &model.Channel{
		ID:              id,
		Name:            "channel",
		Platform:        platform,
		IsConnected:     true,
		IsActive:        true,
		TagIDs:          tags,
		PreferredTagIDs: preferred,
		ExcludedTagIDs:  excluded,
	}
}

func newChannelFixture() *fakeChannelRepo {
	disconnected := channel(9, "facebook", []string{"food"}, nil, nil)
	disconnected.IsConnected = false
	return &fakeChannelRepo{channels: []*model.Channel{
		channel(1, "facebook", []string{"food", "sale"}, nil, []string{"sale"}),
		channel(2, "facebook", []string{"food"}, []string{"food"}, nil),
		channel(3, "tiktok", []string{"food", "tech", "news", "sport"}, nil, nil),
		channel(4, "instagram", []string{"travel"}, nil, nil),
		disconnected,
	}}
}

func TestFindMatchingFanpages(t *testing.T) {
	svc := NewFanpageMatchService(newChannelFixture())

	res, err := svc.FindMatchingFanpages(context.Background(), []string{"food", "drink"}, "", 1, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 无交集的频道得 0 分被 minScore 过滤，未连接频道不参与
	if len(res) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(res))
	}
	if res[0].ChannelID != 2 || res[0].Score != 100 || res[0].MatchReason != "preferred" {
		t.Fatalf("unexpected top match %+v", res[0])
	}
	if res[1].ChannelID != 1 || res[1].Score != 40 || res[2].ChannelID != 3 || res[2].Score != 35 {
		t.Fatalf("unexpected order %+v %+v", res[1], res[2])
	}
	for i := 1; i < len(res); i++ {
		if res[i].Score > res[i-1].Score {
			t.Fatal("results not sorted by score")
		}
	}
}

func TestFindMatchingFanpagesExcludedChannel(t *testing.T) {
	svc := NewFanpageMatchService(newChannelFixture())

	res, err := svc.FindMatchingFanpages(context.Background(), []string{"food", "sale"}, "facebook", -1000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var excluded bool
	for _, r := range res {
		if r.ChannelID == 1 {
			excluded = true
			if r.Score != -100 || r.MatchReason != "general" || len(r.MatchedTags) != 0 {
				t.Fatalf("excluded channel scored %+v", r)
			}
		}
		if r.Platform != "facebook" {
			t.Fatalf("platform filter ignored: %+v", r)
		}
	}
	if !excluded {
		t.Fatal("excluded channel missing with low minScore")
	}
}

func TestFindMatchingFanpagesLimit(t *testing.T) {
	svc := NewFanpageMatchService(newChannelFixture())

	res, err := svc.FindMatchingFanpages(context.Background(), []string{"food", "drink"}, "", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].ChannelID != 2 {
		t.Fatalf("limit not applied: %+v", res)
	}
}

func TestGetMatchingSummary(t *testing.T) {
	svc := NewFanpageMatchService(newChannelFixture())

	summary, err := svc.GetMatchingSummary(context.Background(), []string{"food", "drink"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalChannels != 4 || summary.TotalMatches != 4 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	want := map[string]int{"exact": 0, "preferred": 1, "partial": 2, "general": 1}
	for reason, n := range want {
		if summary.ByReason[reason] != n {
			t.Fatalf("ByReason[%s] = %d, want %d", reason, summary.ByReason[reason], n)
		}
	}
	if summary.ByPlatform["facebook"] != 2 || summary.ByPlatform["tiktok"] != 1 || summary.ByPlatform["instagram"] != 1 {
		t.Fatalf("unexpected platforms %v", summary.ByPlatform)
	}
}
