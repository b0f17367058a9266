package service

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/matching"
	"Lighthouse/internal/repository"
	"context"
	"sort"
)

type FanpageMatchService interface {
	// FindMatchingFanpages 按标签为内容挑选分发频道，limit 为 0 时不截断
	FindMatchingFanpages(ctx context.Context, tagIDs []string, platform string, minScore int, limit int) ([]*dto.FanpageMatchResultDTO, error)
	// GetMatchingSummary 全量匹配后按原因和平台计数
	GetMatchingSummary(ctx context.Context, tagIDs []string) (*dto.MatchingSummaryResultDTO, error)
}

type fanpageMatchServiceImpl struct {
	channelRepo repository.ChannelRepo
}

func NewFanpageMatchService(channelRepo repository.ChannelRepo) FanpageMatchService {
	return &fanpageMatchServiceImpl{channelRepo: channelRepo}
}

func (s *fanpageMatchServiceImpl) FindMatchingFanpages(ctx context.Context, tagIDs []string, platform string, minScore int, limit int) ([]*dto.FanpageMatchResultDTO, error) {
	if limit < 0 {
		limit = consts.DefaultMatchCap
	}

	channels, err := s.channelRepo.ListEligible(ctx, platform)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.FanpageMatchResultDTO, 0, len(channels))
	for _, ch := range channels {
		r := matching.CalculateMatchScore(tagIDs, ch.TagIDs, ch.PreferredTagIDs, ch.ExcludedTagIDs)
		if r.Score < minScore {
			continue
		}
		results = append(results, &dto.FanpageMatchResultDTO{
			ChannelID:   ch.ID,
			ChannelName: ch.Name,
			Platform:    ch.Platform,
			Score:       r.Score,
			MatchedTags: r.MatchedTags,
			MatchReason: string(r.Reason),
		})
	}

	// 同分保持仓储返回顺序
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *fanpageMatchServiceImpl) GetMatchingSummary(ctx context.Context, tagIDs []string) (*dto.MatchingSummaryResultDTO, error) {
	results, err := s.FindMatchingFanpages(ctx, tagIDs, "", 0, 0)
	if err != nil {
		return nil, err
	}
	total, err := s.channelRepo.CountEligible(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.MatchingSummaryResultDTO{
		TotalChannels: total,
		TotalMatches:  len(results),
		ByReason: map[string]int{
			string(matching.ReasonExact):     0,
			string(matching.ReasonPreferred): 0,
			string(matching.ReasonPartial):   0,
			string(matching.ReasonGeneral):   0,
		},
		ByPlatform: make(map[string]int),
	}
	for _, r := range results {
		summary.ByReason[r.MatchReason]++
		summary.ByPlatform[r.Platform]++
	}
	return summary, nil
}
