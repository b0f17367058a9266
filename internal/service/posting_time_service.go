package service

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/engagement"
	"Lighthouse/internal/pkg/metrics"
	"Lighthouse/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

type PostingTimeService interface {
	// AnalyzePostingPatterns 统计各时间槽的平均互动
	AnalyzePostingPatterns(ctx context.Context, platform string, minPosts, daysBack int, timezone string) (*dto.PostingPatternsDTO, error)
	// GetBestPostingTimes 最佳发布时间推荐，未指定平台时每个平台各取 topN
	GetBestPostingTimes(ctx context.Context, platform string, topN, daysBack int, timezone string) (*dto.BestTimesDTO, error)
	// GetEngagementHeatmap 7x24 互动热力图
	GetEngagementHeatmap(ctx context.Context, platform string, daysBack int, timezone string) (*dto.HeatmapDTO, error)
	// GetPlatformStatistics 平台维度汇总
	GetPlatformStatistics(ctx context.Context, daysBack int, timezone string) (*dto.PlatformStatsDTO, error)
}

type postingTimeServiceImpl struct {
	postRepo        repository.PublishedPostRepo
	cacheRepo       repository.AnalyticsCacheRepo
	defaultTimezone string
	cacheTTL        time.Duration
	now             func() time.Time
}

func NewPostingTimeService(
	postRepo repository.PublishedPostRepo,
	cacheRepo repository.AnalyticsCacheRepo,
	defaultTimezone string,
	cacheTTL time.Duration,
) PostingTimeService {
	if defaultTimezone == "" {
		defaultTimezone = "Asia/Ho_Chi_Minh"
	}
	return &postingTimeServiceImpl{
		postRepo:        postRepo,
		cacheRepo:       cacheRepo,
		defaultTimezone: defaultTimezone,
		cacheTTL:        cacheTTL,
		now:             time.Now,
	}
}

// resolveLocation 只接受 IANA 时区名，空串使用默认时区
func (s *postingTimeServiceImpl) resolveLocation(timezone string) (*time.Location, string, error) {
	if timezone == "" {
		timezone = s.defaultTimezone
	}
	if timezone == "Local" {
		return nil, "", NewValidationError(ErrInvalidTimezone, "timezone", "unknown time zone Local")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, "", NewValidationError(ErrInvalidTimezone, "timezone", err.Error())
	}
	return loc, timezone, nil
}

func (s *postingTimeServiceImpl) loadSamples(ctx context.Context, platform string, daysBack int) ([]engagement.Sample, error) {
	if daysBack <= 0 {
		daysBack = consts.DefaultDaysBack
	}
	since := s.now().AddDate(0, 0, -daysBack)
	posts, err := s.postRepo.ListPosted(ctx, platform, since)
	if err != nil {
		return nil, err
	}
	return toSamples(posts), nil
}

func toSamples(posts []*model.PublishedPost) []engagement.Sample {
	samples := make([]engagement.Sample, 0, len(posts))
	for _, p := range posts {
		if p.PublishedAt == nil {
			continue
		}
		samples = append(samples, engagement.Sample{
			Platform:       p.Platform,
			PublishedAt:    *p.PublishedAt,
			Likes:          p.Likes,
			Comments:       p.Comments,
			Shares:         p.Shares,
			Reach:          p.Reach,
			EngagementRate: p.EngagementRate,
		})
	}
	return samples
}

func (s *postingTimeServiceImpl) AnalyzePostingPatterns(ctx context.Context, platform string, minPosts, daysBack int, timezone string) (*dto.PostingPatternsDTO, error) {
	loc, tz, err := s.resolveLocation(timezone)
	if err != nil {
		return nil, err
	}
	if minPosts <= 0 {
		minPosts = consts.DefaultMinPosts
	}
	if daysBack <= 0 {
		daysBack = consts.DefaultDaysBack
	}

	samples, err := s.loadSamples(ctx, platform, daysBack)
	if err != nil {
		return nil, err
	}
	return &dto.PostingPatternsDTO{
		Timezone: tz,
		DaysBack: daysBack,
		Patterns: engagement.Aggregate(samples, loc, minPosts),
	}, nil
}

func (s *postingTimeServiceImpl) GetBestPostingTimes(ctx context.Context, platform string, topN, daysBack int, timezone string) (*dto.BestTimesDTO, error) {
	loc, tz, err := s.resolveLocation(timezone)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = consts.DefaultTopN
	}
	if daysBack <= 0 {
		daysBack = consts.DefaultDaysBack
	}

	key := fmt.Sprintf("%s%s:%d:%d:%s", consts.PostingBestTimesKey, platform, topN, daysBack, tz)
	if s.cacheRepo != nil && s.cacheTTL > 0 {
		var cached dto.BestTimesDTO
		hit, err := s.cacheRepo.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.AnalyticsCacheTotal.WithLabelValues("error").Inc()
			log.WarnContext(ctx, "best times cache read failed", "key", key, "err", err)
		case hit:
			metrics.AnalyticsCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		default:
			metrics.AnalyticsCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	samples, err := s.loadSamples(ctx, platform, daysBack)
	if err != nil {
		return nil, err
	}
	stats := engagement.Aggregate(samples, loc, consts.DefaultMinPosts)
	result := &dto.BestTimesDTO{
		Timezone:        tz,
		DaysBack:        daysBack,
		Recommendations: engagement.Recommend(stats, topN, platform == ""),
	}

	if s.cacheRepo != nil && s.cacheTTL > 0 {
		if err = s.cacheRepo.Set(ctx, key, result, s.cacheTTL); err != nil {
			log.WarnContext(ctx, "best times cache write failed", "key", key, "err", err)
		}
	}
	return result, nil
}

func (s *postingTimeServiceImpl) GetEngagementHeatmap(ctx context.Context, platform string, daysBack int, timezone string) (*dto.HeatmapDTO, error) {
	loc, tz, err := s.resolveLocation(timezone)
	if err != nil {
		return nil, err
	}
	if daysBack <= 0 {
		daysBack = consts.DefaultDaysBack
	}

	samples, err := s.loadSamples(ctx, platform, daysBack)
	if err != nil {
		return nil, err
	}
	stats := engagement.Aggregate(samples, loc, 1)
	return &dto.HeatmapDTO{
		Timezone: tz,
		DaysBack: daysBack,
		Matrix:   engagement.Heatmap(stats),
		Buckets:  stats,
	}, nil
}

func (s *postingTimeServiceImpl) GetPlatformStatistics(ctx context.Context, daysBack int, timezone string) (*dto.PlatformStatsDTO, error) {
	loc, _, err := s.resolveLocation(timezone)
	if err != nil {
		return nil, err
	}
	if daysBack <= 0 {
		daysBack = consts.DefaultDaysBack
	}

	samples, err := s.loadSamples(ctx, "", daysBack)
	if err != nil {
		return nil, err
	}
	stats := engagement.Aggregate(samples, loc, 1)
	return &dto.PlatformStatsDTO{
		DaysBack:  daysBack,
		Platforms: engagement.SummarizePlatforms(samples, stats),
	}, nil
}
