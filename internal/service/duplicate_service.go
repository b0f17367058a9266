package service

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/metrics"
	"Lighthouse/internal/pkg/similarity"
	"Lighthouse/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"sort"

	"github.com/pkg/errors"
)

type DuplicateService interface {
	// CheckForDuplicates 检测文本是否与已有内容重复
	CheckForDuplicates(ctx context.Context, text string, excludeID *uint64) (*dto.DuplicateCheckResultDTO, error)
	// UpdateFingerprint 内容文本变更后重算并保存指纹
	UpdateFingerprint(ctx context.Context, contentID uint64, text string) (*dto.FingerprintDTO, error)
	// CalculateSimilarity 计算两段文本的相似度
	CalculateSimilarity(text1, text2 string) *dto.SimilarityResultDTO
	// BackfillFingerprints 为缺少指纹的内容补算指纹，返回处理条数
	BackfillFingerprints(ctx context.Context, batch int) (int, error)
}

type duplicateServiceImpl struct {
	contentRepo repository.ContentRepo
}

func NewDuplicateService(contentRepo repository.ContentRepo) DuplicateService {
	return &duplicateServiceImpl{contentRepo: contentRepo}
}

// CheckForDuplicates 先按指纹精确命中候选，未命中时退化为最近 100 条的有限扫描
// 仓储不可用时返回 ErrContentRetrieval，绝不当作"不重复"
func (s *duplicateServiceImpl) CheckForDuplicates(ctx context.Context, text string, excludeID *uint64) (*dto.DuplicateCheckResultDTO, error) {
	fp := similarity.Fingerprint(text)

	// 全是短词的文本没有指纹，空指纹不走索引，否则会命中所有未回填的行
	var candidates []*model.ContentItem
	var err error
	if fp != "" {
		candidates, err = s.contentRepo.FindActiveByFingerprint(ctx, fp, excludeID)
		if err != nil {
			metrics.DuplicateChecksTotal.WithLabelValues("error").Inc()
			return nil, errors.Wrap(ErrContentRetrieval, err.Error())
		}
	}
	source := "fingerprint"
	if len(candidates) == 0 {
		source = "fallback"
		candidates, err = s.contentRepo.ListRecentActive(ctx, consts.DuplicateFallbackScan, excludeID)
		if err != nil {
			metrics.DuplicateChecksTotal.WithLabelValues("error").Inc()
			return nil, errors.Wrap(ErrContentRetrieval, err.Error())
		}
	}
	metrics.DuplicateCandidates.WithLabelValues(source).Observe(float64(len(candidates)))

	result := scoreCandidates(text, candidates)

	outcome := "unique"
	switch {
	case result.ExactMatch:
		outcome = "exact"
	case result.IsDuplicate:
		outcome = "similar"
	}
	metrics.DuplicateChecksTotal.WithLabelValues(outcome).Inc()
	log.InfoContext(ctx, "duplicate check finished",
		"source", source, "candidates", len(candidates), "matches", len(result.Matches), "outcome", outcome)
	return result, nil
}

func scoreCandidates(text string, candidates []*model.ContentItem) *dto.DuplicateCheckResultDTO {
	matches := make([]*dto.DuplicateMatchDTO, 0)
	exact := false
	for _, item := range candidates {
		score := similarity.Similarity(text, item.Body)
		if score < similarity.SimilarThreshold {
			continue
		}
		isExact := score >= similarity.ExactThreshold
		exact = exact || isExact
		matches = append(matches, &dto.DuplicateMatchDTO{
			ContentID:  item.ID,
			Title:      item.Title,
			Similarity: score,
			ExactMatch: isExact,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	highest := 0.0
	if len(matches) > 0 {
		highest = matches[0].Similarity
	}
	if len(matches) > consts.DuplicateTopMatches {
		matches = matches[:consts.DuplicateTopMatches]
	}

	return &dto.DuplicateCheckResultDTO{
		IsDuplicate:       len(matches) > 0,
		ExactMatch:        exact,
		Matches:           matches,
		HighestSimilarity: highest,
	}
}

func (s *duplicateServiceImpl) UpdateFingerprint(ctx context.Context, contentID uint64, text string) (*dto.FingerprintDTO, error) {
	item, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrContentNotFound
	}

	fp := similarity.Fingerprint(text)
	if item.Fingerprint != fp {
		if err = s.contentRepo.UpdateFingerprint(ctx, contentID, fp); err != nil {
			return nil, err
		}
	}
	return &dto.FingerprintDTO{ContentID: contentID, Fingerprint: fp}, nil
}

func (s *duplicateServiceImpl) CalculateSimilarity(text1, text2 string) *dto.SimilarityResultDTO {
	score := similarity.Similarity(text1, text2)
	return &dto.SimilarityResultDTO{
		Similarity: score,
		Percentage: fmt.Sprintf("%.1f%%", score*100),
	}
}

// BackfillFingerprints 按 id 分页扫描缺少指纹的内容，指纹按正文计算
func (s *duplicateServiceImpl) BackfillFingerprints(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		batch = 200
	}

	done := 0
	var afterID uint64
	for {
		items, err := s.contentRepo.ListMissingFingerprint(ctx, afterID, batch)
		if err != nil {
			return done, err
		}
		for _, item := range items {
			afterID = item.ID
			fp := similarity.Fingerprint(item.Body)
			if fp == "" {
				continue
			}
			if err = s.contentRepo.UpdateFingerprint(ctx, item.ID, fp); err != nil {
				log.ErrorContext(ctx, "backfill fingerprint failed", "content_id", item.ID, "err", err)
				continue
			}
			done++
		}
		if len(items) < batch || ctx.Err() != nil {
			return done, ctx.Err()
		}
	}
}
