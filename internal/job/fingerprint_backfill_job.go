package job

import (
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/logger"
	"Lighthouse/internal/service"
	"context"
	log "log/slog"
	"time"
)

// FingerprintBackfillJob 为历史导入或 Canal 漏推的内容补算指纹
type FingerprintBackfillJob struct {
	duplicateSvc service.DuplicateService
	batch        int
}

func NewFingerprintBackfillJob(duplicateSvc service.DuplicateService, batch int) *FingerprintBackfillJob {
	return &FingerprintBackfillJob{
		duplicateSvc: duplicateSvc,
		batch:        batch,
	}
}

func (s *FingerprintBackfillJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job")
	runExclusive(ctx, consts.FingerprintBackfillLock, 9*time.Minute, func(ctx context.Context) {
		n, err := s.duplicateSvc.BackfillFingerprints(ctx, s.batch)
		if err != nil {
			log.ErrorContext(ctx, "fingerprint backfill failed", "done", n, "err", err)
			return
		}
		if n > 0 {
			log.InfoContext(ctx, "fingerprint backfill finished", "done", n)
		}
	})
}
