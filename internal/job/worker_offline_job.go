package job

import (
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/logger"
	"Lighthouse/internal/service"
	"context"
	log "log/slog"
	"time"
)

// WorkerOfflineJob 心跳超时的 worker 置为离线
type WorkerOfflineJob struct {
	workerSvc service.WorkerService
}

func NewWorkerOfflineJob(workerSvc service.WorkerService) *WorkerOfflineJob {
	return &WorkerOfflineJob{workerSvc: workerSvc}
}

func (s *WorkerOfflineJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job")
	runExclusive(ctx, consts.WorkerOfflineJobLock, 50*time.Second, func(ctx context.Context) {
		n, err := s.workerSvc.MarkStaleWorkersOffline(ctx)
		if err != nil {
			log.ErrorContext(ctx, "mark stale workers offline failed", "err", err)
			return
		}
		log.DebugContext(ctx, "offline sweep finished", "marked", n)
	})
}
