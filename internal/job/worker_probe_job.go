package job

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/logger"
	"Lighthouse/internal/pkg/metrics"
	"Lighthouse/internal/pkg/probe"
	"Lighthouse/internal/service"
	"context"
	log "log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const probeConcurrency = 8

// WorkerProbeJob 主动探测在线 worker 的 /health 端点，结果与心跳一样写入健康记录
type WorkerProbeJob struct {
	workerSvc service.WorkerService
	prober    *probe.Prober
}

func NewWorkerProbeJob(workerSvc service.WorkerService, prober *probe.Prober) *WorkerProbeJob {
	return &WorkerProbeJob{
		workerSvc: workerSvc,
		prober:    prober,
	}
}

func (s *WorkerProbeJob) Run() {
	ctx := logger.WithTrace(context.Background(), "job")
	runExclusive(ctx, consts.WorkerProbeJobLock, 25*time.Second, s.probeAll)
}

func (s *WorkerProbeJob) probeAll(ctx context.Context) {
	online := true
	workers, err := s.workerSvc.ListWorkers(ctx, &dto.WorkerListQueryDTO{IsOnline: &online})
	if err != nil {
		log.ErrorContext(ctx, "list workers for probe failed", "err", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)
	for _, w := range workers {
		if w.EndpointURL == "" {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			check := s.prober.Probe(gctx, w.EndpointURL)
			metrics.WorkerProbeDuration.WithLabelValues(check.Status).Observe(time.Since(start).Seconds())

			if _, err := s.workerSvc.RecordHealthCheck(gctx, w.WorkerID, check); err != nil {
				log.WarnContext(gctx, "record probe result failed", "worker_id", w.WorkerID, "err", err)
				return nil
			}
			if check.Status != "healthy" {
				log.WarnContext(gctx, "worker probe not healthy", "worker_id", w.WorkerID, "status", check.Status, "error", check.ErrorMessage)
			}
			return nil
		})
	}
	_ = g.Wait()
}
