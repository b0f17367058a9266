package service

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/repository"
	"context"
	log "log/slog"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
)

type scoredWorker struct {
	worker *model.Worker
	score  float64
}

// workerScore 调度得分：成功率、剩余容量、响应速度、优先级、最近活跃度
// 没有已结束任务的 worker 按成功率 1 计算
func workerScore(w *model.Worker, counts repository.JobCounts, now time.Time) float64 {
	rate, ok := counts.SuccessRate()
	if !ok {
		rate = 1
	}
	score := rate * 10

	if w.MaxConcurrentJobs > 0 {
		free := max(0, int64(w.MaxConcurrentJobs)-counts.Live())
		score += float64(free) / float64(w.MaxConcurrentJobs) * 20
	}

	score += math.Max(0, float64(10000-w.AvgResponseTime)/1000)
	score += float64(5-w.Priority) * 5

	if w.LastJobAt != nil {
		since := now.Sub(*w.LastJobAt)
		switch {
		case since < time.Hour:
			score += 10
		case since < 24*time.Hour:
			score += 5
		}
	}
	return score
}

// rankCandidates 过滤出可接单的 worker 并按得分降序，同分保持仓储顺序
func rankCandidates(workers []*model.Worker, counts map[string]repository.JobCounts, in *dto.DispatchJobDTO, now time.Time) []scoredWorker {
	excluded := model.StringList(in.ExcludeWorkerIDs)
	preferred := model.StringList(in.PreferWorkerIDs)

	all := make([]scoredWorker, 0, len(workers))
	picked := make([]scoredWorker, 0)
	for _, w := range workers {
		if !w.IsEnabled || !w.IsOnline || w.Status != model.WorkerStatusActive {
			continue
		}
		if !w.Supports(in.Platform, in.JobType) || excluded.Contains(w.WorkerID) {
			continue
		}
		c := counts[w.WorkerID]
		if c.Live() >= int64(w.MaxConcurrentJobs) {
			continue
		}
		sw := scoredWorker{worker: w, score: workerScore(w, c, now)}
		all = append(all, sw)
		if preferred.Contains(w.WorkerID) {
			picked = append(picked, sw)
		}
	}
	if len(picked) == 0 {
		picked = all
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].score > picked[j].score
	})
	return picked
}

func (s *workerServiceImpl) DispatchJob(ctx context.Context, in *dto.DispatchJobDTO) (*dto.WorkerJobDTO, error) {
	if !consts.IsSupportedPlatform(in.Platform) {
		return nil, NewValidationError(ErrUnsupportedPlatform, "platform", "unsupported platform "+in.Platform)
	}

	online := true
	workers, err := s.workerRepo.List(ctx, repository.WorkerFilter{
		Platform: in.Platform,
		Region:   in.Region,
		Status:   model.WorkerStatusActive,
		IsOnline: &online,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.WorkerID)
	}
	counts, err := s.jobRepo.CountByWorkerStatus(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := rankCandidates(workers, counts, in, s.now())
	for _, c := range candidates {
		job, err := s.AssignJob(ctx, c.worker.WorkerID, &in.AssignJobDTO)
		if err == nil {
			log.InfoContext(ctx, "job dispatched", "job_id", job.JobID, "worker_id", c.worker.WorkerID, "score", c.score)
			return job, nil
		}
		// 统计与加锁之间负载可能已变化，换下一个候选
		if errors.Is(err, ErrWorkerAtCapacity) || errors.Is(err, ErrWorkerUnavailable) || errors.Is(err, ErrWorkerNotFound) {
			continue
		}
		return nil, err
	}

	log.WarnContext(ctx, "no worker available for dispatch",
		"platform", in.Platform, "job_type", in.JobType, "region", in.Region, "candidates", len(candidates))
	return nil, ErrNoWorkerAvailable
}
