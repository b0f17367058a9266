package service

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/metrics"
	"Lighthouse/internal/pkg/security"
	"Lighthouse/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type WorkerService interface {
	// RegisterWorker 注册 worker，返回一次性展示的 token
	RegisterWorker(ctx context.Context, in *dto.RegisterWorkerDTO) (*dto.RegisterWorkerResultDTO, error)
	// ListWorkers 按平台、区域、状态、在线状态过滤
	ListWorkers(ctx context.Context, query *dto.WorkerListQueryDTO) ([]*dto.WorkerDTO, error)
	GetWorker(ctx context.Context, workerID string) (*dto.WorkerDTO, error)
	// UpdateWorker 部分更新
	UpdateWorker(ctx context.Context, workerID string, in *dto.UpdateWorkerDTO) (*dto.WorkerDTO, error)
	// DeregisterWorker 硬删除，历史任务与健康记录保留
	DeregisterWorker(ctx context.Context, workerID string) error
	// AssignJob 在 worker 行锁内校验容量并创建任务
	AssignJob(ctx context.Context, workerID string, in *dto.AssignJobDTO) (*dto.WorkerJobDTO, error)
	// DispatchJob 为任务挑选得分最高的 worker 并分配
	DispatchJob(ctx context.Context, in *dto.DispatchJobDTO) (*dto.WorkerJobDTO, error)
	// CurrentLoad 实时统计 assigned/started 任务数
	CurrentLoad(ctx context.Context, workerID string) (*dto.WorkerLoadDTO, error)
	// UpdateJob 推进任务状态，callerWorkerID 非空时校验任务归属
	UpdateJob(ctx context.Context, jobID string, callerWorkerID string, in *dto.UpdateJobDTO) (*dto.WorkerJobDTO, error)
	// RecordHealthCheck 记录心跳样本并刷新在线状态
	RecordHealthCheck(ctx context.Context, workerID string, in *dto.HealthCheckDTO) (*model.HealthCheck, error)
	GetHealthHistory(ctx context.Context, workerID string, limit int) ([]*model.HealthCheck, error)
	GetStats(ctx context.Context) (*dto.WorkerStatsDTO, error)
	GetWorkerMetrics(ctx context.Context, workerID string) (*dto.WorkerMetricsDTO, error)
	// MarkStaleWorkersOffline 心跳超时的 worker 置为离线
	MarkStaleWorkersOffline(ctx context.Context) (int64, error)
}

type workerServiceImpl struct {
	workerRepo     repository.WorkerRepo
	jobRepo        repository.WorkerJobRepo
	healthRepo     repository.HealthCheckRepo
	tokens         *security.TokenManager
	offlineTimeout time.Duration
	now            func() time.Time
}

func NewWorkerService(
	workerRepo repository.WorkerRepo,
	jobRepo repository.WorkerJobRepo,
	healthRepo repository.HealthCheckRepo,
	tokens *security.TokenManager,
	offlineTimeout time.Duration,
) WorkerService {
	if offlineTimeout <= 0 {
		offlineTimeout = 5 * time.Minute
	}
	return &workerServiceImpl{
		workerRepo:     workerRepo,
		jobRepo:        jobRepo,
		healthRepo:     healthRepo,
		tokens:         tokens,
		offlineTimeout: offlineTimeout,
		now:            time.Now,
	}
}

func validatePlatforms(field string, platforms []string) error {
	for _, p := range platforms {
		if !consts.IsSupportedPlatform(p) {
			return NewValidationError(ErrUnsupportedPlatform, field, "unsupported platform "+p)
		}
	}
	return nil
}

func validateCapabilities(platforms []string, caps []dto.WorkerCapabilityDTO) error {
	declared := model.StringList(platforms)
	for _, c := range caps {
		if !declared.Contains(c.Platform) {
			return NewValidationError(ErrUnsupportedPlatform, "capabilities.platform", "platform "+c.Platform+" is not in platforms")
		}
	}
	return nil
}

func toCapabilities(caps []dto.WorkerCapabilityDTO) model.WorkerCapabilities {
	out := make(model.WorkerCapabilities, 0, len(caps))
	for _, c := range caps {
		out = append(out, model.WorkerCapability{Platform: c.Platform, Actions: c.Actions})
	}
	return out
}

func toWorkerDTO(w *model.Worker, load int64) *dto.WorkerDTO {
	out := &dto.WorkerDTO{}
	_ = copier.Copy(out, w)
	out.Status = string(w.Status)
	out.Platforms = w.Platforms
	out.Tags = w.Tags
	out.Capabilities = make([]dto.WorkerCapabilityDTO, 0, len(w.Capabilities))
	for _, c := range w.Capabilities {
		out.Capabilities = append(out.Capabilities, dto.WorkerCapabilityDTO{Platform: c.Platform, Actions: c.Actions})
	}
	out.CurrentLoad = load
	return out
}

func toJobDTO(j *model.WorkerJob) *dto.WorkerJobDTO {
	out := &dto.WorkerJobDTO{}
	_ = copier.Copy(out, j)
	out.Status = string(j.Status)
	return out
}

func (s *workerServiceImpl) RegisterWorker(ctx context.Context, in *dto.RegisterWorkerDTO) (*dto.RegisterWorkerResultDTO, error) {
	if err := validatePlatforms("platforms", in.Platforms); err != nil {
		return nil, err
	}
	if !consts.IsSupportedRegion(in.Region) {
		return nil, NewValidationError(ErrUnsupportedRegion, "region", "unsupported region "+in.Region)
	}
	if err := validateCapabilities(in.Platforms, in.Capabilities); err != nil {
		return nil, err
	}

	existing, err := s.workerRepo.GetByWorkerID(ctx, in.WorkerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrWorkerExists
	}

	now := s.now()
	worker := &model.Worker{
		WorkerID:           in.WorkerID,
		Name:               in.Name,
		Description:        in.Description,
		Platforms:          in.Platforms,
		Capabilities:       toCapabilities(in.Capabilities),
		Region:             in.Region,
		DeploymentPlatform: in.DeploymentPlatform,
		EndpointURL:        in.EndpointURL,
		Status:             model.WorkerStatusActive,
		IsOnline:           true,
		IsEnabled:          true,
		MaxConcurrentJobs:  consts.DefaultMaxConcurrentJobs,
		Priority:           consts.DefaultWorkerPriority,
		Tags:               in.Tags,
		LastPingAt:         &now,
	}
	if in.MaxConcurrentJobs != nil {
		worker.MaxConcurrentJobs = *in.MaxConcurrentJobs
	}
	if in.Priority != nil {
		worker.Priority = *in.Priority
	}
	if in.RegistrationSecret != "" {
		hash, err := security.HashSecret(in.RegistrationSecret)
		if err != nil {
			return nil, err
		}
		worker.RegistrationSecretHash = hash
	}

	if err = s.workerRepo.Create(ctx, worker); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWorkerExists
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateToken(worker.WorkerID, worker.Platforms, worker.Region)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "worker registered", "worker_id", worker.WorkerID, "region", worker.Region, "platforms", []string(worker.Platforms))
	return &dto.RegisterWorkerResultDTO{
		Worker:    toWorkerDTO(worker, 0),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *workerServiceImpl) ListWorkers(ctx context.Context, query *dto.WorkerListQueryDTO) ([]*dto.WorkerDTO, error) {
	filter := repository.WorkerFilter{
		Platform: query.Platform,
		Region:   query.Region,
		Status:   model.WorkerStatus(query.Status),
		IsOnline: query.IsOnline,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewValidationError(ErrInvalidWorkerStatus, "status", "unknown status "+query.Status)
	}

	workers, err := s.workerRepo.List(ctx, filter)
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

	out := make([]*dto.WorkerDTO, 0, len(workers))
	for _, w := range workers {
		out = append(out, toWorkerDTO(w, counts[w.WorkerID].Live()))
	}
	return out, nil
}

func (s *workerServiceImpl) getWorker(ctx context.Context, workerID string) (*model.Worker, error) {
	worker, err := s.workerRepo.GetByWorkerID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, ErrWorkerNotFound
	}
	return worker, nil
}

func (s *workerServiceImpl) GetWorker(ctx context.Context, workerID string) (*dto.WorkerDTO, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	load, err := s.jobRepo.CountLive(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return toWorkerDTO(worker, load), nil
}

func (s *workerServiceImpl) UpdateWorker(ctx context.Context, workerID string, in *dto.UpdateWorkerDTO) (*dto.WorkerDTO, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	platforms := []string(worker.Platforms)
	if in.Platforms != nil {
		if err = validatePlatforms("platforms", in.Platforms); err != nil {
			return nil, err
		}
		platforms = in.Platforms
		fields["platforms"] = model.StringList(in.Platforms)
	}
	if in.Capabilities != nil {
		if err = validateCapabilities(platforms, in.Capabilities); err != nil {
			return nil, err
		}
		fields["capabilities"] = toCapabilities(in.Capabilities)
	}
	if in.Region != nil {
		if !consts.IsSupportedRegion(*in.Region) {
			return nil, NewValidationError(ErrUnsupportedRegion, "region", "unsupported region "+*in.Region)
		}
		fields["region"] = *in.Region
	}
	if in.EndpointURL != nil {
		fields["endpoint_url"] = *in.EndpointURL
	}
	if in.Status != nil {
		status := model.WorkerStatus(*in.Status)
		if !status.Valid() {
			return nil, NewValidationError(ErrInvalidWorkerStatus, "status", "unknown status "+*in.Status)
		}
		fields["status"] = status
	}
	if in.IsEnabled != nil {
		fields["is_enabled"] = *in.IsEnabled
	}
	if in.MaxConcurrentJobs != nil {
		fields["max_concurrent_jobs"] = *in.MaxConcurrentJobs
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.Tags != nil {
		fields["tags"] = model.StringList(in.Tags)
	}

	if err = s.workerRepo.Updates(ctx, workerID, fields); err != nil {
		return nil, err
	}
	return s.GetWorker(ctx, workerID)
}

func (s *workerServiceImpl) DeregisterWorker(ctx context.Context, workerID string) error {
	n, err := s.workerRepo.Delete(ctx, workerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWorkerNotFound
	}
	log.InfoContext(ctx, "worker deregistered", "worker_id", workerID)
	return nil
}

func (s *workerServiceImpl) newJob(workerID string, in *dto.AssignJobDTO) *model.WorkerJob {
	jobID := in.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}
	maxRetries := consts.DefaultJobMaxRetries
	if in.MaxRetries != nil {
		maxRetries = *in.MaxRetries
	}
	return &model.WorkerJob{
		JobID:           jobID,
		WorkerID:        workerID,
		ScheduledPostID: in.ScheduledPostID,
		Platform:        in.Platform,
		JobType:         in.JobType,
		Priority:        in.Priority,
		Status:          model.JobStatusAssigned,
		MaxRetries:      maxRetries,
		AssignedAt:      s.now(),
	}
}

func (s *workerServiceImpl) AssignJob(ctx context.Context, workerID string, in *dto.AssignJobDTO) (*dto.WorkerJobDTO, error) {
	if !consts.IsSupportedPlatform(in.Platform) {
		return nil, NewValidationError(ErrUnsupportedPlatform, "platform", "unsupported platform "+in.Platform)
	}

	job := s.newJob(workerID, in)
	err := s.jobRepo.Assign(ctx, job, func(w *model.Worker, load int64) error {
		if w == nil {
			return ErrWorkerNotFound
		}
		if !w.IsEnabled || w.Status != model.WorkerStatusActive {
			return ErrWorkerUnavailable
		}
		if !w.Supports(in.Platform, in.JobType) {
			return NewValidationError(ErrUnsupportedPlatform, "platform", "worker does not support "+in.Platform+"/"+in.JobType)
		}
		if load >= int64(w.MaxConcurrentJobs) {
			return ErrWorkerAtCapacity
		}
		return nil
	})
	if err != nil {
		metrics.JobAssignmentsTotal.WithLabelValues(assignResult(err)).Inc()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrJobExists
		}
		return nil, err
	}

	metrics.JobAssignmentsTotal.WithLabelValues("assigned").Inc()
	log.InfoContext(ctx, "job assigned", "job_id", job.JobID, "worker_id", workerID, "platform", job.Platform, "job_type", job.JobType)
	return toJobDTO(job), nil
}

func assignResult(err error) string {
	switch {
	case errors.Is(err, ErrWorkerAtCapacity):
		return "at_capacity"
	case errors.Is(err, ErrWorkerUnavailable):
		return "unavailable"
	case errors.Is(err, ErrWorkerNotFound):
		return "not_found"
	case errors.Is(err, ErrParamInvalid):
		return "rejected"
	}
	return "error"
}

func (s *workerServiceImpl) CurrentLoad(ctx context.Context, workerID string) (*dto.WorkerLoadDTO, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	load, err := s.jobRepo.CountLive(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return &dto.WorkerLoadDTO{
		WorkerID:          workerID,
		CurrentLoad:       load,
		MaxConcurrentJobs: worker.MaxConcurrentJobs,
		Available:         max(0, int64(worker.MaxConcurrentJobs)-load),
	}, nil
}

// UpdateJob 状态机：assigned -> started/failed，started -> completed/failed
// 失败时 retryCount 加一（不超过 maxRetries）；允许重试且未达上限时任务回到 assigned 等待重新投递，否则终止为 failed
func (s *workerServiceImpl) UpdateJob(ctx context.Context, jobID string, callerWorkerID string, in *dto.UpdateJobDTO) (*dto.WorkerJobDTO, error) {
	next := model.JobStatus(in.Status)
	if !next.Valid() || next == model.JobStatusAssigned {
		return nil, NewValidationError(ErrInvalidJobStatus, "status", "unsupported status "+in.Status)
	}

	retried := false
	job, err := s.jobRepo.Mutate(ctx, jobID, func(j *model.WorkerJob) error {
		if j == nil {
			return ErrJobNotFound
		}
		if callerWorkerID != "" && j.WorkerID != callerWorkerID {
			return ErrJobWorkerMismatch
		}
		if j.Status.Terminal() {
			return ErrJobTerminal
		}
		if !j.Status.CanTransition(next) {
			return ErrInvalidTransition
		}

		now := s.now()
		switch next {
		case model.JobStatusStarted:
			j.Status = model.JobStatusStarted
			j.StartedAt = &now
		case model.JobStatusCompleted:
			j.Status = model.JobStatusCompleted
			j.CompletedAt = &now
		case model.JobStatusFailed:
			j.LastError = in.Error
			j.RetryCount = min(j.RetryCount+1, j.MaxRetries)
			wantRetry := in.ShouldRetry == nil || *in.ShouldRetry
			if wantRetry && j.RetryCount < j.MaxRetries {
				j.Status = model.JobStatusAssigned
				j.StartedAt = nil
				retried = true
			} else {
				j.Status = model.JobStatusFailed
				j.CompletedAt = &now
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.JobTransitionsTotal.WithLabelValues(string(job.Status)).Inc()
	if retried {
		metrics.JobRetriesTotal.Inc()
	}
	log.InfoContext(ctx, "job updated", "job_id", job.JobID, "worker_id", job.WorkerID,
		"reported", in.Status, "status", job.Status, "retry_count", job.RetryCount)
	return toJobDTO(job), nil
}

func (s *workerServiceImpl) RecordHealthCheck(ctx context.Context, workerID string, in *dto.HealthCheckDTO) (*model.HealthCheck, error) {
	if _, err := s.getWorker(ctx, workerID); err != nil {
		return nil, err
	}

	now := s.now()
	check := &model.HealthCheck{
		WorkerID:       workerID,
		Status:         model.HealthStatus(in.Status),
		ResponseTime:   in.ResponseTime,
		CPUUsage:       in.CPUUsage,
		MemoryUsage:    in.MemoryUsage,
		NetworkLatency: in.NetworkLatency,
		ErrorCount:     in.ErrorCount,
		ErrorMessage:   in.ErrorMessage,
		CheckedAt:      now,
	}
	if err := s.healthRepo.Append(ctx, check); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"is_online":    check.Status != model.HealthStatusOffline,
		"last_ping_at": now,
	}
	if in.ResponseTime > 0 {
		fields["avg_response_time"] = in.ResponseTime
	}
	if err := s.workerRepo.Updates(ctx, workerID, fields); err != nil {
		return nil, err
	}
	return check, nil
}

func (s *workerServiceImpl) GetHealthHistory(ctx context.Context, workerID string, limit int) ([]*model.HealthCheck, error) {
	if limit <= 0 || limit > consts.HealthHistoryCap {
		limit = consts.HealthHistoryCap
	}
	return s.healthRepo.List(ctx, workerID, limit)
}

func (s *workerServiceImpl) GetStats(ctx context.Context) (*dto.WorkerStatsDTO, error) {
	counts, err := s.workerRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.CountByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	return &dto.WorkerStatsDTO{
		TotalWorkers:   counts.Total,
		OnlineWorkers:  counts.Online,
		ActiveWorkers:  counts.Active,
		JobsInProgress: jobs.Live(),
	}, nil
}

func (s *workerServiceImpl) GetWorkerMetrics(ctx context.Context, workerID string) (*dto.WorkerMetricsDTO, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	counts, err := s.jobRepo.CountByStatus(ctx, workerID)
	if err != nil {
		return nil, err
	}

	rate, _ := counts.SuccessRate()
	load := counts.Live()
	utilization := 0.0
	if worker.MaxConcurrentJobs > 0 {
		utilization = float64(load) / float64(worker.MaxConcurrentJobs)
	}
	return &dto.WorkerMetricsDTO{
		WorkerID:        workerID,
		TotalJobs:       counts.Total(),
		CompletedJobs:   counts[model.JobStatusCompleted],
		FailedJobs:      counts[model.JobStatusFailed],
		InProgressJobs:  load,
		SuccessRate:     rate,
		CurrentLoad:     load,
		Utilization:     utilization,
		AvgResponseTime: worker.AvgResponseTime,
	}, nil
}

func (s *workerServiceImpl) MarkStaleWorkersOffline(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.offlineTimeout)
	n, err := s.workerRepo.MarkOfflineBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.WorkersMarkedOffline.Add(float64(n))
		log.WarnContext(ctx, "workers marked offline", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
