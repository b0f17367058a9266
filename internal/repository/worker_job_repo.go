package repository

import (
	"Lighthouse/internal/model"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssignCheck 在持有 worker 行锁时校验是否允许分配，worker 不存在时传入 nil
type AssignCheck func(worker *model.Worker, load int64) error

// JobMutation 在持有任务行锁时修改任务，job 不存在时传入 nil
type JobMutation func(job *model.WorkerJob) error

type WorkerJobRepo interface {
	Assign(ctx context.Context, job *model.WorkerJob, check AssignCheck) error
	Mutate(ctx context.Context, jobID string, mutate JobMutation) (*model.WorkerJob, error)
	GetByJobID(ctx context.Context, jobID string) (*model.WorkerJob, error)
	CountLive(ctx context.Context, workerID string) (int64, error)
	CountByWorkerStatus(ctx context.Context, workerIDs []string) (map[string]JobCounts, error)
	CountByStatus(ctx context.Context, workerID string) (JobCounts, error)
}

// JobCounts 按状态统计的任务数
type JobCounts map[model.JobStatus]int64

// Live 在途任务数，即负载
func (c JobCounts) Live() int64 {
	return c[model.JobStatusAssigned] + c[model.JobStatusStarted]
}

func (c JobCounts) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

// SuccessRate 已结束任务中的成功占比，没有已结束任务时返回 ok=false
func (c JobCounts) SuccessRate() (rate float64, ok bool) {
	finished := c[model.JobStatusCompleted] + c[model.JobStatusFailed]
	if finished == 0 {
		return 0, false
	}
	return float64(c[model.JobStatusCompleted]) / float64(finished), true
}

type workerJobRepoImpl struct {
	db *gorm.DB
}

func NewWorkerJobRepo(db *gorm.DB) WorkerJobRepo {
	return &workerJobRepoImpl{db: db}
}

// Assign 单事务完成：锁定 worker 行 -> 统计在途任务 -> 校验 -> 写入任务
// 并发分配同一 worker 时在行锁上串行化，负载统计不会重复
func (r *workerJobRepoImpl) Assign(ctx context.Context, job *model.WorkerJob, check AssignCheck) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var worker model.Worker
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("worker_id = ?", job.WorkerID).
			First(&worker).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return check(nil, 0)
			}
			return errors.Wrap(err, "lock worker")
		}

		var load int64
		err = tx.Model(&model.WorkerJob{}).
			Where("worker_id = ?", job.WorkerID).
			Where("status IN ?", model.LiveJobStatuses).
			Count(&load).Error
		if err != nil {
			return errors.Wrap(err, "count worker load")
		}

		if err = check(&worker, load); err != nil {
			return err
		}

		if err = tx.Create(job).Error; err != nil {
			return errors.Wrap(err, "create worker job")
		}

		err = tx.Model(&model.Worker{}).
			Where("id = ?", worker.ID).
			Update("last_job_at", job.AssignedAt).Error
		return errors.Wrap(err, "touch worker last job")
	})
}

// Mutate 锁定任务行后执行 mutate 并保存
func (r *workerJobRepoImpl) Mutate(ctx context.Context, jobID string, mutate JobMutation) (*model.WorkerJob, error) {
	var job model.WorkerJob
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("job_id = ?", jobID).
			First(&job).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return mutate(nil)
			}
			return errors.Wrap(err, "lock worker job")
		}

		if err = mutate(&job); err != nil {
			return err
		}
		job.UpdatedAt = time.Now()
		return errors.Wrap(tx.Save(&job).Error, "save worker job")
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetByJobID 不存在时返回 nil, nil
func (r *workerJobRepoImpl) GetByJobID(ctx context.Context, jobID string) (*model.WorkerJob, error) {
	var job model.WorkerJob
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get worker job")
	}
	return &job, nil
}

// CountLive 统计 assigned / started 状态的任务数，即 worker 当前负载
func (r *workerJobRepoImpl) CountLive(ctx context.Context, workerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WorkerJob{}).
		Where("worker_id = ?", workerID).
		Where("status IN ?", model.LiveJobStatuses).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count live jobs")
	}
	return count, nil
}

// CountByWorkerStatus 批量按 (worker, 状态) 分组计数，未出现的 worker 返回空计数
func (r *workerJobRepoImpl) CountByWorkerStatus(ctx context.Context, workerIDs []string) (map[string]JobCounts, error) {
	counts := make(map[string]JobCounts, len(workerIDs))
	for _, id := range workerIDs {
		counts[id] = JobCounts{}
	}
	if len(workerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		WorkerID string
		Status   model.JobStatus
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.WorkerJob{}).
		Select("worker_id, status, COUNT(*) AS total").
		Where("worker_id IN ?", workerIDs).
		Group("worker_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count jobs by worker and status")
	}
	for _, row := range rows {
		if counts[row.WorkerID] == nil {
			counts[row.WorkerID] = JobCounts{}
		}
		counts[row.WorkerID][row.Status] = row.Total
	}
	return counts, nil
}

// CountByStatus workerID 为空时统计全部任务
func (r *workerJobRepoImpl) CountByStatus(ctx context.Context, workerID string) (JobCounts, error) {
	var rows []struct {
		Status model.JobStatus
		Total  int64
	}
	query := r.db.WithContext(ctx).
		Model(&model.WorkerJob{}).
		Select("status, COUNT(*) AS total")
	if workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "count jobs by status")
	}

	counts := make(JobCounts, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
