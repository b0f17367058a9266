package repository

import (
	"Lighthouse/internal/model"
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// WorkerFilter 列表过滤条件，均为可选，AND 组合
type WorkerFilter struct {
	Platform string
	Region   string
	Status   model.WorkerStatus
	IsOnline *bool
}

type WorkerCounts struct {
	Total  int64
	Online int64
	Active int64
}

type WorkerRepo interface {
	Create(ctx context.Context, worker *model.Worker) error
	GetByWorkerID(ctx context.Context, workerID string) (*model.Worker, error)
	List(ctx context.Context, filter WorkerFilter) ([]*model.Worker, error)
	Updates(ctx context.Context, workerID string, fields map[string]interface{}) error
	Delete(ctx context.Context, workerID string) (int64, error)
	MarkOfflineBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Counts(ctx context.Context) (*WorkerCounts, error)
}

type workerRepoImpl struct {
	db *gorm.DB
}

func NewWorkerRepo(db *gorm.DB) WorkerRepo {
	return &workerRepoImpl{db: db}
}

func (r *workerRepoImpl) Create(ctx context.Context, worker *model.Worker) error {
	err := r.db.WithContext(ctx).Create(worker).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return errors.Wrap(err, "create worker")
}

// GetByWorkerID 不存在时返回 nil, nil
func (r *workerRepoImpl) GetByWorkerID(ctx context.Context, workerID string) (*model.Worker, error) {
	var worker model.Worker
	err := r.db.WithContext(ctx).Where("worker_id = ?", workerID).First(&worker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get worker")
	}
	return &worker, nil
}

func (r *workerRepoImpl) List(ctx context.Context, filter WorkerFilter) ([]*model.Worker, error) {
	workers := make([]*model.Worker, 0)
	query := r.db.WithContext(ctx).Model(&model.Worker{})
	if filter.Platform != "" {
		query = query.Where("JSON_CONTAINS(platforms, JSON_QUOTE(?))", filter.Platform)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.IsOnline != nil {
		query = query.Where("is_online = ?", *filter.IsOnline)
	}
	if err := query.Order("id ASC").Find(&workers).Error; err != nil {
		return nil, errors.Wrap(err, "list workers")
	}
	return workers, nil
}

func (r *workerRepoImpl) Updates(ctx context.Context, workerID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("worker_id = ?", workerID).
		Updates(fields).Error
	return errors.Wrap(err, "update worker")
}

// Delete 硬删除 worker，不影响其历史任务与健康记录
func (r *workerRepoImpl) Delete(ctx context.Context, workerID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("worker_id = ?", workerID).Delete(&model.Worker{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "delete worker")
	}
	return result.RowsAffected, nil
}

// MarkOfflineBefore 将最后心跳早于 cutoff 的在线 worker 标记为离线
func (r *workerRepoImpl) MarkOfflineBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Where("is_online = ?", true).
		Where("last_ping_at IS NULL OR last_ping_at < ?", cutoff).
		Update("is_online", false)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "mark stale workers offline")
	}
	return result.RowsAffected, nil
}

func (r *workerRepoImpl) Counts(ctx context.Context) (*WorkerCounts, error) {
	var counts WorkerCounts
	err := r.db.WithContext(ctx).
		Model(&model.Worker{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN is_online = 1 THEN 1 ELSE 0 END), 0) AS online, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active", model.WorkerStatusActive).
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "count workers")
	}
	return &counts, nil
}
