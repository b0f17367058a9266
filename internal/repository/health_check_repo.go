package repository

import (
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// HealthCheckRepo 每个 worker 的健康样本保存在 Redis 列表中，最新在前，超出容量的旧样本被裁掉
type HealthCheckRepo interface {
	Append(ctx context.Context, check *model.HealthCheck) error
	List(ctx context.Context, workerID string, limit int) ([]*model.HealthCheck, error)
}

type healthCheckRepoImpl struct {
	rdb      *redis.Client
	capacity int64
}

func NewHealthCheckRepo(rdb *redis.Client) HealthCheckRepo {
	return &healthCheckRepoImpl{rdb: rdb, capacity: consts.HealthHistoryCap}
}

func healthKey(workerID string) string {
	return consts.WorkerHealthKey + workerID
}

// Append LPUSH + LTRIM 在同一事务管道中执行，列表长度不超过 capacity
func (r *healthCheckRepoImpl) Append(ctx context.Context, check *model.HealthCheck) error {
	payload, err := json.Marshal(check)
	if err != nil {
		return errors.Wrap(err, "marshal health check")
	}

	key := healthKey(check.WorkerID)
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, r.capacity-1)
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "append health check")
	}
	return nil
}

// List 按时间倒序返回最近 limit 条，limit <= 0 时返回全部
func (r *healthCheckRepoImpl) List(ctx context.Context, workerID string, limit int) ([]*model.HealthCheck, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := r.rdb.LRange(ctx, healthKey(workerID), 0, stop).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, errors.Wrap(err, "list health checks")
	}

	checks := make([]*model.HealthCheck, 0, len(raw))
	for _, item := range raw {
		var check model.HealthCheck
		if err = json.Unmarshal([]byte(item), &check); err != nil {
			return nil, errors.Wrap(err, "unmarshal health check")
		}
		checks = append(checks, &check)
	}
	return checks, nil
}
