package job

import (
	"Lighthouse/internal/pkg/logger"
	"Lighthouse/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"
)

// runExclusive 多实例部署时同一任务只在一个实例上执行，抢锁失败直接跳过本轮
func runExclusive(ctx context.Context, lockKey string, ttl time.Duration, fn func(ctx context.Context)) {
	owner := logger.TraceID(ctx)
	ok, err := redis.TryLock(ctx, lockKey, owner, ttl, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire job lock failed", "lock", lockKey, "err", err)
		return
	}
	if !ok {
		log.DebugContext(ctx, "job lock held by another instance", "lock", lockKey)
		return
	}
	defer redis.UnLock(ctx, lockKey, owner)

	fn(ctx)
}
