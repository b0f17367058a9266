package repository

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// AnalyticsCacheRepo 分析结果的短期缓存，值为 JSON
type AnalyticsCacheRepo interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type analyticsCacheRepoImpl struct {
	rdb *redis.Client
}

func NewAnalyticsCacheRepo(rdb *redis.Client) AnalyticsCacheRepo {
	return &analyticsCacheRepoImpl{rdb: rdb}
}

// Get 命中时反序列化到 dest 并返回 true
func (r *analyticsCacheRepoImpl) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, errors.Wrap(err, "get analytics cache")
	}
	if err = json.Unmarshal(raw, dest); err != nil {
		return false, errors.Wrap(err, "unmarshal analytics cache")
	}
	return true, nil
}

func (r *analyticsCacheRepoImpl) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "marshal analytics cache")
	}
	return errors.Wrap(r.rdb.Set(ctx, key, payload, ttl).Err(), "set analytics cache")
}
