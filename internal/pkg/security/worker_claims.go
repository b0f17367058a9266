package security

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	WorkerTokenIssuer        = "lighthouse"
	WorkerTokenExpireTime    = time.Hour * 24
	workerTokenSubjectPrefix = "worker:"
)

// WorkerClaims worker 调用回报接口时携带的身份
type WorkerClaims struct {
	WorkerID  string   `json:"worker_id"`
	Platforms []string `json:"platforms"`
	Region    string   `json:"region"`
	jwt.RegisteredClaims
}

type workerCtxKey struct{}

// WithWorker 将已校验的 worker 身份放入 ctx
func WithWorker(ctx context.Context, claims *WorkerClaims) context.Context {
	return context.WithValue(ctx, workerCtxKey{}, claims)
}

// WorkerFromContext 读取 WithWorker 放入的身份
func WorkerFromContext(ctx context.Context) (*WorkerClaims, bool) {
	claims, ok := ctx.Value(workerCtxKey{}).(*WorkerClaims)
	return claims, ok && claims != nil
}
