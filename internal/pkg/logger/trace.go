package logger

import (
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// TraceIDKey 日志字段与 gin.Context 中的 Key
const TraceIDKey = "trace_id"

type traceCtxKey struct{}

// ContextHandler 包装器，用于从 ctx 中提取 trace_id
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID := TraceID(ctx); traceID != "" {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

// WithTrace 为后台任务生成带前缀的 trace_id，如 job-xxx / kafka-xxx
func WithTrace(parent context.Context, prefix string) context.Context {
	return ContextWithTraceID(parent, prefix+"-"+uuid.NewString())
}

// ContextWithTraceID 沿用调用方传入的 trace_id
func ContextWithTraceID(parent context.Context, traceID string) context.Context {
	return context.WithValue(parent, traceCtxKey{}, traceID)
}

// TraceID 读取 ctx 中的 trace_id
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceCtxKey{}).(string); ok {
		return id
	}
	return ""
}
