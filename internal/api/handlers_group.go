package api

import "Lighthouse/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	DuplicateHandler    *handler.DuplicateHandler
	FanpageMatchHandler *handler.FanpageMatchHandler
	PostingTimeHandler  *handler.PostingTimeHandler
	WorkerHandler       *handler.WorkerHandler
}
