package handler

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/pkg/response"
	"Lighthouse/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkerHandler struct {
	workerSvc service.WorkerService
}

func NewWorkerHandler(workerSvc service.WorkerService) *WorkerHandler {
	return &WorkerHandler{
		workerSvc: workerSvc,
	}
}

func (s *WorkerHandler) Register(c *gin.Context) {
	var req dto.RegisterWorkerDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.workerSvc.RegisterWorker(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *WorkerHandler) List(c *gin.Context) {
	var query dto.WorkerListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	workers, err := s.workerSvc.ListWorkers(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, workers)
}

func (s *WorkerHandler) Get(c *gin.Context) {
	worker, err := s.workerSvc.GetWorker(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, worker)
}

func (s *WorkerHandler) Update(c *gin.Context) {
	var req dto.UpdateWorkerDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	worker, err := s.workerSvc.UpdateWorker(c.Request.Context(), c.Param("worker_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, worker)
}

func (s *WorkerHandler) Deregister(c *gin.Context) {
	if err := s.workerSvc.DeregisterWorker(c.Request.Context(), c.Param("worker_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *WorkerHandler) Load(c *gin.Context) {
	load, err := s.workerSvc.CurrentLoad(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, load)
}

func (s *WorkerHandler) Metrics(c *gin.Context) {
	metrics, err := s.workerSvc.GetWorkerMetrics(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, metrics)
}

func (s *WorkerHandler) HealthHistory(c *gin.Context) {
	var query dto.HealthHistoryQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	history, err := s.workerSvc.GetHealthHistory(c.Request.Context(), c.Param("worker_id"), query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}

func (s *WorkerHandler) Stats(c *gin.Context) {
	stats, err := s.workerSvc.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *WorkerHandler) AssignJob(c *gin.Context) {
	var req dto.AssignJobDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	job, err := s.workerSvc.AssignJob(c.Request.Context(), c.Param("worker_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

func (s *WorkerHandler) Dispatch(c *gin.Context) {
	var req dto.DispatchJobDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	job, err := s.workerSvc.DispatchJob(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// UpdateJob 仅允许任务所属 worker 回报状态
func (s *WorkerHandler) UpdateJob(c *gin.Context) {
	workerID := c.GetString("worker_id")

	var req dto.UpdateJobDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	job, err := s.workerSvc.UpdateJob(c.Request.Context(), c.Param("job_id"), workerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// Heartbeat token 中的 worker 必须与路径一致
func (s *WorkerHandler) Heartbeat(c *gin.Context) {
	workerID := c.Param("worker_id")
	if c.GetString("worker_id") != workerID {
		response.Error(c, service.UnauthorizedError)
		return
	}

	var req dto.HealthCheckDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	check, err := s.workerSvc.RecordHealthCheck(c.Request.Context(), workerID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, check)
}
