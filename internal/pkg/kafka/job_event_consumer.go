package kafka

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/pkg/metrics"
	"Lighthouse/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// JobEvent worker 通过消息队列回报的任务状态
type JobEvent struct {
	JobID       string `json:"jobId"`
	WorkerID    string `json:"workerId"`
	Status      string `json:"status"`
	Error       string `json:"error"`
	ShouldRetry *bool  `json:"shouldRetry"`
}

// invalidTransitionAttempts 跨分区乱序到达的事件等待前序事件落库的尝试次数
const invalidTransitionAttempts = 5

// jobEventKey 同一任务的事件在批内按 offset 串行处理
func jobEventKey(msg *sarama.ConsumerMessage) string {
	var head struct {
		JobID string `json:"jobId"`
	}
	if err := json.Unmarshal(msg.Value, &head); err == nil && head.JobID != "" {
		return head.JobID
	}
	return string(msg.Key)
}

// JobEventHandler 与 PUT /jobs/:job_id 等价的异步入口
type JobEventHandler struct {
	workerSvc service.WorkerService
}

func NewJobEventHandler(workerSvc service.WorkerService) *JobEventHandler {
	return &JobEventHandler{workerSvc: workerSvc}
}

func (h *JobEventHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("job event consumer setup")
	return nil
}

func (h *JobEventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("job event consumer cleanup")
	return nil
}

func (h *JobEventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, jobEventKey, h.logic)
	if err != nil {
		log.Error("topic-job process batch error", "err", err)
		return err
	}
	return nil
}

func (h *JobEventHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ev JobEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		metrics.KafkaMessagesTotal.WithLabelValues("job", "dropped").Inc()
		return drop(err)
	}
	if ev.JobID == "" || ev.WorkerID == "" {
		metrics.KafkaMessagesTotal.WithLabelValues("job", "dropped").Inc()
		return drop(errors.New("jobId and workerId are required"))
	}

	job, err := h.workerSvc.UpdateJob(ctx, ev.JobID, ev.WorkerID, &dto.UpdateJobDTO{
		Status:      ev.Status,
		Error:       ev.Error,
		ShouldRetry: ev.ShouldRetry,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			return retryUpTo(err, invalidTransitionAttempts)
		}
		if permanentJobError(err) {
			metrics.KafkaMessagesTotal.WithLabelValues("job", "dropped").Inc()
			return drop(err)
		}
		return errors.Wrapf(err, "update job %s", ev.JobID)
	}

	log.InfoContext(ctx, "job event applied", "job_id", job.JobID, "status", job.Status)
	metrics.KafkaMessagesTotal.WithLabelValues("job", "applied").Inc()
	return nil
}

// permanentJobError 重放同一消息结果不变的错误
func permanentJobError(err error) bool {
	for _, target := range []error{
		service.ErrJobNotFound,
		service.ErrJobTerminal,
		service.ErrJobWorkerMismatch,
		service.ErrParamInvalid,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
