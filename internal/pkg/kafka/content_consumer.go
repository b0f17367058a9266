package kafka

import (
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/metrics"
	"Lighthouse/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const contentTable = "content_items"

// ContentHandler 订阅 content_items 的 binlog，正文变更时重算指纹
type ContentHandler struct {
	duplicateSvc service.DuplicateService
}

func NewContentHandler(duplicateSvc service.DuplicateService) *ContentHandler {
	return &ContentHandler{duplicateSvc: duplicateSvc}
}

func (h *ContentHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("content consumer setup")
	return nil
}

func (h *ContentHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("content consumer cleanup")
	return nil
}

func (h *ContentHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, contentKey, h.logic)
	if err != nil {
		log.Error("topic-content process batch error", "err", err)
		return err
	}
	return nil
}

// contentKey 同一内容的变更按 binlog 顺序处理，避免旧正文的指纹覆盖新正文
func contentKey(msg *sarama.ConsumerMessage) string {
	var head struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(msg.Value, &head); err != nil || len(head.Data) == 0 {
		return ""
	}
	return rowString(head.Data[0], "id")
}

func (h *ContentHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, contentTable)
	if err != nil {
		metrics.KafkaMessagesTotal.WithLabelValues("content", "dropped").Inc()
		return err
	}

	if canalMsg.Type != canalInsert && canalMsg.Type != canalUpdate {
		metrics.KafkaMessagesTotal.WithLabelValues("content", "skipped").Inc()
		return nil
	}

	for i, row := range canalMsg.Data {
		if rowString(row, "status") == string(model.ContentStatusArchived) {
			continue
		}
		if !canalMsg.Changed(i, "body") {
			continue
		}

		id, err := rowUint(row, "id")
		if err != nil {
			log.WarnContext(ctx, "content row without id", "err", err)
			continue
		}

		_, err = h.duplicateSvc.UpdateFingerprint(ctx, id, rowString(row, "body"))
		if errors.Is(err, service.ErrContentNotFound) {
			// binlog 晚于删除到达
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "update fingerprint of content %d", id)
		}
	}

	metrics.KafkaMessagesTotal.WithLabelValues("content", "applied").Inc()
	return nil
}
