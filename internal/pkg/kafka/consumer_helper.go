package kafka

import (
	"Lighthouse/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	batchSize        = 32
	batchTimeout     = 1 * time.Second
	maxRetryInterval = 5 * time.Second
)

// LogicFunc 单条消息的业务处理，返回 drop 包装的错误时不再重试
type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// KeyFunc 返回消息的顺序键，同键消息在批内按 offset 串行处理，不同键之间并发
// 为 nil 时每条消息独立并发
type KeyFunc func(msg *sarama.ConsumerMessage) string

// dropError 无法通过重试恢复的消息
type dropError struct {
	err error
}

func (e *dropError) Error() string { return e.err.Error() }

func (e *dropError) Unwrap() error { return e.err }

func drop(err error) error {
	return &dropError{err: err}
}

func isDrop(err error) bool {
	var d *dropError
	return errors.As(err, &d)
}

// boundedError 最多尝试 attempts 次，之后按 drop 处理
type boundedError struct {
	err      error
	attempts int
}

func (e *boundedError) Error() string { return e.err.Error() }

func (e *boundedError) Unwrap() error { return e.err }

func retryUpTo(err error, attempts int) error {
	return &boundedError{err: err, attempts: attempts}
}

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, key KeyFunc, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, key, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, key, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, key, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// groupByKey 按顺序键分组，组内与组间都保持首次出现的顺序
func groupByKey(messages []*sarama.ConsumerMessage, key KeyFunc) [][]*sarama.ConsumerMessage {
	index := make(map[string]int)
	groups := make([][]*sarama.ConsumerMessage, 0, len(messages))
	for _, m := range messages {
		k := strconv.FormatInt(m.Offset, 10) + "/" + strconv.Itoa(int(m.Partition))
		if key != nil {
			k = key(m)
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], m)
	}
	return groups
}

// processBatch 按顺序键分组并发处理一批消息，全部成功或丢弃后提交最后一条的 offset
// session 已结束时不提交，未处理完的消息在重新分配后再次投递
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, key KeyFunc, logic LogicFunc) {
	ctx := session.Context()
	var wg sync.WaitGroup

	for _, group := range groupByKey(messages, key) {
		wg.Add(1)
		go func(ms []*sarama.ConsumerMessage) {
			defer wg.Done()
			for _, m := range ms {
				if ctx.Err() != nil {
					return
				}
				handleWithRetry(ctx, m, logic)
			}
		}(group)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return
	}
	if len(messages) > 0 {
		lastMsg := messages[len(messages)-1]
		session.MarkMessage(lastMsg, "")
	}
}

// handleWithRetry 指数退避重试，直到成功、被丢弃、超过次数上限或 ctx 结束
func handleWithRetry(parent context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	ctx := logger.WithTrace(parent, "kafka")
	retryInterval := 100 * time.Millisecond

	for attempt := 1; ; attempt++ {
		err := logic(ctx, m)
		if err == nil {
			return
		}
		var bounded *boundedError
		if isDrop(err) || (errors.As(err, &bounded) && attempt >= bounded.attempts) {
			log.WarnContext(ctx, "drop kafka message", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "attempts", attempt, "err", err)
			return
		}

		log.ErrorContext(ctx, "process message error", "topic", m.Topic, "offset", m.Offset, "attempt", attempt, "err", err)
		select {
		case <-parent.Done():
			return
		case <-time.After(retryInterval):
		}

		retryInterval *= 2
		if retryInterval > maxRetryInterval {
			retryInterval = maxRetryInterval
		}
	}
}

// ToCanalMessage 将kafka消息转换为canal消息结构体，格式或表名不符的消息直接丢弃
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		return nil, drop(err)
	}

	if canalMsg.Table != tableName {
		return nil, drop(fmt.Errorf("table name not match: %s", canalMsg.Table))
	}

	if len(canalMsg.Data) == 0 {
		return nil, drop(errors.New("data is empty"))
	}

	return &canalMsg, nil
}
