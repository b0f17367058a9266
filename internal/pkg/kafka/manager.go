package kafka

import (
	"Lighthouse/internal/api/config"
	"Lighthouse/internal/service"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type consumerLoop struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	loops []consumerLoop
}

// NewConsumerManager 构造函数，topic 为空的消费者不启动
func NewConsumerManager(
	cfg *config.Config,
	duplicateSvc service.DuplicateService,
	workerSvc service.WorkerService,
) (*ConsumerManager, error) {
	m := &ConsumerManager{}

	if cfg.KafkaContentConsumer.Topic != "" {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaContentConsumer.GroupID, newSaramaConfig(cfg.Kafka, "lighthouse-content"))
		if err != nil {
			return nil, err
		}
		m.loops = append(m.loops, consumerLoop{
			name:    "content",
			topic:   cfg.KafkaContentConsumer.Topic,
			group:   group,
			handler: NewContentHandler(duplicateSvc),
		})
	}

	if cfg.KafkaJobConsumer.Topic != "" {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaJobConsumer.GroupID, newSaramaConfig(cfg.Kafka, "lighthouse-job"))
		if err != nil {
			m.close()
			return nil, err
		}
		m.loops = append(m.loops, consumerLoop{
			name:    "job",
			topic:   cfg.KafkaJobConsumer.Topic,
			group:   group,
			handler: NewJobEventHandler(workerSvc),
		})
	}

	return m, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, l := range m.loops {
		wg.Add(2)
		go func() {
			defer wg.Done()
			log.Info("kafka consumer started", "consumer", l.name, "topic", l.topic)
			for {
				if err := l.group.Consume(ctx, []string{l.topic}, l.handler); err != nil {
					log.Error("Error from consumer", "consumer", l.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for {
				select {
				case err, ok := <-l.group.Errors():
					if !ok {
						return
					}
					log.Error("kafka consumer group error", "consumer", l.name, "err", err)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	m.close()
	wg.Wait()
	return nil
}

func (m *ConsumerManager) close() {
	for _, l := range m.loops {
		if err := l.group.Close(); err != nil {
			log.Error("Failed to close consumer", "consumer", l.name, "err", err)
		}
	}
}
