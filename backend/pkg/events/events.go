package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"uruti-hub/backend/config"
)

// 事件类型
const (
	TypeAssignmentCreated  = "assignment.created"
	TypeSubmissionCreated  = "submission.created"
	TypeSubmissionReviewed = "submission.reviewed"
)

// Event 工作流事件
type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Key        string            `json:"key"`
	Data       map[string]string `json:"data"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

const (
	batchTimeout = 10 * time.Millisecond
	writeTimeout = 2 * time.Second
	maxAttempts  = 3
)

// New 根据配置创建发布器；未启用时返回 NopPublisher
//
// Writer 以异步模式运行：WriteMessages 只入队，投递结果在 Completion 中记录，
// 请求路径不等待 broker。
func New(cfg *config.KafkaConfig, logger *zap.Logger) Publisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	logger.Info("Kafka 事件发布已启用",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			Async:                  true,
			BatchTimeout:           batchTimeout,
			WriteTimeout:           writeTimeout,
			MaxAttempts:            maxAttempts,
			Completion:             completionLogger(logger),
		},
	}
}

// completionLogger 异步投递失败时记录日志
func completionLogger(logger *zap.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range msgs {
			logger.Warn("投递事件失败",
				zap.String("key", string(m.Key)),
				zap.Int("bytes", len(m.Value)),
				zap.Error(err),
			)
		}
	}
}

// KafkaPublisher 基于 kafka-go Writer 的发布器
// 同一 Key（提交或分配 ID）的事件落在同一分区，保持顺序
type KafkaPublisher struct {
	writer *kafka.Writer
}

// Publish 序列化并写入一条消息
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	}); err != nil {
		return fmt.Errorf("写入事件失败: %w", err)
	}
	return nil
}

// Close 关闭 Writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
