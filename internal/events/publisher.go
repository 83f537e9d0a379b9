package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/cardmart-next/internal/config"

	"github.com/segmentio/kafka-go"
)

const defaultWriteTimeout = 5 * time.Second

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
	Close() error
}

// NopPublisher 未启用 Kafka 时的空实现
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(context.Context, Envelope) error { return nil }

// Close 无需释放资源
func (NopPublisher) Close() error { return nil }

// messageWriter kafka.Writer 的最小子集，便于测试替换
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 基于 kafka-go Writer 的同步发布器，失败交由任务重试
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewPublisher 按配置创建发布器，未启用或未配置 broker 时返回 NopPublisher
func NewPublisher(cfg config.KafkaConfig) Publisher {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	if !cfg.Enabled || len(brokers) == 0 || strings.TrimSpace(cfg.Topic) == "" {
		return NopPublisher{}
	}
	timeout := defaultWriteTimeout
	if cfg.WriteTimeout > 0 {
		timeout = time.Duration(cfg.WriteTimeout) * time.Millisecond
	}
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        strings.TrimSpace(cfg.Topic),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: timeout,
	}, timeout)
}

func newKafkaPublisher(writer messageWriter, timeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, timeout: timeout}
}

// Publish 写入一条事件，消息头携带事件类型与ID
func (p *KafkaPublisher) Publish(ctx context.Context, envelope Envelope) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher is not initialized")
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(envelope.Key),
		Value: body,
		Time:  envelope.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(envelope.EventType)},
			{Key: "event_id", Value: []byte(envelope.EventID)},
		},
	})
}

// Close 刷新并关闭 Writer
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
