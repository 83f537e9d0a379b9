package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/constants"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewPublisherDisabledIsNop(t *testing.T) {
	if _, ok := NewPublisher(config.KafkaConfig{Enabled: false, Brokers: []string{"localhost:9092"}, Topic: "t"}).(NopPublisher); !ok {
		t.Fatalf("expected NopPublisher when disabled")
	}
	if _, ok := NewPublisher(config.KafkaConfig{Enabled: true, Brokers: []string{" "}, Topic: "t"}).(NopPublisher); !ok {
		t.Fatalf("expected NopPublisher without brokers")
	}
	if _, ok := NewPublisher(config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "cardmart.orders"}).(*KafkaPublisher); !ok {
		t.Fatalf("expected KafkaPublisher when configured")
	}
}

func TestNewOrderStatusEnvelope(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("JST", 9*3600))
	env, err := NewOrderStatusEnvelope("evt-1", at, OrderStatusPayload{OrderID: 12, UserID: 3, Status: constants.OrderStatusCanceled})
	if err != nil {
		t.Fatalf("build envelope failed: %v", err)
	}
	if env.EventType != constants.OrderEventCanceled || env.Key != "order-12" || env.OccurredAt.Location() != time.UTC {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	var payload OrderStatusPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.OrderID != 12 {
		t.Fatalf("unexpected payload %s (%v)", env.Payload, err)
	}
	if _, err := NewOrderStatusEnvelope("evt-2", at, OrderStatusPayload{Status: "PENDING-VALIDATION"}); err == nil {
		t.Fatalf("expected error for status without event")
	}
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newKafkaPublisher(writer, time.Second)
	env, err := NewOrderStatusEnvelope("evt-9", time.Now(), OrderStatusPayload{OrderID: 9, Status: constants.OrderStatusConfirmed})
	if err != nil {
		t.Fatalf("build envelope failed: %v", err)
	}
	if err := publisher.Publish(context.Background(), env); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "order-9" || len(msg.Headers) != 2 || string(msg.Headers[0].Value) != constants.OrderEventConfirmed {
		t.Fatalf("unexpected message: %+v", msg)
	}

	writer.err = errors.New("broker down")
	if err := publisher.Publish(context.Background(), env); err == nil {
		t.Fatalf("expected write error to propagate")
	}
	if err := publisher.Close(); err != nil || !writer.closed {
		t.Fatalf("expected writer closed")
	}
}
