package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cardmart-next/internal/constants"
)

const (
	// EnvelopeVersion 事件信封版本
	EnvelopeVersion = 1
	// Producer 事件生产者标识
	Producer = "cardmart-worker"
)

// Envelope 订单事件信封
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Key          string          `json:"key"`
	Payload      json.RawMessage `json:"payload"`
}

// OrderStatusPayload 订单状态事件载荷
type OrderStatusPayload struct {
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id"`
	Status  string `json:"status"`
}

// EventTypeForStatus 订单状态对应的事件类型，无对应事件时返回空串
func EventTypeForStatus(status string) string {
	switch status {
	case constants.OrderStatusConfirmed:
		return constants.OrderEventConfirmed
	case constants.OrderStatusCanceled:
		return constants.OrderEventCanceled
	default:
		return ""
	}
}

// NewOrderStatusEnvelope 构造订单状态事件，消息键为订单ID以保证同一订单有序
func NewOrderStatusEnvelope(eventID string, occurredAt time.Time, payload OrderStatusPayload) (Envelope, error) {
	eventType := EventTypeForStatus(payload.Status)
	if eventType == "" {
		return Envelope{}, fmt.Errorf("no event type for order status %q", payload.Status)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:      eventID,
		EventType:    eventType,
		EventVersion: EnvelopeVersion,
		OccurredAt:   occurredAt.UTC(),
		Producer:     Producer,
		Key:          fmt.Sprintf("order-%d", payload.OrderID),
		Payload:      body,
	}, nil
}
