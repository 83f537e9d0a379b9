package queue

import (
	"encoding/json"
	"time"

	"github.com/cardmart-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusChanged 订单状态变更任务
	TaskOrderStatusChanged = constants.TaskOrderStatusChanged
)

// OrderStatusChangedPayload 订单状态变更任务载荷
type OrderStatusChangedPayload struct {
	EventID    string    `json:"event_id"`
	OrderID    uint      `json:"order_id"`
	UserID     uint      `json:"user_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderStatusChangedTask 创建订单状态变更任务
func NewOrderStatusChangedTask(payload OrderStatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusChanged, body), nil
}

// ParseOrderStatusChangedPayload 解析订单状态变更任务载荷
func ParseOrderStatusChangedPayload(task *asynq.Task) (OrderStatusChangedPayload, error) {
	var payload OrderStatusChangedPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
