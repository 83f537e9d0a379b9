package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/cardmart-next/internal/events"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/provider"
	"github.com/cardmart-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusChanged, c.handleOrderStatusChanged)
}

// handleOrderStatusChanged 记录订单状态日志并投递事件；同一事件ID只投递一次，投递失败交由任务重试
func (c *Consumer) handleOrderStatusChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_order_status_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderStatusChangedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_status_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	payload.EventID = strings.TrimSpace(payload.EventID)
	if payload.OrderID == 0 || payload.EventID == "" {
		logger.Debugw("worker_order_status_skip_invalid_payload", "order_id", payload.OrderID, "event_id", payload.EventID)
		c.Metrics.EventHandled("skipped")
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_skip_order_not_found", "order_id", payload.OrderID)
		c.Metrics.EventHandled("skipped")
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	if _, err := c.OrderStatusLogRepo.Create(&models.OrderStatusLog{
		OrderID: order.ID,
		Status:  status,
		EventID: payload.EventID,
	}); err != nil {
		logger.Warnw("worker_order_status_log_failed", "order_id", order.ID, "event_id", payload.EventID, "error", err)
		return err
	}
	existing, err := c.OrderStatusLogRepo.GetByEventID(payload.EventID)
	if err != nil {
		return err
	}
	if existing != nil && existing.Published {
		logger.Debugw("worker_order_status_skip_already_published", "order_id", order.ID, "event_id", payload.EventID)
		c.Metrics.EventHandled("skipped")
		return nil
	}

	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = order.UpdatedAt
	}
	envelope, err := events.NewOrderStatusEnvelope(payload.EventID, occurredAt, events.OrderStatusPayload{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  status,
	})
	if err != nil {
		logger.Warnw("worker_order_status_envelope_failed", "order_id", order.ID, "status", status, "error", err)
		c.Metrics.EventHandled("skipped")
		return nil
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Publish(ctx, envelope); err != nil {
			logger.Warnw("worker_order_status_publish_failed", "order_id", order.ID, "event_id", payload.EventID, "error", err)
			c.Metrics.EventHandled("failed")
			return err
		}
	}
	if err := c.OrderStatusLogRepo.MarkPublished(payload.EventID); err != nil {
		logger.Warnw("worker_order_status_mark_published_failed", "order_id", order.ID, "event_id", payload.EventID, "error", err)
		return err
	}
	c.Metrics.EventHandled("published")
	logger.Infow("worker_order_status_published", "order_id", order.ID, "status", status, "event_type", envelope.EventType, "event_id", payload.EventID)
	return nil
}
