package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/events"
	"github.com/cardmart-next/internal/metrics"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/provider"
	"github.com/cardmart-next/internal/queue"
	"github.com/cardmart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type fakePublisher struct {
	published []events.Envelope
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, envelope events.Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, envelope)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func setupWorkerTest(t *testing.T) (*gorm.DB, *Consumer, *fakePublisher) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	publisher := &fakePublisher{}
	consumer := NewConsumer(&provider.Container{
		OrderRepo:          repository.NewOrderRepository(db),
		OrderStatusLogRepo: repository.NewOrderStatusLogRepository(db),
		EventPublisher:     publisher,
		Metrics:            metrics.New("worker_test"),
	})
	return db, consumer, publisher
}

func createOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	order := &models.Order{UserID: 7, Status: constants.OrderStatusConfirmed, TotalPrice: models.MustMoney("1.00")}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func statusTask(t *testing.T, payload queue.OrderStatusChangedPayload) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderStatusChangedTask(payload)
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	return task
}

func TestHandleOrderStatusChangedPublishesOnce(t *testing.T) {
	db, consumer, publisher := setupWorkerTest(t)
	order := createOrder(t, db)
	task := statusTask(t, queue.OrderStatusChangedPayload{
		EventID: "evt-confirmed", OrderID: order.ID, UserID: order.UserID,
		Status: constants.OrderStatusConfirmed, OccurredAt: time.Now(),
	})

	for i := 0; i < 2; i++ {
		if err := consumer.handleOrderStatusChanged(context.Background(), task); err != nil {
			t.Fatalf("handle task failed: %v", err)
		}
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected exactly one publish, got %d", len(publisher.published))
	}
	if publisher.published[0].EventType != constants.OrderEventConfirmed {
		t.Fatalf("unexpected event type %s", publisher.published[0].EventType)
	}
	logs, err := consumer.OrderStatusLogRepo.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if len(logs) != 1 || !logs[0].Published {
		t.Fatalf("expected one published log, got %+v", logs)
	}
}

func TestHandleOrderStatusChangedRetriesAfterPublishFailure(t *testing.T) {
	db, consumer, publisher := setupWorkerTest(t)
	order := createOrder(t, db)
	task := statusTask(t, queue.OrderStatusChangedPayload{EventID: "evt-cancel", OrderID: order.ID, Status: constants.OrderStatusCanceled})

	publisher.err = errors.New("broker down")
	if err := consumer.handleOrderStatusChanged(context.Background(), task); err == nil {
		t.Fatalf("expected publish failure to be returned for retry")
	}
	publisher.err = nil
	if err := consumer.handleOrderStatusChanged(context.Background(), task); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(publisher.published) != 1 || publisher.published[0].EventType != constants.OrderEventCanceled {
		t.Fatalf("expected canceled event published on retry, got %+v", publisher.published)
	}
}

func TestHandleOrderStatusChangedSkipsInvalidPayloads(t *testing.T) {
	_, consumer, publisher := setupWorkerTest(t)

	if err := consumer.handleOrderStatusChanged(context.Background(), asynq.NewTask(queue.TaskOrderStatusChanged, []byte("{"))); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for malformed payload, got %v", err)
	}
	if err := consumer.handleOrderStatusChanged(context.Background(), statusTask(t, queue.OrderStatusChangedPayload{EventID: "evt", OrderID: 404})); err != nil {
		t.Fatalf("expected missing order skipped, got %v", err)
	}
	if err := consumer.handleOrderStatusChanged(context.Background(), statusTask(t, queue.OrderStatusChangedPayload{OrderID: 1})); err != nil {
		t.Fatalf("expected missing event id skipped, got %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("expected nothing published, got %d", len(publisher.published))
	}
}
