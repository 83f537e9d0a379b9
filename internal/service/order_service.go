package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/metrics"
	"github.com/cardmart-next/internal/models"
	"github.com/cardmart-next/internal/queue"
	"github.com/cardmart-next/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const orderTracerName = "github.com/cardmart-next/internal/service"

// OrderService 订单服务
type OrderService struct {
	db            *gorm.DB
	orderRepo     repository.OrderRepository
	inventoryRepo repository.InventoryRepository
	queueClient   *queue.Client
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	now           func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, inventoryRepo repository.InventoryRepository, queueClient *queue.Client, m *metrics.Metrics) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		queueClient:   queueClient,
		metrics:       m,
		tracer:        otel.Tracer(orderTracerName),
		now:           time.Now,
	}
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	InventoryItemID uint `json:"inventoryItemId"`
	Quantity        int  `json:"quantity"`
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	Items           []CreateOrderItem `json:"items"`
	BillingAddress  *AddressInput     `json:"billingAddress"`
	DeliveryAddress *AddressInput     `json:"deliveryAddress"`
}

// OrderStatusResponse 创建/取消订单的响应
type OrderStatusResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

// OrderItemResponse 订单项响应
type OrderItemResponse struct {
	InventoryItemID uint         `json:"inventoryItemId"`
	ProductName     string       `json:"productName"`
	Version         string       `json:"version"`
	Condition       string       `json:"condition"`
	UnitPrice       models.Money `json:"unitPrice"`
	Quantity        int          `json:"quantity"`
	Subtotal        models.Money `json:"subtotal"`
}

// OrderResponse 订单详情响应（地址按角色拆分）
type OrderResponse struct {
	ID              uint                  `json:"id"`
	Status          string                `json:"status"`
	TotalPrice      models.Money          `json:"totalPrice"`
	CreatedAt       time.Time             `json:"createdAt"`
	CanceledAt      *time.Time            `json:"canceledAt"`
	Items           []OrderItemResponse   `json:"items"`
	BillingAddress  *models.AddressFields `json:"billingAddress"`
	DeliveryAddress *models.AddressFields `json:"deliveryAddress"`
}

// CreateOrder 校验全部订单项后在同一事务内扣减库存并创建订单
func (s *OrderService) CreateOrder(ctx context.Context, principal *authz.Principal, input CreateOrderInput) (resp *OrderStatusResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(attribute.Int("order.lines", len(input.Items))))
	defer func() { endSpan(span, err) }()

	if !principal.Authenticated() {
		return nil, ErrUserUnauthorized
	}
	if err := validateCreateOrderInput(input); err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID: principal.UserID,
		Status: constants.OrderStatusPendingValidation,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		stock := make([]*models.InventoryItem, len(input.Items))
		for i, line := range input.Items {
			item, err := inventoryRepo.GetByID(line.InventoryItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return newDetailError(ErrResourceNotFound,
					fmt.Sprintf("inventory item at position %d (id %d) not found", i, line.InventoryItemID),
					FieldError{Field: fmt.Sprintf("items[%d].inventoryItemId", i), Message: "not found"})
			}
			if line.Quantity > item.Quantity {
				return insufficientStockError(i, line.InventoryItemID)
			}
			stock[i] = item
		}

		total := models.Money{}
		items := make([]models.OrderItem, 0, len(input.Items))
		for i, line := range input.Items {
			rows, err := inventoryRepo.DecreaseStock(line.InventoryItemID, line.Quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				return insufficientStockError(i, line.InventoryItemID)
			}
			snapshot := models.OrderItem{
				InventoryItemID: stock[i].ID,
				ProductName:     stock[i].DisplayName(),
				Version:         stock[i].Version,
				Condition:       stock[i].Condition,
				UnitPrice:       stock[i].Price,
				Quantity:        line.Quantity,
			}
			total = total.Plus(snapshot.Subtotal())
			items = append(items, snapshot)
		}

		order.Status = constants.OrderStatusConfirmed
		order.TotalPrice = total
		order.Items = items
		order.Addresses = []models.OrderAddress{
			{AddressFields: input.BillingAddress.toAddressFields(), BillingAddress: true},
			{AddressFields: input.DeliveryAddress.toAddressFields(), DeliveryAddress: true},
		}
		return s.orderRepo.WithTx(tx).Create(order)
	})
	if err != nil {
		if errors.Is(err, ErrResourceInsufficient) {
			s.metrics.StockRejected()
			logger.Ctx(ctx).Infow("order_create_stock_rejected", "user_id", principal.UserID, "error", err)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int64("order.id", int64(order.ID)))
	s.metrics.OrderCreated()
	logger.Ctx(ctx).Infow("order_created", "order_id", order.ID, "user_id", order.UserID, "total_price", order.TotalPrice.String())
	s.enqueueStatusChanged(ctx, order)
	return &OrderStatusResponse{ID: order.ID, Status: order.Status}, nil
}

// CancelOrder 取消订单并归还库存，仅订单所有者可操作
func (s *OrderService) CancelOrder(ctx context.Context, principal *authz.Principal, orderID uint) (resp *OrderStatusResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder", trace.WithAttributes(attribute.Int64("order.id", int64(orderID))))
	defer func() { endSpan(span, err) }()

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, notFoundError("order %d not found", orderID)
	}
	if err := authz.RequireSameUser(principal, order.UserID); err != nil {
		return nil, err
	}
	switch order.Status {
	case constants.OrderStatusCanceled:
		return nil, ErrOrderAlreadyCancelled
	case constants.OrderStatusConfirmed:
	default:
		return nil, validationError(fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
	}

	canceledAt := s.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.orderRepo.WithTx(tx).MarkCanceled(order.ID, canceledAt)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrOrderAlreadyCancelled
		}
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		for _, item := range order.Items {
			restored, err := inventoryRepo.IncreaseStock(item.InventoryItemID, item.Quantity)
			if err != nil {
				return err
			}
			if restored == 0 {
				logger.Ctx(ctx).Warnw("order_cancel_inventory_missing",
					"order_id", order.ID, "inventory_item_id", item.InventoryItemID, "quantity", item.Quantity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = constants.OrderStatusCanceled
	order.CanceledAt = &canceledAt
	s.metrics.OrderCanceled()
	logger.Ctx(ctx).Infow("order_canceled", "order_id", order.ID, "user_id", order.UserID)
	s.enqueueStatusChanged(ctx, order)
	return &OrderStatusResponse{ID: order.ID, Status: order.Status}, nil
}

// ListByUser 当前用户的订单分页列表（最新在前）
func (s *OrderService) ListByUser(ctx context.Context, principal *authz.Principal, q PageQuery) ([]OrderResponse, int64, error) {
	if !principal.Authenticated() {
		return nil, 0, ErrUserUnauthorized
	}
	filter, err := normalizePageQuery(q)
	if err != nil {
		return nil, 0, err
	}
	orders, total, err := s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		UserID:   principal.UserID,
	})
	if err != nil {
		return nil, 0, err
	}
	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, s.toResponse(ctx, &orders[i]))
	}
	return result, total, nil
}

// GetByID 订单详情，所有者或管理员可见
func (s *OrderService) GetByID(ctx context.Context, principal *authz.Principal, orderID uint) (*OrderResponse, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, notFoundError("order %d not found", orderID)
	}
	if err := authz.RequireSameUserOrAdmin(principal, order.UserID); err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, order)
	return &resp, nil
}

func (s *OrderService) toResponse(ctx context.Context, order *models.Order) OrderResponse {
	if !order.AddressSetConsistent() {
		logger.Ctx(ctx).Warnw("order_address_set_inconsistent", "order_id", order.ID, "address_rows", len(order.Addresses))
	}
	resp := OrderResponse{
		ID:         order.ID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
		CanceledAt: order.CanceledAt,
		Items:      make([]OrderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			InventoryItemID: item.InventoryItemID,
			ProductName:     item.ProductName,
			Version:         item.Version,
			Condition:       item.Condition,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			Subtotal:        item.Subtotal(),
		})
	}
	if addr := order.BillingAddress(); addr != nil {
		fields := addr.AddressFields
		resp.BillingAddress = &fields
	}
	if addr := order.DeliveryAddress(); addr != nil {
		fields := addr.AddressFields
		resp.DeliveryAddress = &fields
	}
	return resp
}

// enqueueStatusChanged 提交后推送状态事件，失败只记录日志
func (s *OrderService) enqueueStatusChanged(ctx context.Context, order *models.Order) {
	if s.queueClient == nil {
		return
	}
	eventID, err := s.queueClient.EnqueueOrderStatusChanged(queue.OrderStatusChangedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		logger.Ctx(ctx).Warnw("order_status_enqueue_failed", "order_id", order.ID, "status", order.Status, "error", err)
		return
	}
	logger.Ctx(ctx).Debugw("order_status_enqueued", "order_id", order.ID, "status", order.Status, "event_id", eventID)
}

func validateCreateOrderInput(input CreateOrderInput) error {
	var fields []FieldError
	if len(input.Items) == 0 {
		fields = append(fields, FieldError{Field: "items", Message: "must not be empty"})
	}
	for i, line := range input.Items {
		if line.InventoryItemID == 0 {
			fields = append(fields, FieldError{Field: fmt.Sprintf("items[%d].inventoryItemId", i), Message: "must be positive"})
		}
		if line.Quantity <= 0 {
			fields = append(fields, FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be positive"})
		}
	}
	fields = append(fields, validateAddress("billingAddress", input.BillingAddress)...)
	fields = append(fields, validateAddress("deliveryAddress", input.DeliveryAddress)...)
	return fieldValidation(fields)
}

func insufficientStockError(position int, inventoryItemID uint) error {
	return newDetailError(ErrResourceInsufficient,
		fmt.Sprintf("order exceeded the quantity in inventory at position %d (id %d)", position, inventoryItemID),
		FieldError{Field: fmt.Sprintf("items[%d].quantity", position), Message: "exceeds available quantity"})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
