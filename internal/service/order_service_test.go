package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/models"
)

func TestCreateOrderSnapshotsPricesAndDecrementsStock(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "yugi@example.com")
	product := createProductFixture(t, db, "Booster Pack", "Legend of Blue Eyes")
	first := createStockFixture(t, db, product.ID, "2.99", 10)
	second := createStockFixture(t, db, product.ID, "4.99", 10)

	resp, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
		Items: []CreateOrderItem{
			{InventoryItemID: first.ID, Quantity: 1},
			{InventoryItemID: second.ID, Quantity: 2},
		},
		BillingAddress:  testAddress("Billing Street"),
		DeliveryAddress: testAddress("Delivery Street"),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if resp.Status != constants.OrderStatusConfirmed || resp.ID == 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got := stockOf(t, db, first.ID); got != 9 {
		t.Fatalf("expected first stock 9, got %d", got)
	}
	if got := stockOf(t, db, second.ID); got != 8 {
		t.Fatalf("expected second stock 8, got %d", got)
	}

	detail, err := svc.GetByID(context.Background(), customer(owner.ID), resp.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if detail.TotalPrice.String() != "12.97" {
		t.Fatalf("expected total 12.97, got %s", detail.TotalPrice.String())
	}
	if len(detail.Items) != 2 || detail.Items[1].UnitPrice.String() != "4.99" || detail.Items[1].Subtotal.String() != "9.98" {
		t.Fatalf("unexpected items: %+v", detail.Items)
	}
	if detail.Items[0].ProductName != "Legend of Blue Eyes" {
		t.Fatalf("expected product name snapshot, got %q", detail.Items[0].ProductName)
	}
	if detail.BillingAddress == nil || detail.BillingAddress.Street != "Billing Street" {
		t.Fatalf("unexpected billing address: %+v", detail.BillingAddress)
	}
	if detail.DeliveryAddress == nil || detail.DeliveryAddress.Street != "Delivery Street" {
		t.Fatalf("unexpected delivery address: %+v", detail.DeliveryAddress)
	}

	var addresses []models.OrderAddress
	if err := db.Where("order_id = ?", resp.ID).Find(&addresses).Error; err != nil {
		t.Fatalf("load addresses failed: %v", err)
	}
	if len(addresses) != 2 {
		t.Fatalf("expected exactly two address rows, got %d", len(addresses))
	}

	// 快照不随库存价格变化
	if err := db.Model(&models.InventoryItem{}).Where("id = ?", second.ID).Update("price", "9.99").Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	detail, err = svc.GetByID(context.Background(), customer(owner.ID), resp.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if detail.TotalPrice.String() != "12.97" || detail.Items[1].UnitPrice.String() != "4.99" {
		t.Fatalf("snapshot changed after price update: %+v", detail)
	}
}

func TestCreateOrderRejectsWholeRequestWhenAnyLineExceedsStock(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "joey@example.com")
	product := createProductFixture(t, db, "Single", "Red-Eyes Black Dragon")
	first := createStockFixture(t, db, product.ID, "2.99", 10)
	second := createStockFixture(t, db, product.ID, "4.99", 10)

	_, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
		Items: []CreateOrderItem{
			{InventoryItemID: first.ID, Quantity: 1},
			{InventoryItemID: second.ID, Quantity: 11},
		},
		BillingAddress:  testAddress("A"),
		DeliveryAddress: testAddress("B"),
	})
	if !errors.Is(err, ErrResourceInsufficient) {
		t.Fatalf("expected ErrResourceInsufficient, got %v", err)
	}
	var detailErr *DetailError
	if !errors.As(err, &detailErr) || len(detailErr.Fields) != 1 || detailErr.Fields[0].Field != "items[1].quantity" {
		t.Fatalf("unexpected detail error: %+v", err)
	}
	if got := stockOf(t, db, first.ID); got != 10 {
		t.Fatalf("expected first stock untouched, got %d", got)
	}
	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no order persisted, got %d", count)
	}
}

func TestCreateOrderDuplicatedLinesRollBack(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "tea@example.com")
	product := createProductFixture(t, db, "Single", "Dark Magician")
	item := createStockFixture(t, db, product.ID, "1.00", 10)

	_, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
		Items: []CreateOrderItem{
			{InventoryItemID: item.ID, Quantity: 6},
			{InventoryItemID: item.ID, Quantity: 6},
		},
		BillingAddress:  testAddress("A"),
		DeliveryAddress: testAddress("B"),
	})
	if !errors.Is(err, ErrResourceInsufficient) {
		t.Fatalf("expected ErrResourceInsufficient, got %v", err)
	}
	if err.Error() != fmt.Sprintf("order exceeded the quantity in inventory at position 1 (id %d)", item.ID) {
		t.Fatalf("unexpected detail: %s", err.Error())
	}
	if got := stockOf(t, db, item.ID); got != 10 {
		t.Fatalf("expected decrement of line 0 rolled back, got stock %d", got)
	}
}

func TestCreateOrderMissingInventoryItem(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "bakura@example.com")

	_, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
		Items:           []CreateOrderItem{{InventoryItemID: 404, Quantity: 1}},
		BillingAddress:  testAddress("A"),
		DeliveryAddress: testAddress("B"),
	})
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if err.Error() != "inventory item at position 0 (id 404) not found" {
		t.Fatalf("unexpected detail: %s", err.Error())
	}
}

func TestCreateOrderRequestValidation(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)

	_, err := svc.CreateOrder(context.Background(), customer(1), CreateOrderInput{
		Items:          []CreateOrderItem{{InventoryItemID: 0, Quantity: 0}},
		BillingAddress: &AddressInput{Street: "  "},
	})
	if !errors.Is(err, ErrRequestValidation) {
		t.Fatalf("expected ErrRequestValidation, got %v", err)
	}
	var detailErr *DetailError
	if !errors.As(err, &detailErr) {
		t.Fatalf("expected DetailError, got %T", err)
	}
	want := map[string]bool{
		"items[0].inventoryItemId": false,
		"items[0].quantity":        false,
		"billingAddress.street":    false,
		"deliveryAddress":          false,
	}
	for _, f := range detailErr.Fields {
		if _, ok := want[f.Field]; ok {
			want[f.Field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Fatalf("expected field error for %s, got %+v", field, detailErr.Fields)
		}
	}

	if _, err := svc.CreateOrder(context.Background(), customer(1), CreateOrderInput{
		BillingAddress:  testAddress("A"),
		DeliveryAddress: testAddress("B"),
	}); !errors.Is(err, ErrRequestValidation) {
		t.Fatalf("expected empty items to fail validation, got %v", err)
	}
	if _, err := svc.CreateOrder(context.Background(), nil, CreateOrderInput{}); !errors.Is(err, ErrUserUnauthorized) {
		t.Fatalf("expected anonymous caller rejected, got %v", err)
	}
}

func TestCancelOrderRestoresStockOnce(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "mai@example.com")
	product := createProductFixture(t, db, "Single", "Harpie Lady")
	item := createStockFixture(t, db, product.ID, "3.50", 5)

	created, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
		Items:           []CreateOrderItem{{InventoryItemID: item.ID, Quantity: 3}},
		BillingAddress:  testAddress("A"),
		DeliveryAddress: testAddress("B"),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if got := stockOf(t, db, item.ID); got != 2 {
		t.Fatalf("expected stock 2 after order, got %d", got)
	}

	canceled, err := svc.CancelOrder(context.Background(), customer(owner.ID), created.ID)
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected CANCELED, got %s", canceled.Status)
	}
	if got := stockOf(t, db, item.ID); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	for i := 0; i < 2; i++ {
		_, err = svc.CancelOrder(context.Background(), customer(owner.ID), created.ID)
		if !errors.Is(err, ErrRequestValidation) || err.Error() != "order already cancelled" {
			t.Fatalf("expected order already cancelled, got %v", err)
		}
	}
	if got := stockOf(t, db, item.ID); got != 5 {
		t.Fatalf("expected stock to stay 5, got %d", got)
	}

	detail, err := svc.GetByID(context.Background(), customer(owner.ID), created.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if detail.CanceledAt == nil || detail.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected canceled order detail, got %+v", detail)
	}
}

func TestCancelOrderSkipsDeletedInventory(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "rex@example.com")
	product := createProductFixture(t, db, "Single", "Insect Queen")
	item := createStockFixture(t, db, product.ID, "1.00", 5)

	created, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
		Items:           []CreateOrderItem{{InventoryItemID: item.ID, Quantity: 1}},
		BillingAddress:  testAddress("A"),
		DeliveryAddress: testAddress("B"),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := db.Delete(&models.InventoryItem{}, item.ID).Error; err != nil {
		t.Fatalf("delete inventory failed: %v", err)
	}
	if _, err := svc.CancelOrder(context.Background(), customer(owner.ID), created.ID); err != nil {
		t.Fatalf("expected cancel to succeed without inventory row, got %v", err)
	}
}

func TestOrderAccessIsScopedToOwner(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "owner@example.com")
	other := createUserFixture(t, db, "other@example.com")
	product := createProductFixture(t, db, "Single", "Kuriboh")
	item := createStockFixture(t, db, product.ID, "0.50", 5)

	created, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
		Items:           []CreateOrderItem{{InventoryItemID: item.ID, Quantity: 1}},
		BillingAddress:  testAddress("A"),
		DeliveryAddress: testAddress("B"),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), customer(other.ID), created.ID); !errors.Is(err, ErrUserUnauthorized) {
		t.Fatalf("expected ErrUserUnauthorized for non-owner get, got %v", err)
	}
	if _, err := svc.CancelOrder(context.Background(), customer(other.ID), created.ID); !errors.Is(err, ErrUserUnauthorized) {
		t.Fatalf("expected ErrUserUnauthorized for non-owner cancel, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), admin(other.ID), created.ID); err != nil {
		t.Fatalf("expected admin to read order, got %v", err)
	}
	if _, err := svc.CancelOrder(context.Background(), admin(other.ID), created.ID); !errors.Is(err, ErrUserUnauthorized) {
		t.Fatalf("expected admin cancel to be rejected, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), customer(owner.ID), 999); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if got := stockOf(t, db, item.ID); got != 4 {
		t.Fatalf("expected reads and rejected cancels to leave stock at 4, got %d", got)
	}
}

func TestListByUserReturnsOnlyCallerOrdersNewestFirst(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "list@example.com")
	other := createUserFixture(t, db, "list-other@example.com")
	product := createProductFixture(t, db, "Single", "Mirror Force")
	item := createStockFixture(t, db, product.ID, "1.00", 20)

	place := func(userID uint) uint {
		resp, err := svc.CreateOrder(context.Background(), customer(userID), CreateOrderInput{
			Items:           []CreateOrderItem{{InventoryItemID: item.ID, Quantity: 1}},
			BillingAddress:  testAddress("A"),
			DeliveryAddress: testAddress("B"),
		})
		if err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		return resp.ID
	}
	firstID := place(owner.ID)
	place(other.ID)
	lastID := place(owner.ID)

	orders, total, err := svc.ListByUser(context.Background(), customer(owner.ID), PageQuery{})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders, got total=%d len=%d", total, len(orders))
	}
	if orders[0].ID != lastID || orders[1].ID != firstID {
		t.Fatalf("expected newest first, got %d then %d", orders[0].ID, orders[1].ID)
	}
	if orders[0].BillingAddress == nil || orders[0].DeliveryAddress == nil {
		t.Fatalf("expected split addresses in list entries")
	}
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "joey@example.com")
	product := createProductFixture(t, db, "Single", "Red-Eyes Black Dragon")
	item := createStockFixture(t, db, product.ID, "6.50", 5)

	const buyers = 20
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok           int
		insufficient int
		other        []error
	)
	start := make(chan struct{})
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
				Items:           []CreateOrderItem{{InventoryItemID: item.ID, Quantity: 1}},
				BillingAddress:  testAddress("A"),
				DeliveryAddress: testAddress("B"),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrResourceInsufficient):
				insufficient++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected order errors: %v", other)
	}
	if ok != 5 || insufficient != buyers-5 {
		t.Fatalf("expected 5 orders and %d rejections, got ok=%d insufficient=%d", buyers-5, ok, insufficient)
	}
	if got := stockOf(t, db, item.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
	var orders int64
	if err := db.Model(&models.Order{}).Where("user_id = ?", owner.ID).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != 5 {
		t.Fatalf("expected 5 persisted orders, got %d", orders)
	}
}

func TestConcurrentCancelsRestoreStockOnce(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestOrderService(t, db)
	owner := createUserFixture(t, db, "tea@example.com")
	product := createProductFixture(t, db, "Single", "Dark Magician Girl")
	item := createStockFixture(t, db, product.ID, "9.99", 6)

	created, err := svc.CreateOrder(context.Background(), customer(owner.ID), CreateOrderInput{
		Items:           []CreateOrderItem{{InventoryItemID: item.ID, Quantity: 4}},
		BillingAddress:  testAddress("A"),
		DeliveryAddress: testAddress("B"),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	const cancels = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		already   int
		other     []error
	)
	start := make(chan struct{})
	for i := 0; i < cancels; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.CancelOrder(context.Background(), customer(owner.ID), created.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrOrderAlreadyCancelled):
				already++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected cancel errors: %v", other)
	}
	if succeeded != 1 || already != cancels-1 {
		t.Fatalf("expected one cancel to win, got succeeded=%d already=%d", succeeded, already)
	}
	if got := stockOf(t, db, item.ID); got != 6 {
		t.Fatalf("expected stock restored exactly once to 6, got %d", got)
	}
}
