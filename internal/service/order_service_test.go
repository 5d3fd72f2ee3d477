package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"
)

func TestConfirmDeductsStockOnce(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Basmati Rice", "1kg", "10.00", 5)
	order := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 2})

	first, err := f.orders.Confirm(order.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if first.Noop || first.Order.Status != constants.OrderStatusConfirmed || !first.Order.StockDeducted {
		t.Fatalf("unexpected first confirm result: %+v", first)
	}
	if got := f.stockOf(t, variant.ID); got != 3 {
		t.Fatalf("expected stock 3 after confirm, got %d", got)
	}

	second, err := f.orders.Confirm(order.ID)
	if err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	if !second.Noop {
		t.Fatalf("second confirm must be a no-op")
	}
	if got := f.stockOf(t, variant.ID); got != 3 {
		t.Fatalf("stock must be deducted once, got %d", got)
	}

	movements, total, err := f.ledger.ListMovements(repository.StockMovementFilter{OrderID: order.ID})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 1 || movements[0].Kind != constants.StockMovementDeduct || movements[0].Delta != -2 || movements[0].StockAfter != 3 {
		t.Fatalf("unexpected movements: %+v", movements)
	}
}

func TestCancelAfterConfirmRestoresStock(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Basmati Rice", "1kg", "10.00", 5)
	order := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 2})

	if _, err := f.orders.Confirm(order.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	cancelled, err := f.orders.CancelOrder(order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Noop || cancelled.Order.Status != constants.OrderStatusCancelled || cancelled.Order.StockDeducted {
		t.Fatalf("unexpected cancel result: %+v", cancelled.Order)
	}
	if got := f.stockOf(t, variant.ID); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}

	again, err := f.orders.CancelOrder(order.ID)
	if err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if !again.Noop {
		t.Fatalf("second cancel must be a no-op")
	}
	if got := f.stockOf(t, variant.ID); got != 5 {
		t.Fatalf("stock must be restored once, got %d", got)
	}

	if _, err := f.orders.Confirm(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("confirming a cancelled order must fail, got %v", err)
	}
}

func TestCancelBeforeConfirmLeavesStock(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Moong Dal", "500g", "60.00", 4)
	order := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 3})

	if _, err := f.orders.CancelOrder(order.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := f.stockOf(t, variant.ID); got != 4 {
		t.Fatalf("cancel without deduction must not add stock, got %d", got)
	}
	_, total, err := f.ledger.ListMovements(repository.StockMovementFilter{OrderID: order.ID})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no movements, got %d", total)
	}
}

func TestConfirmInsufficientStockAbortsAllLines(t *testing.T) {
	f := setupOrderFixture(t)
	rice := f.seedVariant(t, "Basmati Rice", "1kg", "10.00", 10)
	oil := f.seedVariant(t, "Mustard Oil", "1L", "150.00", 3)
	order := f.placeOrder(t, 1,
		StockLine{VariantID: rice.ID, Quantity: 2},
		StockLine{VariantID: oil.ID, Quantity: 3},
	)
	// 结算后库存被其他渠道消耗
	if _, err := f.ledger.Adjust(oil.ID, -2, MovementRef{Reason: "damaged"}); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}

	_, err := f.orders.Confirm(order.ID)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected errors.Is ErrInsufficientStock")
	}
	if stockErr.VariantID != oil.ID || stockErr.Requested != 3 || stockErr.Available != 1 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}
	if stockErr.Label != "Mustard Oil 1L" {
		t.Fatalf("unexpected label: %s", stockErr.Label)
	}
	if got := f.stockOf(t, rice.ID); got != 10 {
		t.Fatalf("rice stock must be untouched, got %d", got)
	}
	if got := f.stockOf(t, oil.ID); got != 1 {
		t.Fatalf("oil stock must be untouched, got %d", got)
	}
	reloaded := f.reloadOrder(t, order.ID)
	if reloaded.Status != constants.OrderStatusCreated || reloaded.StockDeducted {
		t.Fatalf("order must stay created, got %s deducted=%v", reloaded.Status, reloaded.StockDeducted)
	}
}

func TestConcurrentConfirmLastUnit(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Alphonso Mango", "1pc", "90.00", 1)
	orderA := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 1})
	orderB := f.placeOrder(t, 2, StockLine{VariantID: variant.ID, Quantity: 1})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		short   int
	)
	for _, id := range []uint{orderA.ID, orderB.ID} {
		wg.Add(1)
		go func(orderID uint) {
			defer wg.Done()
			_, err := f.orders.Confirm(orderID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrInsufficientStock):
				short++
			default:
				t.Errorf("unexpected confirm error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if success != 1 || short != 1 {
		t.Fatalf("expected exactly one success, got success=%d insufficient=%d", success, short)
	}
	if got := f.stockOf(t, variant.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
}

func TestCancelRejectedAfterShipment(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Paneer", "200g", "90.00", 5)
	order := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 1})

	if _, err := f.orders.Ship(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("shipping an unconfirmed order must fail, got %v", err)
	}
	if _, err := f.orders.Confirm(order.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	shipped, err := f.orders.Ship(order.ID)
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if shipped.Order.ShippedAt == nil {
		t.Fatalf("expected shipped_at to be set")
	}
	if _, err := f.orders.CancelOrder(order.ID); !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("expected ErrOrderCancelNotAllowed after ship, got %v", err)
	}
	if _, err := f.orders.Deliver(order.ID); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if _, err := f.orders.CancelOrder(order.ID); !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("expected ErrOrderCancelNotAllowed after delivery, got %v", err)
	}
	if got := f.stockOf(t, variant.ID); got != 4 {
		t.Fatalf("stock must stay deducted, got %d", got)
	}
	again, err := f.orders.Deliver(order.ID)
	if err != nil || !again.Noop {
		t.Fatalf("repeated deliver must be a no-op, got %+v err=%v", again, err)
	}
}

func TestUserFacingTransitionsRequireOwnership(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Curd", "400g", "35.00", 5)
	order := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 1})

	if _, err := f.orders.ConfirmForUser(2, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign confirm, got %v", err)
	}
	if _, err := f.orders.CancelForUser(2, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign cancel, got %v", err)
	}
	if _, err := f.orders.GetOrderByUser(order.ID, 2); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign read, got %v", err)
	}
	if _, err := f.orders.ConfirmForUser(1, order.ID); err != nil {
		t.Fatalf("owner confirm failed: %v", err)
	}
	if _, err := f.orders.Confirm(999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for missing order, got %v", err)
	}
}

func TestCancelExpiredOrderOnlyTouchesStaleCreatedOrders(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Bread", "400g", "40.00", 5)
	fresh := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 1})

	result, err := f.orders.CancelExpiredOrder(fresh.ID)
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if !result.Noop || result.Order.Status != constants.OrderStatusCreated {
		t.Fatalf("fresh order must be left alone, got %+v", result.Order)
	}

	past := time.Now().Add(-time.Minute)
	if err := f.db.Model(&models.Order{}).Where("id = ?", fresh.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("expire order failed: %v", err)
	}
	result, err = f.orders.CancelExpiredOrder(fresh.ID)
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if result.Noop || result.Order.Status != constants.OrderStatusCancelled {
		t.Fatalf("expired order must be cancelled, got %+v", result.Order)
	}
}

func TestCancelExpiredOrdersSweep(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Curd", "400g", "35.00", 10)
	stale := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 1})
	fresh := f.placeOrder(t, 2, StockLine{VariantID: variant.ID, Quantity: 1})
	confirmed := f.placeOrder(t, 3, StockLine{VariantID: variant.ID, Quantity: 1})
	if _, err := f.orders.Confirm(confirmed.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	if err := f.db.Model(&models.Order{}).Where("id IN ?", []uint{stale.ID, confirmed.ID}).Update("expires_at", past).Error; err != nil {
		t.Fatalf("expire orders failed: %v", err)
	}

	cancelled, err := f.orders.CancelExpiredOrders(time.Now(), 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if cancelled != 1 {
		t.Fatalf("expected exactly one cancelled order, got %d", cancelled)
	}
	if got := f.reloadOrder(t, stale.ID).Status; got != constants.OrderStatusCancelled {
		t.Fatalf("stale order should be cancelled, got %s", got)
	}
	if got := f.reloadOrder(t, fresh.ID).Status; got != constants.OrderStatusCreated {
		t.Fatalf("fresh order should stay created, got %s", got)
	}
	if got := f.reloadOrder(t, confirmed.ID).Status; got != constants.OrderStatusConfirmed {
		t.Fatalf("confirmed order should be untouched, got %s", got)
	}
	if got := f.stockOf(t, variant.ID); got != 9 {
		t.Fatalf("only the confirmed order holds stock, want 9 got %d", got)
	}
}

func TestReadingExpiredOrderCancelsLazily(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Eggs", "12pcs", "84.00", 5)
	order := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 1})
	past := time.Now().Add(-time.Minute)
	if err := f.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("expire order failed: %v", err)
	}

	detail, err := f.orders.GetOrderByUser(order.ID, 1)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if detail.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected lazily cancelled order, got %s", detail.Status)
	}
}

// expireOrder 把订单支付期限改到过去
func (f *orderFixture) expireOrder(t *testing.T, orderID uint) {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	if err := f.db.Model(&models.Order{}).Where("id = ?", orderID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("expire order failed: %v", err)
	}
}

func TestConfirmRejectsExpiredOrder(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Paneer", "200g", "90.00", 5)
	order := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 2})
	f.expireOrder(t, order.ID)

	if _, err := f.orders.Confirm(order.ID); !errors.Is(err, ErrOrderExpired) {
		t.Fatalf("expected ErrOrderExpired, got %v", err)
	}
	if got := f.stockOf(t, variant.ID); got != 5 {
		t.Fatalf("expired order must not deduct stock, got %d", got)
	}
	reloaded := f.reloadOrder(t, order.ID)
	if reloaded.Status != constants.OrderStatusCancelled || reloaded.StockDeducted {
		t.Fatalf("expired order should be cancelled, got status=%s deducted=%v", reloaded.Status, reloaded.StockDeducted)
	}
}

func TestListOrdersByUserFiltersStatus(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Atta", "5kg", "250.00", 10)
	first := f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 1})
	f.placeOrder(t, 1, StockLine{VariantID: variant.ID, Quantity: 1})
	f.placeOrder(t, 2, StockLine{VariantID: variant.ID, Quantity: 1})
	if _, err := f.orders.Confirm(first.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	orders, total, err := f.orders.ListOrdersByUser(repository.OrderListFilter{UserID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders for user 1, got total=%d len=%d", total, len(orders))
	}
	confirmed, total, err := f.orders.ListOrdersByUser(repository.OrderListFilter{UserID: 1, Status: constants.OrderStatusConfirmed})
	if err != nil {
		t.Fatalf("list confirmed failed: %v", err)
	}
	if total != 1 || confirmed[0].ID != first.ID {
		t.Fatalf("unexpected confirmed list: %+v", confirmed)
	}
	all, total, err := f.orders.ListOrdersForAdmin(repository.OrderListFilter{})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("expected 3 orders for admin, got %d", total)
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{constants.OrderStatusCreated, constants.OrderStatusPaid, true},
		{constants.OrderStatusCreated, constants.OrderStatusShipped, false},
		{constants.OrderStatusPaid, constants.OrderStatusConfirmed, true},
		{constants.OrderStatusCODConfirmed, constants.OrderStatusCancelled, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusShipped, true},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled, false},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled, false},
		{constants.OrderStatusCancelled, constants.OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := isTransitionAllowed(tc.from, tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s want %v got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}
