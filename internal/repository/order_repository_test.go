package repository

import (
	"testing"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
)

func TestOrderCreateAndListFilters(t *testing.T) {
	db := openRepositoryTestDB(t, "order_list")
	repo := NewOrderRepository(db)

	for i, status := range []string{constants.OrderStatusCreated, constants.OrderStatusConfirmed, constants.OrderStatusCreated} {
		userID := uint(1)
		if i == 2 {
			userID = 2
		}
		order := &models.Order{
			OrderNo:     "GR-TEST-" + string(rune('A'+i)),
			UserID:      userID,
			CartID:      uint(i + 1),
			Status:      status,
			Currency:    "INR",
			TotalAmount: models.MustMoney("20.00"),
		}
		items := []models.OrderItem{{
			VariantID:    1,
			ProductID:    1,
			ProductName:  "Atta",
			VariantLabel: "5kg",
			UnitPrice:    models.MustMoney("10.00"),
			Quantity:     2,
			ItemTotal:    models.MustMoney("20.00"),
		}}
		if err := repo.Create(order, items); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
		if len(order.Items) != 1 || order.Items[0].OrderID != order.ID {
			t.Fatalf("items not linked to order: %+v", order.Items)
		}
	}

	orders, total, err := repo.ListByUser(OrderListFilter{UserID: 1, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("expected 2 orders for user 1, got total=%d len=%d", total, len(orders))
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("expected items preloaded")
	}

	orders, total, err = repo.ListAdmin(OrderListFilter{Status: constants.OrderStatusCreated, Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 2 || len(orders) != 1 {
		t.Fatalf("expected paged admin result, got total=%d len=%d", total, len(orders))
	}

	if _, _, err := repo.ListByUser(OrderListFilter{}); err == nil {
		t.Fatalf("list by user without user id should fail")
	}
}

func TestOrderLockByIDLoadsItems(t *testing.T) {
	db := openRepositoryTestDB(t, "order_lock")
	repo := NewOrderRepository(db)
	order := &models.Order{OrderNo: "GR-LOCK-1", UserID: 1, CartID: 1, Status: constants.OrderStatusCreated, Currency: "INR"}
	if err := repo.Create(order, []models.OrderItem{{VariantID: 4, ProductID: 1, ProductName: "Ghee", VariantLabel: "1L", Quantity: 1}}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	locked, err := repo.LockByID(order.ID)
	if err != nil || locked == nil {
		t.Fatalf("lock order failed: %v", err)
	}
	if len(locked.Items) != 1 || locked.Items[0].VariantID != 4 {
		t.Fatalf("expected locked order items, got %+v", locked.Items)
	}
	missing, err := repo.LockByID(9999)
	if err != nil || missing != nil {
		t.Fatalf("missing order should return nil,nil got %+v %v", missing, err)
	}
}
