package service

import (
	"errors"
	"testing"
)

func TestCartAddItemMergesQuantity(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Basmati Rice", "1kg", "10.00", 5)

	view, err := f.carts.GetCart(1)
	if err != nil {
		t.Fatalf("get empty cart failed: %v", err)
	}
	if view.CartID != 0 || len(view.Items) != 0 || view.Currency != "INR" {
		t.Fatalf("expected empty snapshot, got %+v", view)
	}

	if _, err := f.carts.AddItem(1, variant.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err = f.carts.AddItem(1, variant.ID, 1)
	if err != nil {
		t.Fatalf("re-add item failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %+v", view.Items)
	}
	if view.ItemCount != 3 || view.TotalAmount.String() != "30.00" {
		t.Fatalf("unexpected totals: count=%d total=%s", view.ItemCount, view.TotalAmount.String())
	}
	if !view.Items[0].Available || view.Items[0].ProductName != "Basmati Rice" {
		t.Fatalf("unexpected item detail: %+v", view.Items[0])
	}
	if got := f.stockOf(t, variant.ID); got != 5 {
		t.Fatalf("cart must not touch stock, got %d", got)
	}
}

func TestCartSoftStockCheckUsesCumulativeQuantity(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Cashew", "250g", "280.00", 3)

	if _, err := f.carts.AddItem(1, variant.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	_, err := f.carts.AddItem(1, variant.ID, 2)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Requested != 4 || stockErr.Available != 3 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}
	view, err := f.carts.GetCart(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if view.Items[0].Quantity != 2 {
		t.Fatalf("rejected add must not change quantity, got %d", view.Items[0].Quantity)
	}
}

func TestCartRejectsUnavailableVariantsAndBadQuantity(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Jaggery", "1kg", "70.00", 5)

	if _, err := f.carts.AddItem(1, 9999, 1); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound for missing variant, got %v", err)
	}
	if _, err := f.carts.AddItem(1, variant.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := f.carts.AddItem(1, variant.ID, 51); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity above limit, got %v", err)
	}
	if _, err := f.products.SetVariantActive(variant.ID, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := f.carts.AddItem(1, variant.ID, 1); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound for inactive variant, got %v", err)
	}
}

func TestCartItemOwnership(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Milk", "1L", "56.00", 20)
	view, err := f.carts.AddItem(1, variant.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	itemID := view.Items[0].ItemID

	if _, err := f.carts.UpdateItem(2, itemID, 2); !errors.Is(err, ErrCartItemNotOwned) {
		t.Fatalf("expected ErrCartItemNotOwned on update, got %v", err)
	}
	if _, err := f.carts.AddItem(2, variant.ID, 1); err != nil {
		t.Fatalf("add for second user failed: %v", err)
	}
	if _, err := f.carts.RemoveItem(2, itemID); !errors.Is(err, ErrCartItemNotOwned) {
		t.Fatalf("expected ErrCartItemNotOwned on remove, got %v", err)
	}
	if _, err := f.carts.UpdateItem(1, 424242, 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}

	view, err = f.carts.UpdateItem(1, itemID, 4)
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if view.Items[0].Quantity != 4 || view.TotalAmount.String() != "224.00" {
		t.Fatalf("unexpected cart after update: %+v", view)
	}
	view, err = f.carts.ClearCart(1)
	if err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}
	if len(view.Items) != 0 || view.CartID == 0 {
		t.Fatalf("expected empty active cart, got %+v", view)
	}
}

func TestCartTotalsFollowLivePrices(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Apple", "1kg", "120.00", 10)
	if _, err := f.carts.AddItem(1, variant.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := f.db.Table("product_variants").Where("id = ?", variant.ID).Update("price_amount", "99.50").Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	view, err := f.carts.GetCart(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if view.TotalAmount.String() != "199.00" {
		t.Fatalf("expected live total 199.00, got %s", view.TotalAmount.String())
	}
}

func TestCartConcurrentAddMergeRespectsQuantityLimit(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Wheat Flour", "1kg", "52.00", 200)

	view, err := f.carts.AddItem(1, variant.ID, 30)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	uniqueErr := errors.New("UNIQUE constraint failed: cart_items.cart_id, cart_items.variant_id")

	// 另一请求已写入同一规格，本次 CreateItem 撞上唯一索引
	if err := f.carts.mergeRacedItem(view.CartID, &variant, 25, uniqueErr); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity when merge exceeds limit, got %v", err)
	}
	if err := f.carts.mergeRacedItem(view.CartID, &variant, 5, uniqueErr); err != nil {
		t.Fatalf("merge within limit failed: %v", err)
	}
	view, err = f.carts.GetCart(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 35 {
		t.Fatalf("expected merged quantity 35, got %+v", view.Items)
	}
}
