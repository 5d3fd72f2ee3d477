package repository

import (
	"testing"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
)

func TestCartActiveUniquePerUser(t *testing.T) {
	db := openRepositoryTestDB(t, "cart_active_unique")
	repo := NewCartRepository(db)

	first := &models.Cart{UserID: 7, Status: constants.CartStatusActive}
	if err := repo.CreateCart(first); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.CreateCart(&models.Cart{UserID: 7, Status: constants.CartStatusActive}); err == nil {
		t.Fatalf("second active cart for same user should violate unique index")
	}

	affected, err := repo.MarkCheckedOut(first.ID)
	if err != nil || affected != 1 {
		t.Fatalf("mark checked out failed: affected=%d err=%v", affected, err)
	}
	affected, err = repo.MarkCheckedOut(first.ID)
	if err != nil || affected != 0 {
		t.Fatalf("checked out cart must not transition again: affected=%d err=%v", affected, err)
	}

	if err := repo.CreateCart(&models.Cart{UserID: 7, Status: constants.CartStatusActive}); err != nil {
		t.Fatalf("new active cart after checkout should be allowed: %v", err)
	}
	active, err := repo.GetActiveByUser(7)
	if err != nil || active == nil || active.ID == first.ID {
		t.Fatalf("expected a fresh active cart, got=%+v err=%v", active, err)
	}
}

func TestCartItemUniquePerVariant(t *testing.T) {
	db := openRepositoryTestDB(t, "cart_item_unique")
	repo := NewCartRepository(db)
	cart := &models.Cart{UserID: 1, Status: constants.CartStatusActive}
	if err := repo.CreateCart(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.CreateItem(&models.CartItem{CartID: cart.ID, VariantID: 3, Quantity: 1}); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if err := repo.CreateItem(&models.CartItem{CartID: cart.ID, VariantID: 3, Quantity: 2}); err == nil {
		t.Fatalf("duplicate variant line should violate unique index")
	}
	item, err := repo.GetItemByVariant(cart.ID, 3)
	if err != nil || item == nil || item.Quantity != 1 {
		t.Fatalf("unexpected item: %+v err=%v", item, err)
	}
	if err := repo.ClearItems(cart.ID); err != nil {
		t.Fatalf("clear items failed: %v", err)
	}
	items, _ := repo.ListItems(cart.ID)
	if len(items) != 0 {
		t.Fatalf("expected empty cart after clear, got %d", len(items))
	}
}
