package repository

import (
	"testing"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/gorm"
)

func seedVariant(t *testing.T, db *gorm.DB, productActive, variantActive bool, stock int) *models.ProductVariant {
	t.Helper()
	product := &models.Product{Name: "Sona Masoori Rice", Category: "grains", IsActive: productActive}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := &models.ProductVariant{
		ProductID:   product.ID,
		Label:       "1kg",
		Value:       1,
		Unit:        constants.UnitKilogram,
		PriceAmount: models.MustMoney("72.50"),
		Stock:       stock,
		IsActive:    variantActive,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func TestUniqueSortedIDs(t *testing.T) {
	got := uniqueSortedIDs([]uint{9, 3, 0, 9, 1, 3})
	want := []uint{1, 3, 9}
	if len(got) != len(want) {
		t.Fatalf("unexpected ids: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected ids: %+v", got)
		}
	}
}

func TestLockByIDsReturnsAscendingAndSkipsMissing(t *testing.T) {
	db := openRepositoryTestDB(t, "variant_lock")
	repo := NewProductVariantRepository(db)
	a := seedVariant(t, db, true, true, 5)
	b := seedVariant(t, db, true, true, 7)

	locked, err := repo.LockByIDs([]uint{b.ID, 9999, a.ID, b.ID})
	if err != nil {
		t.Fatalf("lock variants failed: %v", err)
	}
	if len(locked) != 2 {
		t.Fatalf("expected 2 locked variants, got %d", len(locked))
	}
	if locked[0].ID != a.ID || locked[1].ID != b.ID {
		t.Fatalf("expected ascending lock order, got %d,%d", locked[0].ID, locked[1].ID)
	}
	if locked[0].Product == nil || locked[0].Product.Name == "" {
		t.Fatalf("expected product preloaded")
	}
}

func TestDecrementStockGuardsNegative(t *testing.T) {
	db := openRepositoryTestDB(t, "variant_decrement")
	repo := NewProductVariantRepository(db)
	variant := seedVariant(t, db, true, true, 2)

	affected, err := repo.DecrementStock(variant.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected no rows affected when stock is short")
	}
	affected, err = repo.DecrementStock(variant.ID, 2)
	if err != nil || affected != 1 {
		t.Fatalf("expected decrement to succeed, affected=%d err=%v", affected, err)
	}
	if _, err := repo.IncrementStock(variant.ID, 4); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	reloaded, err := repo.GetByID(variant.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.Stock != 4 {
		t.Fatalf("expected stock 4, got %d", reloaded.Stock)
	}
	if _, err := repo.DecrementStock(variant.ID, 0); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestUpdateFieldsIgnoresStock(t *testing.T) {
	db := openRepositoryTestDB(t, "variant_update_fields")
	repo := NewProductVariantRepository(db)
	variant := seedVariant(t, db, true, true, 3)

	if err := repo.UpdateFields(variant.ID, map[string]interface{}{"label": "1kg pack", "stock": 999}); err != nil {
		t.Fatalf("update fields failed: %v", err)
	}
	reloaded, _ := repo.GetByID(variant.ID)
	if reloaded.Label != "1kg pack" {
		t.Fatalf("label not updated: %s", reloaded.Label)
	}
	if reloaded.Stock != 3 {
		t.Fatalf("stock must not change through UpdateFields, got %d", reloaded.Stock)
	}
}

func TestGetActiveByIDRequiresActiveProductAndVariant(t *testing.T) {
	db := openRepositoryTestDB(t, "variant_active")
	repo := NewProductVariantRepository(db)

	active := seedVariant(t, db, true, true, 1)
	inactiveVariant := seedVariant(t, db, true, false, 1)
	inactiveProduct := seedVariant(t, db, false, true, 1)

	if got, err := repo.GetActiveByID(active.ID); err != nil || got == nil {
		t.Fatalf("expected active variant, got=%v err=%v", got, err)
	}
	if got, _ := repo.GetActiveByID(inactiveVariant.ID); got != nil {
		t.Fatalf("inactive variant should not be returned")
	}
	if got, _ := repo.GetActiveByID(inactiveProduct.ID); got != nil {
		t.Fatalf("variant of inactive product should not be returned")
	}
}
