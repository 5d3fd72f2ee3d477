package service

import (
	"errors"
	"testing"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/shopspring/decimal"
)

func TestProductCreateRecordsInitialStock(t *testing.T) {
	f := setupOrderFixture(t)
	product, err := f.products.Create(ProductInput{
		Name:     "  Sona Masoori Rice ",
		Category: "Staples",
		Variants: []VariantInput{
			{Label: "5kg", Value: 5, Unit: "kg", Price: decimal.RequireFromString("349"), InitialStock: 12},
			{Label: "10kg", Value: 10, Unit: "KG", Price: decimal.RequireFromString("679.5")},
		},
	}, 1)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.Name != "Sona Masoori Rice" || product.Category != "staples" || !product.IsActive {
		t.Fatalf("unexpected product: %+v", product)
	}
	if len(product.Variants) != 2 || product.Variants[0].Unit != constants.UnitKilogram {
		t.Fatalf("unexpected variants: %+v", product.Variants)
	}
	if product.Variants[1].PriceAmount.String() != "679.50" {
		t.Fatalf("unexpected price: %s", product.Variants[1].PriceAmount.String())
	}

	movements, total, err := f.products.ListStockMovements(repository.StockMovementFilter{VariantID: product.Variants[0].ID})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 1 || movements[0].Delta != 12 || movements[0].AdminID == nil || *movements[0].AdminID != 1 {
		t.Fatalf("unexpected initial stock movement: %+v", movements)
	}
	_, total, err = f.products.ListStockMovements(repository.StockMovementFilter{VariantID: product.Variants[1].ID})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("zero stock variant must not write movements, got %d", total)
	}
}

func TestProductValidation(t *testing.T) {
	f := setupOrderFixture(t)
	if _, err := f.products.Create(ProductInput{Name: " "}, 0); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("expected ErrProductInvalid, got %v", err)
	}
	_, err := f.products.Create(ProductInput{
		Name:     "Honey",
		Variants: []VariantInput{{Label: "500g", Value: 500, Unit: "jar", Price: decimal.NewFromInt(200)}},
	}, 0)
	if !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected ErrVariantInvalid for unit, got %v", err)
	}
	_, err = f.products.Create(ProductInput{
		Name:     "Honey",
		Variants: []VariantInput{{Label: "500g", Value: 500, Unit: "G", Price: decimal.Zero}},
	}, 0)
	if !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected ErrVariantInvalid for price, got %v", err)
	}
}

func TestPublicCatalogHidesInactiveVariants(t *testing.T) {
	f := setupOrderFixture(t)
	inactive := false
	product, err := f.products.Create(ProductInput{
		Name:     "Green Tea",
		Category: "beverages",
		Variants: []VariantInput{
			{Label: "100g", Value: 100, Unit: "G", Price: decimal.NewFromInt(150), InitialStock: 5},
			{Label: "250g", Value: 250, Unit: "G", Price: decimal.NewFromInt(320), InitialStock: 5, IsActive: &inactive},
		},
	}, 0)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	public, err := f.products.GetPublic(product.ID)
	if err != nil {
		t.Fatalf("get public failed: %v", err)
	}
	if len(public.Variants) != 1 || public.Variants[0].Label != "100g" {
		t.Fatalf("expected only active variant, got %+v", public.Variants)
	}
	admin, err := f.products.GetAdmin(product.ID)
	if err != nil {
		t.Fatalf("get admin failed: %v", err)
	}
	if len(admin.Variants) != 2 {
		t.Fatalf("admin view must include all variants, got %d", len(admin.Variants))
	}

	items, total, err := f.products.ListPublic("beverages", "tea", 1, 20)
	if err != nil {
		t.Fatalf("list public failed: %v", err)
	}
	if total != 1 || items[0].ID != product.ID {
		t.Fatalf("unexpected public list: total=%d", total)
	}

	if err := f.products.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.products.GetPublic(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestAdjustStockThroughLedger(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Potato", "1kg", "30.00", 4)

	updated, err := f.products.AdjustStock(variant.ID, 6, "", 9)
	if err != nil {
		t.Fatalf("adjust up failed: %v", err)
	}
	if updated.Stock != 10 {
		t.Fatalf("expected stock 10, got %d", updated.Stock)
	}
	_, err = f.products.AdjustStock(variant.ID, -11, "audit", 9)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected negative result to be rejected, got %v", err)
	}
	if got := f.stockOf(t, variant.ID); got != 10 {
		t.Fatalf("rejected adjust must not change stock, got %d", got)
	}
	if _, err := f.products.AdjustStock(variant.ID, 0, "noop", 9); !errors.Is(err, ErrStockAdjustInvalid) {
		t.Fatalf("expected ErrStockAdjustInvalid for zero delta, got %v", err)
	}

	movements, total, err := f.products.ListStockMovements(repository.StockMovementFilter{VariantID: variant.ID, Kind: constants.StockMovementAdjust})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 1 || movements[0].Reason != "manual adjustment" || movements[0].StockAfter != 10 {
		t.Fatalf("unexpected adjust movements: %+v", movements)
	}
}

func TestUpdateVariantKeepsStock(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Chana", "1kg", "90.00", 7)
	updated, err := f.products.UpdateVariant(variant.ID, VariantInput{Label: "1 kg", Value: 1, Unit: "kg", Price: decimal.RequireFromString("95.25")})
	if err != nil {
		t.Fatalf("update variant failed: %v", err)
	}
	if updated.Label != "1 kg" || updated.PriceAmount.String() != "95.25" || updated.Stock != 7 {
		t.Fatalf("unexpected variant after update: %+v", updated)
	}
}
