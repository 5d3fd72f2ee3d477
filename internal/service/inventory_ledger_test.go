package service

import (
	"errors"
	"testing"
)

func TestMergeStockLines(t *testing.T) {
	merged, ids, err := mergeStockLines([]StockLine{
		{VariantID: 9, Quantity: 1},
		{VariantID: 3, Quantity: 2},
		{VariantID: 9, Quantity: 4},
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 9 {
		t.Fatalf("expected ascending ids [3 9], got %v", ids)
	}
	if merged[9] != 5 || merged[3] != 2 {
		t.Fatalf("unexpected merged quantities: %v", merged)
	}
	if _, _, err := mergeStockLines([]StockLine{{VariantID: 1, Quantity: 0}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestReserveDeductAndRestore(t *testing.T) {
	f := setupOrderFixture(t)
	variant := f.seedVariant(t, "Rajma", "1kg", "140.00", 2)

	if err := f.ledger.ReserveDeduct(variant.ID, 2); err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	err := f.ledger.ReserveDeduct(variant.ID, 1)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) || stockErr.Available != 0 {
		t.Fatalf("expected InsufficientStockError with 0 available, got %v", err)
	}
	if got := f.stockOf(t, variant.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
	if err := f.ledger.Restore(variant.ID, 3); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if got := f.stockOf(t, variant.ID); got != 3 {
		t.Fatalf("expected stock 3, got %d", got)
	}
	if err := f.ledger.ReserveDeduct(777, 1); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{VariantID: 4, Label: "Basmati Rice 1kg", Requested: 3, Available: 1}
	if err.Error() != "insufficient stock for Basmati Rice 1kg: only 1 available" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
