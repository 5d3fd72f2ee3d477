package repository

import (
	"testing"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
)

func TestPaymentCreateIfAbsentCollapsesDuplicateKey(t *testing.T) {
	db := openRepositoryTestDB(t, "payment_idempotent")
	repo := NewPaymentRepository(db)

	first := &models.Payment{
		OrderID:        1,
		Method:         constants.PaymentMethodUPI,
		Status:         constants.PaymentStatusSuccess,
		Amount:         models.MustMoney("20.00"),
		Currency:       "INR",
		IdempotencyKey: "order-payment:1",
	}
	created, err := repo.CreateIfAbsent(first)
	if err != nil || !created {
		t.Fatalf("expected first insert, created=%v err=%v", created, err)
	}

	dup := &models.Payment{
		OrderID:        1,
		Method:         constants.PaymentMethodCard,
		Status:         constants.PaymentStatusSuccess,
		Amount:         models.MustMoney("20.00"),
		Currency:       "INR",
		IdempotencyKey: "order-payment:1",
	}
	created, err = repo.CreateIfAbsent(dup)
	if err != nil {
		t.Fatalf("duplicate insert should not error: %v", err)
	}
	if created {
		t.Fatalf("duplicate key must not create a second payment")
	}

	payments, err := repo.ListByOrder(1)
	if err != nil {
		t.Fatalf("list payments failed: %v", err)
	}
	if len(payments) != 1 || payments[0].Method != constants.PaymentMethodUPI {
		t.Fatalf("unexpected payments: %+v", payments)
	}
}
