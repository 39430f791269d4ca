package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/domain"
)

func TestInvoiceCreateMapsDuplicateNumber(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO invoices").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})
	mockPool.ExpectRollback()

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inv := &domain.Invoice{
		ID:        "inv-1",
		Number:    "INV-001",
		Customer:  "Pak Budi",
		Date:      time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(175000),
		Status:    domain.InvoiceStatusUnpaid,
		OwnerID:   "owner-1",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	repo := NewInvoiceRepository(nil)
	err = repo.Create(context.Background(), tx, inv, nil)
	if !errors.Is(err, domain.ErrInvoiceNumberTaken) {
		t.Fatalf("expected ErrInvoiceNumberTaken, got %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	assertExpectations(t, mockPool)
}
