package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/usecase"
)

// InvoiceRepository implements usecase.InvoiceRepository.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `id, number, customer, date, amount, status, owner_id, branch_id, created_at, updated_at`

// Create inserts an invoice with its line items within a database
// transaction.
func (r *InvoiceRepository) Create(ctx context.Context, tx usecase.Transaction, inv *domain.Invoice, items []*domain.InvoiceItem) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO invoices (id, number, customer, date, amount, status, owner_id, branch_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxTx.Exec(ctx, query,
		inv.ID,
		inv.Number,
		inv.Customer,
		inv.Date,
		inv.Amount,
		inv.Status,
		inv.OwnerID,
		inv.BranchID,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		// The use case prechecks the number, but a racing insert can
		// still trip the owner/number constraint.
		if isUniqueViolation(err) {
			return domain.ErrInvoiceNumberTaken
		}
		return err
	}

	itemQuery := `
		INSERT INTO invoice_items (id, invoice_id, name, note, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range items {
		_, err := pgxTx.Exec(ctx, itemQuery,
			item.ID,
			item.InvoiceID,
			item.Name,
			item.Note,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	return inv, nil
}

// GetByIDForUpdate retrieves an invoice by ID with a row lock, for the
// status transition.
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invoice, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`

	inv, err := scanInvoice(pgxTx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	return inv, nil
}

// GetItems retrieves an invoice's line items in insertion order.
func (r *InvoiceRepository) GetItems(ctx context.Context, invoiceID string) ([]*domain.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, name, note, quantity, unit_price, subtotal
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.InvoiceItem, 0)
	for rows.Next() {
		var item domain.InvoiceItem
		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Name,
			&item.Note,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

// List retrieves invoices matching the filter, newest first.
func (r *InvoiceRepository) List(ctx context.Context, filter usecase.InvoiceFilter) ([]*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE owner_id = $1`
	args := []any{filter.OwnerID}

	if filter.BranchID != nil {
		args = append(args, *filter.BranchID)
		query += fmt.Sprintf(` AND (branch_id = $%d OR branch_id IS NULL)`, len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	query += ` ORDER BY date DESC, created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

// NumberExists reports whether the owner already has an invoice with the
// number.
func (r *InvoiceRepository) NumberExists(ctx context.Context, ownerID, number string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM invoices WHERE owner_id = $1 AND number = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, ownerID, number).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// UpdateStatus updates an invoice's status within a database transaction.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.InvoiceStatus, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}

	return nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.Customer,
		&inv.Date,
		&inv.Amount,
		&inv.Status,
		&inv.OwnerID,
		&inv.BranchID,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
