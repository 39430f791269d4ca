package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/infrastructure/metrics"
)

// InvoiceUseCase handles invoice business logic.
type InvoiceUseCase struct {
	txManager       TransactionManager
	invoiceRepo     InvoiceRepository
	transactionRepo TransactionRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
	retrier         Retrier
}

// NewInvoiceUseCase creates a new InvoiceUseCase.
func NewInvoiceUseCase(
	txManager TransactionManager,
	invoiceRepo InvoiceRepository,
	transactionRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txManager:       txManager,
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// WithRetrier makes the use case retry its transactional writes on
// transient database errors.
func (uc *InvoiceUseCase) WithRetrier(r Retrier) *InvoiceUseCase {
	uc.retrier = r
	return uc
}

// InvoiceItemInput is one line item on a new invoice.
type InvoiceItemInput struct {
	Name      string
	Note      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateInvoiceInput represents input for creating an invoice.
type CreateInvoiceInput struct {
	Number   string
	Customer string
	Date     time.Time
	// Amount is only consulted when Items is empty; with items the
	// invoice amount is always the sum of the item subtotals.
	Amount decimal.Decimal
	Items  []InvoiceItemInput
}

// CreateInvoice creates an invoice with its line items. All invoices
// start unpaid.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, session *domain.Session, input CreateInvoiceInput) (*domain.Invoice, []*domain.InvoiceItem, error) {
	now := time.Now().UTC()

	inv := &domain.Invoice{
		ID:        uc.idGen.Generate(),
		Number:    input.Number,
		Customer:  input.Customer,
		Date:      input.Date,
		Amount:    input.Amount,
		Status:    domain.InvoiceStatusUnpaid,
		OwnerID:   session.OwnerID,
		BranchID:  session.BranchID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	items := make([]*domain.InvoiceItem, 0, len(input.Items))
	for _, in := range input.Items {
		item := &domain.InvoiceItem{
			ID:        uc.idGen.Generate(),
			InvoiceID: inv.ID,
			Name:      in.Name,
			Note:      in.Note,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		}
		item.ComputeSubtotal()
		if err := item.Validate(); err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	if len(items) > 0 {
		inv.Amount = domain.AmountFromItems(items)
	}

	if err := inv.Validate(); err != nil {
		return nil, nil, err
	}

	taken, err := uc.invoiceRepo.NumberExists(ctx, session.OwnerID, inv.Number)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, domain.ErrInvoiceNumberTaken
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   inv.ID,
		AggregateType: domain.AggregateTypeInvoice,
		EventType:     domain.EventTypeInvoiceCreated,
		Payload: map[string]any{
			"invoice_id": inv.ID,
			"number":     inv.Number,
			"customer":   inv.Customer,
			"amount":     inv.Amount.String(),
		},
		CreatedAt: now,
		Published: false,
	}

	persist := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := uc.invoiceRepo.Create(txCtx, tx, inv, items); err != nil {
			return err
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}
		return tx.Commit(txCtx)
	}
	if err := runWithRetry(ctx, uc.retrier, persist); err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.InvoicesCreated.Inc()
	}

	return inv, items, nil
}

// InvoiceDetail is an invoice with its line items and the transactions
// that reference it (the settling entries).
type InvoiceDetail struct {
	Invoice     *domain.Invoice
	Items       []*domain.InvoiceItem
	Settlements []*domain.Transaction
}

// GetInvoice retrieves an invoice with items and linked transactions. An
// invoice belonging to another owner is reported as not found.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, session *domain.Session, id string) (*InvoiceDetail, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.OwnerID != session.OwnerID {
		return nil, domain.ErrInvoiceNotFound
	}

	items, err := uc.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	settlements, err := uc.transactionRepo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	return &InvoiceDetail{Invoice: inv, Items: items, Settlements: settlements}, nil
}

// ListInvoicesInput represents input for listing invoices.
type ListInvoicesInput struct {
	Status *domain.InvoiceStatus
	Limit  int
	Offset int
}

// ListInvoices lists the session owner's invoices, newest first.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, session *domain.Session, input ListInvoicesInput) ([]*domain.Invoice, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.invoiceRepo.List(ctx, InvoiceFilter{
		OwnerID:  session.OwnerID,
		BranchID: session.BranchID,
		Status:   input.Status,
		Limit:    limit,
		Offset:   offset,
	})
}

// ListUnpaid lists the owner's unpaid invoices, used by the transaction
// form's invoice linkage dropdown.
func (uc *InvoiceUseCase) ListUnpaid(ctx context.Context, session *domain.Session) ([]*domain.Invoice, error) {
	status := domain.InvoiceStatusUnpaid
	return uc.ListInvoices(ctx, session, ListInvoicesInput{Status: &status})
}

// MarkPaid transitions an invoice from unpaid to paid. Calling it on an
// already paid invoice is a no-op that returns the invoice unchanged; no
// reverse transition exists.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, session *domain.Session, id string) (*domain.Invoice, error) {
	var (
		inv          *domain.Invoice
		transitioned bool
	)

	settle := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		inv, err = uc.invoiceRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}
		if inv.OwnerID != session.OwnerID {
			return domain.ErrInvoiceNotFound
		}

		now := time.Now().UTC()
		if !inv.MarkPaid(now) {
			// Already paid: nothing to write.
			transitioned = false
			return nil
		}

		if err := uc.invoiceRepo.UpdateStatus(txCtx, tx, inv.ID, domain.InvoiceStatusPaid, now); err != nil {
			return err
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   inv.ID,
			AggregateType: domain.AggregateTypeInvoice,
			EventType:     domain.EventTypeInvoicePaid,
			Payload: map[string]any{
				"invoice_id": inv.ID,
				"number":     inv.Number,
				"customer":   inv.Customer,
				"amount":     inv.Amount.String(),
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}
		transitioned = true
		return nil
	}
	if err := runWithRetry(ctx, uc.retrier, settle); err != nil {
		return nil, err
	}

	if transitioned && uc.metrics != nil {
		uc.metrics.InvoicesPaid.Inc()
	}

	return inv, nil
}

// PrefillFromInvoice builds the transaction form defaults for settling an
// invoice: a sale description, the cash sale category with its
// conventional kind, and the invoice amount.
func (uc *InvoiceUseCase) PrefillFromInvoice(ctx context.Context, session *domain.Session, invoiceID string) (*RecordTransactionInput, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.OwnerID != session.OwnerID {
		return nil, domain.ErrInvoiceNotFound
	}

	kind, _ := domain.CategoryPenjualanTunai.ConventionalKind()

	return &RecordTransactionInput{
		Date:        inv.Date,
		Description: fmt.Sprintf("Penjualan - %s (%s)", inv.Customer, inv.Number),
		Category:    domain.CategoryPenjualanTunai,
		Kind:        kind,
		Amount:      inv.Amount,
		InvoiceID:   &inv.ID,
	}, nil
}
