package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/infrastructure/metrics"
)

// TransactionUseCase handles cash book entries.
type TransactionUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	invoiceRepo     InvoiceRepository
	outboxRepo      OutboxRepository
	cache           Cache
	idGen           IDGenerator
	metrics         *metrics.Metrics
	retrier         Retrier
}

// WithRetrier makes the use case retry its transactional writes on
// transient database errors.
func (uc *TransactionUseCase) WithRetrier(r Retrier) *TransactionUseCase {
	uc.retrier = r
	return uc
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	invoiceRepo InvoiceRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		outboxRepo:      outboxRepo,
		cache:           cache,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// RecordTransactionInput represents input for recording a transaction.
type RecordTransactionInput struct {
	Date        time.Time
	Description string
	Category    domain.Category
	Kind        domain.Kind
	Amount      decimal.Decimal
	InvoiceID   *string
}

// RecordResult is a recorded transaction plus whether it references an
// invoice. A referenced invoice is considered settled by convention, so
// the caller surfaces a settlement notice; the invoice's status field is
// NOT transitioned here and must be updated through MarkInvoicePaid.
type RecordResult struct {
	Transaction    *domain.Transaction
	SettledInvoice bool
}

// Record validates and persists a new transaction for the session owner.
func (uc *TransactionUseCase) Record(ctx context.Context, session *domain.Session, input RecordTransactionInput) (*RecordResult, error) {
	now := time.Now().UTC()

	tr := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		Date:        input.Date,
		Description: input.Description,
		Category:    input.Category,
		Kind:        input.Kind,
		Amount:      input.Amount,
		InvoiceID:   normalizeRef(input.InvoiceID),
		OwnerID:     session.OwnerID,
		BranchID:    session.BranchID,
		CreatedAt:   now,
	}

	if err := tr.Validate(); err != nil {
		return nil, err
	}

	// A dangling invoice reference would silently break the settlement
	// convention, so resolve it up front.
	if tr.SettlesInvoice() {
		inv, err := uc.invoiceRepo.GetByID(ctx, *tr.InvoiceID)
		if err != nil {
			return nil, err
		}
		if inv.OwnerID != session.OwnerID {
			return nil, domain.ErrInvoiceNotFound
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   tr.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionCreated,
		Payload: map[string]any{
			"transaction_id": tr.ID,
			"owner_id":       tr.OwnerID,
			"category":       string(tr.Category),
			"kind":           string(tr.Kind),
			"amount":         tr.Amount.String(),
			"date":           tr.Date.Format("2006-01-02"),
		},
		CreatedAt: now,
		Published: false,
	}
	if tr.InvoiceID != nil {
		event.Payload["invoice_id"] = *tr.InvoiceID
	}

	persist := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := uc.transactionRepo.Create(txCtx, tx, tr); err != nil {
			return err
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}
		return tx.Commit(txCtx)
	}
	if err := runWithRetry(ctx, uc.retrier, persist); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsRecorded.Inc()
	}
	uc.invalidateSummary(ctx, session)

	return &RecordResult{Transaction: tr, SettledInvoice: tr.SettlesInvoice()}, nil
}

// Get retrieves a transaction by ID. A transaction belonging to another
// owner is reported as not found.
func (uc *TransactionUseCase) Get(ctx context.Context, session *domain.Session, id string) (*domain.Transaction, error) {
	tr, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr.OwnerID != session.OwnerID {
		return nil, domain.ErrTransactionNotFound
	}
	return tr, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// List lists the session owner's transactions, newest first, applying the
// branch visibility rule when the session carries a branch.
func (uc *TransactionUseCase) List(ctx context.Context, session *domain.Session, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transactionRepo.List(ctx, TransactionFilter{
		OwnerID:  session.OwnerID,
		BranchID: session.BranchID,
		From:     input.From,
		To:       input.To,
		Limit:    limit,
		Offset:   offset,
	})
}

// Delete removes a transaction. Deleting a transaction never cascades to
// a linked invoice's status: there is no reverse transition.
func (uc *TransactionUseCase) Delete(ctx context.Context, session *domain.Session, id string) error {
	tr, err := uc.Get(ctx, session, id)
	if err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   tr.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionDeleted,
		Payload: map[string]any{
			"transaction_id": tr.ID,
			"owner_id":       tr.OwnerID,
			"amount":         tr.Amount.String(),
		},
		CreatedAt: time.Now().UTC(),
		Published: false,
	}

	remove := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := uc.transactionRepo.Delete(txCtx, tx, tr.ID); err != nil {
			return err
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}
		return tx.Commit(txCtx)
	}
	if err := runWithRetry(ctx, uc.retrier, remove); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}
	uc.invalidateSummary(ctx, session)

	return nil
}

// invalidateSummary drops the cached dashboard summary after a write.
// Best effort: a failed invalidation only means a slightly stale summary
// until the TTL expires.
func (uc *TransactionUseCase) invalidateSummary(ctx context.Context, session *domain.Session) {
	if uc.cache == nil {
		return
	}
	for _, key := range summaryCacheKeys(session) {
		_ = uc.cache.Delete(ctx, key)
	}
}

func normalizeRef(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	return ref
}
