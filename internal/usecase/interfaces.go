package usecase

import (
	"context"
	"time"

	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/report"
)

// TransactionFilter scopes a transaction query. OwnerID is mandatory;
// when BranchID is set the query returns that branch's rows plus rows
// recorded without a branch, matching the branch visibility rule.
type TransactionFilter struct {
	OwnerID  string
	BranchID *string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*domain.Transaction, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// InvoiceFilter scopes an invoice query.
type InvoiceFilter struct {
	OwnerID  string
	BranchID *string
	Status   *domain.InvoiceStatus
	Limit    int
	Offset   int
}

// InvoiceRepository defines data access for invoices and their items.
type InvoiceRepository interface {
	Create(ctx context.Context, tx Transaction, inv *domain.Invoice, items []*domain.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*domain.InvoiceItem, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*domain.Invoice, error)
	NumberExists(ctx context.Context, ownerID, number string) (bool, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.InvoiceStatus, updatedAt time.Time) error
}

// ProfileRepository defines data access for business profiles.
type ProfileRepository interface {
	Get(ctx context.Context, ownerID string) (*domain.BusinessProfile, error)
	Upsert(ctx context.Context, profile *domain.BusinessProfile) error
}

// UserRepository defines data access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation that failed with a transient database
// error, such as a deadlock or serialization failure.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// runWithRetry runs op through the retrier when one is configured.
func runWithRetry(ctx context.Context, r Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// LedgerWriter persists an export document; satisfied by the sheets
// adapters (CSV download, Google Sheets push).
type LedgerWriter interface {
	WriteLedger(ctx context.Context, ledger *report.Ledger) (ref string, err error)
}
