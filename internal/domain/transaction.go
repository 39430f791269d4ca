package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the polarity of a transaction. The Indonesian bookkeeping terms
// are kept as domain vocabulary: Debet is an inflow, Kredit an outflow.
type Kind string

const (
	KindDebit  Kind = "Debet"
	KindCredit Kind = "Kredit"
)

// IsValid checks if the kind is one of the two known polarities.
func (k Kind) IsValid() bool {
	return k == KindDebit || k == KindCredit
}

// Sign returns +1 for a debit and -1 for a credit.
func (k Kind) Sign() int {
	if k == KindDebit {
		return 1
	}
	return -1
}

// Transaction represents a single recorded ledger line (cash in or out).
type Transaction struct {
	ID          string
	Date        time.Time
	Description string
	Category    Category
	Kind        Kind
	Amount      decimal.Decimal
	InvoiceID   *string
	OwnerID     string
	BranchID    *string
	CreatedAt   time.Time
}

// Signed returns the amount with the kind's sign applied.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Kind == KindCredit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// SettlesInvoice reports whether this transaction references an invoice,
// which by domain convention means the invoice has been settled.
func (t *Transaction) SettlesInvoice() bool {
	return t.InvoiceID != nil && *t.InvoiceID != ""
}

// Validate checks the transaction's required fields and value ranges.
// The category's conventional kind is a form default only; a kind that
// disagrees with it is accepted.
func (t *Transaction) Validate() error {
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if !t.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return ValidateAmount(t.Amount)
}
