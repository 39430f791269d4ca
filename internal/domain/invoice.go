package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state of an invoice. Exactly two states
// exist and the only transition is unpaid to paid.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "Belum Dibayar"
	InvoiceStatusPaid   InvoiceStatus = "Lunas"
)

// IsValid checks if the status is one of the two known states.
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPaid
}

// Invoice represents a billable document issued to a customer.
type Invoice struct {
	ID        string
	Number    string
	Customer  string
	Date      time.Time
	Amount    decimal.Decimal
	Status    InvoiceStatus
	OwnerID   string
	BranchID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarkPaid transitions the invoice to paid. Marking an already paid
// invoice is a no-op; the returned bool reports whether the state changed.
func (inv *Invoice) MarkPaid(now time.Time) bool {
	if inv.Status == InvoiceStatusPaid {
		return false
	}
	inv.Status = InvoiceStatusPaid
	inv.UpdatedAt = now
	return true
}

// Validate checks the invoice's required fields.
func (inv *Invoice) Validate() error {
	if inv.Number == "" {
		return ErrMissingInvoiceNumber
	}
	if inv.Customer == "" {
		return ErrMissingCustomer
	}
	if inv.Date.IsZero() {
		return ErrMissingDate
	}
	if !inv.Status.IsValid() {
		return ErrInvalidInvoiceStatus
	}
	return ValidateAmount(inv.Amount)
}

// InvoiceItem is a single line on an invoice. Items are exclusively owned
// by their invoice and removed with it.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	Name      string
	Note      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// ComputeSubtotal sets the subtotal to quantity times unit price. Subtotal
// is never settable independently.
func (it *InvoiceItem) ComputeSubtotal() {
	it.Subtotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Validate checks the line item's fields, including the subtotal product
// invariant.
func (it *InvoiceItem) Validate() error {
	if it.Name == "" {
		return ErrMissingItemName
	}
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if it.UnitPrice.IsNegative() {
		return ErrInvalidAmount
	}
	if !it.Subtotal.Equal(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))) {
		return ErrSubtotalMismatch
	}
	return nil
}

// AmountFromItems returns the sum of the items' subtotals. An invoice with
// items must have exactly this amount.
func AmountFromItems(items []*InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}
