package domain

import "errors"

var (
	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidKind         = errors.New("kind must be Debet or Kredit")
	ErrInvalidCategory     = errors.New("unknown category")
	ErrMissingDate         = errors.New("date is required")

	// Invoice errors
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrMissingInvoiceNumber = errors.New("invoice number is required")
	ErrMissingCustomer      = errors.New("customer name is required")
	ErrInvalidInvoiceStatus = errors.New("invalid invoice status")
	ErrInvoiceNumberTaken   = errors.New("invoice number already in use")
	ErrMissingItemName      = errors.New("item name is required")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrSubtotalMismatch     = errors.New("subtotal does not equal quantity times unit price")

	// Report errors
	ErrNothingToExport = errors.New("no transactions to export")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// Account errors
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidRole        = errors.New("unknown role")
	ErrStaffRequiresOwner = errors.New("staff account requires an owner")
)
