package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionDeleted = "transaction.deleted"
	EventTypeInvoiceCreated     = "invoice.created"
	EventTypeInvoicePaid        = "invoice.paid"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeInvoice     = "invoice"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionCreatedEvent payload
type TransactionCreatedEvent struct {
	TransactionID string `json:"transaction_id"`
	OwnerID       string `json:"owner_id"`
	Category      string `json:"category"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	InvoiceID     string `json:"invoice_id,omitempty"`
	Date          string `json:"date"`
}

// InvoicePaidEvent payload
type InvoicePaidEvent struct {
	InvoiceID string `json:"invoice_id"`
	Number    string `json:"number"`
	Customer  string `json:"customer"`
	Amount    string `json:"amount"`
}
