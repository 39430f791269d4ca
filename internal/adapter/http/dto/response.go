package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/domain"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"tanggal"`
	Description string          `json:"keterangan"`
	Category    domain.Category `json:"kategori"`
	Kind        domain.Kind     `json:"jenis"`
	Amount      decimal.Decimal `json:"jumlah"`
	InvoiceID   *string         `json:"invoice_id,omitempty"`
	BranchID    *string         `json:"branch_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Date:        t.Date.Format(dateLayout),
		Description: t.Description,
		Category:    t.Category,
		Kind:        t.Kind,
		Amount:      t.Amount,
		InvoiceID:   t.InvoiceID,
		BranchID:    t.BranchID,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// RecordTransactionResponse is the record endpoint payload. Settled
// carries the settlement notice for the invoice linkage flow.
type RecordTransactionResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Settled     bool                 `json:"invoice_settled"`
}

// InvoiceResponse represents an invoice in API responses.
type InvoiceResponse struct {
	ID        string               `json:"id"`
	Number    string               `json:"nomor"`
	Customer  string               `json:"pelanggan"`
	Date      string               `json:"tanggal"`
	Amount    decimal.Decimal      `json:"jumlah"`
	Status    domain.InvoiceStatus `json:"status"`
	BranchID  *string              `json:"branch_id,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// InvoiceFromDomain converts a domain invoice to a response.
func InvoiceFromDomain(inv *domain.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:        inv.ID,
		Number:    inv.Number,
		Customer:  inv.Customer,
		Date:      inv.Date.Format(dateLayout),
		Amount:    inv.Amount,
		Status:    inv.Status,
		BranchID:  inv.BranchID,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

// InvoicesFromDomain converts domain invoices to responses.
func InvoicesFromDomain(invoices []*domain.Invoice) []*InvoiceResponse {
	result := make([]*InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		result[i] = InvoiceFromDomain(inv)
	}
	return result
}

// InvoiceItemResponse represents an invoice line item in API responses.
type InvoiceItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"nama"`
	Note      string          `json:"catatan,omitempty"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"harga"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// InvoiceItemsFromDomain converts domain invoice items to responses.
func InvoiceItemsFromDomain(items []*domain.InvoiceItem) []*InvoiceItemResponse {
	result := make([]*InvoiceItemResponse, len(items))
	for i, item := range items {
		result[i] = &InvoiceItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Note:      item.Note,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}
	return result
}

// InvoiceDetailResponse is an invoice with items and settling
// transactions.
type InvoiceDetailResponse struct {
	Invoice     *InvoiceResponse       `json:"invoice"`
	Items       []*InvoiceItemResponse `json:"items"`
	Settlements []*TransactionResponse `json:"settlements"`
}

// ProfileResponse represents the business profile in API responses.
type ProfileResponse struct {
	BusinessName string `json:"nama_usaha"`
	Address      string `json:"alamat"`
	Whatsapp     string `json:"whatsapp"`
}

// ProfileFromDomain converts a domain profile to a response.
func ProfileFromDomain(p *domain.BusinessProfile) *ProfileResponse {
	return &ProfileResponse{
		BusinessName: p.BusinessName,
		Address:      p.Address,
		Whatsapp:     p.Whatsapp,
	}
}

// UserResponse represents a user account in API responses.
type UserResponse struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
	BranchID *string     `json:"branch_id,omitempty"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		BranchID: u.BranchID,
	}
}

// LoginResponse represents a login response.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ExportResponse names the artifact an export produced.
type ExportResponse struct {
	Filename string `json:"filename"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
