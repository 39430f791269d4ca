package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/usecase"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// RecordTransactionRequest represents a request to record a transaction.
type RecordTransactionRequest struct {
	Date        string          `json:"tanggal"`
	Description string          `json:"keterangan"`
	Category    string          `json:"kategori"`
	Kind        string          `json:"jenis"`
	Amount      decimal.Decimal `json:"jumlah"`
	InvoiceID   *string         `json:"invoice_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTransactionRequest) ToUseCaseInput() (usecase.RecordTransactionInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return usecase.RecordTransactionInput{}, err
	}

	return usecase.RecordTransactionInput{
		Date:        date,
		Description: r.Description,
		Category:    domain.Category(r.Category),
		Kind:        domain.Kind(r.Kind),
		Amount:      r.Amount,
		InvoiceID:   r.InvoiceID,
	}, nil
}

// InvoiceItemRequest is one line item on a new invoice.
type InvoiceItemRequest struct {
	Name      string          `json:"nama"`
	Note      string          `json:"catatan,omitempty"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"harga"`
}

// CreateInvoiceRequest represents a request to create an invoice.
type CreateInvoiceRequest struct {
	Number   string               `json:"nomor"`
	Customer string               `json:"pelanggan"`
	Date     string               `json:"tanggal"`
	Amount   decimal.Decimal      `json:"jumlah"`
	Items    []InvoiceItemRequest `json:"items,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateInvoiceRequest) ToUseCaseInput() (usecase.CreateInvoiceInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return usecase.CreateInvoiceInput{}, err
	}

	items := make([]usecase.InvoiceItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = usecase.InvoiceItemInput{
			Name:      item.Name,
			Note:      item.Note,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return usecase.CreateInvoiceInput{
		Number:   r.Number,
		Customer: r.Customer,
		Date:     date,
		Amount:   r.Amount,
		Items:    items,
	}, nil
}

// UpdateProfileRequest represents a request to update the business
// profile.
type UpdateProfileRequest struct {
	BusinessName string `json:"nama_usaha"`
	Address      string `json:"alamat"`
	Whatsapp     string `json:"whatsapp"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateProfileRequest) ToUseCaseInput() usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		BusinessName: r.BusinessName,
		Address:      r.Address,
		Whatsapp:     r.Whatsapp,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents an account registration request.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	OwnerID  string  `json:"owner_id,omitempty"`
	BranchID *string `json:"branch_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     domain.Role(r.Role),
		OwnerID:  r.OwnerID,
		BranchID: r.BranchID,
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// ParseDateQuery parses an optional date query parameter.
func ParseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
