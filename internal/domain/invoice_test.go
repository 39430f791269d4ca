package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestInvoice_MarkPaid(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	inv := &Invoice{
		ID:     "inv-1",
		Number: "INV-001",
		Status: InvoiceStatusUnpaid,
	}

	if changed := inv.MarkPaid(now); !changed {
		t.Fatal("expected first MarkPaid to change state")
	}
	if inv.Status != InvoiceStatusPaid {
		t.Errorf("status = %q, want %q", inv.Status, InvoiceStatusPaid)
	}
	if !inv.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", inv.UpdatedAt, now)
	}

	// Marking again is a no-op and must not touch UpdatedAt.
	later := now.Add(time.Hour)
	if changed := inv.MarkPaid(later); changed {
		t.Error("expected second MarkPaid to be a no-op")
	}
	if !inv.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt changed on no-op: %v", inv.UpdatedAt)
	}
}

func TestInvoiceItem_ComputeSubtotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		want      string
	}{
		{"two items", 2, "5000", "10000"},
		{"single item", 1, "10000", "10000"},
		{"zero price", 3, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, _ := decimal.NewFromString(tt.unitPrice)
			item := &InvoiceItem{Name: "Barang", Quantity: tt.quantity, UnitPrice: price}
			item.ComputeSubtotal()

			want, _ := decimal.NewFromString(tt.want)
			if !item.Subtotal.Equal(want) {
				t.Errorf("Subtotal = %s, want %s", item.Subtotal, want)
			}
			if err := item.Validate(); err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestInvoiceItem_Validate_SubtotalMismatch(t *testing.T) {
	item := &InvoiceItem{
		Name:      "Barang",
		Quantity:  2,
		UnitPrice: decimal.NewFromInt(5000),
		Subtotal:  decimal.NewFromInt(9999),
	}

	if err := item.Validate(); err != ErrSubtotalMismatch {
		t.Errorf("Validate() = %v, want ErrSubtotalMismatch", err)
	}
}

func TestAmountFromItems(t *testing.T) {
	items := []*InvoiceItem{
		{Name: "A", Quantity: 2, UnitPrice: decimal.NewFromInt(5000)},
		{Name: "B", Quantity: 1, UnitPrice: decimal.NewFromInt(10000)},
	}
	for _, it := range items {
		it.ComputeSubtotal()
	}

	total := AmountFromItems(items)
	if !total.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("AmountFromItems = %s, want 20000", total)
	}

	if got := AmountFromItems(nil); !got.Equal(decimal.Zero) {
		t.Errorf("AmountFromItems(nil) = %s, want 0", got)
	}
}

func TestInvoice_Validate(t *testing.T) {
	valid := Invoice{
		Number:   "INV-001",
		Customer: "Budi",
		Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.NewFromInt(20000),
		Status:   InvoiceStatusUnpaid,
	}

	tests := []struct {
		name    string
		mutate  func(*Invoice)
		wantErr error
	}{
		{"valid", func(*Invoice) {}, nil},
		{"missing number", func(i *Invoice) { i.Number = "" }, ErrMissingInvoiceNumber},
		{"missing customer", func(i *Invoice) { i.Customer = "" }, ErrMissingCustomer},
		{"missing date", func(i *Invoice) { i.Date = time.Time{} }, ErrMissingDate},
		{"bad status", func(i *Invoice) { i.Status = "Dibatalkan" }, ErrInvalidInvoiceStatus},
		{"negative amount", func(i *Invoice) { i.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := valid
			tt.mutate(&inv)
			if err := inv.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
