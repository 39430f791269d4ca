package sheets

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/report"
)

func TestCSVWriter_WriteLedger(t *testing.T) {
	invoiceID := "0123456789ABCDEF"
	entries := []*domain.Transaction{
		{
			Date:        time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			Description: "Penjualan",
			Kind:        domain.KindDebit,
			Amount:      decimal.NewFromInt(100000),
			InvoiceID:   &invoiceID,
		},
		{
			Date:        time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			Description: "Listrik",
			Kind:        domain.KindCredit,
			Amount:      decimal.NewFromInt(40000),
		},
	}

	ledger, err := report.BuildLedger(entries,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BuildLedger: %v", err)
	}

	var buf bytes.Buffer
	ref, err := NewCSVWriter(&buf).WriteLedger(context.Background(), ledger)
	if err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}
	if ref != "Ledger_2025-01-01_2025-01-31.csv" {
		t.Errorf("ref = %q", ref)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}

	if lines[0] != "No,Invoice/Tanggal,Keterangan,Debet,Kredit,Saldo" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1,01234567... / 2025-01-02,Penjualan,100000,,100000" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2,2025-01-05,Listrik,,40000,60000" {
		t.Errorf("row 2 = %q", lines[2])
	}
	if lines[3] != ",,,,," {
		t.Errorf("separator = %q", lines[3])
	}
	if lines[4] != ",,TOTAL,100000,40000,60000" {
		t.Errorf("totals = %q", lines[4])
	}
}
