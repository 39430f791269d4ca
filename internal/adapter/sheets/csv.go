package sheets

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/report"
)

// CSVWriter renders a ledger as a downloadable CSV attachment.
type CSVWriter struct {
	out io.Writer
}

// NewCSVWriter creates a CSVWriter targeting out.
func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{out: out}
}

var _ LedgerWriter = (*CSVWriter)(nil)

// WriteLedger writes the ledger rows and totals as CSV and returns the
// artifact filename.
func (w *CSVWriter) WriteLedger(_ context.Context, ledger *report.Ledger) (string, error) {
	cw := csv.NewWriter(w.out)
	for _, record := range LedgerValues(ledger) {
		if err := cw.Write(record); err != nil {
			return "", err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	return ledger.Filename("csv"), nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func blankIfZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
