package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/domain"
)

// LedgerRow is one exported transaction line. Debit is zero when the
// transaction is a credit and vice versa; writers render zero cells blank.
type LedgerRow struct {
	No          int
	Reference   string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// Ledger is the export document: numbered rows in date order with a
// cumulative running balance, plus the totals of the underlying set.
type Ledger struct {
	Rows        []LedgerRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balance     decimal.Decimal
	Start       time.Time
	End         time.Time
}

const dateLayout = "2006-01-02"

// Filename derives the deterministic artifact name from the date range.
func (l *Ledger) Filename(ext string) string {
	return fmt.Sprintf("Ledger_%s_%s.%s", l.Start.Format(dateLayout), l.End.Format(dateLayout), ext)
}

// reference builds the combined invoice-ref/date column: an 8-character
// truncated invoice id joined with the date, or the date alone.
func reference(tr *domain.Transaction) string {
	date := tr.Date.Format(dateLayout)
	if tr.InvoiceID == nil || *tr.InvoiceID == "" {
		return date
	}

	ref := *tr.InvoiceID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return fmt.Sprintf("%s... / %s", ref, date)
}

// BuildLedger shapes a filtered snapshot into the export document. Rows
// are stably sorted ascending by date (ties keep their original relative
// order) and carry a running balance of debit minus credit across the
// whole sorted sequence. Totals are computed over the original set.
// An empty snapshot yields ErrNothingToExport and no document.
func BuildLedger(entries []*domain.Transaction, start, end time.Time) (*Ledger, error) {
	if len(entries) == 0 {
		return nil, domain.ErrNothingToExport
	}

	sorted := make([]*domain.Transaction, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	ledger := &Ledger{
		Rows:        make([]LedgerRow, 0, len(sorted)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		Start:       start,
		End:         end,
	}

	running := decimal.Zero
	for i, tr := range sorted {
		debit := decimal.Zero
		credit := decimal.Zero
		switch tr.Kind {
		case domain.KindDebit:
			debit = tr.Amount
		case domain.KindCredit:
			credit = tr.Amount
		}

		running = running.Add(debit).Sub(credit)

		ledger.Rows = append(ledger.Rows, LedgerRow{
			No:          i + 1,
			Reference:   reference(tr),
			Description: tr.Description,
			Debit:       debit,
			Credit:      credit,
			Balance:     running,
		})
	}

	for _, tr := range entries {
		switch tr.Kind {
		case domain.KindDebit:
			ledger.TotalDebit = ledger.TotalDebit.Add(tr.Amount)
		case domain.KindCredit:
			ledger.TotalCredit = ledger.TotalCredit.Add(tr.Amount)
		}
	}
	ledger.Balance = ledger.TotalDebit.Sub(ledger.TotalCredit)

	return ledger, nil
}
