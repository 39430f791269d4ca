// Package sheets contains the outbound ports for spreadsheet artifacts.
// The report core hands a structured Ledger to a writer and does not know
// whether it becomes a CSV download or a remote spreadsheet tab.
package sheets

import (
	"context"

	"github.com/drajad/kasbuku/internal/report"
)

// LedgerWriter persists a ledger document somewhere tabular. The returned
// ref identifies the artifact (a filename, a sheet tab).
type LedgerWriter interface {
	WriteLedger(ctx context.Context, ledger *report.Ledger) (ref string, err error)
}

// Column headers, in export order.
var headers = []string{"No", "Invoice/Tanggal", "Keterangan", "Debet", "Kredit", "Saldo"}

// LedgerValues flattens a ledger into tabular cell values: header, data
// rows, one blank separator row, then the TOTAL row. Zero debit/credit
// cells render blank, mirroring how the rows read in a cash book.
func LedgerValues(ledger *report.Ledger) [][]string {
	values := make([][]string, 0, len(ledger.Rows)+3)

	values = append(values, headers)

	for _, row := range ledger.Rows {
		values = append(values, []string{
			itoa(row.No),
			row.Reference,
			row.Description,
			blankIfZero(row.Debit),
			blankIfZero(row.Credit),
			row.Balance.String(),
		})
	}

	values = append(values, []string{"", "", "", "", "", ""})
	values = append(values, []string{
		"", "", "TOTAL",
		ledger.TotalDebit.String(),
		ledger.TotalCredit.String(),
		ledger.Balance.String(),
	})

	return values
}
