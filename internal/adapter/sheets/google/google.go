// Package google pushes ledger exports to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/drajad/kasbuku/internal/adapter/sheets"
	"github.com/drajad/kasbuku/internal/report"
)

// Client writes ledger documents into tabs of one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ sheets.LedgerWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS (ADC).
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if raw := os.Getenv("GOOGLE_CREDENTIALS_JSON"); strings.TrimSpace(raw) != "" {
		return gsheet.NewService(ctx, goption.WithCredentialsJSON([]byte(raw)))
	}
	// Fall back to application default credentials.
	return gsheet.NewService(ctx)
}

// WriteLedger creates (or replaces) a tab named after the ledger's date
// range and fills it with the export rows. Returns the tab name.
func (c *Client) WriteLedger(ctx context.Context, ledger *report.Ledger) (string, error) {
	tab := tabName(ledger)

	if err := c.ensureTab(ctx, tab); err != nil {
		return "", err
	}

	// Clear any previous export of the same range before writing.
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, tab, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear tab %q: %w", tab, err)
	}

	values := sheets.LedgerValues(ledger)
	rows := make([][]any, len(values))
	for i, record := range values {
		row := make([]any, len(record))
		for j, cell := range record {
			row[j] = cell
		}
		rows[i] = row
	}

	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, tab+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("write tab %q: %w", tab, err)
	}

	return tab, nil
}

func tabName(ledger *report.Ledger) string {
	return strings.TrimSuffix(ledger.Filename(""), ".")
}

// ensureTab adds the tab if it does not exist yet.
func (c *Client) ensureTab(ctx context.Context, tab string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: tab},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add tab %q: %w", tab, err)
	}

	return nil
}
