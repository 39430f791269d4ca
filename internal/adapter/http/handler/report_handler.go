package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/drajad/kasbuku/internal/adapter/http/dto"
	"github.com/drajad/kasbuku/internal/adapter/sheets"
	"github.com/drajad/kasbuku/internal/report"
	"github.com/drajad/kasbuku/internal/usecase"
)

// ReportHandler handles dashboard and report HTTP requests.
type ReportHandler struct {
	reportUC *usecase.ReportUseCase
	sheets   usecase.LedgerWriter
}

// NewReportHandler creates a new ReportHandler. The sheets writer is
// optional; when nil the export endpoint only supports CSV downloads.
func NewReportHandler(reportUC *usecase.ReportUseCase, sheetsWriter usecase.LedgerWriter) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, sheets: sheetsWriter}
}

// dateRangeFromQuery reads the from/to query parameters. A missing bound
// defaults to the current month.
func dateRangeFromQuery(r *http.Request) (usecase.DateRange, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	rng := usecase.DateRange{From: monthStart, To: monthEnd}

	from, err := dto.ParseDateQuery(r.URL.Query().Get("from"))
	if err != nil {
		return rng, fmt.Errorf("invalid from date: %w", err)
	}
	if from != nil {
		rng.From = *from
	}

	to, err := dto.ParseDateQuery(r.URL.Query().Get("to"))
	if err != nil {
		return rng, fmt.Errorf("invalid to date: %w", err)
	}
	if to != nil {
		rng.To = *to
	}

	return rng, nil
}

// Summary returns the inflow/outflow/balance headline for the range.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	rng, err := dateRangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	summary, err := h.reportUC.Summary(r.Context(), session, rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Buckets returns inflow/outflow grouped per period for the charts.
func (h *ReportHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	rng, err := dateRangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	granularity := report.Granularity(r.URL.Query().Get("granularity"))
	if granularity == "" {
		granularity = report.GranularityDaily
	}
	if !granularity.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid granularity", "must be daily, weekly or monthly")
		return
	}

	buckets, err := h.reportUC.Buckets(r.Context(), session, rng, granularity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute buckets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, buckets)
}

// Categories returns the per-category volume breakdown.
func (h *ReportHandler) Categories(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	rng, err := dateRangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	totals, err := h.reportUC.CategoryBreakdown(r.Context(), session, rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute breakdown", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

// Export writes the range's ledger. The default target streams a CSV
// attachment into the response; target=sheets pushes to the configured
// spreadsheet instead and returns the tab reference.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	rng, err := dateRangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	if r.URL.Query().Get("target") == "sheets" {
		if h.sheets == nil {
			writeError(w, http.StatusNotImplemented, "sheets export not configured", "")
			return
		}

		ref, err := h.reportUC.ExportLedger(r.Context(), session, rng, h.sheets)
		if err != nil {
			status := mapDomainError(err)
			writeError(w, status, "failed to export ledger", err.Error())

			return
		}

		writeJSON(w, http.StatusOK, dto.ExportResponse{Filename: ref})
		return
	}

	// The filename is deterministic from the range, so the headers can go
	// out before the rows are written.
	filename := (&report.Ledger{Start: rng.From, End: rng.To}).Filename("csv")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := h.reportUC.ExportLedger(r.Context(), session, rng, sheets.NewCSVWriter(w)); err != nil {
		// Nothing has been streamed yet on the empty-range error, so a
		// JSON error response is still possible.
		w.Header().Del("Content-Disposition")
		status := mapDomainError(err)
		writeError(w, status, "failed to export ledger", err.Error())

		return
	}
}

// dashboardResponse is the landing page payload.
type dashboardResponse struct {
	Summary            report.Summary             `json:"ringkasan"`
	RecentTransactions []*dto.TransactionResponse `json:"transaksi_terakhir"`
	RecentInvoices     []*dto.InvoiceResponse     `json:"invoice_terakhir"`
}

// Dashboard returns the headline summary with recent activity.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	rng, err := dateRangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	dashboard, err := h.reportUC.GetDashboard(r.Context(), session, rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dashboard", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary:            dashboard.Summary,
		RecentTransactions: dto.TransactionsFromDomain(dashboard.RecentTransactions),
		RecentInvoices:     dto.InvoicesFromDomain(dashboard.RecentInvoices),
	})
}
