package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/drajad/kasbuku/internal/domain"
	"github.com/drajad/kasbuku/internal/infrastructure/metrics"
	"github.com/drajad/kasbuku/internal/report"
)

// ReportUseCase aggregates a fetched transaction snapshot into the
// dashboard summary, the period charts, the category breakdown and the
// ledger export. Aggregation itself is pure (internal/report); this layer
// fetches the snapshot, caches the summary and drives the export writer.
type ReportUseCase struct {
	transactionRepo TransactionRepository
	invoiceRepo     InvoiceRepository
	cache           Cache
	metrics         *metrics.Metrics
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	transactionRepo TransactionRepository,
	invoiceRepo InvoiceRepository,
	cache Cache,
	metrics *metrics.Metrics,
) *ReportUseCase {
	return &ReportUseCase{
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		cache:           cache,
		metrics:         metrics,
	}
}

// DateRange bounds a report query. Both ends are inclusive calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (uc *ReportUseCase) snapshot(ctx context.Context, session *domain.Session, r DateRange) ([]*domain.Transaction, error) {
	return uc.transactionRepo.List(ctx, TransactionFilter{
		OwnerID:  session.OwnerID,
		BranchID: session.BranchID,
		From:     &r.From,
		To:       &r.To,
	})
}

// summaryCacheKeys returns the cache keys a session's writes invalidate:
// the branch-scoped view and the owner-wide view. A branchless write is
// visible to every branch view but only the owner-wide slot is dropped;
// branch slots it cannot name serve stale data until SummaryCacheTTL
// expires.
func summaryCacheKeys(session *domain.Session) []string {
	keys := []string{fmt.Sprintf("dashboard:%s:all", session.OwnerID)}
	if session.BranchID != nil {
		keys = append(keys, fmt.Sprintf("dashboard:%s:%s", session.OwnerID, *session.BranchID))
	}
	return keys
}

func sessionSummaryKey(session *domain.Session) string {
	if session.BranchID != nil {
		return fmt.Sprintf("dashboard:%s:%s", session.OwnerID, *session.BranchID)
	}
	return fmt.Sprintf("dashboard:%s:all", session.OwnerID)
}

// cachedSummary wraps a summary with the range it was computed over. The
// cache holds one slot per session; a request for a different range is a
// miss and overwrites the slot.
type cachedSummary struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	Summary report.Summary `json:"summary"`
}

const summaryDateLayout = "2006-01-02"

// Summary returns the inflow/outflow/balance headline over the range.
// The result is cached briefly; writes invalidate it.
func (uc *ReportUseCase) Summary(ctx context.Context, session *domain.Session, r DateRange) (report.Summary, error) {
	key := sessionSummaryKey(session)

	from := r.From.Format(summaryDateLayout)
	to := r.To.Format(summaryDateLayout)

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil {
			var cached cachedSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil && cached.From == from && cached.To == to {
				if uc.metrics != nil {
					uc.metrics.SummaryCacheHits.Inc()
				}
				return cached.Summary, nil
			}
		}
	}

	entries, err := uc.snapshot(ctx, session, r)
	if err != nil {
		return report.Summary{}, err
	}

	summary := report.Summarize(entries)

	if uc.cache != nil {
		if raw, err := json.Marshal(cachedSummary{From: from, To: to, Summary: summary}); err == nil {
			_ = uc.cache.Set(ctx, key, string(raw), SummaryCacheTTL)
		}
	}

	return summary, nil
}

// Buckets groups the range's transactions into period buckets for the
// bar chart.
func (uc *ReportUseCase) Buckets(ctx context.Context, session *domain.Session, r DateRange, g report.Granularity) ([]report.PeriodBucket, error) {
	entries, err := uc.snapshot(ctx, session, r)
	if err != nil {
		return nil, err
	}
	return report.BucketByPeriod(entries, g), nil
}

// CategoryBreakdown returns per-category totals with percentages relative
// to the largest category.
func (uc *ReportUseCase) CategoryBreakdown(ctx context.Context, session *domain.Session, r DateRange) ([]report.CategoryTotal, error) {
	entries, err := uc.snapshot(ctx, session, r)
	if err != nil {
		return nil, err
	}
	return report.WithPercentages(report.CategoryTotals(entries)), nil
}

// ExportLedger builds the ledger document for the range and hands it to
// the writer. An empty range yields domain.ErrNothingToExport and no
// artifact.
func (uc *ReportUseCase) ExportLedger(ctx context.Context, session *domain.Session, r DateRange, writer LedgerWriter) (string, error) {
	entries, err := uc.snapshot(ctx, session, r)
	if err != nil {
		return "", err
	}

	ledger, err := report.BuildLedger(entries, r.From, r.To)
	if err != nil {
		return "", err
	}

	ref, err := writer.WriteLedger(ctx, ledger)
	if err != nil {
		return "", err
	}

	if uc.metrics != nil {
		uc.metrics.LedgerExports.Inc()
	}

	return ref, nil
}

// Dashboard is the landing page payload: the headline summary plus the
// few most recent transactions and invoices.
type Dashboard struct {
	Summary            report.Summary
	RecentTransactions []*domain.Transaction
	RecentInvoices     []*domain.Invoice
}

const recentCount = 5

// GetDashboard assembles the dashboard for the session owner.
func (uc *ReportUseCase) GetDashboard(ctx context.Context, session *domain.Session, r DateRange) (*Dashboard, error) {
	summary, err := uc.Summary(ctx, session, r)
	if err != nil {
		return nil, err
	}

	recent, err := uc.transactionRepo.List(ctx, TransactionFilter{
		OwnerID:  session.OwnerID,
		BranchID: session.BranchID,
		Limit:    recentCount,
	})
	if err != nil {
		return nil, err
	}

	invoices, err := uc.invoiceRepo.List(ctx, InvoiceFilter{
		OwnerID:  session.OwnerID,
		BranchID: session.BranchID,
		Limit:    recentCount,
	})
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Summary:            summary,
		RecentTransactions: recent,
		RecentInvoices:     invoices,
	}, nil
}
