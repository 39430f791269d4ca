// Package report implements the in-memory aggregation behind the
// dashboard, the period charts and the ledger export. All functions are
// pure: they operate on a snapshot of transactions already fetched and
// filtered by the caller.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drajad/kasbuku/internal/domain"
)

// Granularity selects how transactions are grouped into period buckets.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// maxBuckets is how many trailing buckets each granularity keeps. The
// trim is by encounter order, matching how the charts window their data.
var maxBuckets = map[Granularity]int{
	GranularityDaily:   7,
	GranularityWeekly:  5,
	GranularityMonthly: 12,
}

// IsValid checks if the granularity is known.
func (g Granularity) IsValid() bool {
	_, ok := maxBuckets[g]
	return ok
}

// PeriodBucket accumulates the inflow and outflow of one period.
type PeriodBucket struct {
	Label   string          `json:"periode"`
	Inflow  decimal.Decimal `json:"pemasukan"`
	Outflow decimal.Decimal `json:"pengeluaran"`
}

// Indonesian short month names, as the charts label them.
var monthShort = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

func dayMonthLabel(t time.Time) string {
	return fmt.Sprintf("%02d %s", t.Day(), monthShort[t.Month()-1])
}

// periodLabel computes the bucket key for a transaction date.
func periodLabel(date time.Time, g Granularity) string {
	switch g {
	case GranularityWeekly:
		// Week starts on Sunday.
		start := date.AddDate(0, 0, -int(date.Weekday()))
		return "Minggu " + dayMonthLabel(start)
	case GranularityMonthly:
		return fmt.Sprintf("%s %d", monthShort[date.Month()-1], date.Year())
	default:
		return dayMonthLabel(date)
	}
}

// BucketByPeriod groups transactions into period buckets. Buckets appear
// in first-encounter order of the input, not sorted by date; the trailing
// trim depends on that order, so it must not be re-sorted. Debit amounts
// accumulate into the inflow, credit amounts into the outflow.
func BucketByPeriod(entries []*domain.Transaction, g Granularity) []PeriodBucket {
	buckets := make([]PeriodBucket, 0)
	index := make(map[string]int)

	for _, tr := range entries {
		label := periodLabel(tr.Date, g)

		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, PeriodBucket{
				Label:   label,
				Inflow:  decimal.Zero,
				Outflow: decimal.Zero,
			})
		}

		switch tr.Kind {
		case domain.KindDebit:
			buckets[i].Inflow = buckets[i].Inflow.Add(tr.Amount)
		case domain.KindCredit:
			buckets[i].Outflow = buckets[i].Outflow.Add(tr.Amount)
		}
	}

	if n := maxBuckets[g]; n > 0 && len(buckets) > n {
		buckets = buckets[len(buckets)-n:]
	}

	return buckets
}

// CategoryTotal is the accumulated raw amount of one category. The sign
// of the kind is deliberately not applied: the breakdown shows volume per
// category, not net effect.
type CategoryTotal struct {
	Category   domain.Category `json:"kategori"`
	Amount     decimal.Decimal `json:"jumlah"`
	Percentage float64         `json:"persentase,omitempty"`
}

// CategoryTotals accumulates the raw amount per category in
// first-encounter order, one element per distinct category.
func CategoryTotals(entries []*domain.Transaction) []CategoryTotal {
	totals := make([]CategoryTotal, 0)
	index := make(map[domain.Category]int)

	for _, tr := range entries {
		i, ok := index[tr.Category]
		if !ok {
			i = len(totals)
			index[tr.Category] = i
			totals = append(totals, CategoryTotal{Category: tr.Category, Amount: decimal.Zero})
		}
		totals[i].Amount = totals[i].Amount.Add(tr.Amount)
	}

	return totals
}

// WithPercentages sets each total's percentage relative to the largest
// total. The floor of 1 on the divisor guards division by zero when every
// total is zero.
func WithPercentages(totals []CategoryTotal) []CategoryTotal {
	max := decimal.NewFromInt(1)
	for _, ct := range totals {
		if ct.Amount.GreaterThan(max) {
			max = ct.Amount
		}
	}

	out := make([]CategoryTotal, len(totals))
	for i, ct := range totals {
		ct.Percentage, _ = ct.Amount.Div(max).Mul(decimal.NewFromInt(100)).Float64()
		out[i] = ct
	}

	return out
}

// Summary is the dashboard headline: total inflow, total outflow and
// their difference.
type Summary struct {
	Inflow  decimal.Decimal `json:"pemasukan"`
	Outflow decimal.Decimal `json:"pengeluaran"`
	Balance decimal.Decimal `json:"saldo"`
}

// Summarize totals the debit and credit amounts of a snapshot.
func Summarize(entries []*domain.Transaction) Summary {
	s := Summary{Inflow: decimal.Zero, Outflow: decimal.Zero}

	for _, tr := range entries {
		switch tr.Kind {
		case domain.KindDebit:
			s.Inflow = s.Inflow.Add(tr.Amount)
		case domain.KindCredit:
			s.Outflow = s.Outflow.Add(tr.Amount)
		}
	}

	s.Balance = s.Inflow.Sub(s.Outflow)
	return s
}
