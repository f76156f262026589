// Package export renders ledger and combined calculations to spreadsheets.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

const (
	entriesSheet = "Entries"
	summarySheet = "Summary"
)

// Report is a calculation ready to be written out.
type Report struct {
	Title       string
	Currency    domain.CurrencyCode
	Symbol      string
	Entries     []Entry
	Total       decimal.Decimal
	Thresholds  domain.Thresholds
	Eligibility domain.Eligibility
	ZakatDue    decimal.Decimal
	GeneratedAt time.Time
}

// Entry is one asset line of a report.
type Entry struct {
	Kind      domain.Kind
	Declared  string
	Value     decimal.Decimal
	CreatedAt *time.Time
}

// ReportWriter writes a report to a spreadsheet destination.
type ReportWriter interface {
	Write(ctx context.Context, r Report) error
}

// LedgerReport builds a report from a ledger snapshot and its Zakat summary.
func LedgerReport(snap domain.LedgerSnapshot, sum domain.ZakatSummary, symbol string, now time.Time) Report {
	return Report{
		Title:    "Zakat ledger",
		Currency: snap.Currency,
		Symbol:   symbol,
		Entries: lo.Map(snap.Records, func(rec domain.CalculationRecord, _ int) Entry {
			created := rec.CreatedAt
			return Entry{
				Kind:      rec.Kind,
				Declared:  declared(rec),
				Value:     rec.ValuedAmount,
				CreatedAt: &created,
			}
		}),
		Total:       sum.Total,
		Thresholds:  sum.Thresholds,
		Eligibility: sum.Eligibility,
		ZakatDue:    sum.ZakatDue,
		GeneratedAt: now,
	}
}

// CombinedReport builds a report from a combined calculation.
func CombinedReport(res domain.CombinedResult, symbol string, now time.Time) Report {
	return Report{
		Title:    "Combined assets",
		Currency: res.Currency,
		Symbol:   symbol,
		Entries: lo.Map(res.Breakdown, func(line domain.BreakdownLine, _ int) Entry {
			return Entry{Kind: line.Kind, Declared: line.DisplayAmount, Value: line.ValuedAmount}
		}),
		Total:      res.TotalValue,
		Thresholds: res.Thresholds,
		Eligibility: domain.Eligibility{
			ByGold:   res.IsEligibleByGold,
			BySilver: res.IsEligibleBySilver,
			Eligible: res.IsEligible,
		},
		ZakatDue:    res.ZakatAmount,
		GeneratedAt: now,
	}
}

func declared(rec domain.CalculationRecord) string {
	if w, ok := rec.DeclaredUnit.Weight(); ok {
		return fmt.Sprintf("%s %s", rec.DeclaredAmount, w.Symbol())
	}
	return fmt.Sprintf("%s %s", rec.DeclaredAmount, rec.DeclaredUnit)
}

// buildEntries builds the entries sheet.
// Columns: N | Kind | Declared | Value | Currency | Created
func buildEntries(r Report) [][]any {
	data := make([][]any, 0, len(r.Entries)+1)
	data = append(data, []any{"N", "Kind", "Declared", "Value", "Currency", "Created"})

	for i, e := range r.Entries {
		created := ""
		if e.CreatedAt != nil {
			created = e.CreatedAt.UTC().Format(time.RFC3339)
		}
		data = append(data, []any{
			i + 1, string(e.Kind), e.Declared,
			toFloat(domain.RoundMoney(e.Value)), string(r.Currency), created,
		})
	}

	return data
}

// buildSummary builds the summary sheet.
// Columns: Item | Value
func buildSummary(r Report) [][]any {
	return [][]any{
		{"Item", "Value"},
		{"Report", r.Title},
		{"Currency", fmt.Sprintf("%s (%s)", r.Currency, r.Symbol)},
		{"Total", toFloat(domain.RoundMoney(r.Total))},
		{"Gold nisab", toFloat(domain.RoundMoney(r.Thresholds.Gold))},
		{"Silver nisab", toFloat(domain.RoundMoney(r.Thresholds.Silver))},
		{"Eligible by gold", yesNo(r.Eligibility.ByGold)},
		{"Eligible by silver", yesNo(r.Eligibility.BySilver)},
		{"Eligible", yesNo(r.Eligibility.Eligible)},
		{"Zakat due", toFloat(domain.RoundMoney(r.ZakatDue))},
		{"Zakat due (formatted)", domain.FormatMoney(r.ZakatDue, r.Currency, r.Symbol)},
		{"Generated", r.GeneratedAt.UTC().Format(time.RFC3339)},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
