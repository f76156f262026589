package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/zakat/internal/domain"
)

func testSnapshot() (domain.LedgerSnapshot, domain.ZakatSummary) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	snap := domain.LedgerSnapshot{
		Currency: "PKR",
		Records: []domain.CalculationRecord{
			{
				ID: "a", Kind: domain.KindGold,
				DeclaredAmount: decimal.NewFromInt(100), DeclaredUnit: domain.WeightOf(domain.UnitGram),
				ValuedAmount: decimal.NewFromInt(3000000), ValuationCurrency: "PKR", CreatedAt: created,
			},
			{
				ID: "b", Kind: domain.KindMoney,
				DeclaredAmount: decimal.NewFromInt(300000), DeclaredUnit: domain.CurrencyOf("PKR"),
				ValuedAmount: decimal.NewFromInt(300000), ValuationCurrency: "PKR", CreatedAt: created,
			},
		},
		TotalMonetary: decimal.NewFromInt(3300000),
	}
	sum := domain.ZakatSummary{
		Currency: "PKR",
		Total:    decimal.NewFromInt(3300000),
		Thresholds: domain.Thresholds{
			Currency: "PKR",
			Gold:     decimal.NewFromInt(2624400),
			Silver:   decimal.NewFromInt(183708),
		},
		Eligibility: domain.Eligibility{ByGold: true, BySilver: true, Eligible: true},
		ZakatDue:    decimal.NewFromInt(82500),
	}
	return snap, sum
}

func TestBuildEntries(t *testing.T) {
	snap, sum := testSnapshot()
	r := LedgerReport(snap, sum, "Rs", time.Now())

	rows := buildEntries(r)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[1][1] != "gold" || rows[1][2] != "100 g" {
		t.Errorf("gold row = %v", rows[1])
	}
	if rows[2][2] != "300000 PKR" {
		t.Errorf("money declared = %v, want 300000 PKR", rows[2][2])
	}
	if rows[2][3] != float64(300000) {
		t.Errorf("money value = %v, want 300000", rows[2][3])
	}
	if rows[1][5] != "2026-03-01T10:00:00Z" {
		t.Errorf("created = %v", rows[1][5])
	}
}

func TestBuildSummary(t *testing.T) {
	snap, sum := testSnapshot()
	rows := buildSummary(LedgerReport(snap, sum, "Rs", time.Now()))

	got := map[string]any{}
	for _, row := range rows[1:] {
		got[row[0].(string)] = row[1]
	}

	tests := []struct {
		item string
		want any
	}{
		{"Total", float64(3300000)},
		{"Gold nisab", float64(2624400)},
		{"Eligible", "yes"},
		{"Zakat due", float64(82500)},
		{"Currency", "PKR (Rs)"},
	}
	for _, tt := range tests {
		if got[tt.item] != tt.want {
			t.Errorf("%s = %v, want %v", tt.item, got[tt.item], tt.want)
		}
	}
}

func TestCombinedReport(t *testing.T) {
	res := domain.CombinedResult{
		Currency:           "PKR",
		TotalValue:         decimal.NewFromInt(303500),
		IsEligibleBySilver: true,
		IsEligible:         true,
		ZakatAmount:        decimal.RequireFromString("7587.5"),
		Breakdown: []domain.BreakdownLine{
			{Kind: domain.KindGold, DisplayAmount: "10 g", ValuedAmount: decimal.NewFromInt(300000)},
			{Kind: domain.KindSilver, DisplayAmount: "10 g", ValuedAmount: decimal.NewFromInt(3500)},
		},
	}

	r := CombinedReport(res, "Rs", time.Now())
	if len(r.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(r.Entries))
	}
	if r.Eligibility.ByGold || !r.Eligibility.BySilver {
		t.Errorf("eligibility = %+v", r.Eligibility)
	}

	rows := buildEntries(r)
	if rows[1][5] != "" {
		t.Errorf("combined entries have no creation time, got %v", rows[1][5])
	}
}

func TestXLSXWriter(t *testing.T) {
	snap, sum := testSnapshot()
	var buf bytes.Buffer

	if err := NewXLSXWriter(&buf).Write(context.Background(), LedgerReport(snap, sum, "Rs", time.Now())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(entriesSheet)
	if err != nil {
		t.Fatalf("GetRows(entries) error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("entries rows = %d, want 3", len(rows))
	}
	if rows[0][1] != "Kind" || rows[2][1] != "money" {
		t.Errorf("entries = %v", rows)
	}

	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("GetRows(summary) error = %v", err)
	}
	if len(summary) != len(buildSummary(Report{})) {
		t.Errorf("summary rows = %d", len(summary))
	}
}
