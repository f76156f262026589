package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Thresholds are the monetary Nisab values for gold and silver in one currency.
type Thresholds struct {
	Currency CurrencyCode    `json:"currency"`
	Gold     decimal.Decimal `json:"gold"`
	Silver   decimal.Decimal `json:"silver"`
}

// Eligibility is the outcome of comparing an amount against both thresholds.
type Eligibility struct {
	ByGold   bool `json:"eligibleByGold"`
	BySilver bool `json:"eligibleBySilver"`
	Eligible bool `json:"eligible"`
}

// CalculationRecord is an admitted ledger entry. ValuedAmount and ValuationCurrency
// change when the ledger is re-denominated; everything else is fixed at creation.
type CalculationRecord struct {
	ID                string          `json:"id"`
	Kind              Kind            `json:"kind"`
	DeclaredAmount    decimal.Decimal `json:"declaredAmount"`
	DeclaredUnit      Unit            `json:"declaredUnit"`
	ValuedAmount      decimal.Decimal `json:"valuedAmount"`
	ValuationCurrency CurrencyCode    `json:"valuationCurrency"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// WeightTotals are physical totals in grams, independent of currency.
type WeightTotals struct {
	Gold   decimal.Decimal `json:"gold"`
	Silver decimal.Decimal `json:"silver"`
}

// DisplayUnits remembers the last unit used per metal, for formatting only.
type DisplayUnits struct {
	Gold   WeightUnit `json:"gold"`
	Silver WeightUnit `json:"silver"`
}

// LedgerSnapshot is a copy of a ledger's state.
type LedgerSnapshot struct {
	Currency      CurrencyCode        `json:"currency"`
	Records       []CalculationRecord `json:"records"`
	TotalMonetary decimal.Decimal     `json:"totalMonetary"`
	TotalWeight   WeightTotals        `json:"totalWeight"`
	DisplayUnits  DisplayUnits        `json:"displayUnits"`
}

// ZakatSummary is the aggregate eligibility and Zakat due for a ledger.
type ZakatSummary struct {
	Currency    CurrencyCode    `json:"currency"`
	Total       decimal.Decimal `json:"total"`
	Thresholds  Thresholds      `json:"thresholds"`
	Eligibility Eligibility     `json:"eligibility"`
	ZakatDue    decimal.Decimal `json:"zakatDue"`
}

// BreakdownLine is one asset's contribution in a combined calculation.
type BreakdownLine struct {
	Kind          Kind            `json:"kind"`
	DisplayAmount string          `json:"displayAmount"`
	ValuedAmount  decimal.Decimal `json:"valuedAmount"`
}

// CombinedResult is produced fresh by every combined calculation and never stored.
type CombinedResult struct {
	Currency           CurrencyCode    `json:"currency"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	Thresholds         Thresholds      `json:"thresholds"`
	IsEligibleByGold   bool            `json:"isEligibleByGold"`
	IsEligibleBySilver bool            `json:"isEligibleBySilver"`
	IsEligible         bool            `json:"isEligible"`
	ZakatAmount        decimal.Decimal `json:"zakatAmount"`
	Breakdown          []BreakdownLine `json:"breakdown"`
}
