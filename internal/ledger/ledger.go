// Package ledger accumulates admitted Zakat declarations and keeps the running
// monetary and physical totals consistent, including across display-currency changes.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/nisab"
	"github.com/mtlprog/zakat/internal/valuation"
)

// Ledger is an append-only list of admitted declarations. It is not safe for
// concurrent use; callers serialize access.
type Ledger struct {
	currency      domain.CurrencyCode
	records       []domain.CalculationRecord
	totalMonetary decimal.Decimal
	totalWeight   domain.WeightTotals
	displayUnits  domain.DisplayUnits
	now           func() time.Time
}

// New creates an empty ledger denominated in currency.
func New(currency domain.CurrencyCode) *Ledger {
	l := &Ledger{currency: currency, now: time.Now}
	l.reset()
	return l
}

func (l *Ledger) reset() {
	l.records = nil
	l.totalMonetary = decimal.Zero
	l.totalWeight = domain.WeightTotals{Gold: decimal.Zero, Silver: decimal.Zero}
	l.displayUnits = domain.DisplayUnits{Gold: domain.UnitGram, Silver: domain.UnitGram}
}

// Currency returns the display currency.
func (l *Ledger) Currency() domain.CurrencyCode { return l.currency }

// Len returns the number of records.
func (l *Ledger) Len() int { return len(l.records) }

// IsEmpty reports whether the ledger holds no records.
func (l *Ledger) IsEmpty() bool { return len(l.records) == 0 }

// Add values decl in currency and admits it only if it clears the Nisab of its
// own kind. An empty ledger adopts currency; a populated one must already be in it.
// On any error the ledger is unchanged.
func (l *Ledger) Add(decl domain.Declaration, table domain.PriceTable, currency domain.CurrencyCode) (domain.CalculationRecord, error) {
	if !l.IsEmpty() && currency != l.currency {
		return domain.CalculationRecord{}, fmt.Errorf("ledger is in %s, got %s: %w", l.currency, currency, domain.ErrUnsupportedCrossCurrency)
	}

	valued, err := valuation.Value(decl, table, currency)
	if err != nil {
		return domain.CalculationRecord{}, err
	}
	th, err := nisab.Thresholds(table, currency)
	if err != nil {
		return domain.CalculationRecord{}, err
	}
	bar, err := nisab.ThresholdFor(th, decl.Kind)
	if err != nil {
		return domain.CalculationRecord{}, err
	}
	if valued.LessThan(bar) {
		return domain.CalculationRecord{}, &BelowNisabError{
			Kind:      decl.Kind,
			Currency:  currency,
			Value:     valued,
			Threshold: bar,
			Shortfall: bar.Sub(valued),
		}
	}
	grams, err := valuation.Grams(decl)
	if err != nil {
		return domain.CalculationRecord{}, err
	}

	rec := domain.CalculationRecord{
		ID:                uuid.NewString(),
		Kind:              decl.Kind,
		DeclaredAmount:    decl.Amount,
		DeclaredUnit:      decl.Unit,
		ValuedAmount:      valued,
		ValuationCurrency: currency,
		CreatedAt:         l.now().UTC(),
	}

	l.currency = currency
	l.records = append(l.records, rec)
	l.totalMonetary = l.totalMonetary.Add(valued)
	if w, ok := decl.Unit.Weight(); ok {
		switch decl.Kind {
		case domain.KindGold:
			l.totalWeight.Gold = l.totalWeight.Gold.Add(grams)
			l.displayUnits.Gold = w
		case domain.KindSilver:
			l.totalWeight.Silver = l.totalWeight.Silver.Add(grams)
			l.displayUnits.Silver = w
		}
	}
	return rec, nil
}

// ChangeCurrency re-denominates every record into newCurrency by pivoting through
// the USD rate: value / usd(old) * usd(new). Metal records are pivoted the same way
// as cash, not re-priced from grams. Weight totals are not touched.
// Every rate is resolved before any record changes, so a failure leaves the ledger intact.
// Switching to the current currency leaves every record exact.
func (l *Ledger) ChangeCurrency(newCurrency domain.CurrencyCode, table domain.PriceTable) error {
	target, err := table.Lookup(newCurrency)
	if err != nil {
		return fmt.Errorf("changing currency: %w", err)
	}
	if newCurrency == l.currency {
		return nil
	}

	rates := make(map[domain.CurrencyCode]decimal.Decimal, 1)
	for _, rec := range l.records {
		if _, ok := rates[rec.ValuationCurrency]; ok {
			continue
		}
		p, err := table.Lookup(rec.ValuationCurrency)
		if err != nil {
			return fmt.Errorf("changing currency: record %s: %w", rec.ID, err)
		}
		if !p.USD.IsPositive() {
			return fmt.Errorf("changing currency: %s usd rate %s: %w", rec.ValuationCurrency, p.USD, domain.ErrInvalidPriceTable)
		}
		rates[rec.ValuationCurrency] = p.USD
	}

	updated := lo.Map(l.records, func(rec domain.CalculationRecord, _ int) domain.CalculationRecord {
		usdValue := rec.ValuedAmount.Div(rates[rec.ValuationCurrency])
		rec.ValuedAmount = usdValue.Mul(target.USD)
		rec.ValuationCurrency = newCurrency
		return rec
	})

	l.records = updated
	l.totalMonetary = sumValued(l.records)
	l.currency = newCurrency
	return nil
}

// Clear drops every record. The display currency is kept.
func (l *Ledger) Clear() {
	l.reset()
}

// Snapshot returns a copy of the ledger state.
func (l *Ledger) Snapshot() domain.LedgerSnapshot {
	records := make([]domain.CalculationRecord, len(l.records))
	copy(records, l.records)
	return domain.LedgerSnapshot{
		Currency:      l.currency,
		Records:       records,
		TotalMonetary: l.totalMonetary,
		TotalWeight:   l.totalWeight,
		DisplayUnits:  l.displayUnits,
	}
}

// CurrentZakat evaluates the monetary total against both thresholds, independently
// of the per-record admission checks.
func (l *Ledger) CurrentZakat(table domain.PriceTable) (domain.ZakatSummary, error) {
	th, err := nisab.Thresholds(table, l.currency)
	if err != nil {
		return domain.ZakatSummary{}, err
	}
	el := nisab.Evaluate(l.totalMonetary, th)
	return domain.ZakatSummary{
		Currency:    l.currency,
		Total:       l.totalMonetary,
		Thresholds:  th,
		Eligibility: el,
		ZakatDue:    nisab.ZakatDue(l.totalMonetary, el.Eligible),
	}, nil
}

func sumValued(records []domain.CalculationRecord) decimal.Decimal {
	return lo.Reduce(records, func(acc decimal.Decimal, r domain.CalculationRecord, _ int) decimal.Decimal {
		return acc.Add(r.ValuedAmount)
	}, decimal.Zero)
}
