// Package nisab derives monetary Nisab thresholds from a price table and
// decides whether an amount meets them.
package nisab

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

var (
	// GoldNisabGrams is the Nisab weight of gold.
	GoldNisabGrams = decimal.RequireFromString("87.48")
	// SilverNisabGrams is the Nisab weight of silver.
	SilverNisabGrams = decimal.RequireFromString("612.36")
)

// Thresholds prices both Nisab weights in currency. Both values are returned;
// callers decide which one applies.
func Thresholds(table domain.PriceTable, currency domain.CurrencyCode) (domain.Thresholds, error) {
	prices, err := table.Lookup(currency)
	if err != nil {
		return domain.Thresholds{}, fmt.Errorf("nisab thresholds: %w", err)
	}
	return domain.Thresholds{
		Currency: currency,
		Gold:     GoldNisabGrams.Mul(prices.Gold.PerGram),
		Silver:   SilverNisabGrams.Mul(prices.Silver.PerGram),
	}, nil
}

// ThresholdFor returns the bar a single declaration of kind must clear on its own:
// gold against gold, silver and money against silver.
func ThresholdFor(th domain.Thresholds, kind domain.Kind) (decimal.Decimal, error) {
	switch kind {
	case domain.KindGold:
		return th.Gold, nil
	case domain.KindSilver, domain.KindMoney:
		return th.Silver, nil
	}
	return decimal.Zero, fmt.Errorf("no nisab for kind %q: %w", kind, domain.ErrKindUnitMismatch)
}
