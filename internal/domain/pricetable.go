package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MetalPrice is the price of a precious metal in one currency.
type MetalPrice struct {
	PerGram decimal.Decimal `json:"perGram"`
	PerTola decimal.Decimal `json:"perTola"`
}

// CurrencyPrices holds the exchange rate and metal prices for one currency.
type CurrencyPrices struct {
	Symbol string          `json:"symbol"`
	USD    decimal.Decimal `json:"usd"`
	Gold   MetalPrice      `json:"gold"`
	Silver MetalPrice      `json:"silver"`
}

// Metal returns the price entry for gold or silver.
func (p CurrencyPrices) Metal(kind Kind) (MetalPrice, error) {
	switch kind {
	case KindGold:
		return p.Gold, nil
	case KindSilver:
		return p.Silver, nil
	}
	return MetalPrice{}, fmt.Errorf("%s has no metal price: %w", kind, ErrKindUnitMismatch)
}

// PriceTable maps currency codes to their prices. It is immutable once fetched.
type PriceTable map[CurrencyCode]CurrencyPrices

// Lookup returns the prices for a currency.
func (t PriceTable) Lookup(code CurrencyCode) (CurrencyPrices, error) {
	p, ok := t[code]
	if !ok {
		return CurrencyPrices{}, fmt.Errorf("%s: %w", code, ErrCurrencyNotFound)
	}
	return p, nil
}

// Codes returns the currency codes in sorted order.
func (t PriceTable) Codes() []CurrencyCode {
	codes := make([]CurrencyCode, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Validate checks that every entry can be used for valuation without producing
// a division by zero or a meaningless threshold.
func (t PriceTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("no currencies: %w", ErrInvalidPriceTable)
	}
	for _, code := range t.Codes() {
		p := t[code]
		switch {
		case code == "" || NormalizeCurrency(string(code)) != code:
			return fmt.Errorf("malformed currency code %q: %w", code, ErrInvalidPriceTable)
		case p.Symbol == "":
			return fmt.Errorf("%s: missing symbol: %w", code, ErrInvalidPriceTable)
		case !p.USD.IsPositive():
			return fmt.Errorf("%s: usd rate %s: %w", code, p.USD, ErrInvalidPriceTable)
		case !p.Gold.PerGram.IsPositive():
			return fmt.Errorf("%s: gold price %s: %w", code, p.Gold.PerGram, ErrInvalidPriceTable)
		case !p.Silver.PerGram.IsPositive():
			return fmt.Errorf("%s: silver price %s: %w", code, p.Silver.PerGram, ErrInvalidPriceTable)
		}
	}
	return nil
}

// FeedResponse is the document returned by the price feed.
type FeedResponse struct {
	Success    bool                      `json:"success"`
	Currencies map[string]CurrencyPrices `json:"currencies"`
}

// Table converts the response into a validated PriceTable.
// Unsuccessful responses and responses without currencies are rejected.
func (r FeedResponse) Table() (PriceTable, error) {
	if !r.Success {
		return nil, fmt.Errorf("feed reported failure: %w", ErrFeedUnavailable)
	}
	if r.Currencies == nil {
		return nil, fmt.Errorf("feed returned no currencies: %w", ErrFeedUnavailable)
	}
	table := make(PriceTable, len(r.Currencies))
	for code, prices := range r.Currencies {
		table[NormalizeCurrency(code)] = prices
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// CurrencyInfo is the display subset of a currency entry.
type CurrencyInfo struct {
	Code   CurrencyCode `json:"code" yaml:"code"`
	Symbol string       `json:"symbol" yaml:"symbol"`
}
