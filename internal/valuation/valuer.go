// Package valuation prices single asset declarations in a target currency.
package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/units"
)

// Value returns what decl is worth in target according to table.
// Cash is never converted: it must already be declared in target.
func Value(decl domain.Declaration, table domain.PriceTable, target domain.CurrencyCode) (decimal.Decimal, error) {
	if decl.Kind == domain.KindMoney {
		cur, ok := decl.Unit.Currency()
		if !ok {
			return decimal.Zero, fmt.Errorf("money declared in %s: %w", decl.Unit, domain.ErrKindUnitMismatch)
		}
		if cur != target {
			return decimal.Zero, fmt.Errorf("cash in %s, display currency %s: %w", cur, target, domain.ErrUnsupportedCrossCurrency)
		}
		return decl.Amount, nil
	}

	grams, err := Grams(decl)
	if err != nil {
		return decimal.Zero, err
	}
	prices, err := table.Lookup(target)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valuing %s: %w", decl.Kind, err)
	}
	metal, err := prices.Metal(decl.Kind)
	if err != nil {
		return decimal.Zero, err
	}
	return grams.Mul(metal.PerGram), nil
}

// Grams returns the gram-equivalent of a metal declaration and zero for cash.
func Grams(decl domain.Declaration) (decimal.Decimal, error) {
	if !decl.Kind.IsMetal() {
		return decimal.Zero, nil
	}
	w, ok := decl.Unit.Weight()
	if !ok {
		return decimal.Zero, fmt.Errorf("%s declared in %s: %w", decl.Kind, decl.Unit, domain.ErrKindUnitMismatch)
	}
	return units.ToGrams(decl.Amount, w)
}
