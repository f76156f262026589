package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Declaration is a single asset declared by the user.
// Construct it with NewMetalDeclaration or NewMoneyDeclaration so kind and unit always agree.
type Declaration struct {
	Kind   Kind            `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Unit   Unit            `json:"unit"`
}

// NewMetalDeclaration creates a gold or silver declaration in a weight unit.
func NewMetalDeclaration(kind Kind, amount decimal.Decimal, unit WeightUnit) (Declaration, error) {
	if !kind.IsMetal() {
		return Declaration{}, fmt.Errorf("%s declared in %s: %w", kind, unit, ErrKindUnitMismatch)
	}
	if _, err := ParseWeightUnit(string(unit)); err != nil {
		return Declaration{}, err
	}
	if !amount.IsPositive() {
		return Declaration{}, fmt.Errorf("%s amount %s: %w", kind, amount, ErrInvalidAmount)
	}
	return Declaration{Kind: kind, Amount: amount, Unit: WeightOf(unit)}, nil
}

// NewMoneyDeclaration creates a cash declaration in a currency.
func NewMoneyDeclaration(amount decimal.Decimal, currency CurrencyCode) (Declaration, error) {
	currency = NormalizeCurrency(string(currency))
	if currency == "" {
		return Declaration{}, fmt.Errorf("money declared without currency: %w", ErrKindUnitMismatch)
	}
	if !amount.IsPositive() {
		return Declaration{}, fmt.Errorf("money amount %s: %w", amount, ErrInvalidAmount)
	}
	return Declaration{Kind: KindMoney, Amount: amount, Unit: CurrencyOf(currency)}, nil
}

// String renders the declaration as "50 g gold" or "300000 PKR".
func (d Declaration) String() string {
	if w, ok := d.Unit.Weight(); ok {
		return fmt.Sprintf("%s %s %s", d.Amount, w.Symbol(), d.Kind)
	}
	return fmt.Sprintf("%s %s", d.Amount, d.Unit)
}

// DisplayAmount renders amount and unit without the kind.
func (d Declaration) DisplayAmount() string {
	if w, ok := d.Unit.Weight(); ok {
		return fmt.Sprintf("%s %s", d.Amount, w.Symbol())
	}
	return fmt.Sprintf("%s %s", d.Amount, d.Unit)
}
