// Package units converts precious-metal quantities between grams, tolas and kilograms.
package units

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

var (
	// GramsPerTola is the mass of one tola.
	GramsPerTola = decimal.RequireFromString("11.664")
	// GramsPerKilogram is the mass of one kilogram.
	GramsPerKilogram = decimal.NewFromInt(1000)
)

func gramsPer(unit domain.WeightUnit) (decimal.Decimal, error) {
	switch unit {
	case domain.UnitGram:
		return decimal.NewFromInt(1), nil
	case domain.UnitTola:
		return GramsPerTola, nil
	case domain.UnitKilogram:
		return GramsPerKilogram, nil
	}
	return decimal.Zero, fmt.Errorf("%q: %w", unit, domain.ErrInvalidUnit)
}

// ToGrams converts an amount in unit to grams.
func ToGrams(amount decimal.Decimal, unit domain.WeightUnit) (decimal.Decimal, error) {
	factor, err := gramsPer(unit)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(factor), nil
}

// FromGrams converts grams to an amount in unit.
func FromGrams(grams decimal.Decimal, unit domain.WeightUnit) (decimal.Decimal, error) {
	factor, err := gramsPer(unit)
	if err != nil {
		return decimal.Zero, err
	}
	return grams.Div(factor), nil
}

// Convert converts amount from one weight unit to another through grams.
func Convert(amount decimal.Decimal, from, to domain.WeightUnit) (decimal.Decimal, error) {
	grams, err := ToGrams(amount, from)
	if err != nil {
		return decimal.Zero, err
	}
	return FromGrams(grams, to)
}
