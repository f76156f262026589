package domain

import (
	"fmt"
	"strings"
)

// Kind identifies the asset class of a declaration.
type Kind string

const (
	KindGold   Kind = "gold"
	KindSilver Kind = "silver"
	KindMoney  Kind = "money"
)

// IsMetal returns true for gold and silver.
func (k Kind) IsMetal() bool {
	return k == KindGold || k == KindSilver
}

// ParseKind parses a kind name ("gold", "silver", "money"/"cash").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gold":
		return KindGold, nil
	case "silver":
		return KindSilver, nil
	case "money", "cash":
		return KindMoney, nil
	}
	return "", fmt.Errorf("unknown asset kind %q: %w", s, ErrKindUnitMismatch)
}

// WeightUnit is a mass unit for precious metals.
type WeightUnit string

const (
	UnitGram     WeightUnit = "gram"
	UnitTola     WeightUnit = "tola"
	UnitKilogram WeightUnit = "kilogram"
)

// ParseWeightUnit accepts the usual spellings and abbreviations of gram, tola and kilogram.
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "gr", "gram", "grams":
		return UnitGram, nil
	case "t", "tola", "tolas":
		return UnitTola, nil
	case "kg", "kilogram", "kilograms":
		return UnitKilogram, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidUnit)
}

// Symbol returns the short display form of the unit.
func (u WeightUnit) Symbol() string {
	switch u {
	case UnitGram:
		return "g"
	case UnitTola:
		return "tola"
	case UnitKilogram:
		return "kg"
	}
	return string(u)
}

// CurrencyCode is an upper-case currency code such as "PKR".
type CurrencyCode string

// NormalizeCurrency trims and upper-cases a currency code.
func NormalizeCurrency(s string) CurrencyCode {
	return CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
}

// Unit is either a weight unit (gold, silver) or a currency code (money).
// The zero value is invalid; use WeightOf or CurrencyOf.
type Unit struct {
	weight   WeightUnit
	currency CurrencyCode
}

// WeightOf wraps a weight unit.
func WeightOf(u WeightUnit) Unit { return Unit{weight: u} }

// CurrencyOf wraps a currency code.
func CurrencyOf(c CurrencyCode) Unit { return Unit{currency: c} }

// Weight returns the weight unit and true if the unit is a weight.
func (u Unit) Weight() (WeightUnit, bool) { return u.weight, u.weight != "" }

// Currency returns the currency code and true if the unit is a currency.
func (u Unit) Currency() (CurrencyCode, bool) { return u.currency, u.currency != "" }

func (u Unit) String() string {
	if u.weight != "" {
		return string(u.weight)
	}
	return string(u.currency)
}

// MarshalText encodes the unit as its string form.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}
