package valuation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

// amountRegex splits "2.5 tola", "50g", "300000 PKR" into number and unit.
var amountRegex = regexp.MustCompile(`^([\d.,]+)\s*([\p{L}]*)$`)

// ParseDeclaration parses a user-entered amount such as "50g", "2.5 tola" or
// "1.234,56 PKR" into a declaration of kind. Cash without a currency is
// declared in defaultCurrency.
func ParseDeclaration(kind domain.Kind, raw string, defaultCurrency domain.CurrencyCode) (domain.Declaration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Declaration{}, fmt.Errorf("empty %s amount: %w", kind, domain.ErrInvalidAmount)
	}

	matches := amountRegex.FindStringSubmatch(raw)
	if matches == nil {
		return domain.Declaration{}, fmt.Errorf("invalid %s amount %q: %w", kind, raw, domain.ErrInvalidAmount)
	}

	normalized, err := normalizeAmount(matches[1])
	if err != nil {
		return domain.Declaration{}, fmt.Errorf("invalid %s amount: %w", kind, err)
	}
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return domain.Declaration{}, fmt.Errorf("invalid %s amount %q: %w", kind, raw, domain.ErrInvalidAmount)
	}
	unit := matches[2]

	if kind == domain.KindMoney {
		currency := domain.NormalizeCurrency(unit)
		if currency == "" {
			currency = defaultCurrency
		}
		return domain.NewMoneyDeclaration(amount, currency)
	}

	if unit == "" {
		unit = string(domain.UnitGram)
	}
	weight, err := domain.ParseWeightUnit(unit)
	if err != nil {
		return domain.Declaration{}, err
	}
	return domain.NewMetalDeclaration(kind, amount, weight)
}

// ParseOptional is ParseDeclaration for combined-mode inputs, where a blank or zero
// amount means the asset is absent and yields nil.
func ParseOptional(kind domain.Kind, raw string, defaultCurrency domain.CurrencyCode) (*domain.Declaration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if m := amountRegex.FindStringSubmatch(raw); m != nil {
		if normalized, err := normalizeAmount(m[1]); err == nil {
			if amount, err := decimal.NewFromString(normalized); err == nil && amount.IsZero() {
				return nil, nil
			}
		}
	}
	decl, err := ParseDeclaration(kind, raw, defaultCurrency)
	if err != nil {
		return nil, err
	}
	return &decl, nil
}

// ParseTagged parses "kind:amount" pairs such as "gold:50g" or "money:300000".
func ParseTagged(raw string, defaultCurrency domain.CurrencyCode) (domain.Declaration, error) {
	kindStr, amount, ok := strings.Cut(raw, ":")
	if !ok {
		return domain.Declaration{}, fmt.Errorf("expected kind:amount with kind one of %s, got %q: %w",
			strings.Join(SupportedKinds(), ", "), raw, domain.ErrKindUnitMismatch)
	}
	kind, err := domain.ParseKind(kindStr)
	if err != nil {
		return domain.Declaration{}, err
	}
	return ParseDeclaration(kind, amount, defaultCurrency)
}

// SupportedKinds lists the kinds ParseTagged accepts.
func SupportedKinds() []string {
	return lo.Map([]domain.Kind{domain.KindGold, domain.KindSilver, domain.KindMoney}, func(k domain.Kind, _ int) string {
		return string(k)
	})
}

// normalizeAmount turns a user-entered number into plain decimal form.
// "300,000" and "1.234.567" are digit grouping; "1,5" and "1.5" are fractions;
// "1.234,56" and "1,234.56" use the last separator as the decimal point.
// Anything that fits none of these is rejected.
func normalizeAmount(s string) (string, error) {
	lastComma, lastDot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		group, point := ".", ","
		if lastDot > lastComma {
			group, point = ",", "."
		}
		whole, frac, _ := strings.Cut(s, point)
		if strings.Contains(frac, group) || strings.Contains(frac, point) {
			return "", fmt.Errorf("amount %q: misplaced separator: %w", s, domain.ErrInvalidAmount)
		}
		digits, err := ungroup(whole, group)
		if err != nil {
			return "", fmt.Errorf("amount %q: %w", s, err)
		}
		return digits + "." + frac, nil

	case lastComma >= 0:
		return normalizeSingleSeparator(s, ",")
	case lastDot >= 0:
		return normalizeSingleSeparator(s, ".")
	}
	return s, nil
}

// normalizeSingleSeparator handles numbers that use only sep. One occurrence
// followed by exactly three digits is grouping for a comma and a fraction for a dot.
func normalizeSingleSeparator(s, sep string) (string, error) {
	parts := strings.Split(s, sep)
	if len(parts) == 2 && (sep == "." || len(parts[1]) != 3) {
		if parts[0] == "" && parts[1] == "" {
			return "", fmt.Errorf("amount %q: %w", s, domain.ErrInvalidAmount)
		}
		return parts[0] + "." + parts[1], nil
	}
	digits, err := ungroup(s, sep)
	if err != nil {
		return "", fmt.Errorf("amount %q: %w", s, err)
	}
	return digits, nil
}

// ungroup removes sep from a grouped integer such as "1,250,000", checking that
// the leading group has 1-3 digits and every later group exactly 3.
func ungroup(s, sep string) (string, error) {
	groups := strings.Split(s, sep)
	if len(groups[0]) == 0 || len(groups[0]) > 3 && len(groups) > 1 {
		return "", fmt.Errorf("bad digit grouping: %w", domain.ErrInvalidAmount)
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", fmt.Errorf("bad digit grouping: %w", domain.ErrInvalidAmount)
		}
	}
	return strings.Join(groups, ""), nil
}
