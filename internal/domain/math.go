package domain

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const displayPrecision = 2

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// RoundMoney rounds a monetary amount to two decimal places for display.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(displayPrecision)
}

// FormatMoney formats an amount with the currency's minor-unit digits and grouping.
// The symbol comes from the price table; unknown codes use two fraction digits.
func FormatMoney(amount decimal.Decimal, code CurrencyCode, symbol string) string {
	fraction, dec, thousand, template := displayPrecision, ".", ",", "$1"
	if cur := money.GetCurrency(string(code)); cur != nil {
		fraction, dec, thousand, template = cur.Fraction, cur.Decimal, cur.Thousand, cur.Template
	}
	if symbol == "" {
		symbol = string(code) + " "
	}
	f := money.NewFormatter(fraction, dec, thousand, symbol, template)
	minor := amount.Round(int32(fraction)).Shift(int32(fraction))
	if minor.Abs().LessThanOrEqual(maxMinorUnits) {
		return f.Format(minor.IntPart())
	}
	return formatMinorDigits(f, minor)
}

// formatMinorDigits lays out minor units too large for int64 the same way
// money.Formatter does.
func formatMinorDigits(f *money.Formatter, minor decimal.Decimal) string {
	sa := minor.Abs().String()
	if f.Thousand != "" {
		for i := len(sa) - f.Fraction - 3; i > 0; i -= 3 {
			sa = sa[:i] + f.Thousand + sa[i:]
		}
	}
	if f.Fraction > 0 {
		sa = sa[:len(sa)-f.Fraction] + f.Decimal + sa[len(sa)-f.Fraction:]
	}
	sa = strings.Replace(f.Template, "1", sa, 1)
	sa = strings.Replace(sa, "$", f.Grapheme, 1)
	if minor.IsNegative() {
		sa = "-" + sa
	}
	return sa
}
