package nisab

import (
	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

// Rate is the Zakat rate on eligible wealth.
var Rate = decimal.RequireFromString("0.025")

// Evaluate compares amount against both thresholds. The amount is eligible if it
// meets either one.
func Evaluate(amount decimal.Decimal, th domain.Thresholds) domain.Eligibility {
	byGold := amount.GreaterThanOrEqual(th.Gold)
	bySilver := amount.GreaterThanOrEqual(th.Silver)
	return domain.Eligibility{
		ByGold:   byGold,
		BySilver: bySilver,
		Eligible: byGold || bySilver,
	}
}

// ZakatDue returns 2.5% of amount when eligible, zero otherwise.
func ZakatDue(amount decimal.Decimal, eligible bool) decimal.Decimal {
	if !eligible {
		return decimal.Zero
	}
	return amount.Mul(Rate)
}
