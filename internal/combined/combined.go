// Package combined values a fixed set of simultaneous declarations and tests
// whether their sum meets Nisab, without gating individual assets.
package combined

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/nisab"
	"github.com/mtlprog/zakat/internal/valuation"
)

// ErrDuplicateKind indicates more than one declaration of the same kind.
var ErrDuplicateKind = errors.New("duplicate asset kind")

// Inputs holds at most one declaration per kind. Nil entries are skipped.
type Inputs struct {
	Gold   *domain.Declaration
	Silver *domain.Declaration
	Money  *domain.Declaration
}

// FromDeclarations sorts declarations into Inputs.
func FromDeclarations(decls []domain.Declaration) (Inputs, error) {
	var in Inputs
	for i := range decls {
		decl := decls[i]
		var slot **domain.Declaration
		switch decl.Kind {
		case domain.KindGold:
			slot = &in.Gold
		case domain.KindSilver:
			slot = &in.Silver
		case domain.KindMoney:
			slot = &in.Money
		default:
			return Inputs{}, fmt.Errorf("unknown kind %q: %w", decl.Kind, domain.ErrKindUnitMismatch)
		}
		if *slot != nil {
			return Inputs{}, fmt.Errorf("%s declared twice: %w", decl.Kind, ErrDuplicateKind)
		}
		*slot = &decl
	}
	return in, nil
}

func (in Inputs) present() []domain.Declaration {
	return lo.FilterMap([]*domain.Declaration{in.Gold, in.Silver, in.Money}, func(d *domain.Declaration, _ int) (domain.Declaration, bool) {
		if d == nil {
			return domain.Declaration{}, false
		}
		return *d, true
	})
}

// Compute values every present declaration in currency, sums them and evaluates the
// total against both thresholds. Assets below Nisab on their own are still counted.
func Compute(in Inputs, table domain.PriceTable, currency domain.CurrencyCode) (domain.CombinedResult, error) {
	th, err := nisab.Thresholds(table, currency)
	if err != nil {
		return domain.CombinedResult{}, err
	}

	decls := in.present()
	breakdown := make([]domain.BreakdownLine, 0, len(decls))
	for _, decl := range decls {
		v, err := valuation.Value(decl, table, currency)
		if err != nil {
			return domain.CombinedResult{}, fmt.Errorf("valuing %s: %w", decl.Kind, err)
		}
		breakdown = append(breakdown, domain.BreakdownLine{
			Kind:          decl.Kind,
			DisplayAmount: decl.DisplayAmount(),
			ValuedAmount:  v,
		})
	}

	total := lo.Reduce(breakdown, func(acc decimal.Decimal, line domain.BreakdownLine, _ int) decimal.Decimal {
		return acc.Add(line.ValuedAmount)
	}, decimal.Zero)
	el := nisab.Evaluate(total, th)

	return domain.CombinedResult{
		Currency:           currency,
		TotalValue:         total,
		Thresholds:         th,
		IsEligibleByGold:   el.ByGold,
		IsEligibleBySilver: el.BySilver,
		IsEligible:         el.Eligible,
		ZakatAmount:        nisab.ZakatDue(total, el.Eligible),
		Breakdown:          breakdown,
	}, nil
}
