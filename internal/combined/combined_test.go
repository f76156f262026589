package combined

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testTable() domain.PriceTable {
	return domain.PriceTable{
		"PKR": {
			Symbol: "₨",
			USD:    d("0.0036"),
			Gold:   domain.MetalPrice{PerGram: d("30000"), PerTola: d("349920")},
			Silver: domain.MetalPrice{PerGram: d("350"), PerTola: d("4082.4")},
		},
	}
}

func decl(t *testing.T, kind domain.Kind, amount string, unit domain.WeightUnit) *domain.Declaration {
	t.Helper()
	dd, err := domain.NewMetalDeclaration(kind, d(amount), unit)
	if err != nil {
		t.Fatalf("NewMetalDeclaration: %v", err)
	}
	return &dd
}

func TestComputeAdmitsSubThresholdAssets(t *testing.T) {
	in := Inputs{
		Gold:   decl(t, domain.KindGold, "10", domain.UnitGram),
		Silver: decl(t, domain.KindSilver, "10", domain.UnitGram),
	}

	res, err := Compute(in, testTable(), "PKR")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// 10 g gold = 300000 and 10 g silver = 3500, both below their own thresholds
	if !res.TotalValue.Equal(d("303500")) {
		t.Errorf("total = %s, want 303500", res.TotalValue)
	}
	if len(res.Breakdown) != 2 {
		t.Fatalf("breakdown = %+v", res.Breakdown)
	}
	if res.Breakdown[0].Kind != domain.KindGold || res.Breakdown[0].DisplayAmount != "10 g" {
		t.Errorf("breakdown[0] = %+v", res.Breakdown[0])
	}
	if !res.Breakdown[1].ValuedAmount.Equal(d("3500")) {
		t.Errorf("silver value = %s, want 3500", res.Breakdown[1].ValuedAmount)
	}
	if res.IsEligibleByGold {
		t.Error("eligible by gold, want false")
	}
	if !res.IsEligibleBySilver || !res.IsEligible {
		t.Errorf("eligibility = %+v", res)
	}
	if !res.ZakatAmount.Equal(d("7587.5")) {
		t.Errorf("zakat = %s, want 7587.5", res.ZakatAmount)
	}
}

func TestComputeNotEligible(t *testing.T) {
	cash, _ := domain.NewMoneyDeclaration(d("1000"), "PKR")
	in := Inputs{Silver: decl(t, domain.KindSilver, "1", domain.UnitTola), Money: &cash}

	res, err := Compute(in, testTable(), "PKR")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.IsEligible || !res.ZakatAmount.IsZero() {
		t.Errorf("result = %+v, want not eligible", res)
	}
	// 11.664 g * 350 + 1000
	if !res.TotalValue.Equal(d("5082.4")) {
		t.Errorf("total = %s, want 5082.4", res.TotalValue)
	}
}

func TestComputeEmpty(t *testing.T) {
	res, err := Compute(Inputs{}, testTable(), "PKR")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !res.TotalValue.IsZero() || res.IsEligible || len(res.Breakdown) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestComputeErrors(t *testing.T) {
	if _, err := Compute(Inputs{}, testTable(), "USD"); !errors.Is(err, domain.ErrCurrencyNotFound) {
		t.Errorf("missing currency error = %v", err)
	}

	cash, _ := domain.NewMoneyDeclaration(d("1000"), "USD")
	if _, err := Compute(Inputs{Money: &cash}, testTable(), "PKR"); !errors.Is(err, domain.ErrUnsupportedCrossCurrency) {
		t.Errorf("cross-currency error = %v", err)
	}
}

func TestFromDeclarations(t *testing.T) {
	cash, _ := domain.NewMoneyDeclaration(d("1000"), "PKR")
	gold := *decl(t, domain.KindGold, "1", domain.UnitTola)

	in, err := FromDeclarations([]domain.Declaration{cash, gold})
	if err != nil {
		t.Fatalf("FromDeclarations: %v", err)
	}
	if in.Gold == nil || in.Money == nil || in.Silver != nil {
		t.Errorf("inputs = %+v", in)
	}
	if !in.Money.Amount.Equal(d("1000")) || !in.Gold.Amount.Equal(d("1")) {
		t.Errorf("inputs aliased: gold %s, money %s", in.Gold.Amount, in.Money.Amount)
	}

	_, err = FromDeclarations([]domain.Declaration{gold, gold})
	if !errors.Is(err, ErrDuplicateKind) {
		t.Errorf("duplicate error = %v, want ErrDuplicateKind", err)
	}
}
