package valuation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

func testTable() domain.PriceTable {
	return domain.PriceTable{
		"PKR": {
			Symbol: "₨",
			USD:    decimal.RequireFromString("0.0036"),
			Gold:   domain.MetalPrice{PerGram: decimal.NewFromInt(30000), PerTola: decimal.NewFromInt(349920)},
			Silver: domain.MetalPrice{PerGram: decimal.NewFromInt(350), PerTola: decimal.RequireFromString("4082.4")},
		},
		"USD": {
			Symbol: "$",
			USD:    decimal.NewFromInt(1),
			Gold:   domain.MetalPrice{PerGram: decimal.NewFromInt(108)},
			Silver: domain.MetalPrice{PerGram: decimal.RequireFromString("1.26")},
		},
	}
}

func mustMetal(t *testing.T, kind domain.Kind, amount string, unit domain.WeightUnit) domain.Declaration {
	t.Helper()
	d, err := domain.NewMetalDeclaration(kind, decimal.RequireFromString(amount), unit)
	if err != nil {
		t.Fatalf("NewMetalDeclaration: %v", err)
	}
	return d
}

func TestValueMetal(t *testing.T) {
	tests := []struct {
		name     string
		decl     domain.Declaration
		currency domain.CurrencyCode
		want     string
	}{
		{"gold grams pkr", mustMetal(t, domain.KindGold, "50", domain.UnitGram), "PKR", "1500000"},
		{"gold tola pkr", mustMetal(t, domain.KindGold, "1", domain.UnitTola), "PKR", "349920"},
		{"silver kg usd", mustMetal(t, domain.KindSilver, "1", domain.UnitKilogram), "USD", "1260"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Value(tt.decl, testTable(), tt.currency)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Value() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValueMoney(t *testing.T) {
	decl, _ := domain.NewMoneyDeclaration(decimal.NewFromInt(300000), "PKR")

	got, err := Value(decl, testTable(), "PKR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("Value() = %s, want 300000", got)
	}

	_, err = Value(decl, testTable(), "USD")
	if !errors.Is(err, domain.ErrUnsupportedCrossCurrency) {
		t.Errorf("cross-currency error = %v, want ErrUnsupportedCrossCurrency", err)
	}
}

func TestValueCurrencyNotFound(t *testing.T) {
	_, err := Value(mustMetal(t, domain.KindGold, "1", domain.UnitGram), testTable(), "EUR")
	if !errors.Is(err, domain.ErrCurrencyNotFound) {
		t.Errorf("error = %v, want ErrCurrencyNotFound", err)
	}
}

func TestGrams(t *testing.T) {
	g, err := Grams(mustMetal(t, domain.KindSilver, "2", domain.UnitTola))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Equal(decimal.RequireFromString("23.328")) {
		t.Errorf("Grams() = %s, want 23.328", g)
	}

	cash, _ := domain.NewMoneyDeclaration(decimal.NewFromInt(10), "USD")
	if g, _ := Grams(cash); !g.IsZero() {
		t.Errorf("Grams(cash) = %s, want 0", g)
	}
}
