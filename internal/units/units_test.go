package units

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

var epsilon = decimal.RequireFromString("0.000000001")

func TestToGrams(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		unit   domain.WeightUnit
		want   string
	}{
		{"gram identity", "87.48", domain.UnitGram, "87.48"},
		{"one tola", "1", domain.UnitTola, "11.664"},
		{"7.5 tola", "7.5", domain.UnitTola, "87.48"},
		{"kilogram", "1.5", domain.UnitKilogram, "1500"},
		{"zero", "0", domain.UnitTola, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToGrams(decimal.RequireFromString(tt.amount), tt.unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ToGrams(%s, %s) = %s, want %s", tt.amount, tt.unit, got, tt.want)
			}
		})
	}
}

func TestInvalidUnit(t *testing.T) {
	if _, err := ToGrams(decimal.NewFromInt(1), "ounce"); !errors.Is(err, domain.ErrInvalidUnit) {
		t.Errorf("ToGrams error = %v, want ErrInvalidUnit", err)
	}
	if _, err := FromGrams(decimal.NewFromInt(1), ""); !errors.Is(err, domain.ErrInvalidUnit) {
		t.Errorf("FromGrams error = %v, want ErrInvalidUnit", err)
	}
	if _, err := Convert(decimal.NewFromInt(1), domain.UnitGram, "pound"); !errors.Is(err, domain.ErrInvalidUnit) {
		t.Errorf("Convert error = %v, want ErrInvalidUnit", err)
	}
}

func TestRoundTrip(t *testing.T) {
	amounts := []string{"0", "0.001", "1", "3.3333", "11.664", "612.36", "1234567.891"}
	unitList := []domain.WeightUnit{domain.UnitGram, domain.UnitTola, domain.UnitKilogram}

	for _, a := range amounts {
		for _, u := range unitList {
			amount := decimal.RequireFromString(a)
			grams, err := ToGrams(amount, u)
			if err != nil {
				t.Fatalf("ToGrams(%s, %s): %v", a, u, err)
			}
			back, err := FromGrams(grams, u)
			if err != nil {
				t.Fatalf("FromGrams(%s, %s): %v", grams, u, err)
			}
			if back.Sub(amount).Abs().GreaterThan(epsilon) {
				t.Errorf("round trip %s %s = %s", a, u, back)
			}
		}
	}
}

func TestConvert(t *testing.T) {
	got, err := Convert(decimal.NewFromInt(1), domain.UnitKilogram, domain.UnitTola)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.NewFromInt(1000).Div(GramsPerTola)
	if got.Sub(want).Abs().GreaterThan(epsilon) {
		t.Errorf("1 kg in tola = %s, want %s", got, want)
	}
}
