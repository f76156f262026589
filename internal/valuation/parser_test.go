package valuation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
)

func TestParseDeclaration(t *testing.T) {
	tests := []struct {
		name       string
		kind       domain.Kind
		input      string
		wantAmount string
		wantUnit   string
		wantErr    error
	}{
		{"grams compact", domain.KindGold, "50g", "50", "gram", nil},
		{"tola spaced", domain.KindSilver, "2.5 tola", "2.5", "tola", nil},
		{"kilogram", domain.KindGold, "1 kg", "1", "kilogram", nil},
		{"bare metal defaults to grams", domain.KindGold, "10", "10", "gram", nil},
		{"european comma", domain.KindSilver, "0,8 g", "0.8", "gram", nil},
		{"money with currency", domain.KindMoney, "300000 pkr", "300000", "PKR", nil},
		{"money default currency", domain.KindMoney, "1.234,56", "1234.56", "USD", nil},
		{"unknown weight unit", domain.KindGold, "3 oz", "", "", domain.ErrInvalidUnit},
		{"zero rejected", domain.KindGold, "0g", "", "", domain.ErrInvalidAmount},
		{"negative rejected", domain.KindMoney, "-5", "", "", domain.ErrInvalidAmount},
		{"empty rejected", domain.KindSilver, "", "", "", domain.ErrInvalidAmount},
		{"text rejected", domain.KindGold, "hello", "", "", domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeclaration(tt.kind, tt.input, "USD")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.kind)
			}
			if !got.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Errorf("Amount = %s, want %s", got.Amount, tt.wantAmount)
			}
			if got.Unit.String() != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.wantUnit)
			}
		})
	}
}

func TestParseTagged(t *testing.T) {
	d, err := ParseTagged("cash:5000", "PKR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != domain.KindMoney || d.Unit.String() != "PKR" {
		t.Errorf("got %+v", d)
	}

	d, err = ParseTagged("silver:7.5 tola", "PKR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w, _ := d.Unit.Weight(); w != domain.UnitTola {
		t.Errorf("unit = %q, want tola", w)
	}

	if _, err := ParseTagged("50g", "PKR"); err == nil {
		t.Error("expected error without kind prefix")
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"100", "100", false},
		{"0,8", "0.8", false},
		{"1,5", "1.5", false},
		{"1.5", "1.5", false},
		{"300,000", "300000", false},
		{"1,250,000", "1250000", false},
		{"1.234.567", "1234567", false},
		{"1.234,56", "1234.56", false},
		{"1,234.56", "1234.56", false},
		{"1,250,000.75", "1250000.75", false},
		{"1,2,3", "", true},
		{"12,34,567", "", true},
		{"1234,567,890", "", true},
		{"1.2.3", "", true},
		{"1,234.5,6", "", true},
		{"1.23,45", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidAmount) {
					t.Fatalf("normalizeAmount(%q) error = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeAmount(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("normalizeAmount(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDeclarationGroupedCash(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"300,000 PKR", "300000"},
		{"1,000 PKR", "1000"},
		{"1,250,000 PKR", "1250000"},
		{"1.234,56 PKR", "1234.56"},
		{"1,5 PKR", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDeclaration(domain.KindMoney, tt.input, "PKR")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Amount.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Amount = %s, want %s", got.Amount, tt.want)
			}
		})
	}

	if _, err := ParseDeclaration(domain.KindMoney, "30,00,000 PKR", "PKR"); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("ambiguous grouping error = %v, want ErrInvalidAmount", err)
	}
}

func TestParseOptional(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantNil  bool
		wantErr  error
		wantUnit string
	}{
		{"blank is absent", "  ", true, nil, ""},
		{"zero is absent", "0", true, nil, ""},
		{"zero with unit is absent", "0 g", true, nil, ""},
		{"present", "10g", false, nil, "gram"},
		{"invalid unit", "10 oz", false, domain.ErrInvalidUnit, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptional(domain.KindSilver, tt.input, "PKR")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if got == nil || got.Unit.String() != tt.wantUnit {
				t.Errorf("got %v, want unit %s", got, tt.wantUnit)
			}
		})
	}
}
