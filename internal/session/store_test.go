package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/ledger"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore(0, 0)
	id, err := s.Create("PKR")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty ID")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	err = s.With(id, func(l *ledger.Ledger) error {
		if l.Currency() != "PKR" {
			t.Errorf("currency = %s, want PKR", l.Currency())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.With(id, func(*ledger.Ledger) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("With after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestStoreSerializesAccess(t *testing.T) {
	s := NewStore(0, 0)
	id, err := s.Create("USD")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	table := domain.PriceTable{
		"USD": {
			Symbol: "$",
			USD:    decimal.NewFromInt(1),
			Gold:   domain.MetalPrice{PerGram: decimal.NewFromInt(108)},
			Silver: domain.MetalPrice{PerGram: decimal.RequireFromString("1.26")},
		},
	}
	decl, _ := domain.NewMoneyDeclaration(decimal.NewFromInt(1000), "USD")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.With(id, func(l *ledger.Ledger) error {
				_, err := l.Add(decl, table, "USD")
				return err
			})
		}()
	}
	wg.Wait()

	_ = s.With(id, func(l *ledger.Ledger) error {
		snap := l.Snapshot()
		if len(snap.Records) != 50 {
			t.Errorf("records = %d, want 50", len(snap.Records))
		}
		if !snap.TotalMonetary.Equal(decimal.NewFromInt(50000)) {
			t.Errorf("total = %s, want 50000", snap.TotalMonetary)
		}
		return nil
	})
}

func TestStoreIdleExpiry(t *testing.T) {
	clock := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(0, time.Hour)
	s.now = func() time.Time { return clock }

	kept, _ := s.Create("PKR")
	idle, _ := s.Create("USD")

	clock = clock.Add(40 * time.Minute)
	if err := s.With(kept, func(*ledger.Ledger) error { return nil }); err != nil {
		t.Fatalf("With: %v", err)
	}

	clock = clock.Add(30 * time.Minute)
	if err := s.With(idle, func(*ledger.Ledger) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("With on idle ledger = %v, want ErrNotFound", err)
	}
	if err := s.With(kept, func(*ledger.Ledger) error { return nil }); err != nil {
		t.Errorf("With on recently used ledger = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	clock = clock.Add(2 * time.Hour)
	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if err := s.Delete(kept); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete after sweep = %v, want ErrNotFound", err)
	}
}

func TestStoreCap(t *testing.T) {
	clock := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(2, time.Hour)
	s.now = func() time.Time { return clock }

	for range 2 {
		if _, err := s.Create("PKR"); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := s.Create("PKR"); !errors.Is(err, ErrStoreFull) {
		t.Fatalf("Create over cap = %v, want ErrStoreFull", err)
	}

	clock = clock.Add(time.Hour)
	if _, err := s.Create("PKR"); err != nil {
		t.Fatalf("Create after idle ledgers expired: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
