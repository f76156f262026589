// Package pricefeed obtains a validated price table for the Zakat engine: from a
// short-lived cache, the live feed, the last table held in memory, the last stored
// table, or, failing all of those, a default currency list with calculations disabled.
package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"

	"github.com/mtlprog/zakat/internal/domain"
)

// ErrCalculationsDisabled indicates that no price table is available.
var ErrCalculationsDisabled = errors.New("calculations disabled: no price table available")

// Source tells where a snapshot's prices came from.
type Source string

const (
	SourceLive    Source = "live"
	SourceCache   Source = "cache"
	SourceStale   Source = "stale"
	SourceStored  Source = "stored"
	SourceDefault Source = "default"
)

// failureBackoff is how long requests skip the live feed after a failed fetch.
const failureBackoff = 30 * time.Second

// Fetcher downloads a validated price table.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.PriceTable, error)
}

// onceFetcher is implemented by fetchers that can make a single attempt without
// retries. Requests use it; the refresh worker keeps the retrying Fetch.
type onceFetcher interface {
	FetchOnce(ctx context.Context) (domain.PriceTable, error)
}

// Observer is notified of feed fetches and of the source served to callers.
type Observer interface {
	FeedFetched(err error)
	SourceServed(source Source)
}

// Snapshot is the price state handed to callers.
type Snapshot struct {
	Table               domain.PriceTable     `json:"-"`
	Currencies          []domain.CurrencyInfo `json:"currencies"`
	Source              Source                `json:"source"`
	FetchedAt           *time.Time            `json:"fetchedAt,omitempty"`
	CalculationsEnabled bool                  `json:"calculationsEnabled"`
}

// Require returns the table or ErrCalculationsDisabled.
func (s Snapshot) Require() (domain.PriceTable, error) {
	if !s.CalculationsEnabled || s.Table == nil {
		return nil, ErrCalculationsDisabled
	}
	return s.Table, nil
}

// Service resolves the current price table.
type Service struct {
	fetcher   Fetcher
	key       string
	repo      Repository
	cache     *tableCache
	observers []Observer
	group     singleflight.Group
	now       func() time.Time

	mu          sync.Mutex
	lastFailure time.Time
}

// NewService creates a price feed service. repo may be nil when no database is configured.
func NewService(fetcher Fetcher, key string, repo Repository, ttl time.Duration, observers ...Observer) *Service {
	return &Service{
		fetcher:   fetcher,
		key:       key,
		repo:      repo,
		cache:     newTableCache(ttl),
		observers: observers,
		now:       time.Now,
	}
}

// Current returns the freshest available prices. It only fails if the default
// currency list cannot be loaded. The live feed is tried once per request and not
// at all for failureBackoff after a failure.
func (s *Service) Current(ctx context.Context) (Snapshot, error) {
	entry, fresh, cached := s.cache.get(s.key)
	if cached && fresh {
		return s.serve(newSnapshot(entry.table, entry.fetchedAt, SourceCache)), nil
	}

	if !s.recentlyFailed() {
		live, err := s.fetchShared(ctx)
		if err == nil {
			return s.serve(newSnapshot(live.table, live.fetchedAt, SourceLive)), nil
		}
		slog.Warn("price feed unavailable, falling back", "error", err)
	}

	if cached {
		return s.serve(newSnapshot(entry.table, entry.fetchedAt, SourceStale)), nil
	}

	if s.repo != nil {
		stored, err := s.repo.LatestTable(ctx)
		if err == nil {
			return s.serve(newSnapshot(stored.Table, stored.FetchedAt, SourceStored)), nil
		}
		if !errors.Is(err, ErrNoStoredTable) {
			slog.Warn("stored price table unavailable", "error", err)
		}
	}

	currencies, err := DefaultCurrencies()
	if err != nil {
		return Snapshot{}, err
	}
	return s.serve(Snapshot{
		Currencies: currencies,
		Source:     SourceDefault,
	}), nil
}

// Refresh fetches a new table with retries, caches it and stores it.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.refresh(ctx, s.fetcher.Fetch)
	return err
}

// fetchShared makes one live fetch on behalf of all concurrent requests.
func (s *Service) fetchShared(ctx context.Context) (cacheEntry, error) {
	fetch := s.fetcher.Fetch
	if f, ok := s.fetcher.(onceFetcher); ok {
		fetch = f.FetchOnce
	}
	v, err, _ := s.group.Do(s.key, func() (any, error) {
		return s.refresh(ctx, fetch)
	})
	if err != nil {
		return cacheEntry{}, err
	}
	return v.(cacheEntry), nil
}

func (s *Service) refresh(ctx context.Context, fetch func(context.Context) (domain.PriceTable, error)) (cacheEntry, error) {
	table, err := fetch(ctx)
	for _, o := range s.observers {
		o.FeedFetched(err)
	}
	s.recordResult(err)
	if err != nil {
		return cacheEntry{}, fmt.Errorf("fetching price table: %w", err)
	}

	fetchedAt := s.now().UTC()
	s.cache.set(s.key, table, fetchedAt)

	if s.repo != nil {
		if err := s.repo.SaveTable(ctx, table, fetchedAt); err != nil {
			slog.Warn("failed to store price table", "error", err)
		}
	}
	return cacheEntry{table: table, fetchedAt: fetchedAt}, nil
}

func (s *Service) recordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastFailure = s.now()
		return
	}
	s.lastFailure = time.Time{}
}

func (s *Service) recentlyFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastFailure.IsZero() && s.now().Sub(s.lastFailure) < failureBackoff
}

func (s *Service) serve(snap Snapshot) Snapshot {
	for _, o := range s.observers {
		o.SourceServed(snap.Source)
	}
	return snap
}

func newSnapshot(table domain.PriceTable, fetchedAt time.Time, source Source) Snapshot {
	return Snapshot{
		Table: table,
		Currencies: lo.Map(table.Codes(), func(code domain.CurrencyCode, _ int) domain.CurrencyInfo {
			return domain.CurrencyInfo{Code: code, Symbol: table[code].Symbol}
		}),
		Source:              source,
		FetchedAt:           &fetchedAt,
		CalculationsEnabled: true,
	}
}
