// Package session keeps per-user ledgers for the HTTP API.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mtlprog/zakat/internal/domain"
	"github.com/mtlprog/zakat/internal/ledger"
)

var (
	// ErrNotFound indicates an unknown or expired ledger ID.
	ErrNotFound = errors.New("ledger not found")
	// ErrStoreFull indicates the ledger cap is reached and nothing is idle enough to evict.
	ErrStoreFull = errors.New("too many open ledgers")
)

type entry struct {
	ledger   *ledger.Ledger
	lastUsed time.Time
}

// Store holds ledgers by ID. Every access runs under the store lock, so a ledger
// operation is never observed half-applied.
//
// Ledgers untouched for idleTTL expire. When maxLedgers is reached, Create evicts
// expired ledgers first and fails with ErrStoreFull if none are. Zero disables
// either limit.
type Store struct {
	mu         sync.Mutex
	ledgers    map[string]*entry
	maxLedgers int
	idleTTL    time.Duration
	now        func() time.Time
}

// NewStore creates an empty store.
func NewStore(maxLedgers int, idleTTL time.Duration) *Store {
	return &Store{
		ledgers:    make(map[string]*entry),
		maxLedgers: maxLedgers,
		idleTTL:    idleTTL,
		now:        time.Now,
	}
}

// Create starts a new empty ledger and returns its ID.
func (s *Store) Create(currency domain.CurrencyCode) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxLedgers > 0 && len(s.ledgers) >= s.maxLedgers {
		s.sweep()
		if len(s.ledgers) >= s.maxLedgers {
			return "", ErrStoreFull
		}
	}
	s.ledgers[id] = &entry{ledger: ledger.New(currency), lastUsed: s.now()}
	return id, nil
}

// With runs fn on the ledger with the given ID while holding the store lock.
func (s *Store) With(id string, fn func(l *ledger.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return ErrNotFound
	}
	e.lastUsed = s.now()
	return fn(e.ledger)
}

// Delete drops a ledger.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(id); !ok {
		return ErrNotFound
	}
	delete(s.ledgers, id)
	return nil
}

// Sweep removes expired ledgers and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep()
}

// Len returns the number of ledgers, including expired ones not yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledgers)
}

// lookup returns the live entry for id, dropping it if it has expired.
// Callers hold s.mu.
func (s *Store) lookup(id string) (*entry, bool) {
	e, ok := s.ledgers[id]
	if !ok {
		return nil, false
	}
	if s.expired(e) {
		delete(s.ledgers, id)
		return nil, false
	}
	return e, true
}

func (s *Store) sweep() int {
	removed := 0
	for id, e := range s.ledgers {
		if s.expired(e) {
			delete(s.ledgers, id)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(e *entry) bool {
	return s.idleTTL > 0 && s.now().Sub(e.lastUsed) >= s.idleTTL
}
