// Package memory provides the bounded recent-exchange store attached to
// every request. The in-memory implementation suits tests and single
// process deployments; production setups swap in a durable store behind
// the same core.MemoryStore interface.
package memory

import (
	"sync"
	"time"

	"github.com/hupe1980/intentmesh/core"
)

// DefaultMaxExchanges bounds how many exchanges are remembered per user.
const DefaultMaxExchanges = 10

// DefaultTTL bounds how long an exchange is remembered.
const DefaultTTL = 30 * time.Minute

// InMemoryStore is a process-local core.MemoryStore keeping a bounded,
// TTL-bound ring of exchanges per user. Safe for concurrent access; the
// lock discipline is its own, outside the single-threaded request core.
type InMemoryStore struct {
	mu        sync.RWMutex
	exchanges map[string][]core.Exchange
	maxPer    int
	ttl       time.Duration
	now       func() time.Time
}

// InMemoryOption customizes an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithMaxExchanges overrides the per-user bound.
func WithMaxExchanges(n int) InMemoryOption {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.maxPer = n
		}
	}
}

// WithTTL overrides how long exchanges are remembered.
func WithTTL(d time.Duration) InMemoryOption {
	return func(s *InMemoryStore) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithClock overrides the time source; tests use it to age entries.
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) { s.now = now }
}

// NewInMemoryStore constructs an empty store with default bounds.
func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		exchanges: make(map[string][]core.Exchange),
		maxPer:    DefaultMaxExchanges,
		ttl:       DefaultTTL,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Recent implements core.MemoryStore. Expired entries are filtered out;
// the returned slice is a copy, oldest first.
func (s *InMemoryStore) Recent(userID string) ([]core.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-s.ttl)
	stored := s.exchanges[userID]
	out := make([]core.Exchange, 0, len(stored))
	for _, ex := range stored {
		if ex.Time.After(cutoff) {
			out = append(out, ex)
		}
	}
	return out, nil
}

// AddExchange implements core.MemoryStore. When the per-user bound is
// reached the oldest entry is evicted; expired entries are dropped
// opportunistically on every write.
func (s *InMemoryStore) AddExchange(userID string, ex core.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	kept := make([]core.Exchange, 0, s.maxPer)
	for _, old := range s.exchanges[userID] {
		if old.Time.After(cutoff) {
			kept = append(kept, old)
		}
	}
	kept = append(kept, ex)
	if len(kept) > s.maxPer {
		kept = kept[len(kept)-s.maxPer:]
	}
	s.exchanges[userID] = kept
	return nil
}
