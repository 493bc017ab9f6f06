package records

import (
	"context"
	"sync"

	"certledger/pkg/domain"
)

// Store is the fingerprint-keyed record mapping. The store is the sole owner
// of Record values; other components read it or request insertion through the
// ledger path.
type Store interface {
	// Lookup is total: an unknown fingerprint returns (nil, nil), never an error.
	Lookup(ctx context.Context, fp domain.Fingerprint) (*Record, error)
	// Insert stores a record keyed by its fingerprint. Re-inserting the same
	// fingerprint overwrites, which keeps retries idempotent.
	Insert(ctx context.Context, record Record) error
}

// InMemoryStore is the in-memory implementation of Store, seeded with fixture
// data at startup and living for the process lifetime.
// It is safe for concurrent access but does not persist across process restarts.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.Fingerprint]Record
}

// NewInMemoryStore constructs an empty in-memory record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.Fingerprint]Record)}
}

// Lookup retrieves a record by fingerprint, or (nil, nil) when absent.
func (s *InMemoryStore) Lookup(_ context.Context, fp domain.Fingerprint) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[fp]; ok {
		return &rec, nil
	}
	return nil, nil
}

// Insert stores or overwrites a record by fingerprint.
func (s *InMemoryStore) Insert(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Fingerprint] = record
	return nil
}

// Len reports the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
