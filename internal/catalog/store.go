// Package catalog holds the locally known product list and the client
// that pages it in from the upstream product API.
package catalog

import (
	"sync"

	"github.com/storefrontlabs/productsearch/internal/domain"
)

// Store is the append-only, in-memory product sequence observed by the
// search pipeline. Appends merge by unique ID in arrival order, so the
// list only ever grows at the tail. Subscribers are notified
// synchronously, including for empty appends, because an empty first
// page must still complete the initial synchronization pass.
type Store struct {
	mu          sync.RWMutex
	products    []domain.Product
	byID        map[int]domain.Product
	total       int
	subscribers []func([]domain.Product)
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{
		byID: make(map[int]domain.Product),
	}
}

// Subscribe registers a listener invoked synchronously after every
// append with a snapshot of the full product list.
func (s *Store) Subscribe(fn func([]domain.Product)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Append merges the given products into the store, skipping IDs already
// present, and records the upstream total when it is known (total < 0
// leaves the recorded value untouched). Subscribers are notified even
// when nothing new was added.
func (s *Store) Append(products []domain.Product, total int) {
	s.mu.Lock()
	for _, p := range products {
		if _, exists := s.byID[p.ID]; exists {
			continue
		}
		s.byID[p.ID] = p
		s.products = append(s.products, p)
	}
	if total >= 0 {
		s.total = total
	}

	snapshot := s.snapshotLocked()
	subs := make([]func([]domain.Product), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Snapshot returns a copy of the current product list in arrival order.
func (s *Store) Snapshot() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get returns the product with the given ID, if known locally.
func (s *Store) Get(id int) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// Len returns the number of locally known products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Total returns the upstream catalog size as last reported by the
// product API, or zero before the first page arrives.
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// ReachedEnd reports whether every upstream product has been paged in.
func (s *Store) ReachedEnd() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total > 0 && len(s.products) >= s.total
}

func (s *Store) snapshotLocked() []domain.Product {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}
