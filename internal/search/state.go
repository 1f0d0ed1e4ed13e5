// Package search implements the reactive product-search pipeline: the
// published search state, the catalog-to-index synchronizer, and the
// orchestrator that decides when a query actually runs.
package search

import (
	"sync"

	"github.com/storefrontlabs/productsearch/internal/domain"
)

// Change identifies which part of the search state was mutated, so
// subscribers can react to query and readiness transitions without
// re-triggering on their own result publications.
type Change int

const (
	ChangeQuery Change = iota
	ChangeResults
	ChangeReady
)

// State holds the published search triple (query, results, indexReady)
// and notifies subscribers synchronously on every mutation. It contains
// no search logic: it is pure storage with change notification.
type State struct {
	mu          sync.RWMutex
	query       string
	results     []domain.Product
	indexReady  bool
	subscribers []func(Change)
}

// NewState creates an empty search state.
func NewState() *State {
	return &State{}
}

// Subscribe registers a listener invoked synchronously after each state
// change. Listeners run on the mutating goroutine, outside the state
// lock, so they may read the state freely.
func (s *State) Subscribe(fn func(Change)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Query returns the current normalized query string.
func (s *State) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Results returns a copy of the currently published results.
func (s *State) Results() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.results))
	copy(out, s.results)
	return out
}

// IndexReady reports whether the initial synchronization pass has
// completed.
func (s *State) IndexReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexReady
}

// SetQuery stores the current query and notifies subscribers. Setting
// an unchanged query is a no-op.
func (s *State) SetQuery(query string) {
	s.mu.Lock()
	if s.query == query {
		s.mu.Unlock()
		return
	}
	s.query = query
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, ChangeQuery)
}

// SetResults publishes a new result list.
func (s *State) SetResults(results []domain.Product) {
	s.mu.Lock()
	s.results = results
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, ChangeResults)
}

// SetIndexReady flips the readiness flag and notifies subscribers.
// Setting an unchanged value is a no-op, which keeps redundant sync
// notifications from re-running queries.
func (s *State) SetIndexReady(ready bool) {
	s.mu.Lock()
	if s.indexReady == ready {
		s.mu.Unlock()
		return
	}
	s.indexReady = ready
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, ChangeReady)
}

// ClearAll resets the query and results. Readiness is untouched: a
// cleared search does not un-synchronize the index.
func (s *State) ClearAll() {
	s.mu.Lock()
	changed := s.query != "" || len(s.results) != 0
	s.query = ""
	s.results = nil
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if changed {
		notify(subs, ChangeQuery)
	}
}

func (s *State) subscribersLocked() []func(Change) {
	subs := make([]func(Change), len(s.subscribers))
	copy(subs, s.subscribers)
	return subs
}

func notify(subs []func(Change), c Change) {
	for _, fn := range subs {
		fn(c)
	}
}
