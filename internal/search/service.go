package search

import (
	"log/slog"

	"github.com/storefrontlabs/productsearch/internal/catalog"
	"github.com/storefrontlabs/productsearch/internal/domain"
	"github.com/storefrontlabs/productsearch/internal/index"
)

// Service orchestrates the search pipeline: it keeps the index in sync
// with the catalog (via the Synchronizer), decides when a query is
// actually executed, and maps raw engine hits back into full product
// records before publishing them.
//
// The reactive rule it maintains on every change to the query, the
// readiness flag, or the catalog length: if the query is empty, the
// published results stay cleared; if the index is not ready, nothing
// runs; otherwise the query executes and its mapped results are
// published. Failures degrade to empty results, never to an error
// surfaced to the caller.
type Service struct {
	engine *index.Engine
	store  *catalog.Store
	state  *State
	syncer *Synchronizer
	logger *slog.Logger
}

// NewService wires the orchestrator to the single per-process engine
// instance, the catalog store, and the search state, and subscribes to
// both change sources. Subscription is synchronous: by the time an
// append or a query mutation returns, the dependent recomputation has
// already run.
func NewService(engine *index.Engine, store *catalog.Store, state *State, logger *slog.Logger) *Service {
	s := &Service{
		engine: engine,
		store:  store,
		state:  state,
		syncer: NewSynchronizer(engine, state, logger),
		logger: logger,
	}

	store.Subscribe(func(products []domain.Product) {
		s.syncer.Sync(products)
		s.evaluate()
	})

	state.Subscribe(func(c Change) {
		if c == ChangeQuery || c == ChangeReady {
			s.evaluate()
		}
	})

	return s
}

// PerformSearch normalizes the raw query, stores it as the current
// query, and clears the published results immediately when the
// normalized text is empty so stale results never flash. Non-empty
// queries run through the reactive rule triggered by the query change.
func (s *Service) PerformSearch(rawQuery string) {
	clean := Normalize(rawQuery)
	s.state.SetQuery(clean)
	if clean == "" {
		s.state.ClearAll()
	}
}

// ClearSearch resets the query and results, typically on navigation
// away from the search surface.
func (s *Service) ClearSearch() {
	s.state.ClearAll()
}

// Query returns the current normalized query.
func (s *Service) Query() string { return s.state.Query() }

// Results returns the currently published results in engine rank order.
func (s *Service) Results() []domain.Product { return s.state.Results() }

// IndexReady reports whether the initial catalog synchronization has
// completed.
func (s *Service) IndexReady() bool { return s.state.IndexReady() }

// State exposes the underlying reactive state for callers that want to
// subscribe to it directly.
func (s *Service) State() *State { return s.state }

// IndexedCount returns the number of documents currently in the index.
func (s *Service) IndexedCount() int { return s.engine.DocumentCount() }

// evaluate re-applies the reactive rule. It must be cheap and safe to
// call on every keystroke: engine queries are synchronous in-memory
// lookups, so there is nothing to cancel or debounce here.
func (s *Service) evaluate() {
	query := s.state.Query()
	if query == "" {
		return
	}
	if !s.state.IndexReady() {
		return
	}
	s.execute(query)
}

// execute runs a query against the engine and publishes the mapped
// results. Any panic from the engine or the mapping degrades to an
// empty result set with a logged warning.
func (s *Service) execute(query string) {
	defer func() {
		if r := recover(); r != nil {
			searchFailuresTotal.Inc()
			s.logger.Warn("search execution failed",
				slog.String("query", query),
				slog.Any("panic", r),
			)
			s.state.SetResults(nil)
		}
	}()

	searchesTotal.Inc()
	hits := s.engine.Search(query)
	results := s.resolve(hits)
	s.state.SetResults(results)

	s.logger.Debug("search executed",
		slog.String("query", query),
		slog.Int("hits", len(hits)),
		slog.Int("results", len(results)),
	)
}

// resolve maps engine hits to full product records in rank order. Hits
// whose ID is not resolvable against the local catalog are stale, not
// errors: the product was indexed but is no longer held locally, so
// the hit is dropped silently.
func (s *Service) resolve(hits []index.Hit) []domain.Product {
	if len(hits) == 0 {
		return nil
	}
	results := make([]domain.Product, 0, len(hits))
	for _, hit := range hits {
		if p, ok := s.store.Get(hit.ID); ok {
			results = append(results, p)
		}
	}
	return results
}
