package search

import (
	"log/slog"
	"sync"

	"github.com/storefrontlabs/productsearch/internal/domain"
	"github.com/storefrontlabs/productsearch/internal/index"
)

// Synchronizer mirrors the growing catalog list into the index engine,
// exactly once per growth increment. The first non-empty observation
// rebuilds the index; later observations append only the new slice.
// It never removes documents: catalog shrinkage is not a supported
// transition.
type Synchronizer struct {
	engine *index.Engine
	state  *State
	logger *slog.Logger

	mu          sync.Mutex
	cursor      int
	initialized bool
}

// NewSynchronizer creates a synchronizer writing into the given engine
// and flipping readiness on the given state.
func NewSynchronizer(engine *index.Engine, state *State, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		engine: engine,
		state:  state,
		logger: logger,
	}
}

// Sync reconciles the observed product list with the index. It is safe
// to call repeatedly with the same list: observations that do not grow
// the list are no-ops, which is the safety net against duplicate or
// out-of-order change notifications.
func (s *Synchronizer) Sync(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		s.initialize(products)
		return
	}

	if len(products) <= s.cursor {
		return
	}

	delta := products[s.cursor:]
	if err := s.engine.AddAll(documents(delta), false); err != nil {
		// Best effort: a failed batch leaves search momentarily
		// incomplete, never broken.
		s.logger.Warn("incremental index failed",
			slog.Int("batch", len(delta)),
			slog.String("error", err.Error()),
		)
	}
	s.cursor = len(products)
	syncBatchesTotal.WithLabelValues("incremental").Inc()
	indexedDocuments.Set(float64(s.engine.DocumentCount()))

	s.logger.Debug("incremental index complete",
		slog.Int("added", len(delta)),
		slog.Int("cursor", s.cursor),
	)
}

// Cursor returns how many observed products have been mirrored into
// the index so far.
func (s *Synchronizer) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// initialize handles the first observation. An empty catalog is a
// legitimately synchronized state: searches against it return nothing
// instead of hanging in "not ready".
func (s *Synchronizer) initialize(products []domain.Product) {
	s.initialized = true

	if len(products) == 0 {
		s.cursor = 0
		s.state.SetIndexReady(true)
		s.logger.Info("index ready with empty catalog")
		return
	}

	if err := s.engine.AddAll(documents(products), true); err != nil {
		s.logger.Warn("initial index failed",
			slog.Int("batch", len(products)),
			slog.String("error", err.Error()),
		)
	}
	s.cursor = len(products)
	syncBatchesTotal.WithLabelValues("initial").Inc()
	indexedDocuments.Set(float64(s.engine.DocumentCount()))
	s.state.SetIndexReady(true)

	s.logger.Info("initial index complete",
		slog.Int("indexed", s.engine.DocumentCount()),
	)
}

func documents(products []domain.Product) []domain.Document {
	docs := make([]domain.Document, 0, len(products))
	for _, p := range products {
		docs = append(docs, p.Document())
	}
	return docs
}
