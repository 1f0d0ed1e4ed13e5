// Package index implements the in-memory inverted full-text index that
// backs product search. It supports boosted fields, prefix matching,
// and length-scaled fuzzy matching, with OR combination across query
// terms.
package index

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/storefrontlabs/productsearch/internal/domain"
)

// Field names the engine knows how to extract from a document.
const (
	FieldTitle       = "title"
	FieldCategory    = "category"
	FieldBrand       = "brand"
	FieldDescription = "description"
	FieldStock       = "stock"
)

// Field associates a document field with its relevance boost.
type Field struct {
	Name  string
	Boost float64
}

// Config holds the engine configuration. Boosts and the fuzzy policy
// are tuning defaults, not invariants; callers may override them.
type Config struct {
	// Fields lists the indexed fields in boost order.
	Fields []Field

	// Fuzzy maps a query-term length to an edit-distance tolerance
	// ratio. A zero ratio disables fuzzy matching for that term.
	Fuzzy func(termLength int) float64

	// PrefixWeight scales the score contribution of prefix matches
	// relative to exact term matches.
	PrefixWeight float64

	// FuzzyWeight scales the score contribution of fuzzy matches
	// relative to exact term matches.
	FuzzyWeight float64
}

// DefaultConfig returns the engine configuration used for product
// search: title matches outrank category, then brand, description,
// and stock; terms of three or more characters tolerate roughly 20%
// character edits.
func DefaultConfig() Config {
	return Config{
		Fields: []Field{
			{Name: FieldTitle, Boost: 12},
			{Name: FieldCategory, Boost: 10},
			{Name: FieldBrand, Boost: 8},
			{Name: FieldDescription, Boost: 4},
			{Name: FieldStock, Boost: 1},
		},
		Fuzzy: func(termLength int) float64 {
			if termLength > 2 {
				return 0.2
			}
			return 0
		},
		PrefixWeight: 0.5,
		FuzzyWeight:  0.45,
	}
}

// Hit is a single search match: the document ID and its relevance score.
type Hit struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
}

// Engine is the in-memory inverted index. One instance lives per
// process: the catalog synchronizer writes to it and the search
// service reads from it. Thread-safe via sync.RWMutex.
type Engine struct {
	mu       sync.RWMutex
	cfg      Config
	postings map[string]map[int]float64 // term -> docID -> boosted weight
	docTerms map[int]map[string]float64 // docID -> term -> weight, for upsert removal
}

// New creates an empty engine with the given configuration.
func New(cfg Config) *Engine {
	if cfg.Fuzzy == nil {
		cfg.Fuzzy = func(int) float64 { return 0 }
	}
	if cfg.PrefixWeight == 0 {
		cfg.PrefixWeight = DefaultConfig().PrefixWeight
	}
	if cfg.FuzzyWeight == 0 {
		cfg.FuzzyWeight = DefaultConfig().FuzzyWeight
	}
	return &Engine{
		cfg:      cfg,
		postings: make(map[string]map[int]float64),
		docTerms: make(map[int]map[string]float64),
	}
}

// AddAll inserts the given documents into the index. When replaceAll is
// true the index is cleared first. Re-adding a document whose ID is
// already indexed replaces its previous postings instead of duplicating
// them, so callers can re-sync idempotently.
func (e *Engine) AddAll(docs []domain.Document, replaceAll bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if replaceAll {
		e.postings = make(map[string]map[int]float64)
		e.docTerms = make(map[int]map[string]float64)
	}

	for _, doc := range docs {
		e.removeLocked(doc.ID)
		e.addLocked(doc)
	}
	return nil
}

// Search runs the query against the index and returns hits ordered by
// descending score (ties broken by ascending ID). An empty or
// unmatchable query yields nil, never an error.
func (e *Engine) Search(query string) []Hit {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	scores := make(map[int]float64)
	for _, qt := range terms {
		e.scoreTermLocked(qt, scores)
	}
	if len(scores) == 0 {
		return nil
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		hits = append(hits, Hit{ID: id, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}

// DocumentCount returns the number of distinct documents in the index.
func (e *Engine) DocumentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docTerms)
}

// scoreTermLocked accumulates score contributions for one query term.
// Each indexed term contributes at most once per query term, at its
// strongest match level: exact, then prefix, then fuzzy.
func (e *Engine) scoreTermLocked(qt string, scores map[int]float64) {
	if docs, ok := e.postings[qt]; ok {
		for id, weight := range docs {
			scores[id] += weight
		}
	}

	maxDist := int(math.Ceil(e.cfg.Fuzzy(len(qt)) * float64(len(qt))))

	for term, docs := range e.postings {
		if term == qt {
			continue
		}
		if strings.HasPrefix(term, qt) {
			// Longer completions score lower than near-complete ones.
			factor := e.cfg.PrefixWeight * float64(len(qt)) / float64(len(term))
			for id, weight := range docs {
				scores[id] += weight * factor
			}
			continue
		}
		if maxDist > 0 {
			if dist, ok := editDistanceWithin(term, qt, maxDist); ok {
				factor := e.cfg.FuzzyWeight * (1 - float64(dist)/float64(len(term)))
				for id, weight := range docs {
					scores[id] += weight * factor
				}
			}
		}
	}
}

// addLocked tokenizes every configured field of the document and adds
// boost-weighted postings for each term occurrence.
func (e *Engine) addLocked(doc domain.Document) {
	termWeights := make(map[string]float64)
	for _, field := range e.cfg.Fields {
		for _, term := range Tokenize(fieldText(doc, field.Name)) {
			termWeights[term] += field.Boost
		}
	}
	if len(termWeights) == 0 {
		// Documents with no indexable text still count toward the
		// document total so sync bookkeeping stays consistent.
		e.docTerms[doc.ID] = termWeights
		return
	}

	for term, weight := range termWeights {
		docs, ok := e.postings[term]
		if !ok {
			docs = make(map[int]float64)
			e.postings[term] = docs
		}
		docs[doc.ID] = weight
	}
	e.docTerms[doc.ID] = termWeights
}

// removeLocked deletes all postings of the given document ID.
func (e *Engine) removeLocked(id int) {
	terms, ok := e.docTerms[id]
	if !ok {
		return
	}
	for term := range terms {
		if docs, ok := e.postings[term]; ok {
			delete(docs, id)
			if len(docs) == 0 {
				delete(e.postings, term)
			}
		}
	}
	delete(e.docTerms, id)
}

// fieldText maps a configured field name to the document's text for it.
// Unknown field names yield no text.
func fieldText(doc domain.Document, name string) string {
	switch name {
	case FieldTitle:
		return doc.Title
	case FieldCategory:
		return doc.Category
	case FieldBrand:
		return doc.Brand
	case FieldDescription:
		return doc.Description
	case FieldStock:
		return doc.Stock
	default:
		return ""
	}
}
