package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexedDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "productsearch_indexed_documents",
			Help: "Number of distinct product documents in the search index",
		},
	)

	searchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "productsearch_searches_total",
			Help: "Total number of queries executed against the index",
		},
	)

	searchFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "productsearch_search_failures_total",
			Help: "Total number of query executions that degraded to empty results",
		},
	)

	syncBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productsearch_sync_batches_total",
			Help: "Total number of catalog batches mirrored into the index",
		},
		[]string{"kind"},
	)
)
