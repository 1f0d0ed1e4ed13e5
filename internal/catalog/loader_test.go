package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefrontlabs/productsearch/internal/domain"
)

// pagedCatalogHandler serves a fixed catalog in limit/skip windows,
// the same shape the upstream product API uses.
func pagedCatalogHandler(total int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

		type dto struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		}
		var products []dto
		for i := skip; i < skip+limit && i < total; i++ {
			products = append(products, dto{ID: i + 1, Title: fmt.Sprintf("Product %d", i+1)})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": products,
			"total":    total,
			"skip":     skip,
			"limit":    limit,
		})
	})
}

func newTestLoader(t *testing.T, handler http.Handler, pageSize int) (*Loader, *Store) {
	t.Helper()
	client := newTestClient(t, handler)
	store := NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(client, store, logger, pageSize, 0), store
}

func TestLoader_MirrorsFullCatalog(t *testing.T) {
	loader, store := newTestLoader(t, pagedCatalogHandler(25), 10)

	err := loader.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 25, store.Len())
	assert.Equal(t, 25, store.Total())
	assert.True(t, store.ReachedEnd())
}

func TestLoader_SubscribersSeeEveryPage(t *testing.T) {
	loader, store := newTestLoader(t, pagedCatalogHandler(25), 10)
	var lengths []int
	store.Subscribe(func(products []domain.Product) { lengths = append(lengths, len(products)) })

	require.NoError(t, loader.Run(context.Background()))

	assert.Equal(t, []int{10, 20, 25}, lengths)
}

func TestLoader_EmptyCatalogFinishesAfterOnePage(t *testing.T) {
	loader, store := newTestLoader(t, pagedCatalogHandler(0), 10)
	notifications := 0
	store.Subscribe(func([]domain.Product) { notifications++ })

	err := loader.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, notifications, "the empty first page still reaches subscribers")
}

func TestLoader_ResumesFromStoreLength(t *testing.T) {
	var requestedSkips []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedSkips = append(requestedSkips, r.URL.Query().Get("skip"))
		pagedCatalogHandler(15).ServeHTTP(w, r)
	})
	loader, store := newTestLoader(t, handler, 10)

	// Simulate a partially mirrored catalog from an earlier run.
	seed := make([]domain.Product, 0, 10)
	for i := 1; i <= 10; i++ {
		seed = append(seed, domain.Product{ID: i})
	}
	store.Append(seed, 15)

	require.NoError(t, loader.Run(context.Background()))

	assert.Equal(t, 15, store.Len())
	assert.Equal(t, "10", requestedSkips[0], "the skip offset resumes from the store length")
}

func TestLoader_CancelledContextStops(t *testing.T) {
	loader, store := newTestLoader(t, pagedCatalogHandler(100), 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := loader.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}

func TestLoader_UpstreamFailurePropagates(t *testing.T) {
	loader, store := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), 10)

	err := loader.Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}
