package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/storefrontlabs/productsearch/internal/catalog"
	"github.com/storefrontlabs/productsearch/internal/domain"
	"github.com/storefrontlabs/productsearch/internal/search"
	"github.com/storefrontlabs/productsearch/pkg/httputil"
)

// SearchHandler handles HTTP requests for search endpoints.
type SearchHandler struct {
	service *search.Service
	store   *catalog.Store
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *search.Service, store *catalog.Store, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		store:   store,
		logger:  logger,
	}
}

// SearchResponse is the JSON body returned by the search endpoint.
type SearchResponse struct {
	Query      string           `json:"query"`
	Results    []domain.Product `json:"results"`
	Total      int              `json:"total"`
	IndexReady bool             `json:"index_ready"`
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = domain.SortNone
	}
	if !domain.IsValidSortMode(sortBy) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "sort must be one of: " + strings.Join(domain.ValidSortModes(), ", "),
			},
		})
		return
	}

	var categories []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
	}

	h.service.PerformSearch(r.URL.Query().Get("q"))

	// An empty query browses the whole known catalog; filtering and
	// sorting still apply.
	results := h.service.Results()
	if h.service.Query() == "" {
		results = h.store.Snapshot()
	}
	results = domain.FilterByCategories(results, categories)
	results = domain.SortProducts(results, sortBy)
	if results == nil {
		results = []domain.Product{}
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SearchResponse{
		Query:      h.service.Query(),
		Results:    results,
		Total:      len(results),
		IndexReady: h.service.IndexReady(),
	}})
}

// ClearSearch handles DELETE /api/v1/search
func (h *SearchHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	h.service.ClearSearch()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
