package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefrontlabs/productsearch/internal/catalog"
	"github.com/storefrontlabs/productsearch/internal/domain"
	"github.com/storefrontlabs/productsearch/pkg/httpclient"
)

func newCatalogTestRouter(t *testing.T, upstream http.Handler, seed []domain.Product) (http.Handler, *catalog.Store) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	inner := httpclient.New(httpclient.Config{
		Timeout:         5 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    2 * time.Millisecond,
		MaxConnsPerHost: 10,
	})
	cb := httpclient.NewCircuitBreakerClient(inner, httpclient.DefaultCircuitBreakerConfig(t.Name()), testLogger())
	client := catalog.NewClient(srv.URL, cb)

	store := catalog.NewStore()
	if len(seed) > 0 {
		store.Append(seed, len(seed))
	}

	r := chi.NewRouter()
	h := NewCatalogHandler(store, client, testLogger())
	r.Get("/api/v1/products", h.ListProducts)
	r.Get("/api/v1/products/{id}", h.GetProduct)
	r.Get("/api/v1/categories", h.ListCategories)
	r.Get("/api/v1/categories/{category}/products", h.ListCategoryProducts)
	r.Group(func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/api/v1/catalog/products", h.AddProduct)
	})
	return r, store
}

func noUpstream() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "not found"}`))
	})
}

func TestListProducts_Windowed(t *testing.T) {
	seed := make([]domain.Product, 0, 25)
	for i := 1; i <= 25; i++ {
		seed = append(seed, domain.Product{ID: i, Title: "Product", Category: "home"})
	}
	router, _ := newCatalogTestRouter(t, noUpstream(), seed)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=10&skip=20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Data  []domain.Product `json:"data"`
			Total int              `json:"total"`
			Limit int              `json:"limit"`
			Skip  int              `json:"skip"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Data, 5)
	assert.Equal(t, 25, body.Data.Total)
	assert.Equal(t, 21, body.Data.Data[0].ID)
}

func TestGetProduct_FromStore(t *testing.T) {
	router, _ := newCatalogTestRouter(t, noUpstream(), []domain.Product{
		{ID: 3, Title: "Desk Lamp", Category: "home"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Desk Lamp")
}

func TestGetProduct_FallsBackToUpstream(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "title": "Mystery Box", "category": "toys"}`))
	})
	router, _ := newCatalogTestRouter(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mystery Box")
}

func TestGetProduct_NotFoundAnywhere(t *testing.T) {
	router, _ := newCatalogTestRouter(t, noUpstream(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProduct_InvalidID(t *testing.T) {
	router, _ := newCatalogTestRouter(t, noUpstream(), nil)

	for _, id := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)
	}
}

func TestListCategories(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category-list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["home", "toys"]`))
	})
	router, _ := newCatalogTestRouter(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `["home","toys"]`)
}

func TestListCategoryProducts(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category/home", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [{"id": 2, "title": "Desk Lamp", "category": "home"}], "total": 1}`))
	})
	router, _ := newCatalogTestRouter(t, upstream, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/home/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Desk Lamp")
}

func TestAddProduct(t *testing.T) {
	router, store := newCatalogTestRouter(t, noUpstream(), nil)

	body := `{"id": 7, "title": "Ceramic Mug", "category": "kitchen", "price": 9.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	p, ok := store.Get(7)
	require.True(t, ok)
	assert.Equal(t, "Ceramic Mug", p.Title)
}

func TestAddProduct_ValidationFailure(t *testing.T) {
	router, _ := newCatalogTestRouter(t, noUpstream(), nil)

	body := `{"id": 7, "title": "", "category": "kitchen"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddProduct_DuplicateID(t *testing.T) {
	router, _ := newCatalogTestRouter(t, noUpstream(), []domain.Product{
		{ID: 7, Title: "Existing", Category: "kitchen"},
	})

	body := `{"id": 7, "title": "Ceramic Mug", "category": "kitchen"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_EXISTS")
}

func TestAddProduct_RejectsNonJSONContentType(t *testing.T) {
	router, _ := newCatalogTestRouter(t, noUpstream(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products", strings.NewReader("id=7"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
