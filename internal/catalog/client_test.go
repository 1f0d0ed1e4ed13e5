package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/storefrontlabs/productsearch/pkg/errors"
	"github.com/storefrontlabs/productsearch/pkg/httpclient"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	inner := httpclient.New(httpclient.Config{
		Timeout:         5 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    2 * time.Millisecond,
		MaxConnsPerHost: 10,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := httpclient.NewCircuitBreakerClient(inner, httpclient.DefaultCircuitBreakerConfig(t.Name()), logger)
	return NewClient(srv.URL, cb)
}

const productPageJSON = `{
	"products": [
		{
			"id": 1,
			"title": "Leather Wallet",
			"description": "Compact brown wallet",
			"category": "accessories",
			"brand": "Fossil",
			"price": 39.5,
			"stock": 12,
			"rating": 4.3,
			"thumbnail": "https://cdn.example.com/1/thumb.jpg",
			"images": ["https://cdn.example.com/1/a.jpg"],
			"reviews": [{"rating": 5, "comment": "great"}, {"rating": 4, "comment": "good"}]
		},
		{"id": 2, "title": "Desk Lamp", "category": "home", "price": 25, "rating": 4.0}
	],
	"total": 42,
	"skip": 0,
	"limit": 2
}`

func TestClient_FetchPage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("skip"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productPageJSON))
	}))

	products, total, err := client.FetchPage(context.Background(), 2, 0)

	require.NoError(t, err)
	assert.Equal(t, 42, total)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Leather Wallet", p.Title)
	assert.Equal(t, "accessories", p.Category)
	assert.Equal(t, "Fossil", p.Brand)
	require.NotNil(t, p.Stock)
	assert.Equal(t, 12, *p.Stock)
	assert.Equal(t, 4.3, p.Rating.Rate)
	assert.Equal(t, 2, p.Rating.Count, "review count becomes the rating count")
	assert.Equal(t, "https://cdn.example.com/1/thumb.jpg", p.Image)

	assert.Nil(t, products[1].Stock)
	assert.Equal(t, 0, products[1].Rating.Count)
}

func TestClient_FetchByID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "title": "Mug", "category": "kitchen", "price": 9.5, "rating": 4.1}`))
	}))

	product, err := client.FetchByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 7, product.ID)
	assert.Equal(t, "Mug", product.Title)
}

func TestClient_FetchByID_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Product with id '999' not found"}`))
	}))

	_, err := client.FetchByID(context.Background(), 999)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_FetchByCategory(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category/home", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": [{"id": 2, "title": "Desk Lamp", "category": "home"}], "total": 1}`))
	}))

	products, err := client.FetchByCategory(context.Background(), "home")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "home", products[0].Category)
}

func TestClient_FetchCategories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category-list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["accessories", "home", "kitchen"]`))
	}))

	categories, err := client.FetchCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"accessories", "home", "kitchen"}, categories)
}

func TestClient_FetchPage_MalformedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))

	_, _, err := client.FetchPage(context.Background(), 10, 0)

	assert.Error(t, err)
}
