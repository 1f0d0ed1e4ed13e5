package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storefrontlabs/productsearch/internal/catalog"
	"github.com/storefrontlabs/productsearch/internal/search"
	"github.com/storefrontlabs/productsearch/pkg/health"
	"github.com/storefrontlabs/productsearch/pkg/middleware"
)

// RouterConfig carries the dependencies the router wires together.
type RouterConfig struct {
	SearchService *search.Service
	Store         *catalog.Store
	Client        *catalog.Client
	Health        *health.Handler
	CORS          middleware.CORSConfig
	Logger        *slog.Logger
}

// NewRouter creates a chi router with all product search routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("productsearch"))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(cfg.SearchService, cfg.Store, cfg.Logger)
	catalogHandler := NewCatalogHandler(cfg.Store, cfg.Client, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", searchHandler.Search)
		r.Delete("/search", searchHandler.ClearSearch)

		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/categories", catalogHandler.ListCategories)
		r.Get("/categories/{category}/products", catalogHandler.ListCategoryProducts)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/catalog/products", catalogHandler.AddProduct)
		})
	})

	return r
}
