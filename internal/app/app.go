// Package app wires together all dependencies and runs the product
// search service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/storefrontlabs/productsearch/internal/catalog"
	"github.com/storefrontlabs/productsearch/internal/config"
	handler "github.com/storefrontlabs/productsearch/internal/handler/http"
	"github.com/storefrontlabs/productsearch/internal/index"
	"github.com/storefrontlabs/productsearch/internal/search"
	"github.com/storefrontlabs/productsearch/pkg/health"
	"github.com/storefrontlabs/productsearch/pkg/httpclient"
	"github.com/storefrontlabs/productsearch/pkg/middleware"
)

// App holds the assembled service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	loader     *catalog.Loader
	searchSvc  *search.Service
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Index engine and reactive search pipeline.
	engine := index.New(index.DefaultConfig())
	store := catalog.NewStore()
	state := search.NewState()
	searchSvc := search.NewService(engine, store, state, logger)
	logger.Info("in-memory index engine initialized")

	// Upstream catalog client behind retries and a circuit breaker.
	retryClient := httpclient.New(httpclient.DefaultConfig())
	cbClient := httpclient.NewCircuitBreakerClient(
		retryClient,
		httpclient.DefaultCircuitBreakerConfig("catalog-upstream"),
		logger,
	)
	catalogClient := catalog.NewClient(cfg.UpstreamURL, cbClient)
	loader := catalog.NewLoader(catalogClient, store, logger, cfg.SyncPageSize, cfg.SyncPageDelay)
	logger.Info("catalog loader initialized",
		slog.String("upstream", cfg.UpstreamURL),
		slog.Int("page_size", cfg.SyncPageSize),
	)

	// Health checks. Readiness gates on the index having completed its
	// first synchronization pass, plus the upstream answering.
	healthHandler := health.NewHandler()
	healthHandler.Register("index", func(ctx context.Context) error {
		if !searchSvc.IndexReady() {
			return fmt.Errorf("index not yet synchronized (%d documents so far)", searchSvc.IndexedCount())
		}
		return nil
	})
	healthHandler.Register("upstream", catalogClient.Ping)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		SearchService: searchSvc,
		Store:         store,
		Client:        catalogClient,
		Health:        healthHandler,
		CORS:          corsCfg,
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		loader:     loader,
		searchSvc:  searchSvc,
		httpServer: httpServer,
	}, nil
}

// Run starts the catalog sync and the HTTP server, blocking until the
// context is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	// Page the catalog in the background; the search index grows as
	// pages land and flips ready after the first page.
	go a.loader.RunWithRetry(ctx, a.cfg.SyncRetryDelay)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}
