package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/storefrontlabs/productsearch/pkg/httpclient"
)

// Loader pages the full catalog from the upstream API into the Store.
// Each appended page fans out to the store's subscribers, so the
// search index grows incrementally while pages are still in flight.
type Loader struct {
	client    *Client
	store     *Store
	logger    *slog.Logger
	pageSize  int
	pageDelay time.Duration
}

// NewLoader creates a catalog loader. pageDelay spaces out upstream
// requests; zero disables the pause.
func NewLoader(client *Client, store *Store, logger *slog.Logger, pageSize int, pageDelay time.Duration) *Loader {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Loader{
		client:    client,
		store:     store,
		logger:    logger,
		pageSize:  pageSize,
		pageDelay: pageDelay,
	}
}

// Run fetches pages until the catalog is fully mirrored, the upstream
// returns an empty page, or ctx is cancelled. The skip offset resumes
// from the store's current size, so a restarted Run continues where
// the previous one stopped.
func (l *Loader) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		skip := l.store.Len()
		products, total, err := l.client.FetchPage(ctx, l.pageSize, skip)
		if err != nil {
			if errors.Is(err, httpclient.ErrCircuitOpen) {
				l.logger.Warn("catalog sync paused, upstream circuit open",
					slog.Int("skip", skip))
			} else {
				l.logger.Error("catalog page fetch failed",
					slog.Int("skip", skip),
					slog.String("error", err.Error()))
			}
			return err
		}

		// An empty page still flows to subscribers: the first
		// observation completes the initial sync even when the
		// catalog has no products.
		l.store.Append(products, total)

		l.logger.Info("catalog page loaded",
			slog.Int("fetched", len(products)),
			slog.Int("mirrored", l.store.Len()),
			slog.Int("total", total))

		if len(products) == 0 || l.store.ReachedEnd() {
			l.logger.Info("catalog fully mirrored",
				slog.Int("products", l.store.Len()))
			return nil
		}

		if l.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.pageDelay):
			}
		}
	}
}

// RunWithRetry keeps Run alive across transient upstream failures,
// backing off between attempts until ctx is cancelled or the catalog
// is fully mirrored.
func (l *Loader) RunWithRetry(ctx context.Context, retryDelay time.Duration) {
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	for {
		err := l.Run(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}
		l.logger.Warn("catalog sync retrying",
			slog.Duration("in", retryDelay),
			slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}
