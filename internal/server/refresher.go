package server

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/petitionmap/internal/snapshot"
)

// refreshConcurrency bounds parallel petition refreshes per tick.
const refreshConcurrency = 4

// Refresher periodically reloads every petition held in a Store. Load hooks
// on the store take care of history and websocket notification.
type Refresher struct {
	store    *snapshot.Store
	interval time.Duration
}

// NewRefresher creates a Refresher polling store every interval.
func NewRefresher(store *snapshot.Store, interval time.Duration) *Refresher {
	return &Refresher{store: store, interval: interval}
}

// Run polls until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RefreshAll(ctx)
		}
	}
}

// RefreshAll reloads every loaded petition once and returns how many
// succeeded. Failures keep the previous state and are logged.
func (r *Refresher) RefreshAll(ctx context.Context) int {
	ids := r.store.IDs()
	ok := make([]bool, len(ids))

	var g errgroup.Group
	g.SetLimit(refreshConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			if _, err := r.store.Refresh(ctx, id); err != nil {
				slog.Warn("refreshing petition", "petition", id, "error", err)
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	g.Wait()

	n := 0
	for _, v := range ok {
		if v {
			n++
		}
	}
	slog.Debug("petition refresh", "petitions", len(ids), "refreshed", n)
	return n
}
