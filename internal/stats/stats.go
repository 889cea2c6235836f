package stats

import (
	"context"
	"log/slog"

	"github.com/crucial707/dessert-menu/internal/metrics"
	"github.com/crucial707/dessert-menu/internal/repo"
	"github.com/robfig/cron/v3"
)

// Run starts a background job that refreshes the dessert and user gauges
// every five minutes and logs a menu summary once a day. The gauges are also
// refreshed once immediately so /metrics is meaningful right after startup.
// Returns the cron handle so callers can Stop it on shutdown.
func Run(desserts *repo.DessertRepo, users *repo.UserRepo) *cron.Cron {
	refresh := func() {
		ctx := context.Background()

		dessertCount, err := desserts.Count(ctx)
		if err != nil {
			slog.Error("stats: count desserts", "err", err)
			return
		}
		userCount, err := users.Count(ctx)
		if err != nil {
			slog.Error("stats: count users", "err", err)
			return
		}

		metrics.SetMenuCounts(dessertCount, userCount)
	}

	summary := func() {
		ctx := context.Background()

		dessertCount, err := desserts.Count(ctx)
		if err != nil {
			slog.Error("stats: count desserts", "err", err)
			return
		}
		userCount, err := users.Count(ctx)
		if err != nil {
			slog.Error("stats: count users", "err", err)
			return
		}

		slog.Info("menu summary", "desserts", dessertCount, "users", userCount)
	}

	refresh()

	c := cron.New()
	// Schedules are fixed; errors here would mean a bad literal expression.
	if _, err := c.AddFunc("@every 5m", refresh); err != nil {
		slog.Error("stats: add refresh job", "err", err)
	}
	if _, err := c.AddFunc("@daily", summary); err != nil {
		slog.Error("stats: add summary job", "err", err)
	}
	c.Start()
	return c
}
