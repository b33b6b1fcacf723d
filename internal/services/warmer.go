package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Zerr0-C00L/StreamHub/internal/logging"
	"github.com/Zerr0-C00L/StreamHub/internal/metrics"
	"github.com/Zerr0-C00L/StreamHub/internal/models"
)

const WarmerServiceName = "cache_warmer"

type movieSource interface {
	Genres(ctx context.Context) ([]models.Genre, error)
	PopularMovies(ctx context.Context, page int) (*models.MoviePage, error)
}

type sportsSource interface {
	Sports(ctx context.Context) ([]models.Sport, error)
}

// CacheWarmer periodically refetches the lists every visitor loads first
// so those requests are served from cache.
type CacheWarmer struct {
	movies    movieSource
	sports    sportsSource
	scheduler *ServiceScheduler
	interval  time.Duration
}

func NewCacheWarmer(movies movieSource, sports sportsSource, scheduler *ServiceScheduler, interval time.Duration) *CacheWarmer {
	scheduler.Register(WarmerServiceName, "Prefetch genres, popular movies and sports", interval, true)
	return &CacheWarmer{
		movies:    movies,
		sports:    sports,
		scheduler: scheduler,
		interval:  interval,
	}
}

// Serve runs once immediately, then on every tick until ctx is done.
func (w *CacheWarmer) Serve(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.RunOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *CacheWarmer) String() string {
	return WarmerServiceName
}

// RunOnce refreshes every warmed entry and records the outcome in the scheduler.
// It does nothing while the service is disabled.
func (w *CacheWarmer) RunOnce(ctx context.Context) error {
	if !w.scheduler.IsEnabled(WarmerServiceName) {
		logging.Debug().Msg("Cache warmer disabled, skipping run")
		return nil
	}
	w.scheduler.MarkRunning(WarmerServiceName)
	ctx = WithFreshData(ctx)

	tasks := []struct {
		name string
		run  func(context.Context) error
	}{
		{"genres", func(ctx context.Context) error { _, err := w.movies.Genres(ctx); return err }},
		{"popular", func(ctx context.Context) error { _, err := w.movies.PopularMovies(ctx, 1); return err }},
		{"sports", func(ctx context.Context) error { _, err := w.sports.Sports(ctx); return err }},
	}

	var done atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			if err := task.run(gctx); err != nil {
				return fmt.Errorf("warm %s: %w", task.name, err)
			}
			n := done.Add(1)
			w.scheduler.UpdateProgress(WarmerServiceName, int(n), len(tasks), "warmed "+task.name)
			return nil
		})
	}
	err := g.Wait()

	w.scheduler.MarkComplete(WarmerServiceName, err, w.interval)
	if err != nil {
		metrics.BackgroundRuns.WithLabelValues(WarmerServiceName, "error").Inc()
		logging.Warn().Err(err).Msg("Cache warm-up failed")
		return err
	}
	metrics.BackgroundRuns.WithLabelValues(WarmerServiceName, "ok").Inc()
	logging.Debug().Msg("Cache warm-up complete")
	return nil
}
