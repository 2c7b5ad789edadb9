package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/marco/popcorn/internal/movie"
	"github.com/marco/popcorn/internal/refresh"
)

// runRefresh re-fetches OMDb data for every watched movie and saves the
// changes in one write.
func (a *app) runRefresh(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	workers := fs.Int("workers", a.cfg.Refresh.Workers, "Concurrent OMDb requests")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	entries := a.watched.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No watched movies yet")
		return nil
	}

	startTime := time.Now()
	var processed int64
	total := int64(len(entries))
	progressCtx, stopProgress := context.WithCancel(ctx)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				current := atomic.LoadInt64(&processed)
				if current > 0 && current < total {
					slog.Info("progress", "processed", current, "total", total,
						"percent", fmt.Sprintf("%.0f%%", float64(current)/float64(total)*100))
				}
			case <-progressCtx.Done():
				return
			}
		}
	}()

	results := refresh.Entries(ctx, entries, a.client, *workers, &processed)
	stopProgress()
	<-progressDone

	var updates []movie.WatchedEntry
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			slog.Warn("failed to refresh movie", "id", r.Entry.MovieID, "error", r.Err)
		case r.Changed:
			updates = append(updates, r.Entry)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	updated, err := a.watched.Merge(ctx, updates)
	if err != nil {
		return err
	}

	slog.Debug("refresh complete", "duration_sec", time.Since(startTime).Seconds())
	fmt.Fprintf(out, "Refreshed %d movies: %d updated", len(entries), updated)
	if failed > 0 {
		fmt.Fprintf(out, ", %d failed", failed)
	}
	fmt.Fprintln(out)
	return nil
}
