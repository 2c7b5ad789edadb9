// Package refresh re-fetches OMDb data for watched movies across a bounded
// set of workers.
package refresh

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/marco/popcorn/internal/movie"
)

// Fetcher fetches the full record for one movie id.
type Fetcher interface {
	Movie(ctx context.Context, id string) (*movie.Detail, error)
}

// Result holds the outcome of refreshing a single entry.
type Result struct {
	Entry   movie.WatchedEntry
	Changed bool
	Err     error
}

// Entries fetches fresh detail for every entry using up to workers goroutines.
// Results are returned in the order of entries. processed, when not nil, is
// incremented after each entry completes.
func Entries(
	ctx context.Context,
	entries []movie.WatchedEntry,
	f Fetcher,
	workers int,
	processed *int64,
) []Result {
	if workers <= 0 {
		workers = 1
	}
	if processed == nil {
		processed = new(int64)
	}

	jobs := make(chan int, len(entries))
	results := make([]Result, len(entries))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e := entries[i]
				if err := ctx.Err(); err != nil {
					results[i] = Result{Entry: e, Err: err}
					atomic.AddInt64(processed, 1)
					continue
				}

				d, err := f.Movie(ctx, e.MovieID)
				if err != nil {
					results[i] = Result{Entry: e, Err: err}
				} else {
					updated, changed := Apply(e, d)
					results[i] = Result{Entry: updated, Changed: changed}
				}
				atomic.AddInt64(processed, 1)
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// Apply copies the OMDb-sourced fields of d onto e. The user's rating and
// adjustment count are kept.
func Apply(e movie.WatchedEntry, d *movie.Detail) (movie.WatchedEntry, bool) {
	if d == nil {
		return e, false
	}
	updated := e
	if d.Title != "" {
		updated.Title = d.Title
	}
	if d.Year != "" {
		updated.Year = d.Year
	}
	updated.PosterURL = d.PosterURL
	updated.IMDbRating = d.IMDbRating
	updated.RuntimeMinutes = d.RuntimeMinutes
	return updated, updated != e
}
