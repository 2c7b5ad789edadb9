// Package watched owns the user's watched list: it mutates it, persists every
// change and derives the summary statistics.
package watched

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/marco/popcorn/internal/movie"
)

// ErrAlreadyWatched is returned when adding a movie that is already in the list.
var ErrAlreadyWatched = errors.New("movie is already in the watched list")

// Persister loads and saves the whole list.
type Persister interface {
	Load(ctx context.Context) ([]movie.WatchedEntry, error)
	Save(ctx context.Context, entries []movie.WatchedEntry) error
}

// Controller is the only writer of the watched list.
type Controller struct {
	store Persister

	mu      sync.RWMutex
	entries []movie.WatchedEntry
}

// New loads the persisted list once and returns a controller over it.
func New(ctx context.Context, store Persister) (*Controller, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watched list: %w", err)
	}
	slog.Debug("watched list loaded", "count", len(entries))
	return &Controller{store: store, entries: entries}, nil
}

// Add appends e and persists the list. The entry must carry a movie id and a
// rating in 1..10, and its movie must not already be in the list.
func (c *Controller) Add(ctx context.Context, e movie.WatchedEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexLocked(e.MovieID) >= 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyWatched, e.MovieID)
	}

	next := make([]movie.WatchedEntry, 0, len(c.entries)+1)
	next = append(next, c.entries...)
	next = append(next, e)
	if err := c.store.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save watched list: %w", err)
	}
	c.entries = next

	slog.Info("movie added to watched list", "id", e.MovieID, "title", e.Title, "rating", e.UserRating)
	return nil
}

// Remove deletes the entry for movieID and persists the list. It reports
// whether an entry was removed; an unknown id is a no-op with no write.
func (c *Controller) Remove(ctx context.Context, movieID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(movieID)
	if i < 0 {
		return false, nil
	}

	next := make([]movie.WatchedEntry, 0, len(c.entries)-1)
	next = append(next, c.entries[:i]...)
	next = append(next, c.entries[i+1:]...)
	if err := c.store.Save(ctx, next); err != nil {
		return false, fmt.Errorf("failed to save watched list: %w", err)
	}
	c.entries = next

	slog.Info("movie removed from watched list", "id", movieID)
	return true, nil
}

// Merge replaces the OMDb-sourced fields of entries still in the list with
// those in updates, keeping each entry's user rating and adjustment count.
// The list is saved once if anything changed. It returns the number of
// entries updated.
func (c *Controller) Merge(ctx context.Context, updates []movie.WatchedEntry) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := append([]movie.WatchedEntry{}, c.entries...)
	changed := 0
	for _, u := range updates {
		i := c.indexLocked(u.MovieID)
		if i < 0 {
			continue
		}
		u.UserRating = next[i].UserRating
		u.RatingAdjustments = next[i].RatingAdjustments
		if u != next[i] {
			next[i] = u
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	if err := c.store.Save(ctx, next); err != nil {
		return 0, fmt.Errorf("failed to save watched list: %w", err)
	}
	c.entries = next

	slog.Info("watched list refreshed", "updated", changed)
	return changed, nil
}

// Find returns the entry for movieID, if the movie has been watched.
func (c *Controller) Find(movieID string) (movie.WatchedEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(movieID); i >= 0 {
		return c.entries[i], true
	}
	return movie.WatchedEntry{}, false
}

// Entries returns a copy of the list in insertion order.
func (c *Controller) Entries() []movie.WatchedEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]movie.WatchedEntry{}, c.entries...)
}

// Statistics summarizes the current list.
func (c *Controller) Statistics() movie.Statistics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return movie.Summarize(c.entries)
}

func (c *Controller) indexLocked(movieID string) int {
	for i, e := range c.entries {
		if e.MovieID == movieID {
			return i
		}
	}
	return -1
}
