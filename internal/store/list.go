package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marco/popcorn/internal/movie"
)

// List stores the watched list as one JSON array in a slot.
type List struct {
	slot Slot
}

// NewList wraps slot.
func NewList(slot Slot) *List {
	return &List{slot: slot}
}

// Load returns the last saved list. An empty or corrupt slot yields an empty
// list; only an unreachable backend is reported as an error.
func (l *List) Load(ctx context.Context) ([]movie.WatchedEntry, error) {
	data, err := l.slot.Get(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		return []movie.WatchedEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read watched list: %w", err)
	}

	var entries []movie.WatchedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("stored watched list is corrupt, starting with an empty list", "error", err, "bytes", len(data))
		return []movie.WatchedEntry{}, nil
	}
	return dropInvalid(entries), nil
}

// dropInvalid removes entries that fail validation and later duplicates of a
// movie id already seen.
func dropInvalid(entries []movie.WatchedEntry) []movie.WatchedEntry {
	kept := make([]movie.WatchedEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			slog.Warn("dropping invalid stored watched entry", "index", i, "id", e.MovieID, "error", err)
			continue
		}
		if seen[e.MovieID] {
			slog.Warn("dropping duplicate stored watched entry", "index", i, "id", e.MovieID)
			continue
		}
		seen[e.MovieID] = true
		kept = append(kept, e)
	}
	return kept
}

// Save overwrites the slot with entries.
func (l *List) Save(ctx context.Context, entries []movie.WatchedEntry) error {
	if entries == nil {
		entries = []movie.WatchedEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode watched list: %w", err)
	}
	if err := l.slot.Put(ctx, data); err != nil {
		return fmt.Errorf("failed to write watched list: %w", err)
	}
	return nil
}

// Close closes the underlying slot.
func (l *List) Close() error {
	return l.slot.Close()
}
