package movie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_EmptyList(t *testing.T) {
	stats := Summarize(nil)

	assert.Equal(t, Statistics{}, stats)
	assert.Zero(t, Average([]float64{}))
}

func TestSummarize_TwoEntries(t *testing.T) {
	entries := []WatchedEntry{
		{MovieID: "tt1", IMDbRating: 7.0, UserRating: 8, RuntimeMinutes: 100},
		{MovieID: "tt2", IMDbRating: 9.0, UserRating: 6, RuntimeMinutes: 120},
	}

	stats := Summarize(entries)

	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 8.0, stats.AvgIMDbRating, 1e-9)
	assert.InDelta(t, 7.0, stats.AvgUserRating, 1e-9)
	assert.InDelta(t, 110.0, stats.AvgRuntime, 1e-9)
}

func TestWatchedEntry_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		entry   WatchedEntry
		wantErr error
	}{
		{"valid", WatchedEntry{MovieID: "tt0133093", UserRating: 9}, nil},
		{"lowest rating", WatchedEntry{MovieID: "tt0133093", UserRating: 1}, nil},
		{"highest rating", WatchedEntry{MovieID: "tt0133093", UserRating: 10}, nil},
		{"unrated", WatchedEntry{MovieID: "tt0133093"}, ErrInvalidRating},
		{"rating too high", WatchedEntry{MovieID: "tt0133093", UserRating: 11}, ErrInvalidRating},
		{"missing id", WatchedEntry{UserRating: 5}, ErrMissingID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.entry.Validate(), tc.wantErr)
		})
	}
}

func TestNewWatchedEntry(t *testing.T) {
	d := Detail{
		ID:             "tt1375666",
		Title:          "Inception",
		Year:           "2010",
		PosterURL:      "https://example.com/inception.jpg",
		RuntimeMinutes: 148,
		IMDbRating:     8.8,
	}

	e := NewWatchedEntry(d, 9, 2)

	assert.Equal(t, WatchedEntry{
		MovieID:           "tt1375666",
		Title:             "Inception",
		Year:              "2010",
		PosterURL:         "https://example.com/inception.jpg",
		IMDbRating:        8.8,
		RuntimeMinutes:    148,
		UserRating:        9,
		RatingAdjustments: 2,
	}, e)
}
