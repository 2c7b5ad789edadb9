package store

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marco/popcorn/internal/movie"
)

func sampleEntries() []movie.WatchedEntry {
	return []movie.WatchedEntry{
		{
			MovieID:           "tt0133093",
			Title:             "The Matrix",
			Year:              "1999",
			PosterURL:         "https://img/matrix.jpg",
			IMDbRating:        8.7,
			RuntimeMinutes:    136,
			UserRating:        9,
			RatingAdjustments: 2,
		},
		{
			MovieID:        "tt1375666",
			Title:          "Inception",
			Year:           "2010",
			IMDbRating:     8.8,
			RuntimeMinutes: 148,
			UserRating:     7,
		},
	}
}

func newMemList(t *testing.T) (*List, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewList(NewFileSlot(fs, "/data/watched.json")), fs
}

func TestList_SaveThenLoadRoundTrip(t *testing.T) {
	list, _ := newMemList(t)
	ctx := context.Background()

	require.NoError(t, list.Save(ctx, sampleEntries()))
	got, err := list.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)
}

func TestList_LoadAbsentIsEmpty(t *testing.T) {
	list, _ := newMemList(t)

	got, err := list.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_LoadCorruptIsEmpty(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"object instead of array", `{"imdbId":"tt1"}`},
		{"null", "null"},
		{"empty file", ""},
		{"wrong field types", `[{"imdbId":42,"userRating":"nine"}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			list, fs := newMemList(t)
			require.NoError(t, afero.WriteFile(fs, "/data/watched.json", []byte(tc.content), 0644))

			got, err := list.Load(context.Background())

			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestList_LoadDropsInvalidAndDuplicateEntries(t *testing.T) {
	list, fs := newMemList(t)
	content := `[
		{"imdbId":"tt1","userRating":0},
		{"imdbId":"tt1","userRating":8,"title":"First"},
		{"imdbId":"tt1","userRating":5,"title":"Second"},
		{"imdbId":"tt2","userRating":42},
		{"userRating":7},
		{"imdbId":"tt3","userRating":10}
	]`
	require.NoError(t, afero.WriteFile(fs, "/data/watched.json", []byte(content), 0644))

	got, err := list.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tt1", got[0].MovieID)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, 8, got[0].UserRating)
	assert.Equal(t, "tt3", got[1].MovieID)
}

func TestList_SaveNilWritesEmptyArray(t *testing.T) {
	list, fs := newMemList(t)

	require.NoError(t, list.Save(context.Background(), nil))

	data, err := afero.ReadFile(fs, "/data/watched.json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestList_StoresOneJSONArray(t *testing.T) {
	list, fs := newMemList(t)

	require.NoError(t, list.Save(context.Background(), sampleEntries()[:1]))

	data, err := afero.ReadFile(fs, "/data/watched.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"imdbId":"tt0133093","title":"The Matrix","year":"1999","poster":"https://img/matrix.jpg",
		"imdbRating":8.7,"runtime":136,"userRating":9,"ratingAdjustments":2
	}]`, string(data))
}

func TestFileSlot_PutLeavesNoTempFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	slot := NewFileSlot(fs, "/data/watched.json")

	require.NoError(t, slot.Put(context.Background(), []byte("[]")))
	require.NoError(t, slot.Put(context.Background(), []byte(`[{"imdbId":"tt1"}]`)))

	exists, err := afero.Exists(fs, "/data/watched.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	data, err := slot.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[{"imdbId":"tt1"}]`, string(data))
}

func TestFileSlot_GetMissing(t *testing.T) {
	slot := NewFileSlot(afero.NewMemMapFs(), "/nope/watched.json")

	_, err := slot.Get(context.Background())

	assert.ErrorIs(t, err, ErrSlotEmpty)
}
