package watched

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marco/popcorn/internal/movie"
)

type memoryStore struct {
	entries []movie.WatchedEntry
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryStore) Load(ctx context.Context) ([]movie.WatchedEntry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]movie.WatchedEntry{}, m.entries...), nil
}

func (m *memoryStore) Save(ctx context.Context, entries []movie.WatchedEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.entries = append([]movie.WatchedEntry{}, entries...)
	return nil
}

func entry(id string, imdb float64, user, runtime int) movie.WatchedEntry {
	return movie.WatchedEntry{
		MovieID:        id,
		Title:          "Movie " + id,
		IMDbRating:     imdb,
		UserRating:     user,
		RuntimeMinutes: runtime,
	}
}

func newController(t *testing.T, store *memoryStore) *Controller {
	t.Helper()
	c, err := New(context.Background(), store)
	require.NoError(t, err)
	return c
}

func TestAdd_AppendsAndPersists(t *testing.T) {
	store := &memoryStore{}
	c := newController(t, store)

	require.NoError(t, c.Add(context.Background(), entry("tt1", 7.0, 8, 100)))
	require.NoError(t, c.Add(context.Background(), entry("tt2", 9.0, 6, 120)))

	assert.Equal(t, 2, store.saves)
	assert.Equal(t, store.entries, c.Entries())
	assert.Equal(t, "tt1", c.Entries()[0].MovieID)
	assert.Equal(t, "tt2", c.Entries()[1].MovieID)
}

func TestAdd_RejectsInvalidRating(t *testing.T) {
	store := &memoryStore{}
	c := newController(t, store)

	err := c.Add(context.Background(), entry("tt1", 7.0, 0, 100))

	assert.ErrorIs(t, err, movie.ErrInvalidRating)
	assert.Empty(t, c.Entries())
	assert.Zero(t, store.saves)
}

func TestAdd_RejectsDuplicate(t *testing.T) {
	store := &memoryStore{}
	c := newController(t, store)
	require.NoError(t, c.Add(context.Background(), entry("tt1", 7.0, 8, 100)))

	err := c.Add(context.Background(), entry("tt1", 7.0, 3, 100))

	assert.ErrorIs(t, err, ErrAlreadyWatched)
	require.Len(t, c.Entries(), 1)
	assert.Equal(t, 8, c.Entries()[0].UserRating)
	assert.Equal(t, 1, store.saves)
}

func TestAdd_SaveFailureLeavesListUnchanged(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("disk full")}
	c := newController(t, store)

	err := c.Add(context.Background(), entry("tt1", 7.0, 8, 100))

	require.Error(t, err)
	assert.Empty(t, c.Entries())
}

func TestRemove(t *testing.T) {
	store := &memoryStore{entries: []movie.WatchedEntry{
		entry("tt1", 7.0, 8, 100),
		entry("tt2", 9.0, 6, 120),
		entry("tt3", 5.0, 4, 90),
	}}
	c := newController(t, store)

	removed, err := c.Remove(context.Background(), "tt2")

	require.NoError(t, err)
	assert.True(t, removed)
	ids := []string{}
	for _, e := range c.Entries() {
		ids = append(ids, e.MovieID)
	}
	assert.Equal(t, []string{"tt1", "tt3"}, ids)
	assert.Equal(t, c.Entries(), store.entries)
}

func TestRemove_UnknownIDIsNoOp(t *testing.T) {
	initial := []movie.WatchedEntry{entry("tt1", 7.0, 8, 100)}
	store := &memoryStore{entries: initial}
	c := newController(t, store)

	removed, err := c.Remove(context.Background(), "tt404")

	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, initial, c.Entries())
	assert.Equal(t, initial, store.entries)
	assert.Zero(t, store.saves)
}

func TestFind(t *testing.T) {
	store := &memoryStore{entries: []movie.WatchedEntry{entry("tt1", 7.0, 8, 100)}}
	c := newController(t, store)

	e, ok := c.Find("tt1")
	assert.True(t, ok)
	assert.Equal(t, 8, e.UserRating)

	_, ok = c.Find("tt2")
	assert.False(t, ok)
}

func TestStatistics(t *testing.T) {
	c := newController(t, &memoryStore{})

	assert.Equal(t, movie.Statistics{}, c.Statistics())

	require.NoError(t, c.Add(context.Background(), entry("tt1", 7.0, 8, 100)))
	require.NoError(t, c.Add(context.Background(), entry("tt2", 9.0, 6, 120)))

	stats := c.Statistics()
	assert.Equal(t, 2, stats.Count)
	assert.InDelta(t, 8.0, stats.AvgIMDbRating, 1e-9)
	assert.InDelta(t, 7.0, stats.AvgUserRating, 1e-9)
	assert.InDelta(t, 110.0, stats.AvgRuntime, 1e-9)
}

func TestNew_LoadError(t *testing.T) {
	_, err := New(context.Background(), &memoryStore{loadErr: errors.New("connection refused")})
	assert.Error(t, err)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := newController(t, &memoryStore{entries: []movie.WatchedEntry{entry("tt1", 7.0, 8, 100)}})

	got := c.Entries()
	got[0].UserRating = 1

	e, _ := c.Find("tt1")
	assert.Equal(t, 8, e.UserRating)
}

func TestMerge(t *testing.T) {
	store := &memoryStore{entries: []movie.WatchedEntry{
		entry("tt1", 7.0, 8, 100),
		entry("tt2", 9.0, 6, 120),
	}}
	c := newController(t, store)

	fresh := entry("tt1", 7.5, 1, 101)
	unchanged := entry("tt2", 9.0, 6, 120)
	gone := entry("tt404", 5.0, 5, 90)
	n, err := c.Merge(context.Background(), []movie.WatchedEntry{fresh, unchanged, gone})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	e, _ := c.Find("tt1")
	assert.InDelta(t, 7.5, e.IMDbRating, 1e-9)
	assert.Equal(t, 101, e.RuntimeMinutes)
	assert.Equal(t, 8, e.UserRating, "user rating is kept")
	assert.Len(t, c.Entries(), 2)
	assert.Equal(t, 1, store.saves)
}

func TestMerge_NothingChangedSkipsSave(t *testing.T) {
	store := &memoryStore{entries: []movie.WatchedEntry{entry("tt1", 7.0, 8, 100)}}
	c := newController(t, store)

	n, err := c.Merge(context.Background(), []movie.WatchedEntry{entry("tt1", 7.0, 8, 100)})

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, store.saves)
}
