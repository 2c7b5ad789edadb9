package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSlot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	slot, err := NewSQLiteSlot(ctx, filepath.Join(t.TempDir(), "nested", "popcorn.db"), "watched")
	require.NoError(t, err)
	defer slot.Close()

	_, err = slot.Get(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, slot.Put(ctx, []byte(`[1]`)))
	require.NoError(t, slot.Put(ctx, []byte(`[1,2]`)))

	data, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))
}

func TestSQLiteSlot_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "popcorn.db")

	slot, err := NewSQLiteSlot(ctx, dbPath, "watched")
	require.NoError(t, err)
	list := NewList(slot)
	require.NoError(t, list.Save(ctx, sampleEntries()))
	require.NoError(t, list.Close())

	reopened, err := NewSQLiteSlot(ctx, dbPath, "watched")
	require.NoError(t, err)
	defer reopened.Close()

	got, err := NewList(reopened).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)
}

func TestSQLiteSlot_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "popcorn.db")

	a, err := NewSQLiteSlot(ctx, dbPath, "alice")
	require.NoError(t, err)
	require.NoError(t, a.Put(ctx, []byte(`["a"]`)))
	require.NoError(t, a.Close())

	b, err := NewSQLiteSlot(ctx, dbPath, "bob")
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Get(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)
}
