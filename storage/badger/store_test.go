package badger

import (
	"context"
	"testing"

	"github.com/poiesic/searchidx/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetSetRemove(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	key := []byte("snapshot")

	t.Run("get missing key", func(t *testing.T) {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("payload-v1")))

		value, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload-v1"), value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("payload-v2")))

		value, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload-v2"), value)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("remove absent key is not an error", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, []byte("never-existed")))
	})
}

func TestStore_Closed(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ctx := context.Background()

	_, err = store.Get(ctx, []byte("k"))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Set(ctx, []byte("k"), []byte("v")), storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Remove(ctx, []byte("k")), storage.ErrStorageClosed)
}

func TestOpenStore_OnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenStore(dir, false)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, []byte("k"), []byte("v")))
	require.NoError(t, store.Close())

	// Reopen and read back.
	store, err = OpenStore(dir, false)
	require.NoError(t, err)
	defer store.Close()

	value, err := store.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}
