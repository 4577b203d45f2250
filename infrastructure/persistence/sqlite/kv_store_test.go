package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thoughtgraph/infrastructure/persistence/schema"
)

func newTestStore(t *testing.T) (*KVStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thoughts.db")
	store, err := NewKVStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, ok, err := store.Get(ctx, "entry:a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "entry:a", []byte(`{"text":"one"}`)))
	require.NoError(t, store.Put(ctx, "entry:a", []byte(`{"text":"two"}`)))

	value, ok, err := store.Get(ctx, "entry:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"text":"two"}`, string(value))

	require.NoError(t, store.Delete(ctx, "entry:a"))
	require.NoError(t, store.Delete(ctx, "entry:a"))
	_, ok, err = store.Get(ctx, "entry:a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStore_ScanPrefix(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, key := range []string{"entry:b", "entry:a", "meta:x", "entry_c"} {
		require.NoError(t, store.Put(ctx, key, []byte(key)))
	}

	values, keys, err := store.Scan(ctx, "entry:")
	require.NoError(t, err)
	assert.Equal(t, []string{"entry:a", "entry:b"}, keys)
	assert.Equal(t, []byte("entry:b"), values["entry:b"])
}

func TestKVStore_ReopenKeepsDataAndSchema(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)
	require.NoError(t, store.Put(ctx, "entry:a", []byte("x")))
	require.NoError(t, store.Close())

	reopened, err := NewKVStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	version, err := schema.CurrentVersion(ctx, reopened.db)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	_, ok, err := reopened.Get(ctx, "entry:a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKVStore_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := NewKVStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	_, keys, err := store.Scan(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}
