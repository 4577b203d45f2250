package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	value := []byte("hello")
	require.NoError(t, store.Put(ctx, "entry:b", value))
	require.NoError(t, store.Put(ctx, "entry:a", []byte("world")))
	require.NoError(t, store.Put(ctx, "other", []byte("x")))

	// callers mutating their slice must not affect the stored copy
	value[0] = 'j'
	got, ok, err := store.Get(ctx, "entry:b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", string(got))

	_, keys, err := store.Scan(ctx, "entry:")
	require.NoError(t, err)
	assert.Equal(t, []string{"entry:a", "entry:b"}, keys)

	require.NoError(t, store.Delete(ctx, "entry:a"))
	_, ok, err = store.Get(ctx, "entry:a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Close())
	_, keys, err = store.Scan(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
