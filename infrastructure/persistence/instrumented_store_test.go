package persistence

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thoughtgraph/infrastructure/persistence/memory"
	"thoughtgraph/pkg/observability"
)

func TestInstrumentedStore_RecordsOperations(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewCollector("test")
	store := NewInstrumentedStore(memory.NewKVStore(), metrics)

	require.NoError(t, store.Put(ctx, "entry:a", []byte("x")))
	_, ok, err := store.Get(ctx, "entry:a")
	require.NoError(t, err)
	assert.True(t, ok)
	_, _, err = store.Scan(ctx, "entry:")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "entry:a"))

	for _, op := range []string{"put", "get", "scan", "delete"} {
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreOperations.WithLabelValues(op, "success")), op)
	}
}

func TestInstrumentedStore_NilCollector(t *testing.T) {
	store := NewInstrumentedStore(memory.NewKVStore(), nil)
	assert.NoError(t, store.Put(context.Background(), "k", []byte("v")))
	assert.NoError(t, store.Close())
}
