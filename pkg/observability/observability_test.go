package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollector_RecordAndWrite(t *testing.T) {
	c := NewCollector("thoughts_test")

	c.RecordBuild(5*time.Millisecond, 12, 30)
	c.RecordBuild(3*time.Millisecond, 10, 20)
	c.RecordTick()
	c.RecordCommand("CreateEntryCommand", nil)
	c.RecordStoreOperation("put", time.Millisecond, errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.GraphBuilds))
	assert.Equal(t, 10.0, testutil.ToFloat64(c.GraphNodes))
	assert.Equal(t, 20.0, testutil.ToFloat64(c.GraphEdges))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreOperations.WithLabelValues("put", "error")))

	path := filepath.Join(t.TempDir(), "thoughts.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "thoughts_test_graph_builds_total 2")
}

func TestTracing_LogsSpans(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tp := InitTracing(zap.New(core), true)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := StartSpan(context.Background(), "graph.build", attribute.Int("entries", 3))
	EndSpan(span, errors.New("boom"))

	entries := logs.FilterMessage("Span finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "graph.build", fields["span"])
	assert.Equal(t, "3", fields["entries"])
	assert.Equal(t, "boom", fields["error"])
}

func TestTracing_Disabled(t *testing.T) {
	tp := InitTracing(zap.NewNop(), false)

	assert.NoError(t, tp.Shutdown(context.Background()))
}
