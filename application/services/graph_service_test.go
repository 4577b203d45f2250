package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/layout"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/pkg/observability"
	"thoughtgraph/tests/fixtures"
)

func newService(cfg *config.DomainConfig, logger *zap.Logger) (*GraphService, *observability.Collector) {
	analyzer := domainservices.NewDefaultTextAnalyzer(cfg.MinTokenLength)
	builder := domainservices.NewGraphBuilder(domainservices.NewWeightedJaccardCalculator(cfg, analyzer))
	metrics := observability.NewCollector("test")
	return NewGraphService(builder, cfg, metrics, logger), metrics
}

func TestGraphService_BuildRecordsMetrics(t *testing.T) {
	svc, metrics := newService(config.DefaultDomainConfig(), zap.NewNop())

	entries := []*entities.Entry{
		fixtures.Entry("Seed catalogue arrived", "garden"),
		fixtures.Entry("Compost needs turning", "garden"),
		fixtures.Entry("Renew passport"),
	}
	graph := svc.Build(context.Background(), entries, 0.2)

	assert.Equal(t, 3, graph.Len())
	assert.Len(t, graph.Edges(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GraphBuilds))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.GraphNodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.GraphEdges))
}

func TestGraphService_WarnsOverSoftLimit(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxActiveEntries = 1
	core, logs := observer.New(zapcore.WarnLevel)
	svc, _ := newService(cfg, zap.New(core))

	svc.Build(context.Background(), []*entities.Entry{fixtures.Entry("one"), fixtures.Entry("two")}, 0.2)
	assert.Equal(t, 1, logs.Len())
}

func TestGraphService_LayoutStable(t *testing.T) {
	svc, metrics := newService(config.DefaultDomainConfig(), zap.NewNop())
	ctx := context.Background()

	entries := []*entities.Entry{
		fixtures.Entry("Seed catalogue arrived", "garden"),
		fixtures.Entry("Compost needs turning", "garden"),
		fixtures.Entry("Renew passport"),
	}
	graph := svc.Build(ctx, entries, 0.2)
	size := valueobjects.NewSize(400, 400)

	svc.LayoutStable(ctx, graph, layout.ModeForce, size)
	ticks := testutil.ToFloat64(metrics.SimulationTicks)
	assert.Greater(t, ticks, 250.0)
	for _, n := range graph.Nodes() {
		assert.True(t, n.Placed)
	}

	strategy := svc.Layout(ctx, graph, layout.ModeCircular, size)
	_, isSim := strategy.(*layout.Simulation)
	require.False(t, isSim)
	assert.Equal(t, ticks, testutil.ToFloat64(metrics.SimulationTicks))
}
