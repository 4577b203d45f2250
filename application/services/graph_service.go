package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/layout"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/pkg/observability"
)

// GraphService runs the build and layout passes with logging, metrics and
// tracing around them. Both the interactive session and the headless
// queries go through it.
type GraphService struct {
	builder *domainservices.GraphBuilder
	config  *config.DomainConfig
	metrics *observability.Collector
	logger  *zap.Logger
	clock   func() time.Time
}

// NewGraphService creates a new graph service
func NewGraphService(
	builder *domainservices.GraphBuilder,
	cfg *config.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *GraphService {
	return &GraphService{
		builder: builder,
		config:  cfg,
		metrics: metrics,
		logger:  logger,
		clock:   time.Now,
	}
}

// Config returns the domain configuration the service was built with
func (s *GraphService) Config() *config.DomainConfig {
	return s.config
}

// Build scores every pair of active entries and returns a fresh graph
func (s *GraphService) Build(ctx context.Context, entries []*entities.Entry, threshold float64) *aggregates.Graph {
	_, span := observability.StartSpan(ctx, "graph.build",
		attribute.Int("entries", len(entries)),
		attribute.Float64("threshold", threshold))

	if len(entries) > s.config.MaxActiveEntries {
		s.logger.Warn("building graph over the pairwise comparison soft limit",
			zap.Int("entryCount", len(entries)),
			zap.Int("limit", s.config.MaxActiveEntries))
	}

	start := time.Now()
	graph := s.builder.BuildGraph(entries, threshold, s.clock())
	took := time.Since(start)

	stats := graph.Stats()
	if s.metrics != nil {
		s.metrics.RecordBuild(took, stats.NodeCount, stats.EdgeCount)
	}
	span.SetAttributes(
		attribute.Int("nodes", stats.NodeCount),
		attribute.Int("edges", stats.EdgeCount))
	observability.EndSpan(span, nil)

	s.logger.Debug("graph built",
		zap.String("graphID", graph.ID().String()),
		zap.Int("nodeCount", stats.NodeCount),
		zap.Int("edgeCount", stats.EdgeCount),
		zap.Float64("threshold", graph.Threshold()),
		zap.Duration("duration", took))

	return graph
}

// Layout runs one layout pass over graph. For force mode the returned
// strategy is the live *layout.Simulation the caller keeps ticking.
func (s *GraphService) Layout(ctx context.Context, graph *aggregates.Graph, mode layout.Mode, size valueobjects.Size) layout.Strategy {
	_, span := observability.StartSpan(ctx, "graph.layout",
		attribute.String("mode", mode.String()),
		attribute.Int("nodes", graph.Len()))

	start := time.Now()
	strategy := layout.ForMode(mode, s.config)
	strategy.Layout(graph.Nodes(), graph.Edges(), size)
	took := time.Since(start)

	if sim, ok := strategy.(*layout.Simulation); ok && s.metrics != nil {
		sim.OnTick(func(layout.TickInfo) { s.metrics.RecordTick() })
	}

	if s.metrics != nil {
		s.metrics.RecordLayout(mode.String(), took)
	}
	observability.EndSpan(span, nil)

	return strategy
}

// LayoutStable lays the graph out and, for force mode, runs the simulation
// headless until it cools or the tick cap is hit
func (s *GraphService) LayoutStable(ctx context.Context, graph *aggregates.Graph, mode layout.Mode, size valueobjects.Size) {
	strategy := s.Layout(ctx, graph, mode, size)

	sim, ok := strategy.(*layout.Simulation)
	if !ok {
		return
	}

	ticks := sim.RunUntilStable(s.config.MaxTicksHeadless)
	if sim.IsRunning() {
		sim.Stop()
		s.logger.Debug("simulation hit tick cap before cooling",
			zap.Int("ticks", ticks),
			zap.Float64("alpha", sim.Alpha()))
	}
}
