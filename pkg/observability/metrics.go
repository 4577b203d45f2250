package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the application. It uses its
// own registry; nothing is served over HTTP, the registry is written to a
// node-exporter textfile on exit when a path is configured.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Business metrics
	GraphBuilds     prometheus.Counter
	BuildDuration   prometheus.Histogram
	GraphNodes      prometheus.Gauge
	GraphEdges      prometheus.Gauge
	LayoutDuration  *prometheus.HistogramVec
	SimulationTicks prometheus.Counter
	Commands        *prometheus.CounterVec

	// Repository metrics
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		GraphBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Total number of connection graph builds",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_duration_seconds",
			Help:      "Connection graph build duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the most recent graph build",
		}),
		GraphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edges in the most recent graph build",
		}),
		LayoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout pass duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"mode"}),
		SimulationTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_ticks_total",
			Help:      "Total number of force simulation steps",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of entry commands",
		}, []string{"command", "status"}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of key-value store operations",
		}, []string{"operation", "status"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Key-value store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(
		c.GraphBuilds,
		c.BuildDuration,
		c.GraphNodes,
		c.GraphEdges,
		c.LayoutDuration,
		c.SimulationTicks,
		c.Commands,
		c.StoreOperations,
		c.StoreDuration,
	)

	return c
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordBuild records one connection graph build
func (c *Collector) RecordBuild(took time.Duration, nodes, edges int) {
	c.GraphBuilds.Inc()
	c.BuildDuration.Observe(took.Seconds())
	c.GraphNodes.Set(float64(nodes))
	c.GraphEdges.Set(float64(edges))
}

// RecordLayout records one layout pass
func (c *Collector) RecordLayout(mode string, took time.Duration) {
	c.LayoutDuration.WithLabelValues(mode).Observe(took.Seconds())
}

// RecordTick counts one simulation step
func (c *Collector) RecordTick() {
	c.SimulationTicks.Inc()
}

// RecordCommand counts a command outcome
func (c *Collector) RecordCommand(command string, err error) {
	c.Commands.WithLabelValues(command, status(err)).Inc()
}

// RecordStoreOperation records a store operation
func (c *Collector) RecordStoreOperation(operation string, took time.Duration, err error) {
	c.StoreOperations.WithLabelValues(operation, status(err)).Inc()
	c.StoreDuration.WithLabelValues(operation).Observe(took.Seconds())
}

// WriteTextfile writes every metric in the text exposition format to path,
// atomically
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
