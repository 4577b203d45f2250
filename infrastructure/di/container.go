package di

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"thoughtgraph/application/commands/bus"
	"thoughtgraph/application/ports"
	querybus "thoughtgraph/application/queries/bus"
	appservices "thoughtgraph/application/services"
	domainconfig "thoughtgraph/domain/config"
	"thoughtgraph/domain/events"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/persistence/kv"
	"thoughtgraph/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger
	Store        ports.KVStore
	Entries      *kv.EntryRepository
	Dispatcher   *events.Dispatcher
	Graphs       *appservices.GraphService
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	Metrics      *observability.Collector
	Tracing      *observability.TracerProvider
}

// Shutdown flushes metrics and traces and closes the store. It is safe to
// call once at process exit; every step runs even if an earlier one fails.
func (c *Container) Shutdown(ctx context.Context) error {
	var err error

	if c.Config.MetricsFile != "" {
		err = multierr.Append(err, c.Metrics.WriteTextfile(c.Config.MetricsFile))
	}
	err = multierr.Append(err, c.Tracing.Shutdown(ctx))
	err = multierr.Append(err, c.Store.Close())

	// Sync fails on non-file sinks such as stderr; that is not worth reporting
	_ = c.Logger.Sync()

	return err
}
