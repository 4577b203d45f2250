//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"thoughtgraph/application/ports"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/persistence/kv"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideMetrics,
	ProvideTracing,
	ProvideKVStore,
	ProvideEntryRepository,
	wire.Bind(new(ports.EntryRepository), new(*kv.EntryRepository)),
	wire.Bind(new(ports.EntryLister), new(*kv.EntryRepository)),
	ProvideDispatcher,
	ProvideTextAnalyzer,
	ProvideGraphBuilder,
	ProvideGraphService,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
