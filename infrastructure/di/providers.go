package di

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"thoughtgraph/application/commands/bus"
	commandhandlers "thoughtgraph/application/commands/handlers"
	"thoughtgraph/application/ports"
	querybus "thoughtgraph/application/queries/bus"
	queryhandlers "thoughtgraph/application/queries/handlers"
	appservices "thoughtgraph/application/services"
	domainconfig "thoughtgraph/domain/config"
	"thoughtgraph/domain/events"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/persistence"
	"thoughtgraph/infrastructure/persistence/kv"
	"thoughtgraph/infrastructure/persistence/memory"
	"thoughtgraph/infrastructure/persistence/sqlite"
	pkgerrors "thoughtgraph/pkg/errors"
	"thoughtgraph/pkg/observability"
)

// MemoryDBPath selects the process-local store instead of a database file
const MemoryDBPath = ":memory:"

// ProvideLogger creates a new logger instance. Logs go to the configured
// file so they never draw over the interactive view.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "test" {
		return zap.NewNop(), nil
	}

	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, pkgerrors.NewConfigError("invalid log level", err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, pkgerrors.NewConfigError("cannot create log directory", err)
		}
		zapCfg.OutputPaths = []string{cfg.LogFile}
		zapCfg.ErrorOutputPaths = []string{cfg.LogFile}
	}

	return zapCfg.Build()
}

// ProvideDomainConfig derives and validates the domain rules
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	domain := cfg.DomainConfig()
	if err := domain.Validate(); err != nil {
		return nil, pkgerrors.NewConfigError("invalid domain configuration", err)
	}
	return domain, nil
}

// ProvideMetrics creates the metrics collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("thoughts")
}

// ProvideTracing installs the tracer provider when tracing is enabled
func ProvideTracing(cfg *config.Config, logger *zap.Logger) *observability.TracerProvider {
	return observability.InitTracing(logger, cfg.EnableTracing)
}

// ProvideKVStore opens the entry store and instruments it. When the config
// tolerates store errors, a database that cannot be opened is logged and
// replaced by an empty in-memory store.
func ProvideKVStore(ctx context.Context, cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) (ports.KVStore, error) {
	store, err := openKVStore(ctx, cfg.DBPath)
	if err != nil {
		if !cfg.TolerateStoreErrors {
			return nil, err
		}
		logger.Warn("Entry store unreadable, continuing without entries",
			zap.String("path", cfg.DBPath),
			zap.Error(err),
		)
		store = memory.NewKVStore()
	} else {
		logger.Debug("Entry store opened", zap.String("path", cfg.DBPath))
	}

	return persistence.NewInstrumentedStore(store, metrics), nil
}

func openKVStore(ctx context.Context, path string) (ports.KVStore, error) {
	if path == MemoryDBPath {
		return memory.NewKVStore(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, pkgerrors.NewDatabaseError("create data directory", err)
	}
	store, err := sqlite.NewKVStore(ctx, path)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("open entry store", err)
	}
	return store, nil
}

// ProvideEntryRepository creates the entry repository
func ProvideEntryRepository(store ports.KVStore, logger *zap.Logger) *kv.EntryRepository {
	return kv.NewEntryRepository(store, logger)
}

// ProvideDispatcher creates the in-process event dispatcher. Every event
// is logged at debug level.
func ProvideDispatcher(logger *zap.Logger) *events.Dispatcher {
	dispatcher := events.NewDispatcher()
	dispatcher.SubscribeAll(func(event events.DomainEvent) {
		logger.Debug("Domain event",
			zap.String("type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
		)
	})
	return dispatcher
}

// ProvideTextAnalyzer creates the tokenizer shared by similarity and insights
func ProvideTextAnalyzer(cfg *domainconfig.DomainConfig) domainservices.TextAnalyzer {
	return domainservices.NewDefaultTextAnalyzer(cfg.MinTokenLength)
}

// ProvideGraphBuilder creates the connection builder
func ProvideGraphBuilder(cfg *domainconfig.DomainConfig, textAnalyzer domainservices.TextAnalyzer) *domainservices.GraphBuilder {
	return domainservices.NewGraphBuilder(domainservices.NewWeightedJaccardCalculator(cfg, textAnalyzer))
}

// ProvideGraphService creates the graph service
func ProvideGraphService(
	builder *domainservices.GraphBuilder,
	cfg *domainconfig.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *appservices.GraphService {
	return appservices.NewGraphService(builder, cfg, metrics, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repo ports.EntryRepository,
	dispatcher *events.Dispatcher,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	)

	handlers := commandhandlers.NewEntryHandlers(repo, dispatcher, nil, logger)
	if err := handlers.Register(commandBus); err != nil {
		return nil, pkgerrors.NewInternalError("command registration failed").WithCause(err)
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	repo ports.EntryRepository,
	lister ports.EntryLister,
	graphs *appservices.GraphService,
	textAnalyzer domainservices.TextAnalyzer,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(logger)

	handlers := queryhandlers.NewQueryHandlers(repo, lister, graphs, textAnalyzer, logger)
	if err := handlers.Register(queryBus); err != nil {
		return nil, pkgerrors.NewInternalError("query registration failed").WithCause(err)
	}
	return queryBus, nil
}
