package persistence

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"thoughtgraph/application/ports"
	"thoughtgraph/pkg/observability"
)

// InstrumentedStore decorates a KVStore with metrics and spans
type InstrumentedStore struct {
	next    ports.KVStore
	metrics *observability.Collector
}

// NewInstrumentedStore wraps next. A nil collector disables metrics.
func NewInstrumentedStore(next ports.KVStore, metrics *observability.Collector) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics}
}

func (s *InstrumentedStore) observe(ctx context.Context, operation, key string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "store."+operation, attribute.String("store.key", key))
	return ctx, func(err error) {
		if s.metrics != nil {
			s.metrics.RecordStoreOperation(operation, time.Since(start), err)
		}
		observability.EndSpan(span, err)
	}
}

// Get implements ports.KVStore
func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, done := s.observe(ctx, "get", key)
	value, ok, err := s.next.Get(ctx, key)
	done(err)
	return value, ok, err
}

// Put implements ports.KVStore
func (s *InstrumentedStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, done := s.observe(ctx, "put", key)
	err := s.next.Put(ctx, key, value)
	done(err)
	return err
}

// Delete implements ports.KVStore
func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	ctx, done := s.observe(ctx, "delete", key)
	err := s.next.Delete(ctx, key)
	done(err)
	return err
}

// Scan implements ports.KVStore
func (s *InstrumentedStore) Scan(ctx context.Context, prefix string) (map[string][]byte, []string, error) {
	ctx, done := s.observe(ctx, "scan", prefix)
	values, keys, err := s.next.Scan(ctx, prefix)
	done(err)
	return values, keys, err
}

// Close implements ports.KVStore
func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
