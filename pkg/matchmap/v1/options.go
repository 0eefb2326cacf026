package v1

import (
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
	mmlog "github.com/gxo-labs/matchmap/pkg/matchmap/v1/log"
	"github.com/gxo-labs/matchmap/pkg/matchmap/v1/metrics"
	"github.com/gxo-labs/matchmap/pkg/matchmap/v1/tracing"
)

// Option configures a Map at creation.
type Option func(*Map) error

// Entry is a (Key, Value) pair used to seed a Map.
type Entry struct {
	Key   Key
	Value Value
}

// E builds an Entry, classifying v with ValueOf.
func E(k Key, v any) Entry {
	return Entry{Key: k, Value: ValueOf(v)}
}

// WithEntries seeds the map with entries in the given order.
func WithEntries(entries ...Entry) Option {
	return func(m *Map) error {
		for _, e := range entries {
			m.store.put(e.Key, e.Value)
		}
		return nil
	}
}

// WithEcho sets the initial echo mode.
func WithEcho(mode EchoMode) Option {
	return func(m *Map) error {
		return m.SetEcho(mode)
	}
}

// WithDefault sets the value returned for total misses.
func WithDefault(v any) Option {
	return func(m *Map) error {
		m.def = v
		return nil
	}
}

// WithName names the map in logs and metric labels.
func WithName(name string) Option {
	return func(m *Map) error {
		if name == "" {
			return mmerrors.NewConfigError("map name cannot be empty", nil)
		}
		m.name = name
		return nil
	}
}

// WithLogger sets the logger used for optimizer diagnostics.
func WithLogger(l mmlog.Logger) Option {
	return func(m *Map) error {
		if l == nil {
			return mmerrors.NewConfigError("logger cannot be nil", nil)
		}
		m.log = l
		return nil
	}
}

// WithMetricsRegistryProvider registers the map's collectors with the
// provider's registry.
func WithMetricsRegistryProvider(provider metrics.RegistryProvider) Option {
	return func(m *Map) error {
		if provider == nil {
			return mmerrors.NewConfigError("metrics registry provider cannot be nil", nil)
		}
		m.metricsProvider = provider
		return nil
	}
}

// WithTracerProvider sets the provider used for optimizer spans.
func WithTracerProvider(provider tracing.TracerProvider) Option {
	return func(m *Map) error {
		if provider == nil {
			return mmerrors.NewConfigError("tracer provider cannot be nil", nil)
		}
		m.tracerProvider = provider
		return nil
	}
}
