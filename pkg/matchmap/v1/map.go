package v1

import (
	"iter"
	"sync/atomic"

	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
	mmlog "github.com/gxo-labs/matchmap/pkg/matchmap/v1/log"
	"github.com/gxo-labs/matchmap/pkg/matchmap/v1/metrics"
	"github.com/gxo-labs/matchmap/pkg/matchmap/v1/tracing"
)

// DefaultName is the name of maps created without WithName.
const DefaultName = "default"

// Map is a multi-match associative container. The zero value is not usable;
// create maps with New.
type Map struct {
	name  string
	store *store
	echo  EchoMode
	def   any

	// state is dirty after every mutation and clean only after Optimize.
	state optState

	log             mmlog.Logger
	metricsProvider metrics.RegistryProvider
	collectors      metrics.Recorder
	tracerProvider  tracing.TracerProvider

	patternChecks atomic.Uint64
	fastRejects   atomic.Uint64
}

// New creates a Map configured by opts.
func New(opts ...Option) (*Map, error) {
	m := &Map{
		name:  DefaultName,
		store: newStore(),
		echo:  EchoNone,
		state: dirty{},

		collectors: metrics.NoOp(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.log == nil {
		m.log = mmlog.Discard()
	}
	m.log = m.log.With("map", m.name)
	if m.tracerProvider == nil {
		m.tracerProvider = tracing.NoOp()
	}
	if m.metricsProvider != nil {
		rec, err := m.metricsProvider.Recorder(m.name)
		if err != nil {
			return nil, mmerrors.NewConfigError("failed to register map metrics", err)
		}
		if rec != nil {
			m.collectors = rec
		}
	}
	m.collectors.SetEntries(m.store.len())
	return m, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Map {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the map name.
func (m *Map) Name() string { return m.name }

// Set inserts or overwrites the value for k. New keys go to the end of the
// evaluation order, existing keys keep their position. v is classified with
// ValueOf.
func (m *Map) Set(k Key, v any) {
	m.store.put(k, ValueOf(v))
	m.invalidate()
}

// Delete removes k. Deleting a missing key is a no-op.
func (m *Map) Delete(k Key) {
	if m.store.remove(k) {
		m.invalidate()
	}
}

// Has reports whether k is stored.
func (m *Map) Has(k Key) bool { return m.store.has(k) }

// Len returns the number of entries.
func (m *Map) Len() int { return m.store.len() }

// Keys returns the keys in evaluation order.
func (m *Map) Keys() []Key {
	keys := make([]Key, 0, m.store.len())
	for e := range m.store.each() {
		keys = append(keys, e.key)
	}
	return keys
}

// All iterates over the entries in evaluation order.
func (m *Map) All() iter.Seq2[Key, Value] {
	return func(yield func(Key, Value) bool) {
		for e := range m.store.each() {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Echo returns the echo mode.
func (m *Map) Echo() EchoMode { return m.echo }

// SetEcho changes the echo mode. An invalid mode returns a ConfigError and
// leaves the current mode in place.
func (m *Map) SetEcho(mode EchoMode) error {
	if !mode.Valid() {
		return mmerrors.NewConfigError("invalid echo mode \""+string(mode)+"\" (want none, onmiss or always)", nil)
	}
	m.echo = mode
	return nil
}

// Default returns the value used for total misses.
func (m *Map) Default() any { return m.def }

// SetDefault changes the value used for total misses.
func (m *Map) SetDefault(v any) { m.def = v }

// Optimized reports whether the optimizer state is current.
func (m *Map) Optimized() bool {
	_, ok := m.state.(*clean)
	return ok
}

func (m *Map) invalidate() {
	m.state = dirty{}
	m.collectors.SetEntries(m.store.len())
}
