package metrics

import (
	"errors"
	"fmt"

	mmmetrics "github.com/gxo-labs/matchmap/pkg/matchmap/v1/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "matchmap"

// Lookup outcomes used as the "outcome" label of matchmap_lookups_total.
const (
	OutcomeHit     = mmmetrics.OutcomeHit
	OutcomeMiss    = mmmetrics.OutcomeMiss
	OutcomeDefault = mmmetrics.OutcomeDefault
	OutcomeError   = mmmetrics.OutcomeError
)

// MapCollectors holds the Prometheus collectors for a single named map.
// A nil *MapCollectors is valid and records nothing, so maps built without a
// registry pay a single nil check per observation.
type MapCollectors struct {
	lookups       *prometheus.CounterVec
	patternChecks prometheus.Counter
	fastRejects   prometheus.Counter
	optimizeRuns  prometheus.Counter
	entries       prometheus.Gauge
	mergedGroups  prometheus.Gauge
}

var _ mmmetrics.Recorder = (*MapCollectors)(nil)

// NewMapCollectors creates and registers the collectors for the map called
// mapName. Registering the same map name twice against one registry reuses
// the collectors that are already there.
func NewMapCollectors(reg prometheus.Registerer, mapName string) (*MapCollectors, error) {
	if reg == nil {
		return nil, nil
	}
	labels := prometheus.Labels{"map": mapName}

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "lookups_total",
		Help:        "Number of top-level Get calls, partitioned by outcome.",
		ConstLabels: labels,
	}, []string{"outcome"})
	patternChecks := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "pattern_checks_total",
		Help:        "Number of regular expression evaluations performed by lookups.",
		ConstLabels: labels,
	})
	fastRejects := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "fast_rejects_total",
		Help:        "Number of elements rejected by the combined pattern test.",
		ConstLabels: labels,
	})
	optimizeRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "optimize_runs_total",
		Help:        "Number of times the optimizer rebuilt its derived state.",
		ConstLabels: labels,
	})
	entries := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "entries",
		Help:        "Number of entries currently stored in the map.",
		ConstLabels: labels,
	})
	mergedGroups := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "merged_groups",
		Help:        "Number of pattern groups merged by the last optimization.",
		ConstLabels: labels,
	})

	c := &MapCollectors{}
	var err error
	if c.lookups, err = register(reg, lookups); err != nil {
		return nil, err
	}
	if c.patternChecks, err = register(reg, patternChecks); err != nil {
		return nil, err
	}
	if c.fastRejects, err = register(reg, fastRejects); err != nil {
		return nil, err
	}
	if c.optimizeRuns, err = register(reg, optimizeRuns); err != nil {
		return nil, err
	}
	if c.entries, err = register(reg, entries); err != nil {
		return nil, err
	}
	if c.mergedGroups, err = register(reg, mergedGroups); err != nil {
		return nil, err
	}
	return c, nil
}

// register registers col, returning the existing collector when an identical
// one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, col C) (C, error) {
	if err := reg.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(C)
			if !ok {
				return col, fmt.Errorf("collector already registered with a different type: %w", err)
			}
			return existing, nil
		}
		return col, fmt.Errorf("failed to register collector: %w", err)
	}
	return col, nil
}

// ObserveLookup counts one top-level lookup with the given outcome.
func (c *MapCollectors) ObserveLookup(outcome string) {
	if c == nil {
		return
	}
	c.lookups.WithLabelValues(outcome).Inc()
}

// AddPatternChecks adds n regular expression evaluations.
func (c *MapCollectors) AddPatternChecks(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.patternChecks.Add(float64(n))
}

// AddFastRejects adds n elements rejected by the combined pattern test.
func (c *MapCollectors) AddFastRejects(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.fastRejects.Add(float64(n))
}

// ObserveOptimize records one optimizer run that produced mergedGroups groups.
func (c *MapCollectors) ObserveOptimize(mergedGroups int) {
	if c == nil {
		return
	}
	c.optimizeRuns.Inc()
	c.mergedGroups.Set(float64(mergedGroups))
}

// SetEntries records the current entry count.
func (c *MapCollectors) SetEntries(n int) {
	if c == nil {
		return
	}
	c.entries.Set(float64(n))
}
