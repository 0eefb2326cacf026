package metrics

import "github.com/prometheus/client_golang/prometheus"

// Lookup outcomes used as the "outcome" label of matchmap_lookups_total.
const (
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
	OutcomeDefault = "default"
	OutcomeError   = "error"
)

// Recorder receives the lookup and optimizer observations of one map.
type Recorder interface {
	// ObserveLookup counts one top-level lookup with the given outcome.
	ObserveLookup(outcome string)
	// AddPatternChecks adds n regular expression evaluations.
	AddPatternChecks(n int)
	// AddFastRejects adds n elements rejected by the combined pattern test.
	AddFastRejects(n int)
	// ObserveOptimize records one optimizer run.
	ObserveOptimize(mergedGroups int)
	// SetEntries records the current entry count.
	SetEntries(n int)
}

// RegistryProvider gives a Map access to the Prometheus registry its
// collectors are registered with. Consumers expose the registry however they
// like (the CLI serves it over HTTP in watch mode).
type RegistryProvider interface {
	// Registry returns the Prometheus registry holding matchmap metrics.
	Registry() *prometheus.Registry
	// Recorder returns the instruments of the map called mapName,
	// registered with Registry.
	Recorder(mapName string) (Recorder, error)
}

// NoOp returns a Recorder that drops every observation.
func NoOp() Recorder { return noop{} }

type noop struct{}

func (noop) ObserveLookup(string) {}
func (noop) AddPatternChecks(int) {}
func (noop) AddFastRejects(int)   {}
func (noop) ObserveOptimize(int)  {}
func (noop) SetEntries(int)       {}
