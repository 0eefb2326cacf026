package metrics

import (
	mmmetrics "github.com/gxo-labs/matchmap/pkg/matchmap/v1/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRegistryProvider hands out per-map collectors registered with a
// single Prometheus registry. Maps rebuilt under the same name (watch mode
// reloads) share their series.
type PrometheusRegistryProvider struct {
	registry *prometheus.Registry
}

var _ mmmetrics.RegistryProvider = (*PrometheusRegistryProvider)(nil)

// NewPrometheusRegistryProvider creates a provider backed by a fresh registry.
func NewPrometheusRegistryProvider() *PrometheusRegistryProvider {
	return NewRegistryProviderFor(prometheus.NewRegistry())
}

// NewRegistryProviderFor registers map collectors with an existing registry,
// for embedding matchmap in a process that already exposes one. A nil
// registry gets a fresh one.
func NewRegistryProviderFor(reg *prometheus.Registry) *PrometheusRegistryProvider {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &PrometheusRegistryProvider{registry: reg}
}

// Registry returns the underlying Prometheus registry.
func (p *PrometheusRegistryProvider) Registry() *prometheus.Registry {
	return p.registry
}

// Recorder returns the collectors of the map called mapName.
func (p *PrometheusRegistryProvider) Recorder(mapName string) (mmmetrics.Recorder, error) {
	c, err := NewMapCollectors(p.registry, mapName)
	if err != nil {
		return nil, err
	}
	return c, nil
}
