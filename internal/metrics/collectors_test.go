package metrics_test

import (
	"testing"

	"github.com/gxo-labs/matchmap/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCollectors_Observe(t *testing.T) {
	provider := metrics.NewPrometheusRegistryProvider()
	c, err := metrics.NewMapCollectors(provider.Registry(), "colors")
	require.NoError(t, err)
	require.NotNil(t, c)

	c.ObserveLookup(metrics.OutcomeHit)
	c.ObserveLookup(metrics.OutcomeHit)
	c.ObserveLookup(metrics.OutcomeMiss)
	c.AddPatternChecks(7)
	c.AddPatternChecks(0)
	c.AddFastRejects(2)
	c.ObserveOptimize(3)
	c.SetEntries(5)

	count, err := testutil.GatherAndCount(provider.Registry(), "matchmap_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	families, err := provider.Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			}
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" {
					key += "/" + lp.GetValue()
				}
				if lp.GetName() == "map" {
					assert.Equal(t, "colors", lp.GetValue())
				}
			}
			values[key] = v
		}
	}

	assert.Equal(t, 2.0, values["matchmap_lookups_total/hit"])
	assert.Equal(t, 1.0, values["matchmap_lookups_total/miss"])
	assert.Equal(t, 7.0, values["matchmap_pattern_checks_total"])
	assert.Equal(t, 2.0, values["matchmap_fast_rejects_total"])
	assert.Equal(t, 1.0, values["matchmap_optimize_runs_total"])
	assert.Equal(t, 3.0, values["matchmap_merged_groups"])
	assert.Equal(t, 5.0, values["matchmap_entries"])
}

func TestMapCollectors_ReuseExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := metrics.NewMapCollectors(reg, "shared")
	require.NoError(t, err)
	second, err := metrics.NewMapCollectors(reg, "shared")
	require.NoError(t, err)

	first.SetEntries(4)
	second.ObserveOptimize(1)

	count, err := testutil.GatherAndCount(reg, "matchmap_entries", "matchmap_optimize_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMapCollectors_NilSafe(t *testing.T) {
	c, err := metrics.NewMapCollectors(nil, "none")
	require.NoError(t, err)
	assert.Nil(t, c)

	assert.NotPanics(t, func() {
		c.ObserveLookup(metrics.OutcomeHit)
		c.AddPatternChecks(3)
		c.AddFastRejects(1)
		c.ObserveOptimize(2)
		c.SetEntries(1)
	})
}
