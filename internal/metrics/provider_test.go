package metrics_test

import (
	"testing"

	"github.com/gxo-labs/matchmap/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryProviderFor_SharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	provider := metrics.NewRegistryProviderFor(reg)
	assert.Same(t, reg, provider.Registry())

	colors, err := provider.Recorder("colors")
	require.NoError(t, err)
	people, err := provider.Recorder("people")
	require.NoError(t, err)
	colors.SetEntries(3)
	people.SetEntries(5)

	count, err := testutil.GatherAndCount(reg, "matchmap_entries")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per map")
}

func TestRegistryProviderFor_NilRegistry(t *testing.T) {
	provider := metrics.NewRegistryProviderFor(nil)
	require.NotNil(t, provider.Registry())

	rec, err := provider.Recorder("again")
	require.NoError(t, err)
	rec.ObserveLookup(metrics.OutcomeMiss)
	count, err := testutil.GatherAndCount(provider.Registry(), "matchmap_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
