package wm

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersEveryCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.windowsManaged.Inc()
	m.activeWindows.Set(3)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7, "every declared metric must be registered against the caller's registry")

	var sawManaged bool
	for _, f := range families {
		if f.GetName() == "wincore_windows_managed_total" {
			sawManaged = true
			require.Len(t, f.Metric, 1)
			assert.Equal(t, float64(1), f.Metric[0].GetCounter().GetValue())
		}
	}
	assert.True(t, sawManaged)
}

func TestNoopMetricsNeverPanicsWithoutRegisterer(t *testing.T) {
	m := noopMetrics()
	assert.NotPanics(t, func() {
		m.windowsManaged.Inc()
		m.focusChanges.Inc()
		m.activeWindows.Set(1)
	})
}
