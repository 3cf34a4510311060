package wm

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the counters/gauges Space updates as it processes
// events. Registration is the caller's responsibility (via Registerer),
// matching §6's explicit non-goal of "no IPC surface": wincore never
// starts its own HTTP server, it only emits metrics into whatever
// registry the embedding process already runs.
type Metrics struct {
	windowsManaged   prometheus.Counter
	windowsUnmanaged prometheus.Counter
	focusChanges     prometheus.Counter
	ruleMatches      prometheus.Counter
	edgeActivations  prometheus.Counter
	activeWindows    prometheus.Gauge
	subspaceCount    prometheus.Gauge
}

// NewMetrics constructs and registers every metric against reg. Passing
// a prometheus.NewRegistry() (rather than the global DefaultRegisterer)
// is the expected use in tests, so registration never collides across
// parallel test cases.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		windowsManaged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wincore_windows_managed_total",
			Help: "Total windows that completed the manage procedure.",
		}),
		windowsUnmanaged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wincore_windows_unmanaged_total",
			Help: "Total windows removed from tracking.",
		}),
		focusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wincore_focus_changes_total",
			Help: "Total successful activation changes.",
		}),
		ruleMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wincore_rule_matches_total",
			Help: "Total rule-book consultations that matched at least one rule.",
		}),
		edgeActivations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wincore_edge_activations_total",
			Help: "Total screen-edge triggers that fired past cooldown.",
		}),
		activeWindows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wincore_active_windows",
			Help: "Current count of tracked windows.",
		}),
		subspaceCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wincore_subspaces",
			Help: "Current count of virtual subspaces.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.windowsManaged, m.windowsUnmanaged, m.focusChanges,
			m.ruleMatches, m.edgeActivations, m.activeWindows, m.subspaceCount,
		)
	}
	return m
}

func noopMetrics() *Metrics { return NewMetrics(nil) }
