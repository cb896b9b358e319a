package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus counters and histograms for protocol runs
// and individual action dispatches. Recording is a no-op on a nil
// *Metrics, which the Executor holds when
// config.ExecutorConfig.EnableMetrics is off; a non-nil Metrics needs
// every collector set, as NewMetrics does.
type Metrics struct {
	// RunsTotal counts completed runs by terminal status
	// (success|failed|stopped).
	RunsTotal *prometheus.CounterVec

	// RunDuration measures a full protocol run's wall-clock duration in
	// seconds.
	RunDuration *prometheus.HistogramVec

	// ActionsTotal counts dispatched actions by name and outcome
	// (success|error).
	ActionsTotal *prometheus.CounterVec

	// ActionDuration measures a single action dispatch's duration in
	// seconds; the wait_after_ms sleep that follows is not included.
	ActionDuration *prometheus.HistogramVec

	// VerificationsTotal counts verify_screen outcomes by
	// safe_to_proceed (true|false).
	VerificationsTotal *prometheus.CounterVec

	// ActiveRuns is a gauge of runs currently in progress (0 or 1,
	// given the single-logical-thread scheduling model).
	ActiveRuns prometheus.Gauge
}

// NewMetrics builds and registers the executor's Prometheus collectors
// against the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protoctl_executor_runs_total",
				Help: "Total number of protocol runs by terminal status",
			},
			[]string{"status"},
		),

		RunDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "protoctl_executor_run_duration_seconds",
				Help:    "Duration of a full protocol run in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
			},
			[]string{"status"},
		),

		ActionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protoctl_executor_actions_total",
				Help: "Total number of dispatched actions by name and outcome",
			},
			[]string{"action_name", "status"},
		),

		ActionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "protoctl_executor_action_duration_seconds",
				Help:    "Duration of a single action dispatch in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"action_name"},
		),

		VerificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protoctl_executor_verifications_total",
				Help: "Total number of verify_screen outcomes by safe_to_proceed",
			},
			[]string{"safe_to_proceed"},
		),

		ActiveRuns: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "protoctl_executor_active_runs",
				Help: "Number of protocol runs currently in progress",
			},
		),
	}
}

func (m *Metrics) recordRun(status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.WithLabelValues(status).Observe(durationSeconds)
}

func (m *Metrics) recordAction(name, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ActionsTotal.WithLabelValues(name, status).Inc()
	m.ActionDuration.WithLabelValues(name).Observe(durationSeconds)
}

func (m *Metrics) recordVerification(safeToProceed bool) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(boolLabel(safeToProceed)).Inc()
}

func (m *Metrics) runStarted() {
	if m == nil {
		return
	}
	m.ActiveRuns.Inc()
}

func (m *Metrics) runEnded() {
	if m == nil {
		return
	}
	m.ActiveRuns.Dec()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
