package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the benchmark harness.
type Metrics struct {
	config MetricsConfig

	// Run metrics
	solverRuns  *prometheus.CounterVec
	runDuration *prometheus.HistogramVec

	// Timing protocol metrics
	ioCorrection *prometheus.HistogramVec

	// Install metrics
	installAttempts *prometheus.CounterVec
	installFailures *prometheus.CounterVec

	// System metrics
	activeRuns prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// No-op instance, record methods become nil checks.
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		solverRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solver_runs_total",
				Help:      "Total number of solver runs by outcome",
			},
			[]string{"solver", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Corrected duration of solver runs in seconds",
				Buckets:   buckets,
			},
			[]string{"solver", "strategy"},
		),
		ioCorrection: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "io_correction_seconds",
				Help:      "I/O time subtracted from external-process run timings",
				Buckets:   buckets,
			},
			[]string{"solver"},
		),
		installAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "install_attempts_total",
				Help:      "Total number of solver install attempts",
			},
			[]string{"mechanism", "status"},
		),
		installFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "install_failures_total",
				Help:      "Total number of failed solver installs",
			},
			[]string{"solver", "environment"},
		),
		activeRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_runs",
				Help:      "Number of solver runs currently executing",
			},
		),
	}

	collectors := []prometheus.Collector{
		m.solverRuns,
		m.runDuration,
		m.ioCorrection,
		m.installAttempts,
		m.installFailures,
		m.activeRuns,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordSolverRun records a completed solver run with its outcome.
func (m *Metrics) RecordSolverRun(solver, status string) {
	if m.solverRuns == nil {
		return
	}
	m.solverRuns.WithLabelValues(solver, status).Inc()
}

// RecordRunDuration records the corrected duration of a solver run.
func (m *Metrics) RecordRunDuration(solver, strategy string, seconds float64) {
	if m.runDuration == nil {
		return
	}
	m.runDuration.WithLabelValues(solver, strategy).Observe(seconds)
}

// RecordIOCorrection records the I/O time subtracted from an
// external-process timing.
func (m *Metrics) RecordIOCorrection(solver string, seconds float64) {
	if m.ioCorrection == nil {
		return
	}
	m.ioCorrection.WithLabelValues(solver).Observe(seconds)
}

// RecordInstallAttempt records a solver install attempt by mechanism.
func (m *Metrics) RecordInstallAttempt(mechanism, status string) {
	if m.installAttempts == nil {
		return
	}
	m.installAttempts.WithLabelValues(mechanism, status).Inc()
}

// RecordInstallFailure records a failed solver install.
func (m *Metrics) RecordInstallFailure(solver, environment string) {
	if m.installFailures == nil {
		return
	}
	m.installFailures.WithLabelValues(solver, environment).Inc()
}

// IncActiveRuns increments the active run gauge.
func (m *Metrics) IncActiveRuns() {
	if m.activeRuns == nil {
		return
	}
	m.activeRuns.Inc()
}

// DecActiveRuns decrements the active run gauge.
func (m *Metrics) DecActiveRuns() {
	if m.activeRuns == nil {
		return
	}
	m.activeRuns.Dec()
}

// Registry returns the underlying Prometheus registry, nil when metrics
// are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Timer measures elapsed time for metric observations.
type Timer struct {
	start time.Time
}

// NewTimer creates a timer starting now.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = server.ListenAndServe()
	}()

	return nil
}
