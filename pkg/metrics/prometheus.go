package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label names.
const (
	labelTarget = "target"
	labelReason = "reason"
	labelKind   = "kind"
)

// Manager manages the Prometheus metrics describing evaluation runs.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Accuracy of the most recent run, per target
	targetMAE  *prometheus.GaugeVec
	targetRMSE *prometheus.GaugeVec
	targetR2   *prometheus.GaugeVec
	windowRows *prometheus.GaugeVec

	// Run bookkeeping
	targetsEvaluated *prometheus.CounterVec
	targetsSkipped   *prometheus.CounterVec
	runFailures      *prometheus.CounterVec
	runDuration      prometheus.Histogram
	lastRunUnix      prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry it
// registers on a fresh registry so the Go runtime collectors stay out.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gridcast",
		subsystem:        "evaluation",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		enabled:          true,
		constLabels:      map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	gauge := func(name, help string) *prometheus.GaugeVec {
		return auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: m.constLabels,
		}, []string{labelTarget})
	}

	m.targetMAE = gauge("mae", "Mean absolute error of the latest evaluation window")
	m.targetRMSE = gauge("rmse", "Root mean squared error of the latest evaluation window")
	m.targetR2 = gauge("r2", "Coefficient of determination of the latest evaluation window (NaN or -Inf when labels are constant)")
	m.windowRows = gauge("window_rows", "Rows actually scored in the latest evaluation window")

	m.targetsEvaluated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "targets_evaluated_total",
		Help:        "Targets scored successfully",
		ConstLabels: m.constLabels,
	}, []string{labelTarget})

	m.targetsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "targets_skipped_total",
		Help:        "Targets skipped because an artifact was missing",
		ConstLabels: m.constLabels,
	}, []string{labelTarget, labelReason})

	m.runFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_failures_total",
		Help:        "Evaluation runs aborted by an unrecoverable error",
		ConstLabels: m.constLabels,
	}, []string{labelKind})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of complete evaluation runs",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time of the last completed evaluation run",
		ConstLabels: m.constLabels,
	})
}

// ObserveTarget records the metrics of one evaluated target.
func (m *Manager) ObserveTarget(target string, mae, rmse, r2 float64, rows int) {
	if !m.enabled {
		return
	}
	m.targetMAE.WithLabelValues(target).Set(mae)
	m.targetRMSE.WithLabelValues(target).Set(rmse)
	m.targetR2.WithLabelValues(target).Set(r2)
	m.windowRows.WithLabelValues(target).Set(float64(rows))
	m.targetsEvaluated.WithLabelValues(target).Inc()
}

// ObserveSkip records a target skipped for reason.
func (m *Manager) ObserveSkip(target, reason string) {
	if !m.enabled {
		return
	}
	m.targetsSkipped.WithLabelValues(target, reason).Inc()
}

// ObserveFailure records an aborted run.
func (m *Manager) ObserveFailure(kind string) {
	if !m.enabled {
		return
	}
	m.runFailures.WithLabelValues(kind).Inc()
}

// ObserveRun records a completed run's duration and completion time.
func (m *Manager) ObserveRun(seconds float64, finishedUnix int64) {
	if !m.enabled {
		return
	}
	m.runDuration.Observe(seconds)
	m.lastRunUnix.Set(float64(finishedUnix))
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// GetRegistry returns the process-wide registry.
func GetRegistry() *prometheus.Registry { return globalManager.registry }
