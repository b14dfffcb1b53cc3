// Package metrics collects Prometheus counters for a dataset preparation
// run and exports them in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/linuxmatters/doaprep/internal/processor"
)

// Metrics contains all Prometheus metrics for a run
type Metrics struct {
	registry *prometheus.Registry

	recordingsTotal    *prometheus.CounterVec
	chunksTotal        *prometheus.CounterVec
	recordsWritten     *prometheus.CounterVec
	recordsDropped     *prometheus.CounterVec
	chunksRejected     *prometheus.CounterVec
	processingDuration *prometheus.HistogramVec
	silencePeak        *prometheus.GaugeVec
}

// NewMetrics creates the run metrics and registers them with registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		recordingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doaprep",
			Name:      "recordings_total",
			Help:      "Recordings processed, by sink kind and outcome",
		}, []string{"kind", "status"}),
		chunksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doaprep",
			Name:      "chunks_classified_total",
			Help:      "Chunks classified, by label",
		}, []string{"label"}),
		recordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doaprep",
			Name:      "records_written_total",
			Help:      "Dataset records written, by sink kind",
		}, []string{"kind"}),
		recordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doaprep",
			Name:      "records_dropped_total",
			Help:      "Dataset records skipped by the random drop, by sink kind",
		}, []string{"kind"}),
		chunksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doaprep",
			Name:      "chunks_rejected_total",
			Help:      "Chunks a sink refused because of their label, by sink kind",
		}, []string{"kind"}),
		processingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "doaprep",
			Name:      "recording_duration_seconds",
			Help:      "Wall time spent processing one recording",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"kind"}),
		silencePeak: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "doaprep",
			Name:      "silence_peak",
			Help:      "Peak absolute sample in the calibration window",
		}, []string{"file"}),
	}

	collectors := []prometheus.Collector{
		m.recordingsTotal,
		m.chunksTotal,
		m.recordsWritten,
		m.recordsDropped,
		m.chunksRejected,
		m.processingDuration,
		m.silencePeak,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// RecordSuccess accounts for a completed recording.
func (m *Metrics) RecordSuccess(kind, file string, result *processor.ProcessingResult) {
	m.recordingsTotal.WithLabelValues(kind, "success").Inc()
	m.chunksTotal.WithLabelValues(processor.LabelSilence.String()).Add(float64(result.SilenceChunks))
	m.chunksTotal.WithLabelValues(processor.LabelSignal.String()).Add(float64(result.SignalChunks))
	m.recordsWritten.WithLabelValues(kind).Add(float64(result.Sink.Written))
	m.recordsDropped.WithLabelValues(kind).Add(float64(result.Sink.Dropped))
	m.chunksRejected.WithLabelValues(kind).Add(float64(result.Sink.Rejected))
	m.processingDuration.WithLabelValues(kind).Observe((result.CalibrateTime + result.ClassifyTime).Seconds())
	if result.Calibration != nil {
		m.silencePeak.WithLabelValues(file).Set(float64(result.Calibration.Peak))
	}
}

// RecordFailure accounts for a recording whose output was discarded.
func (m *Metrics) RecordFailure(kind string) {
	m.recordingsTotal.WithLabelValues(kind, "error").Inc()
}

// RecordSkipped accounts for a recording never started because the run was cancelled.
func (m *Metrics) RecordSkipped(kind string) {
	m.recordingsTotal.WithLabelValues(kind, "skipped").Inc()
}

// WriteTextfile writes the registry to path for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %q: %w", path, err)
	}
	return nil
}
