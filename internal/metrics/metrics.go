// Package metrics counts files and rows per platform. The registry is
// private to a run and can be dumped in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "slicetl"

// Recorder holds the run's collectors.
type Recorder struct {
	registry *prometheus.Registry
	files    *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_total",
				Help:      "Files processed by platform and final status",
			},
			[]string{"platform", "status"},
		),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_total",
				Help:      "Rows processed by platform and outcome",
			},
			[]string{"platform", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "file_duration_seconds",
				Help:      "Wall time spent on one file",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"platform"},
		),
	}
	r.registry.MustRegister(r.files, r.rows, r.duration)
	return r
}

// FileProcessed records one finished file.
func (r *Recorder) FileProcessed(platform, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.files.WithLabelValues(platform, status).Inc()
	r.duration.WithLabelValues(platform).Observe(d.Seconds())
}

// RowOutcome records one row. outcome is inserted, duplicate, skipped or error.
func (r *Recorder) RowOutcome(platform, outcome string) {
	if r == nil {
		return
	}
	r.rows.WithLabelValues(platform, outcome).Inc()
}

// Registry exposes the registry for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes every metric to path. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
