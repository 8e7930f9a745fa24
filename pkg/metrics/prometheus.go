package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mcx"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	versionListTotal  *prometheus.CounterVec
	versionListErrors *prometheus.CounterVec
	downloadTotal     *prometheus.CounterVec
	downloadErrors    *prometheus.CounterVec
	downloadDuration  *prometheus.HistogramVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		versionListTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_list_total",
			Help:      "Number of version catalog listings.",
		}, []string{"loader"}),
		versionListErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_list_errors_total",
			Help:      "Number of failed version catalog listings.",
		}, []string{"loader"}),
		downloadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_total",
			Help:      "Number of server downloads.",
		}, []string{"loader"}),
		downloadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_errors_total",
			Help:      "Number of failed server downloads.",
		}, []string{"loader"}),
		downloadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_duration_seconds",
			Help:      "Duration of server downloads including installer runs.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"loader"}),
	}

	reg.MustRegister(
		r.versionListTotal,
		r.versionListErrors,
		r.downloadTotal,
		r.downloadErrors,
		r.downloadDuration,
	)

	return r
}

// RecordVersionList implements Recorder.
func (r *PrometheusRecorder) RecordVersionList(loader string, err error, _ time.Duration) {
	r.versionListTotal.WithLabelValues(loader).Inc()

	if err != nil {
		r.versionListErrors.WithLabelValues(loader).Inc()
	}
}

// RecordDownload implements Recorder.
func (r *PrometheusRecorder) RecordDownload(loader string, err error, duration time.Duration) {
	r.downloadTotal.WithLabelValues(loader).Inc()
	r.downloadDuration.WithLabelValues(loader).Observe(duration.Seconds())

	if err != nil {
		r.downloadErrors.WithLabelValues(loader).Inc()
	}
}

// WriteTextfile writes every metric gathered by g to filename in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(filename string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(filename, g); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", filename)
	}

	return nil
}
