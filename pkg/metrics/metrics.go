// Package metrics records resolver activity for Prometheus.
package metrics

import "time"

// Recorder defines the interface for recording resolver metrics.
type Recorder interface {
	// RecordVersionList records a catalog listing for a loader.
	RecordVersionList(loader string, err error, duration time.Duration)

	// RecordDownload records a download for a loader.
	RecordDownload(loader string, err error, duration time.Duration)
}
