package metrics

import "time"

// NoopRecorder is a no-op implementation of Recorder.
type NoopRecorder struct{}

func (n *NoopRecorder) RecordVersionList(_ string, _ error, _ time.Duration) {}

func (n *NoopRecorder) RecordDownload(_ string, _ error, _ time.Duration) {}
