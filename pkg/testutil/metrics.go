/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package testutil

import (
	"sync"
	"time"
)

// RecordedCall is one call captured by MockMetricsRecorder.
type RecordedCall struct {
	Loader string
	Err    error
}

// MockMetricsRecorder implements metrics.Recorder with call tracking.
type MockMetricsRecorder struct {
	mu sync.Mutex

	VersionLists []RecordedCall
	Downloads    []RecordedCall
}

// RecordVersionList records the loader and outcome.
func (m *MockMetricsRecorder) RecordVersionList(loader string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.VersionLists = append(m.VersionLists, RecordedCall{Loader: loader, Err: err})
}

// RecordDownload records the loader and outcome.
func (m *MockMetricsRecorder) RecordDownload(loader string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Downloads = append(m.Downloads, RecordedCall{Loader: loader, Err: err})
}

// DownloadCalls returns a copy of the recorded downloads.
func (m *MockMetricsRecorder) DownloadCalls() []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]RecordedCall(nil), m.Downloads...)
}

// VersionListCalls returns a copy of the recorded listings.
func (m *MockMetricsRecorder) VersionListCalls() []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]RecordedCall(nil), m.VersionLists...)
}
