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

// Package testutil provides stub upstream servers and mocks for tests.
package testutil

import (
	"crypto/sha1" //nolint:gosec // test fixture digests
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockHTTPServer is a test HTTP server serving manifests and artifacts by path.
// Unknown paths answer 404.
type MockHTTPServer struct {
	Server *httptest.Server

	mu sync.Mutex

	// Track requests
	Requests []string

	// Control behavior
	FailOnPath map[string]int
	FileData   map[string][]byte
}

// NewMockHTTPServer creates a new mock HTTP server.
func NewMockHTTPServer() *MockHTTPServer {
	mock := &MockHTTPServer{
		Requests:   make([]string, 0),
		FailOnPath: make(map[string]int),
		FileData:   make(map[string][]byte),
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.handler))

	return mock
}

// handler handles HTTP requests for the mock server.
func (m *MockHTTPServer) handler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := r.URL.Path
	m.Requests = append(m.Requests, path)

	if status, ok := m.FailOnPath[path]; ok {
		http.Error(w, "Simulated failure", status)
		return
	}

	data, ok := m.FileData[path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// AddFile adds a file to be served at the given path.
func (m *MockHTTPServer) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FileData[path] = data
}

// AddJSON serves v encoded as JSON at path and returns the encoded bytes.
// Panics on error since this is a test utility.
func (m *MockHTTPServer) AddJSON(path string, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic("AddJSON: " + err.Error())
	}

	m.AddFile(path, data)

	return data
}

// SetFailOnPath makes the server answer status for the given path.
// A zero status clears the failure.
func (m *MockHTTPServer) SetFailOnPath(path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if status == 0 {
		delete(m.FailOnPath, path)
		return
	}

	m.FailOnPath[path] = status
}

// GetRequests returns a copy of recorded request paths.
func (m *MockHTTPServer) GetRequests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	requests := make([]string, len(m.Requests))
	copy(requests, m.Requests)

	return requests
}

// CountRequests returns how many times path was requested.
func (m *MockHTTPServer) CountRequests(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0

	for _, p := range m.Requests {
		if p == path {
			count++
		}
	}

	return count
}

// Close shuts down the mock server.
func (m *MockHTTPServer) Close() {
	m.Server.Close()
}

// URL returns the base URL of the mock server.
func (m *MockHTTPServer) URL() string {
	return m.Server.URL
}

// ComputeSHA1 computes the SHA1 hash of data.
func ComputeSHA1(data []byte) string {
	hash := sha1.Sum(data) //nolint:gosec // test fixture digests
	return fmt.Sprintf("%x", hash)
}

// ComputeSHA256 computes the SHA256 hash of data.
func ComputeSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}
