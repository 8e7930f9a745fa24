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

package artifact_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/mcx/pkg/artifact"
	"github.com/lexfrei/mcx/pkg/loader"
	"github.com/lexfrei/mcx/pkg/testutil"
)

type getJSONTestCase struct {
	name         string
	body         string
	statusCode   int
	wantCategory loader.Category
	wantErr      bool
}

func getJSONTestCases() []getJSONTestCase {
	return []getJSONTestCase{
		{
			name:       "valid document",
			body:       `{"versions":["1.20.1","1.20.4"]}`,
			statusCode: http.StatusOK,
		},
		{
			name:         "malformed document",
			body:         `{"versions":`,
			statusCode:   http.StatusOK,
			wantCategory: loader.CategoryJSON,
			wantErr:      true,
		},
		{
			name:         "server error",
			statusCode:   http.StatusInternalServerError,
			wantCategory: loader.CategoryRequest,
			wantErr:      true,
		},
		{
			name:         "not found",
			statusCode:   http.StatusNotFound,
			wantCategory: loader.CategoryRequest,
			wantErr:      true,
		},
	}
}

func TestGetJSON(t *testing.T) {
	t.Parallel()

	for _, tt := range getJSONTestCases() {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := artifact.NewClientWithHTTP(server.Client())

			var doc struct {
				Versions []string `json:"versions"`
			}

			err := client.GetJSON(context.Background(), server.URL+"/manifest.json", &doc)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCategory, loader.CategoryOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, []string{"1.20.1", "1.20.4"}, doc.Versions)
		})
	}
}

func TestGet_ConnectionRefused(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := artifact.NewClient(artifact.Options{}).Get(context.Background(), url)

	require.ErrorIs(t, err, loader.ErrRequest)
}

func TestGetOptional(t *testing.T) {
	t.Parallel()

	server := testutil.NewMockHTTPServer()
	defer server.Close()

	server.AddFile("/present.sha1", []byte("abc"))
	server.SetFailOnPath("/broken.sha1", http.StatusServiceUnavailable)

	client := artifact.NewClient(artifact.Options{})

	body, found, err := client.GetOptional(context.Background(), server.URL()+"/present.sha1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("abc"), body)

	_, found, err = client.GetOptional(context.Background(), server.URL()+"/absent.sha1")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = client.GetOptional(context.Background(), server.URL()+"/broken.sha1")
	require.ErrorIs(t, err, loader.ErrRequest)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("minecraft"), 10000)

	server := testutil.NewMockHTTPServer()
	t.Cleanup(server.Close)

	server.AddFile("/server.jar", data)

	client := artifact.NewClient(artifact.Options{})
	url := server.URL() + "/server.jar"

	t.Run("verifies digests and size", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := client.Fetch(context.Background(), artifact.Descriptor{
			URL:      url,
			FileName: "server.jar",
			SHA1:     testutil.ComputeSHA1(data),
			SHA256:   testutil.ComputeSHA256(data),
			Size:     int64(len(data)),
		}, dir)
		require.NoError(t, err)

		got, err := os.ReadFile(filepath.Join(dir, "server.jar"))
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("accepts missing digests", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := client.Fetch(context.Background(), artifact.Descriptor{URL: url, FileName: "server.jar"}, dir)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "server.jar"))
	})

	t.Run("removes file on sha256 mismatch", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := client.Fetch(context.Background(), artifact.Descriptor{
			URL:      url,
			FileName: "server.jar",
			SHA256:   testutil.ComputeSHA256([]byte("something else")),
		}, dir)
		require.ErrorIs(t, err, loader.ErrChecksumMismatch)
		assert.Equal(t, loader.CategoryInvalidMetadata, loader.CategoryOf(err))
		assert.NoFileExists(t, filepath.Join(dir, "server.jar"))
	})

	t.Run("removes file on size mismatch", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := client.Fetch(context.Background(), artifact.Descriptor{
			URL:      url,
			FileName: "server.jar",
			Size:     int64(len(data)) + 1,
		}, dir)
		require.ErrorIs(t, err, loader.ErrInvalidMetadata)
		assert.NoFileExists(t, filepath.Join(dir, "server.jar"))
	})

	t.Run("missing artifact is invalid metadata", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := client.Fetch(context.Background(), artifact.Descriptor{
			URL:      server.URL() + "/gone.jar",
			FileName: "server.jar",
		}, dir)
		require.ErrorIs(t, err, loader.ErrInvalidMetadata)
		assert.NoFileExists(t, filepath.Join(dir, "server.jar"))
	})

	t.Run("rejects descriptor without URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := client.Fetch(context.Background(), artifact.Descriptor{FileName: "server.jar"}, dir)
		require.ErrorIs(t, err, loader.ErrInvalidMetadata)
	})

	t.Run("unwritable directory is io error", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "missing")
		err := client.Fetch(context.Background(), artifact.Descriptor{URL: url, FileName: "server.jar"}, dir)
		require.ErrorIs(t, err, loader.ErrIO)
	})
}

func TestFetch_TruncatedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("short"))
	}))
	defer server.Close()

	dir := t.TempDir()
	err := artifact.NewClientWithHTTP(server.Client()).Fetch(context.Background(), artifact.Descriptor{
		URL:      server.URL + "/server.jar",
		FileName: "server.jar",
	}, dir)

	require.ErrorIs(t, err, loader.ErrRequest)
	assert.NoFileExists(t, filepath.Join(dir, "server.jar"))
}
