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

// Package artifact fetches distribution metadata and streams server
// artifacts to disk.
package artifact

import (
	"context"
	"crypto/sha1" //nolint:gosec // Mojang and maven publish SHA-1 digests
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/mcx/pkg/loader"
)

const (
	// DefaultMetadataTimeout bounds a whole manifest or metadata request.
	DefaultMetadataTimeout = 30 * time.Second
	// DefaultHeaderTimeout bounds connection setup and the wait for response
	// headers of an artifact download. The body itself has no deadline.
	DefaultHeaderTimeout = 30 * time.Second

	maxMetadataSize = 16 * 1024 * 1024
	copyBufferSize  = 32 * 1024
	userAgent       = "mcx (+https://github.com/lexfrei/mcx)"
)

// Options configures a Client.
type Options struct {
	// MetadataTimeout bounds manifest requests. Zero uses DefaultMetadataTimeout.
	MetadataTimeout time.Duration
	// HeaderTimeout bounds artifact connection setup. Zero uses DefaultHeaderTimeout.
	HeaderTimeout time.Duration
}

// Client performs the HTTP work shared by all distributions.
type Client struct {
	metadata *http.Client
	download *http.Client
}

// NewClient creates a Client with bounded timeouts.
func NewClient(opts Options) *Client {
	if opts.MetadataTimeout <= 0 {
		opts.MetadataTimeout = DefaultMetadataTimeout
	}

	if opts.HeaderTimeout <= 0 {
		opts.HeaderTimeout = DefaultHeaderTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.HeaderTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.HeaderTimeout,
		ResponseHeaderTimeout: opts.HeaderTimeout,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Client{
		metadata: &http.Client{
			Transport: transport,
			Timeout:   opts.MetadataTimeout,
		},
		download: &http.Client{
			Transport: transport,
		},
	}
}

// NewClientWithHTTP creates a Client that sends every request through
// httpClient. Pass nil to use http.DefaultClient.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		metadata: httpClient,
		download: httpClient,
	}
}

// Get fetches a metadata document.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, found, err := c.get(ctx, url, false)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, loader.StatusError(url, http.StatusNotFound)
	}

	return body, nil
}

// GetOptional fetches a document that may legitimately be absent.
// A 404 response reports found=false without an error.
func (c *Client) GetOptional(ctx context.Context, url string) ([]byte, bool, error) {
	return c.get(ctx, url, true)
}

// GetJSON fetches url and decodes the JSON document into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	return DecodeJSON(body, v, url)
}

// DecodeJSON decodes body into v, reporting failures as JSON errors.
func DecodeJSON(body []byte, v any, source string) error {
	if err := json.Unmarshal(body, v); err != nil {
		return loader.JSONError(err, "failed to parse JSON from "+source)
	}

	return nil
}

func (c *Client) get(ctx context.Context, url string, allowMissing bool) ([]byte, bool, error) {
	resp, err := c.do(ctx, c.metadata, url)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if allowMissing && resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, loader.StatusError(url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataSize+1))
	if err != nil {
		return nil, false, loader.RequestError(err, "failed to read response body")
	}

	if len(body) > maxMetadataSize {
		return nil, false, loader.InvalidMetadata("document at %s exceeds %d bytes", url, maxMetadataSize)
	}

	return body, true, nil
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, loader.RequestError(err, "failed to create request")
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, loader.RequestError(err, "failed to execute request")
	}

	return resp, nil
}

// Fetch streams the artifact into dir/d.FileName and verifies the published
// size and digests. The file is synced before Fetch returns; on failure it
// is removed.
func (c *Client) Fetch(ctx context.Context, d Descriptor, dir string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	resp, err := c.do(ctx, c.download, d.URL)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Advertised but absent artifacts are a metadata problem.
	if resp.StatusCode == http.StatusNotFound {
		return loader.InvalidMetadata("artifact %s not found at %s", d.FileName, d.URL)
	}

	if resp.StatusCode != http.StatusOK {
		return loader.StatusError(d.URL, resp.StatusCode)
	}

	target := filepath.Join(dir, d.FileName)

	written, err := c.saveToFile(resp.Body, target, d)
	if err != nil {
		_ = os.Remove(target)

		return err
	}

	slog.DebugContext(ctx, "Artifact downloaded", "file", d.FileName, "bytes", written)

	return nil
}

// saveToFile copies body into target in bounded chunks while hashing it.
func (c *Client) saveToFile(body io.Reader, target string, d Descriptor) (int64, error) {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, loader.IOError(err, "failed to create file")
	}
	defer func() {
		_ = out.Close()
	}()

	sha1Hash := sha1.New() //nolint:gosec // verification only
	sha256Hash := sha256.New()
	src := &bodyReader{r: body}

	written, err := io.CopyBuffer(io.MultiWriter(out, sha1Hash, sha256Hash), src, make([]byte, copyBufferSize))
	if err != nil {
		if src.err != nil {
			return written, loader.RequestError(err, "failed to read artifact body")
		}

		return written, loader.IOError(err, "failed to write file")
	}

	if d.Size > 0 && written != d.Size {
		return written, loader.InvalidMetadata("size mismatch for %s: want %d bytes, got %d", d.FileName, d.Size, written)
	}

	if err := verifyDigest(d.FileName, "sha1", d.SHA1, sha1Hash.Sum(nil)); err != nil {
		return written, err
	}

	if err := verifyDigest(d.FileName, "sha256", d.SHA256, sha256Hash.Sum(nil)); err != nil {
		return written, err
	}

	if err := out.Sync(); err != nil {
		return written, loader.IOError(err, "failed to sync file")
	}

	if err := out.Close(); err != nil {
		return written, loader.IOError(err, "failed to close file")
	}

	return written, nil
}

func verifyDigest(file, algorithm, want string, sum []byte) error {
	if want == "" {
		return nil
	}

	got := hex.EncodeToString(sum)
	if !strings.EqualFold(want, got) {
		return loader.ChecksumMismatch(file, algorithm, want, got)
	}

	return nil
}

// SHA1Hex returns the hex SHA-1 digest of data.
func SHA1Hex(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // verification only

	return hex.EncodeToString(sum[:])
}

// bodyReader remembers read failures so they can be told apart from write
// failures after io.CopyBuffer returns.
type bodyReader struct {
	r   io.Reader
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		b.err = err
	}

	return n, err
}
