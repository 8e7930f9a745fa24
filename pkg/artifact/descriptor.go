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

package artifact

import (
	"encoding/hex"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/lexfrei/mcx/pkg/loader"
)

// Descriptor describes one file that has to end up in the server directory.
type Descriptor struct {
	// URL is where the artifact is downloaded from.
	URL string
	// FileName is the base name the artifact is saved under.
	FileName string
	// SHA1 is the expected hex digest, empty when upstream publishes none.
	SHA1 string
	// SHA256 is the expected hex digest, empty when upstream publishes none.
	SHA256 string
	// Size is the expected length in bytes, zero when unknown.
	Size int64
}

// Validate checks that the descriptor is complete enough to download.
func (d Descriptor) Validate() error {
	if err := ValidateURL(d.URL); err != nil {
		return err
	}

	if d.FileName == "" || d.FileName != filepath.Base(d.FileName) || d.FileName == "." || d.FileName == ".." {
		return loader.InvalidMetadata("invalid artifact file name %q", d.FileName)
	}

	if d.SHA1 != "" && !isHexDigest(d.SHA1, sha1HexLen) {
		return loader.InvalidMetadata("invalid sha1 %q for %s", d.SHA1, d.FileName)
	}

	if d.SHA256 != "" && !isHexDigest(d.SHA256, sha256HexLen) {
		return loader.InvalidMetadata("invalid sha256 %q for %s", d.SHA256, d.FileName)
	}

	if d.Size < 0 {
		return loader.InvalidMetadata("negative size for %s", d.FileName)
	}

	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return loader.InvalidMetadata("artifact URL is missing")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return loader.InvalidMetadata("failed to parse artifact URL %q: %v", rawURL, err)
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return loader.InvalidMetadata("artifact URL must use HTTP(S), got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return loader.InvalidMetadata("artifact URL %q has no host", rawURL)
	}

	return nil
}

const (
	sha1HexLen   = 40
	sha256HexLen = 64
)

// ParseSHA1 extracts a SHA-1 digest from a maven style checksum sidecar.
// The sidecar may carry a trailing file name after the digest.
func ParseSHA1(body []byte) (string, error) {
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", loader.InvalidMetadata("empty sha1 checksum file")
	}

	sum := strings.ToLower(fields[0])
	if !isHexDigest(sum, sha1HexLen) {
		return "", loader.InvalidMetadata("malformed sha1 checksum %q", fields[0])
	}

	return sum, nil
}

func isHexDigest(s string, length int) bool {
	if len(s) != length {
		return false
	}

	_, err := hex.DecodeString(s)

	return err == nil
}
