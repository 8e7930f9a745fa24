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

package loader

import (
	"github.com/cockroachdb/errors"
)

// Category is the closed set of failure kinds a loader can report.
type Category int

const (
	// CategoryUnknown is returned for nil or uncategorized errors.
	CategoryUnknown Category = iota
	// CategoryIO is a local filesystem or installer process failure.
	CategoryIO
	// CategoryJSON is a metadata document that failed to decode.
	CategoryJSON
	// CategoryRequest is a transport failure or a non-success HTTP status.
	CategoryRequest
	// CategoryVersionNotFound is a version absent from the manifest.
	CategoryVersionNotFound
	// CategoryInvalidMetadata is metadata that lacks what a download needs.
	CategoryInvalidMetadata
)

// Sentinels for errors.Is. Every error produced by a loader carries exactly
// one of the first five marks.
var (
	ErrIO              = errors.New("io error")
	ErrJSON            = errors.New("json error")
	ErrRequest         = errors.New("request error")
	ErrVersionNotFound = errors.New("version not found")
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrUnknownLoader refines ErrInvalidMetadata for unsupported loader names.
	ErrUnknownLoader = errors.New("unknown loader")
	// ErrChecksumMismatch refines ErrInvalidMetadata for artifacts that do not
	// match the published hash.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// String returns a human readable category name.
func (c Category) String() string {
	switch c {
	case CategoryIO:
		return "IO error"
	case CategoryJSON:
		return "JSON parsing error"
	case CategoryRequest:
		return "Network error"
	case CategoryVersionNotFound:
		return "Version not found"
	case CategoryInvalidMetadata:
		return "Invalid metadata"
	default:
		return "Unknown error"
	}
}

// CategoryOf reports the category err was marked with.
func CategoryOf(err error) Category {
	switch {
	case err == nil:
		return CategoryUnknown
	case errors.Is(err, ErrVersionNotFound):
		return CategoryVersionNotFound
	case errors.Is(err, ErrInvalidMetadata):
		return CategoryInvalidMetadata
	case errors.Is(err, ErrJSON):
		return CategoryJSON
	case errors.Is(err, ErrRequest):
		return CategoryRequest
	case errors.Is(err, ErrIO):
		return CategoryIO
	default:
		return CategoryUnknown
	}
}

// categorized attaches category sentinels to an error so that both the
// standard library and cockroachdb errors.Is match them.
type categorized struct {
	cause     error
	sentinels []error
}

func (e *categorized) Error() string { return e.cause.Error() }

func (e *categorized) Unwrap() error { return e.cause }

func (e *categorized) Is(target error) bool {
	for _, sentinel := range e.sentinels {
		if target == sentinel {
			return true
		}
	}

	return false
}

func mark(err error, sentinels ...error) error {
	return &categorized{cause: err, sentinels: sentinels}
}

// IOError wraps a filesystem failure.
func IOError(err error, msg string) error {
	return mark(errors.Wrap(err, msg), ErrIO)
}

// JSONError wraps a decoding failure.
func JSONError(err error, msg string) error {
	return mark(errors.Wrap(err, msg), ErrJSON)
}

// RequestError wraps a transport failure.
func RequestError(err error, msg string) error {
	return mark(errors.Wrap(err, msg), ErrRequest)
}

// StatusError reports a non-success HTTP status.
func StatusError(url string, statusCode int) error {
	return mark(errors.Newf("unexpected status code %d from %s", statusCode, url), ErrRequest)
}

// VersionNotFound reports a version missing from the manifest of kind.
func VersionNotFound(kind Kind, version string) error {
	return mark(errors.Newf("%s version %s not found", kind, version), ErrVersionNotFound)
}

// InvalidMetadata reports metadata that cannot complete a download.
func InvalidMetadata(format string, args ...any) error {
	return mark(errors.Newf(format, args...), ErrInvalidMetadata)
}

// UnknownLoader reports an unsupported loader name.
func UnknownLoader(name string) error {
	return mark(errors.Newf("invalid loader: %q", name), ErrInvalidMetadata, ErrUnknownLoader)
}

// ChecksumMismatch reports an artifact whose digest differs from the published one.
func ChecksumMismatch(file, algorithm, want, got string) error {
	err := errors.Newf("%s checksum mismatch for %s: want %s, got %s", algorithm, file, want, got)

	return mark(err, ErrInvalidMetadata, ErrChecksumMismatch)
}
