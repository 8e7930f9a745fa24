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

// Package vanilla installs the unmodified Mojang server.
package vanilla

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lexfrei/mcx/pkg/artifact"
	"github.com/lexfrei/mcx/pkg/loader"
)

const (
	// DefaultManifestURL is Mojang's version manifest.
	DefaultManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"
	// ServerJar is the file name the server is saved under.
	ServerJar = "server.jar"
)

// Manifest is the version index published by Mojang.
type Manifest struct {
	Versions []ManifestEntry `json:"versions"`
}

// ManifestEntry is one version in the index. URL points at the per-version
// detail document.
type ManifestEntry struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
	SHA1 string `json:"sha1"`
}

// Detail is the per-version document. Only the server download is used.
type Detail struct {
	ID        string `json:"id"`
	Downloads struct {
		Server *Download `json:"server"`
	} `json:"downloads"`
}

// Download is one downloadable file of a version.
type Download struct {
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// Loader implements loader.Loader for the vanilla server.
type Loader struct {
	client      *artifact.Client
	manifestURL string
}

var _ loader.Loader = (*Loader)(nil)

// New creates a vanilla loader. An empty manifestURL uses DefaultManifestURL.
func New(client *artifact.Client, manifestURL string) *Loader {
	if manifestURL == "" {
		manifestURL = DefaultManifestURL
	}

	return &Loader{
		client:      client,
		manifestURL: manifestURL,
	}
}

// Kind returns loader.Vanilla.
func (l *Loader) Kind() loader.Kind {
	return loader.Vanilla
}

// Manifest fetches the version index.
func (l *Loader) Manifest(ctx context.Context) (*Manifest, error) {
	var manifest Manifest
	if err := l.client.GetJSON(ctx, l.manifestURL, &manifest); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// Versions lists every version id in manifest order.
func (l *Loader) Versions(ctx context.Context) (loader.Catalog, error) {
	manifest, err := l.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make(loader.Catalog, 0, len(manifest.Versions))
	for _, entry := range manifest.Versions {
		if entry.ID == "" {
			continue
		}

		catalog = append(catalog, entry.ID)
	}

	return catalog, nil
}

// Resolve looks version up in the manifest and fetches its detail document.
func (l *Loader) Resolve(ctx context.Context, version string) (artifact.Descriptor, error) {
	manifest, err := l.Manifest(ctx)
	if err != nil {
		return artifact.Descriptor{}, err
	}

	entry, ok := findEntry(manifest.Versions, version)
	if !ok {
		return artifact.Descriptor{}, loader.VersionNotFound(loader.Vanilla, version)
	}

	if entry.URL == "" {
		return artifact.Descriptor{}, loader.InvalidMetadata("vanilla %s has no metadata URL", version)
	}

	body, found, err := l.client.GetOptional(ctx, entry.URL)
	if err != nil {
		return artifact.Descriptor{}, err
	}

	if !found {
		return artifact.Descriptor{}, loader.InvalidMetadata("vanilla %s is listed but its metadata is missing", version)
	}

	if entry.SHA1 != "" {
		if got := artifact.SHA1Hex(body); !strings.EqualFold(got, entry.SHA1) {
			return artifact.Descriptor{}, loader.ChecksumMismatch(version+".json", "sha1", entry.SHA1, got)
		}
	}

	var detail Detail
	if err := artifact.DecodeJSON(body, &detail, entry.URL); err != nil {
		return artifact.Descriptor{}, err
	}

	server := detail.Downloads.Server
	if server == nil || server.URL == "" {
		return artifact.Descriptor{}, loader.InvalidMetadata("vanilla %s has no server download", version)
	}

	return artifact.Descriptor{
		URL:      server.URL,
		FileName: ServerJar,
		SHA1:     server.SHA1,
		Size:     server.Size,
	}, nil
}

// Download installs the server jar of version into destination.
func (l *Loader) Download(ctx context.Context, version, destination string) error {
	descriptor, err := l.Resolve(ctx, version)
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "Resolved vanilla server", "version", version, "url", descriptor.URL)

	receipt := artifact.Receipt{Loader: loader.Vanilla.String(), Version: version}

	return artifact.Install(ctx, destination, receipt, func(ctx context.Context, staging string) error {
		return l.client.Fetch(ctx, descriptor, staging)
	})
}

func findEntry(entries []ManifestEntry, version string) (ManifestEntry, bool) {
	for _, entry := range entries {
		if entry.ID == version {
			return entry, true
		}
	}

	return ManifestEntry{}, false
}
