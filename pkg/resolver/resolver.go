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

// Package resolver dispatches listing and download requests to loaders by
// name.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/mcx/pkg/artifact"
	"github.com/lexfrei/mcx/pkg/loader"
	"github.com/lexfrei/mcx/pkg/metrics"
	"github.com/lexfrei/mcx/pkg/neoforge"
	"github.com/lexfrei/mcx/pkg/paper"
	"github.com/lexfrei/mcx/pkg/vanilla"
)

// Options configures NewDefault.
type Options struct {
	// HTTP configures the shared artifact client.
	HTTP artifact.Options
	// VanillaManifestURL overrides vanilla.DefaultManifestURL.
	VanillaManifestURL string
	// NeoForgeMavenURL overrides neoforge.DefaultMavenURL.
	NeoForgeMavenURL string
	// PaperAPIURL overrides paper.DefaultAPIURL.
	PaperAPIURL string
	// Java is the java executable for the NeoForge installer.
	Java string
	// Runner overrides the NeoForge installer runner.
	Runner neoforge.Runner
	// Recorder receives metrics. Nil disables recording.
	Recorder metrics.Recorder
}

// Resolver routes requests to the loader registered for a kind.
type Resolver struct {
	loaders  map[loader.Kind]loader.Loader
	order    []loader.Kind
	recorder metrics.Recorder
}

// New creates a Resolver over loaders. A later loader of the same kind
// replaces an earlier one.
func New(recorder metrics.Recorder, loaders ...loader.Loader) *Resolver {
	if recorder == nil {
		recorder = &metrics.NoopRecorder{}
	}

	r := &Resolver{
		loaders:  make(map[loader.Kind]loader.Loader, len(loaders)),
		recorder: recorder,
	}

	for _, l := range loaders {
		if _, ok := r.loaders[l.Kind()]; !ok {
			r.order = append(r.order, l.Kind())
		}

		r.loaders[l.Kind()] = l
	}

	return r
}

// NewDefault creates a Resolver with the Vanilla, NeoForge and Paper loaders
// sharing one artifact client.
func NewDefault(opts Options) *Resolver {
	client := artifact.NewClient(opts.HTTP)

	return New(opts.Recorder,
		vanilla.New(client, opts.VanillaManifestURL),
		neoforge.New(client, neoforge.Options{
			MavenURL: opts.NeoForgeMavenURL,
			Java:     opts.Java,
			Runner:   opts.Runner,
		}),
		paper.New(client, opts.PaperAPIURL),
	)
}

// Kinds returns the registered loader kinds in registration order.
func (r *Resolver) Kinds() []loader.Kind {
	return append([]loader.Kind(nil), r.order...)
}

func (r *Resolver) lookup(loaderName string) (loader.Loader, bool) {
	kind, ok := loader.ParseKind(loaderName)
	if !ok {
		return nil, false
	}

	l, ok := r.loaders[kind]

	return l, ok
}

// GetLoaderVersions lists versions for loaderName. It never fails: unknown
// loader names and upstream failures yield an empty catalog.
func (r *Resolver) GetLoaderVersions(ctx context.Context, loaderName string) loader.Catalog {
	catalog, err := r.ListVersions(ctx, loaderName)
	if err != nil {
		slog.WarnContext(ctx, "Failed to list versions",
			"loader", loaderName, "category", loader.CategoryOf(err).String(), "error", err)

		return loader.Catalog{}
	}

	return catalog
}

// ListVersions lists versions for loaderName, failing with ErrUnknownLoader
// for unsupported names.
func (r *Resolver) ListVersions(ctx context.Context, loaderName string) (loader.Catalog, error) {
	l, ok := r.lookup(loaderName)
	if !ok {
		return nil, loader.UnknownLoader(loaderName)
	}

	start := time.Now()
	catalog, err := l.Versions(ctx)
	r.recorder.RecordVersionList(l.Kind().String(), err, time.Since(start))

	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s versions", l.Kind())
	}

	slog.DebugContext(ctx, "Listed versions", "loader", l.Kind().String(), "count", len(catalog))

	return catalog, nil
}

// DownloadVersion installs version of loaderName into path. Errors keep the
// category reported by the loader.
func (r *Resolver) DownloadVersion(ctx context.Context, version, path, loaderName string) error {
	l, ok := r.lookup(loaderName)
	if !ok {
		return loader.UnknownLoader(loaderName)
	}

	slog.InfoContext(ctx, "Downloading server", "loader", l.Kind().String(), "version", version, "path", path)

	start := time.Now()
	err := l.Download(ctx, version, path)
	duration := time.Since(start)
	r.recorder.RecordDownload(l.Kind().String(), err, duration)

	if err != nil {
		return errors.Wrapf(err, "failed to download %s %s", l.Kind(), version)
	}

	slog.InfoContext(ctx, "Server downloaded",
		"loader", l.Kind().String(), "version", version, "duration", duration)

	return nil
}
