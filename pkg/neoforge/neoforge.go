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

// Package neoforge installs NeoForge servers from the NeoForged maven.
package neoforge

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexfrei/mcx/pkg/artifact"
	"github.com/lexfrei/mcx/pkg/loader"
	"github.com/lexfrei/mcx/pkg/version"
)

const (
	// DefaultMavenURL is the NeoForged maven.
	DefaultMavenURL = "https://maven.neoforged.net"
	// DefaultJava is the java executable used to run the installer.
	DefaultJava = "java"

	// VersionsPath lists published NeoForge releases.
	VersionsPath = "/api/maven/versions/releases/net/neoforged/neoforge"
	// ArtifactPath is the maven directory holding one folder per release.
	ArtifactPath = "/releases/net/neoforged/neoforge"

	outputTailLines = 20
)

// runScripts are produced by the installer; at least one must exist.
var runScripts = []string{"run.sh", "run.bat"}

// VersionList is the maven API response for a listing.
type VersionList struct {
	IsSnapshot bool     `json:"isSnapshot"`
	Versions   []string `json:"versions"`
}

// Options configures a Loader.
type Options struct {
	// MavenURL overrides DefaultMavenURL.
	MavenURL string
	// Java overrides DefaultJava.
	Java string
	// Runner executes the installer. Nil uses ExecRunner.
	Runner Runner
}

// Loader implements loader.Loader for NeoForge.
type Loader struct {
	client   *artifact.Client
	mavenURL string
	java     string
	runner   Runner
}

var _ loader.Loader = (*Loader)(nil)

// New creates a NeoForge loader.
func New(client *artifact.Client, opts Options) *Loader {
	if opts.MavenURL == "" {
		opts.MavenURL = DefaultMavenURL
	}

	if opts.Java == "" {
		opts.Java = DefaultJava
	}

	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}

	return &Loader{
		client:   client,
		mavenURL: strings.TrimSuffix(opts.MavenURL, "/"),
		java:     opts.Java,
		runner:   opts.Runner,
	}
}

// Kind returns loader.NeoForge.
func (l *Loader) Kind() loader.Kind {
	return loader.NeoForge
}

// Versions lists NeoForge releases in maven order.
func (l *Loader) Versions(ctx context.Context) (loader.Catalog, error) {
	var list VersionList
	if err := l.client.GetJSON(ctx, l.mavenURL+VersionsPath, &list); err != nil {
		return nil, err
	}

	catalog := make(loader.Catalog, 0, len(list.Versions))
	for _, v := range list.Versions {
		if v != "" {
			catalog = append(catalog, v)
		}
	}

	return catalog, nil
}

// InstallerName returns the installer file name of release v.
func InstallerName(v string) string {
	return fmt.Sprintf("neoforge-%s-installer.jar", v)
}

// Resolve checks that v is published and builds the installer descriptor.
// The SHA-1 sidecar is optional.
func (l *Loader) Resolve(ctx context.Context, v string) (artifact.Descriptor, error) {
	catalog, err := l.Versions(ctx)
	if err != nil {
		return artifact.Descriptor{}, err
	}

	if !catalog.Contains(v) {
		return artifact.Descriptor{}, loader.VersionNotFound(loader.NeoForge, v)
	}

	name := InstallerName(v)
	installerURL := fmt.Sprintf("%s%s/%s/%s", l.mavenURL, ArtifactPath, url.PathEscape(v), url.PathEscape(name))

	descriptor := artifact.Descriptor{
		URL:      installerURL,
		FileName: name,
	}

	body, found, err := l.client.GetOptional(ctx, installerURL+".sha1")
	if err != nil {
		return artifact.Descriptor{}, err
	}

	if found {
		sum, err := artifact.ParseSHA1(body)
		if err != nil {
			return artifact.Descriptor{}, err
		}

		descriptor.SHA1 = sum
	}

	return descriptor, nil
}

// Download fetches the installer for v and runs it against destination.
func (l *Loader) Download(ctx context.Context, v, destination string) error {
	descriptor, err := l.Resolve(ctx, v)
	if err != nil {
		return err
	}

	receipt := artifact.Receipt{Loader: loader.NeoForge.String(), Version: v}

	return artifact.Install(ctx, destination, receipt, func(ctx context.Context, staging string) error {
		if err := l.client.Fetch(ctx, descriptor, staging); err != nil {
			return err
		}

		return l.installServer(ctx, staging, descriptor.FileName)
	})
}

// installServer runs the installer in dir and strips installer leftovers.
func (l *Loader) installServer(ctx context.Context, dir, installer string) error {
	command := []string{l.java, "-jar", installer, "--installServer", dir}

	slog.InfoContext(ctx, "Running NeoForge installer", "installer", installer)

	out, err := l.runner.Run(ctx, dir, command)
	if err != nil {
		return loader.IOError(err, "NeoForge installer failed: "+tail(string(out), outputTailLines))
	}

	slog.DebugContext(ctx, "NeoForge installer finished", "output", tail(string(out), outputTailLines))

	if err := os.Remove(filepath.Join(dir, installer)); err != nil {
		return loader.IOError(err, "failed to remove installer")
	}

	logs, err := filepath.Glob(filepath.Join(dir, "*installer.jar.log"))
	if err != nil {
		return loader.IOError(err, "failed to find installer logs")
	}

	for _, log := range logs {
		if err := os.Remove(log); err != nil {
			return loader.IOError(err, "failed to remove installer log")
		}
	}

	for _, script := range runScripts {
		if _, err := os.Stat(filepath.Join(dir, script)); err == nil {
			return nil
		}
	}

	return loader.InvalidMetadata("NeoForge installer produced no run script")
}

// FilterByMinecraft keeps the releases targeting a Minecraft version that
// matches pattern, either exactly ("1.21.1") or as a glob ("1.21.x").
// Releases outside the Minecraft-aligned scheme are dropped.
func FilterByMinecraft(catalog loader.Catalog, pattern string) loader.Catalog {
	filtered := make(loader.Catalog, 0, len(catalog))

	for _, v := range catalog {
		mc, err := version.NeoForgeMinecraftVersion(v)
		if err != nil {
			continue
		}

		if version.Matches(pattern, mc) {
			filtered = append(filtered, v)
		}
	}

	return filtered
}

func tail(s string, lines int) string {
	parts := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(parts) > lines {
		parts = parts[len(parts)-lines:]
	}

	return strings.Join(parts, "\n")
}
