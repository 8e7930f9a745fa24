// Package paper installs Paper servers from the PaperMC downloads API.
package paper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lexfrei/mcx/pkg/artifact"
	"github.com/lexfrei/mcx/pkg/loader"
)

const (
	// DefaultAPIURL is the PaperMC downloads API.
	DefaultAPIURL = "https://api.papermc.io"
	// ProjectPath is the Paper project document.
	ProjectPath = "/v2/projects/paper"
	// ServerJar is the file name the artifact is saved under.
	ServerJar = "server.jar"
)

// Project is the project document listing every published version.
type Project struct {
	ProjectID string   `json:"project_id"`
	Versions  []string `json:"versions"`
}

// Builds is the build listing of one version, oldest first.
type Builds struct {
	Version string  `json:"version"`
	Builds  []Build `json:"builds"`
}

// Build is a single build of a version.
type Build struct {
	Build     int                 `json:"build"`
	Channel   string              `json:"channel"`
	Downloads map[string]Download `json:"downloads"`
}

// Download is a named build artifact.
type Download struct {
	Name   string `json:"name"`
	SHA256 string `json:"sha256"`
}

// BuildInfo contains information about a Paper build.
type BuildInfo struct {
	// Version is the Minecraft version.
	Version string
	// Build is the build number.
	Build int
	// DownloadURL is the URL to download this build.
	DownloadURL string
	// SHA256 is the checksum of the JAR file.
	SHA256 string
}

// Loader implements loader.Loader for Paper.
type Loader struct {
	client  *artifact.Client
	baseURL string
}

var _ loader.Loader = (*Loader)(nil)

// New creates a Paper loader. An empty baseURL uses DefaultAPIURL.
func New(client *artifact.Client, baseURL string) *Loader {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &Loader{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Kind returns loader.Paper.
func (l *Loader) Kind() loader.Kind {
	return loader.Paper
}

// Versions lists Paper versions in API order.
func (l *Loader) Versions(ctx context.Context) (loader.Catalog, error) {
	var project Project
	if err := l.client.GetJSON(ctx, l.baseURL+ProjectPath, &project); err != nil {
		return nil, err
	}

	catalog := make(loader.Catalog, 0, len(project.Versions))
	for _, v := range project.Versions {
		if v != "" {
			catalog = append(catalog, v)
		}
	}

	return catalog, nil
}

// GetPaperBuild returns the latest build of version.
func (l *Loader) GetPaperBuild(ctx context.Context, version string) (*BuildInfo, error) {
	catalog, err := l.Versions(ctx)
	if err != nil {
		return nil, err
	}

	if !catalog.Contains(version) {
		return nil, loader.VersionNotFound(loader.Paper, version)
	}

	versionURL := fmt.Sprintf("%s%s/versions/%s", l.baseURL, ProjectPath, url.PathEscape(version))

	body, found, err := l.client.GetOptional(ctx, versionURL+"/builds")
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, loader.InvalidMetadata("Paper version %s is listed but has no build listing", version)
	}

	var builds Builds
	if err := artifact.DecodeJSON(body, &builds, "Paper builds"); err != nil {
		return nil, err
	}

	if len(builds.Builds) == 0 {
		return nil, loader.InvalidMetadata("no builds available for Paper version %s", version)
	}

	latest := builds.Builds[len(builds.Builds)-1]

	app, ok := latest.Downloads["application"]
	if !ok || app.Name == "" {
		return nil, loader.InvalidMetadata("Paper %s build %d has no application download", version, latest.Build)
	}

	return &BuildInfo{
		Version: version,
		Build:   latest.Build,
		DownloadURL: fmt.Sprintf("%s/builds/%d/downloads/%s",
			versionURL, latest.Build, url.PathEscape(app.Name)),
		SHA256: strings.ToLower(app.SHA256),
	}, nil
}

// Download installs the latest build of version as server.jar.
func (l *Loader) Download(ctx context.Context, version, destination string) error {
	build, err := l.GetPaperBuild(ctx, version)
	if err != nil {
		return err
	}

	descriptor := artifact.Descriptor{
		URL:      build.DownloadURL,
		FileName: ServerJar,
		SHA256:   build.SHA256,
	}

	receipt := artifact.Receipt{Loader: loader.Paper.String(), Version: version}

	return artifact.Install(ctx, destination, receipt, func(ctx context.Context, staging string) error {
		return l.client.Fetch(ctx, descriptor, staging)
	})
}
