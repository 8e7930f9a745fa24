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

// Package cli implements the mcx command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lexfrei/mcx/internal/config"
	"github.com/lexfrei/mcx/internal/launcher"
	"github.com/lexfrei/mcx/pkg/loader"
	"github.com/lexfrei/mcx/pkg/metrics"
	"github.com/lexfrei/mcx/pkg/rcon"
	"github.com/lexfrei/mcx/pkg/resolver"
	"github.com/lexfrei/mcx/pkg/version"
)

// Service is the resolver surface the commands use.
type Service interface {
	Kinds() []loader.Kind
	GetLoaderVersions(ctx context.Context, loaderName string) loader.Catalog
	ListVersions(ctx context.Context, loaderName string) (loader.Catalog, error)
	DownloadVersion(ctx context.Context, version, path, loaderName string) error
}

// LaunchFunc runs a server command in the foreground.
type LaunchFunc func(ctx context.Context, dir string, command []string, stdio launcher.Stdio) error

type globalFlags struct {
	logLevel        string
	logFormat       string
	configFile      string
	metricsTextfile string
}

// App holds the collaborators of one mcx invocation.
type App struct {
	// Version is reported by --version.
	Version string
	// NewService builds the resolver from settings.
	NewService func(opts resolver.Options) Service
	// Prompter asks for values missing from init flags.
	Prompter Prompter
	// Launch runs the server for the run command.
	Launch LaunchFunc
	// DialRCON connects the stop command to a server.
	DialRCON func(ctx context.Context, s rcon.Settings) (rcon.Conn, error)

	flags    globalFlags
	settings config.Settings
	service  Service
	registry *prometheus.Registry
}

// NewApp returns an App wired to the real resolver, prompts and launcher.
func NewApp(version string) *App {
	return &App{
		Version: version,
		NewService: func(opts resolver.Options) Service {
			return resolver.NewDefault(opts)
		},
		Prompter: HuhPrompter{},
		Launch:   launcher.Run,
		DialRCON: rcon.Dial,
	}
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcx",
		Short: "Install and run Minecraft servers",
		Long: TitleStyle.Render("mcx") + SubtitleStyle.Render(" - install and run Minecraft servers") + `

mcx lists and installs Vanilla, NeoForge and Paper servers and launches
them from the directory they were installed into.

` + SubtitleStyle.Render("Examples:") + `
  mcx init                           Create a server interactively
  mcx versions NeoForge --minecraft 1.21.x
  mcx download Paper 1.21.1 ./lobby  Install Paper into ./lobby
  mcx run --dir ./lobby --accept-eula`,
		Version:           a.Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.flags.logFormat, "log-format", "text", "Log format (text, json)")
	flags.StringVar(&a.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/mcx/config.toml)")
	flags.StringVar(&a.flags.metricsTextfile, "metrics-textfile", "",
		"write Prometheus metrics to this file on exit")

	root.AddCommand(
		a.initCommand(),
		a.versionsCommand(),
		a.downloadCommand(),
		a.runCommand(),
		a.stopCommand(),
	)

	return root
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	slog.SetDefault(slog.New(newLogHandler(cmd.ErrOrStderr(), a.flags.logLevel, a.flags.logFormat)))

	settings, err := config.LoadSettings(a.flags.configFile)
	if err != nil {
		return err
	}

	a.settings = settings

	opts := settings.ResolverOptions()

	if a.flags.metricsTextfile != "" {
		a.registry = prometheus.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(a.registry)
	}

	a.service = a.NewService(opts)

	return nil
}

// flushMetrics writes the textfile when --metrics-textfile is set.
func (a *App) flushMetrics() error {
	if a.registry == nil {
		return nil
	}

	return metrics.WriteTextfile(a.flags.metricsTextfile, a.registry)
}

// Run executes args and writes metrics afterwards, even when the command
// failed.
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.Command()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)

	return errors.CombineErrors(err, a.flushMetrics())
}

// Execute runs mcx with os.Args and exits non-zero on failure.
func Execute(version string) {
	app := NewApp(version)

	err := fang.Execute(
		context.Background(),
		app.Command(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	)

	if flushErr := app.flushMetrics(); flushErr != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+flushErr.Error())
	}

	if err != nil {
		os.Exit(1)
	}
}

// categorized prefixes err with its loader category for display.
func categorized(err error) error {
	if err == nil {
		return nil
	}

	category := loader.CategoryOf(err)
	if category == loader.CategoryUnknown {
		return err
	}

	return errors.Wrap(err, category.String())
}

// LatestKeyword selects the newest stable release of a loader.
const LatestKeyword = "latest"

// resolveVersion expands LatestKeyword against the loader's catalog.
func (a *App) resolveVersion(ctx context.Context, loaderName, requested string) (string, error) {
	if requested != LatestKeyword {
		return requested, nil
	}

	catalog, err := a.service.ListVersions(ctx, loaderName)
	if err != nil {
		return "", categorized(err)
	}

	latest, err := version.LatestStable(catalog)
	if err != nil {
		return "", errors.Wrapf(err, "cannot resolve latest %s version", loaderName)
	}

	return latest, nil
}
