package cli

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lexfrei/mcx/internal/config"
	"github.com/lexfrei/mcx/pkg/loader"
)

type initOptions struct {
	name    string
	loader  string
	version string
}

func (a *App) initCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a server directory",
		Long: `Create a server directory named after the server, install the chosen
loader version into it and record the choice in mcx.toml.

Values not given as flags are asked for interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "server name, also the directory to create")
	cmd.Flags().StringVar(&opts.loader, "loader", "", "loader (Vanilla, NeoForge, Paper)")
	cmd.Flags().StringVar(&opts.version, "version", "", "loader version, or \"latest\"")

	return cmd
}

func (a *App) runInit(cmd *cobra.Command, opts initOptions) error {
	ctx := cmd.Context()

	var err error

	if opts.name == "" {
		if opts.name, err = a.Prompter.Input(ctx, "Server name"); err != nil {
			return err
		}
	}

	if err := validateServerName(opts.name); err != nil {
		return err
	}

	if opts.loader == "" {
		kinds := a.service.Kinds()

		names := make([]string, 0, len(kinds))
		for _, kind := range kinds {
			names = append(names, kind.String())
		}

		if opts.loader, err = a.Prompter.Select(ctx, "Loader", names); err != nil {
			return err
		}
	}

	if _, ok := loader.ParseKind(opts.loader); !ok {
		return loader.UnknownLoader(opts.loader)
	}

	if opts.version == "" {
		versions := a.service.GetLoaderVersions(ctx, opts.loader)
		if len(versions) == 0 {
			return errors.Newf("no %s versions available", opts.loader)
		}

		if opts.version, err = a.Prompter.Select(ctx, opts.loader+" version", latestFirst(versions)); err != nil {
			return err
		}
	}

	if opts.version, err = a.resolveVersion(ctx, opts.loader, opts.version); err != nil {
		return err
	}

	if err := a.service.DownloadVersion(ctx, opts.version, opts.name, opts.loader); err != nil {
		return categorized(err)
	}

	server := config.Server{Name: opts.name, Version: opts.version, Loader: opts.loader}
	if err := config.WriteServer(opts.name, server); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Created %s (%s %s)\n", SuccessStyle.Render("✓"), opts.name, opts.loader, opts.version)
	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintf(out, "  mcx run --dir %s --accept-eula\n", opts.name)

	return nil
}

func validateServerName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return errors.Newf("invalid server name %q: must be a plain directory name", name)
	}

	return nil
}

// latestFirst reverses a catalog so prompts offer the newest release first.
func latestFirst(catalog loader.Catalog) []string {
	out := make([]string, len(catalog))
	for i, v := range catalog {
		out[len(catalog)-1-i] = v
	}

	return out
}
