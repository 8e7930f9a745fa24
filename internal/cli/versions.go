package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lexfrei/mcx/pkg/loader"
	"github.com/lexfrei/mcx/pkg/neoforge"
	"github.com/lexfrei/mcx/pkg/version"
)

func (a *App) versionsCommand() *cobra.Command {
	var (
		minecraft string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "versions LOADER",
		Short: "List the versions a loader publishes",
		Long: `List the versions a loader publishes, in upstream order.

--minecraft keeps versions for one Minecraft version ("1.21.1") or a
release line ("1.21.x"). For NeoForge it matches the Minecraft version
each release targets.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.service.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return categorized(err)
			}

			if minecraft != "" {
				kind, _ := loader.ParseKind(args[0])
				catalog = filterCatalog(kind, catalog, minecraft)
			}

			return writeCatalog(cmd.OutOrStdout(), catalog, output)
		},
	}

	cmd.Flags().StringVar(&minecraft, "minecraft", "", "only versions for this Minecraft version or x-pattern")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")

	return cmd
}

func filterCatalog(kind loader.Kind, catalog loader.Catalog, pattern string) loader.Catalog {
	if kind == loader.NeoForge {
		return neoforge.FilterByMinecraft(catalog, pattern)
	}

	filtered := make(loader.Catalog, 0, len(catalog))

	for _, v := range catalog {
		if version.Matches(pattern, v) {
			filtered = append(filtered, v)
		}
	}

	return filtered
}

func writeCatalog(w io.Writer, catalog loader.Catalog, output string) error {
	if catalog == nil {
		catalog = loader.Catalog{}
	}

	switch output {
	case "text":
		for _, v := range catalog {
			fmt.Fprintln(w, v)
		}

		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(catalog), "failed to encode versions")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode([]string(catalog)); err != nil {
			return errors.Wrap(err, "failed to encode versions")
		}

		return errors.Wrap(enc.Close(), "failed to encode versions")
	default:
		return errors.Newf("unknown output format %q (want text, json or yaml)", output)
	}
}
