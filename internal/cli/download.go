package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) downloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "download LOADER VERSION DIR",
		Short: "Install a loader version into a directory",
		Long: `Install a loader version into DIR, creating it when needed.

Files from a previous mcx install in DIR are replaced; worlds and other
files mcx did not install are kept. On failure DIR is left unchanged.

VERSION may be "latest" for the newest stable release.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaderName, dir := args[0], args[2]

			version, err := a.resolveVersion(cmd.Context(), loaderName, args[1])
			if err != nil {
				return err
			}

			if err := a.service.DownloadVersion(cmd.Context(), version, dir, loaderName); err != nil {
				return categorized(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Installed %s %s into %s\n",
				SuccessStyle.Render("✓"), loaderName, version, dir)

			return nil
		},
	}
}
