package cli

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lexfrei/mcx/pkg/rcon"
)

func (a *App) stopCommand() *cobra.Command {
	var (
		dir      string
		warnings []string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Save and stop a running server over RCON",
		Long: `Connect to the server in --dir over RCON, broadcast the --warn messages,
save the world and stop the server. RCON must be enabled in
server.properties (enable-rcon, rcon.port, rcon.password).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := rcon.ReadSettings(dir)
			if err != nil {
				return err
			}

			conn, err := a.DialRCON(cmd.Context(), settings)
			if err != nil {
				return err
			}

			defer func() {
				_ = conn.Close()
			}()

			opts := rcon.StopOptions{Warnings: warnings, Interval: interval}
			if err := rcon.Stop(cmd.Context(), conn, opts); err != nil {
				return errors.Wrapf(err, "failed to stop server at %s", settings.Address())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Server in %s stopped\n", SuccessStyle.Render("✓"), dir)

			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "server directory")
	cmd.Flags().StringArrayVar(&warnings, "warn", nil, "message to broadcast before stopping (repeatable)")
	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "pause between warnings")

	return cmd
}
