package cli

import (
	"github.com/spf13/cobra"

	"github.com/lexfrei/mcx/internal/config"
	"github.com/lexfrei/mcx/internal/launcher"
)

func (a *App) runCommand() *cobra.Command {
	var (
		dir        string
		acceptEULA bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the server described by mcx.toml",
		Long: `Start the server in --dir in the foreground, using the loader recorded
in mcx.toml. Interrupting mcx asks the server to save and stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := config.ReadServer(dir)
			if err != nil {
				return err
			}

			command, err := launcher.Command(launcher.Options{
				Dir:    dir,
				Kind:   server.Kind(),
				Java:   a.settings.JavaPath,
				Memory: a.settings.JavaMemory,
			})
			if err != nil {
				return err
			}

			if acceptEULA {
				if err := launcher.AcceptEULA(dir); err != nil {
					return err
				}
			}

			return a.Launch(cmd.Context(), dir, command, launcher.Stdio{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "server directory")
	cmd.Flags().BoolVar(&acceptEULA, "accept-eula", false, "accept the Minecraft EULA (https://aka.ms/MinecraftEULA)")

	return cmd
}
