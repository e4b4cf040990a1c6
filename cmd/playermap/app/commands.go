package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/playermap/cmd/playermap/cmd/season"
	"github.com/agentstation/playermap/cmd/playermap/cmd/serve"
	synccmd "github.com/agentstation/playermap/cmd/playermap/cmd/sync"
	"github.com/agentstation/playermap/cmd/playermap/cmd/teams"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(synccmd.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	rootCmd.AddCommand(season.NewCommand(a))
	rootCmd.AddCommand(teams.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("playermap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
