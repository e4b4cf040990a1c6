// Package teams provides the teams command: the known team code table and,
// with --observe, the codes the live provider lists that it lacks.
package teams

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/playermap/internal/appcontext"
	"github.com/agentstation/playermap/internal/cmd/output"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
)

// NewCommand creates the teams command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var observe bool

	cmd := &cobra.Command{
		Use:     "teams",
		GroupID: "inspect",
		Short:   "List known team codes",
		Args:    cobra.NoArgs,
		Long: `Teams lists the team codes with known display names. The table ships
with the binary and can be replaced with known_teams_path.

With --observe the provider snapshot is fetched and codes it lists that
the known table lacks are shown as discovered. Nothing is written; set
persist_discovered_teams to record them during sync.`,
		Example: `  playermap teams
  playermap teams --observe -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			list := output.Teams{Teams: client.KnownTeams().Teams}
			if observe {
				if list.Discovered, err = client.ObserveTeams(ctx); err != nil {
					return err
				}
			}
			return Render(cmd.OutOrStdout(), app.OutputFormat(), list)
		},
	}

	cmd.Flags().BoolVar(&observe, "observe", false, "fetch the provider team list and show discovered codes")
	return cmd
}

// Render writes list in the requested format.
func Render(w io.Writer, format string, list output.Teams) error {
	f, err := output.Resolve(format)
	if err != nil {
		return errors.NewValidationError("format", format, err.Error())
	}
	return output.NewFormatter(f).Format(w, list)
}
