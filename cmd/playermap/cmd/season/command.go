// Package season provides the season command: which season tag and
// registry columns a date maps to.
package season

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/playermap/internal/appcontext"
	"github.com/agentstation/playermap/internal/cmd/output"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/registry"
	"github.com/agentstation/playermap/pkg/season"
)

// NewCommand creates the season command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:     "season [tag]",
		GroupID: "inspect",
		Short:   "Show a season's tag and registry columns",
		Args:    cobra.MaximumNArgs(1),
		Long: `Season prints the season tag and the two season-scoped registry
columns for the current date, a given date (--at) or a given tag.

Seasons start in July: a date from January to June belongs to the season
that started the previous year.`,
		Example: `  playermap season                   # Current season
  playermap season --at 2025-03-01   # Season in progress on a date
  playermap season 2023_24 -o yaml   # Columns of a given season`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolve(args, at)
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}
			return Render(cmd.OutOrStdout(), app.OutputFormat(), Describe(s, client.RegistryPath()))
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "date (YYYY-MM-DD) to derive the season from")
	return cmd
}

// resolve picks the season from a tag argument, the --at date or the clock.
func resolve(args []string, at string) (season.Season, error) {
	switch {
	case len(args) == 1 && at != "":
		return season.Season{}, errors.NewValidationError("at", at, "cannot combine a season tag with --at")
	case len(args) == 1:
		return season.Parse(args[0])
	case at != "":
		date, err := time.Parse(time.DateOnly, at)
		if err != nil {
			return season.Season{}, errors.NewValidationError("at", at, "expected a date such as 2025-03-01")
		}
		return season.Current(date), nil
	default:
		return season.Now(), nil
	}
}

// Describe reports the season and whether the registry at path already
// carries its columns. An unreadable registry reports false.
func Describe(s season.Season, path string) output.Season {
	desc := output.NewSeason(s)
	desc.RegistryPath = path
	if table, err := registry.Load(path); err == nil {
		desc.InRegistry = table.Schema().Has(desc.ProviderID)
	}
	return desc
}

// Render writes desc in the requested format.
func Render(w io.Writer, format string, desc output.Season) error {
	f, err := output.Resolve(format)
	if err != nil {
		return errors.NewValidationError("format", format, err.Error())
	}
	return output.NewFormatter(f).Format(w, desc)
}
