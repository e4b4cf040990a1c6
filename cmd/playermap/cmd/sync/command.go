// Package sync provides the sync command: one run of the merge and
// reconcile pipeline against the registry.
package sync

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/playermap/internal/appcontext"
	"github.com/agentstation/playermap/internal/cmd/output"
	"github.com/agentstation/playermap/internal/cmd/report"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/season"
	pmsync "github.com/agentstation/playermap/pkg/sync"
)

// Flags holds the sync command flags.
type Flags struct {
	DryRun      bool
	FailFast    bool
	NoMerge     bool
	NoReconcile bool
	Season      string
	Timeout     time.Duration
	Report      string
}

// Options converts the flags into sync options.
func (f *Flags) Options() ([]pmsync.Option, error) {
	opts := []pmsync.Option{
		pmsync.WithMerge(!f.NoMerge),
		pmsync.WithReconcile(!f.NoReconcile),
		pmsync.WithDryRun(f.DryRun),
		pmsync.WithFailFast(f.FailFast),
	}
	if f.Timeout > 0 {
		opts = append(opts, pmsync.WithTimeout(f.Timeout))
	}
	if f.Season != "" {
		s, err := season.Parse(f.Season)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pmsync.WithSeason(s))
	}
	return opts, nil
}

// NewCommand creates the sync command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Merge the provider snapshot and reconcile external ids",
		Args:    cobra.NoArgs,
		Long: `Sync runs the registry pipeline once:

1. merge      fetch the provider bootstrap snapshot, add the current season's
              columns, append new players and refresh current-season values
2. reconcile  fetch the cross-reference table and fill in external ids

Rows are never removed and earlier seasons are never modified. A failed
stage does not undo a stage that already wrote the registry. The command
exits non-zero when any stage failed.`,
		Example: `  playermap sync                         # Run both stages
  playermap sync --dry-run -o json       # Preview without writing
  playermap sync --season 2023_24        # Backfill a past season
  playermap sync --no-reconcile          # Merge only
  playermap sync --report summary.md     # Also write a markdown report`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "run every stage without writing the registry")
	cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "skip reconcile when merge fails")
	cmd.Flags().BoolVar(&flags.NoMerge, "no-merge", false, "skip the merge stage")
	cmd.Flags().BoolVar(&flags.NoReconcile, "no-reconcile", false, "skip the reconcile stage")
	cmd.Flags().StringVar(&flags.Season, "season", "", "season tag such as 2024_25 (default: current season)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "overall timeout for the run (default 5m)")
	cmd.Flags().StringVar(&flags.Report, "report", "", "write a markdown run report to this file")

	return cmd
}

// Run executes one sync and renders its result. The result is always
// rendered; the returned error reports failed stages.
func Run(cmd *cobra.Command, app appcontext.Interface, flags *Flags, stdout, stderr io.Writer) error {
	opts, err := flags.Options()
	if err != nil {
		return err
	}
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return errors.NewValidationError("format", app.OutputFormat(), err.Error())
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	result, syncErr := client.Sync(ctx, opts...)
	if result == nil {
		return syncErr
	}

	if err := render(app, format, result, stdout, stderr); err != nil {
		return err
	}

	if flags.Report != "" {
		if err := report.WriteFile(flags.Report, result); err != nil {
			return err
		}
		app.Logger().Info().Str("path", flags.Report).Msg("Wrote run report")
	}

	return syncErr
}

func render(app appcontext.Interface, format output.Format, result *pmsync.Result, stdout, stderr io.Writer) error {
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(stdout, result)
	}

	formatter := output.NewFormatter(format)
	if err := formatter.Format(stdout, output.SyncResult{Result: result}); err != nil {
		return err
	}
	if format == output.FormatWide && len(result.Warnings) > 0 {
		if err := formatter.Format(stdout, output.Warnings(result.Warnings)); err != nil {
			return err
		}
	}
	if !app.Quiet() {
		output.WriteStageLines(stderr, result)
	}
	return nil
}
