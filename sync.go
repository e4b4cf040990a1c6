package playermap

import (
	"context"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/merger"
	"github.com/agentstation/playermap/pkg/reconciler"
	"github.com/agentstation/playermap/pkg/registry"
	"github.com/agentstation/playermap/pkg/season"
	"github.com/agentstation/playermap/pkg/sync"
	"github.com/agentstation/playermap/pkg/teams"
)

// Sync runs the merge and reconcile stages in order. Each stage reports
// its own outcome; a failed stage never rolls back an earlier write.
func (c *client) Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse and validate options
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	// Step 2: One run at a time
	c.runMu.Lock()
	defer c.runMu.Unlock()

	// Step 3: Setup context with timeout, counted from when the run starts
	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {}
	}
	defer cancel()

	// Step 4: Resolve season and registry path
	s := season.Now()
	if options.Season != nil {
		s = *options.Season
	}
	path := c.options.registryPath
	if options.RegistryPath != "" {
		path = options.RegistryPath
	}

	result := sync.NewResult(s.Tag(), path, options.DryRun)
	ctx = logging.WithRegistry(logging.WithSeason(ctx, s.Tag()), path)
	logger := logging.FromContext(ctx)
	logger.Info().
		Bool("merge", options.Merge).
		Bool("reconcile", options.Reconcile).
		Bool("dry_run", options.DryRun).
		Msg("Starting sync")

	// Step 5: Merge stage
	var table *registry.Table
	mergeStage := &sync.StageResult{Name: sync.StageMerge, Status: sync.StatusSkipped}
	result.Stages = append(result.Stages, mergeStage)
	if options.Merge {
		table = c.runMerge(logging.WithStage(ctx, sync.StageMerge), mergeStage, result, s, path, options)
	}

	// Step 6: Reconcile stage
	reconcileStage := &sync.StageResult{Name: sync.StageReconcile, Status: sync.StatusSkipped}
	result.Stages = append(result.Stages, reconcileStage)
	switch {
	case !options.Reconcile:
	case mergeStage.Status == sync.StatusFailed && options.FailFast:
		logger.Warn().Msg("Skipping reconcile after merge failure")
	default:
		c.runReconcile(logging.WithStage(ctx, sync.StageReconcile), reconcileStage, result, table, path, options)
	}

	// Step 7: Finish and report
	result.FinishedAt = utc.Now()
	c.mu.Lock()
	c.last = result
	c.mu.Unlock()

	logStageSummary(logger, result)
	c.hooks.triggerSyncComplete(result)

	return result, result.Err()
}

// runMerge fetches the snapshot, loads the registry, merges and saves. It
// returns the merged table, or nil when the stage failed.
func (c *client) runMerge(ctx context.Context, stage *sync.StageResult, result *sync.Result, s season.Season, path string, options *sync.Options) *registry.Table {
	logger := logging.FromContext(ctx)
	start := time.Now()
	defer func() { stage.Duration = time.Since(start) }()

	fail := func(err error) *registry.Table {
		stage.Fail(err)
		logger.Error().Err(err).Msg("Merge stage failed")
		return nil
	}

	snapshot, err := c.snapshots.FetchSnapshot(logging.WithSource(ctx, c.snapshots.ID().String()))
	if err != nil {
		return fail(err)
	}

	table, err := registry.Load(path)
	if err != nil {
		return fail(err)
	}

	resolver := teams.NewResolver(c.KnownTeams())
	discovered := resolver.Observe(ctx, snapshot.TeamNames())
	result.DiscoveredTeams = len(discovered)

	mr := merger.New(resolver, s).Merge(ctx, table, snapshot.Elements)
	stage.New = mr.New
	stage.Updated = mr.Updated
	stage.Changed = mr.New + mr.Changed
	stage.Warnings = len(mr.Warnings)
	result.ColumnsAdded = mr.ColumnsAdded
	result.Warnings = append(result.Warnings, mr.Warnings...)
	result.Rows = table.Len()

	switch {
	case options.DryRun:
	case mr.HasChanges():
		if err := registry.Save(path, table); err != nil {
			return fail(err)
		}
		stage.Wrote = true
	default:
		logger.Info().Msg("No merge changes, registry not rewritten")
	}
	if !options.DryRun && len(discovered) > 0 && c.options.persistTeams {
		c.persistKnownTeams(ctx, resolver)
	}
	stage.Status = sync.StatusOK

	c.hooks.triggerNewPlayers(mr.NewPlayers)
	return table
}

// runReconcile fetches the mapping and reconciles it into table, loading
// the registry from disk when no merged table is available.
func (c *client) runReconcile(ctx context.Context, stage *sync.StageResult, result *sync.Result, table *registry.Table, path string, options *sync.Options) {
	logger := logging.FromContext(ctx)
	start := time.Now()
	defer func() { stage.Duration = time.Since(start) }()

	fail := func(err error) {
		stage.Fail(err)
		logger.Error().Err(err).Msg("Reconcile stage failed")
	}

	ref, err := c.crossRefs.FetchCrossRef(logging.WithSource(ctx, c.crossRefs.ID().String()))
	if err != nil {
		fail(err)
		return
	}

	if table == nil {
		if table, err = registry.Load(path); err != nil {
			fail(err)
			return
		}
	}

	r, err := reconciler.New(reconciler.WithConflictPolicy(c.options.conflictPolicy))
	if err != nil {
		fail(err)
		return
	}
	rr, err := r.Reconcile(ctx, table, ref)
	if err != nil {
		fail(err)
		return
	}
	stage.Adopted = rr.Adopted
	stage.Conflicts = rr.Conflicts
	stage.Changed = rr.Applied()
	stage.Warnings = len(rr.Warnings)
	result.Warnings = append(result.Warnings, rr.Warnings...)
	result.Rows = table.Len()

	if rr.Changed() && !options.DryRun {
		if err := registry.Save(path, table); err != nil {
			fail(err)
			return
		}
		stage.Wrote = true
	} else if !rr.Changed() {
		logger.Info().Msg("No cross-reference changes, registry not rewritten")
	}
	stage.Status = sync.StatusOK

	c.hooks.triggerConflicts(rr.Changes)
}

// persistKnownTeams writes the known table extended with this run's
// discoveries. Failure is logged; the merge itself already succeeded.
func (c *client) persistKnownTeams(ctx context.Context, resolver *teams.Resolver) {
	logger := logging.FromContext(ctx)
	path := c.options.knownTeamsPath
	if path == "" {
		logger.Warn().Msg("Discovered team codes not persisted: no known teams path configured")
		return
	}
	merged := resolver.Merged()
	if err := teams.SaveKnownCodes(path, merged); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Could not persist discovered team codes")
		return
	}
	c.mu.Lock()
	c.known = merged
	c.mu.Unlock()
	logger.Info().Str("path", path).Int("teams", len(merged.Teams)).Msg("Persisted discovered team codes")
}

func logStageSummary(logger *zerolog.Logger, result *sync.Result) {
	event := logger.Info()
	if result.Failed() {
		event = logger.Error().Err(result.Err())
	}
	event.
		Int("rows", result.Rows).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.Duration()).
		Msg(result.Summary())
}
