package reconciler_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/reconciler"
	"github.com/agentstation/playermap/pkg/registry"
	"github.com/agentstation/playermap/pkg/sources"
)

const header = "Code,FPL_Name,Web_Name,Understat_ID,Understat_Name\n"

func loadTable(t *testing.T, rows string) *registry.Table {
	t.Helper()
	table, err := registry.Parse(strings.NewReader(header+rows), "registry.csv")
	require.NoError(t, err)
	return table
}

func crossRef(pairs map[int64]string) *sources.CrossRef {
	ref := sources.NewCrossRef()
	for code, id := range pairs {
		ref.Set(code, id)
	}
	return ref
}

func newReconciler(t *testing.T, opts ...reconciler.Option) reconciler.Reconciler {
	t.Helper()
	r, err := reconciler.New(opts...)
	require.NoError(t, err)
	return r
}

func TestConflictPrecedence(t *testing.T) {
	table := loadTable(t, "100,Test Player,Player,A,\n")

	result, err := newReconciler(t).Reconcile(context.Background(), table, crossRef(map[int64]string{100: "B"}))
	require.NoError(t, err)

	assert.Equal(t, "B", table.Row(0).ExternalID())
	assert.Equal(t, 1, result.Conflicts)
	assert.Equal(t, 0, result.Adopted)
	assert.True(t, result.Changed())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, errors.WarningExternalIDConflict, result.Warnings[0].Kind)
	assert.Equal(t, []reconciler.Change{
		{Code: "100", Name: "Test Player", Old: "A", New: "B", Conflict: true, Applied: true},
	}, result.Changes)
}

func TestAdoptAndNoChange(t *testing.T) {
	table := loadTable(t, strings.Join([]string{
		"1,Empty Id,E,,",
		"2,Same Id,S,22,",
		"3,Not In Source,N,,",
		"4,Empty Source,X,44,",
		"abc,Bad Code,B,,",
		",No Code,Z,,",
	}, "\n")+"\n")

	ref := crossRef(map[int64]string{1: "11", 2: "22", 4: ""})
	result, err := newReconciler(t).Reconcile(context.Background(), table, ref)
	require.NoError(t, err)

	assert.Equal(t, "11", table.Row(0).ExternalID(), "empty id adopted")
	assert.Equal(t, "22", table.Row(1).ExternalID())
	assert.Equal(t, "", table.Row(2).ExternalID())
	assert.Equal(t, "44", table.Row(3).ExternalID(), "empty source value never clears a stored id")
	assert.Equal(t, "", table.Row(4).ExternalID())

	assert.Equal(t, 4, result.Examined)
	assert.Equal(t, 1, result.Adopted)
	assert.Equal(t, 0, result.Conflicts)
	assert.Equal(t, 1, result.Unmapped)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "1 adopted, 0 conflicts (4 rows examined)", result.Summary())
}

func TestReconcileIsIdempotent(t *testing.T) {
	table := loadTable(t, "1,A,A,,\n2,B,B,old,\n3,C,C,,\n")
	ref := crossRef(map[int64]string{1: "10", 2: "new", 3: "30"})
	r := newReconciler(t)

	first, err := r.Reconcile(context.Background(), table, ref)
	require.NoError(t, err)
	assert.True(t, first.Changed())
	assert.Equal(t, 2, first.Adopted)
	assert.Equal(t, 1, first.Conflicts)

	snapshot := table.Records()
	second, err := r.Reconcile(context.Background(), table, ref)
	require.NoError(t, err)
	assert.False(t, second.Changed())
	assert.Equal(t, 0, second.Adopted)
	assert.Equal(t, 0, second.Conflicts)
	assert.Equal(t, snapshot, table.Records())
	assert.Equal(t, "No changes (3 rows examined)", second.Summary())
}

func TestReconcileNormalizesCodes(t *testing.T) {
	table := loadTable(t, " 007 ,Padded,P,,\n")

	result, err := newReconciler(t).Reconcile(context.Background(), table, crossRef(map[int64]string{7: " 70 "}))
	require.NoError(t, err)

	assert.Equal(t, "70", table.Row(0).ExternalID())
	assert.Equal(t, 1, result.Adopted)
}

func TestKeepStoredPolicy(t *testing.T) {
	table := loadTable(t, "100,Test Player,Player,A,\n")
	r := newReconciler(t, reconciler.WithConflictPolicy(reconciler.PolicyKeepStored))

	result, err := r.Reconcile(context.Background(), table, crossRef(map[int64]string{100: "B"}))
	require.NoError(t, err)

	assert.Equal(t, "A", table.Row(0).ExternalID())
	assert.Equal(t, 1, result.Conflicts)
	assert.Len(t, result.Warnings, 1)
	assert.False(t, result.Changed(), "unapplied conflict leaves the table unchanged")
}

func TestOptions(t *testing.T) {
	_, err := reconciler.New(reconciler.WithConflictPolicy("last-write"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.New(reconciler.WithColumn(""))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	table := loadTable(t, "5,Five,F,,\n")
	r := newReconciler(t, reconciler.WithColumn("Other_ID"))
	_, err = r.Reconcile(context.Background(), table, crossRef(map[int64]string{5: "x"}))
	require.NoError(t, err)
	assert.Equal(t, "x", table.Row(0).Get("Other_ID"))
	assert.Equal(t, "", table.Row(0).ExternalID())
}

func TestReconcileInvalidInput(t *testing.T) {
	r := newReconciler(t)

	_, err := r.Reconcile(context.Background(), nil, sources.NewCrossRef())
	assert.True(t, errors.IsValidationError(err))

	_, err = r.Reconcile(context.Background(), registry.NewTable(registry.BaseColumns()...), nil)
	assert.True(t, errors.IsValidationError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Reconcile(ctx, registry.NewTable(registry.BaseColumns()...), sources.NewCrossRef())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconcileLogsConflicts(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	table := loadTable(t, "100,Test Player,Player,A,\n")
	_, err := newReconciler(t).Reconcile(ctx, table, crossRef(map[int64]string{100: "B"}))
	require.NoError(t, err)

	assert.True(t, tl.ContainsAll(`"level":"warn"`, `"stored":"A"`, `"source":"B"`, `"message":"External id conflict"`))
}
