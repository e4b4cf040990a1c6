package sync

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/playermap/pkg/errors"
)

// Stage names.
const (
	StageMerge     = "merge"
	StageReconcile = "reconcile"
)

// Status is the outcome of one stage.
type Status string

// Stage statuses.
const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StageResult reports one pipeline stage.
type StageResult struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
	Err    error  `json:"-" yaml:"-"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`

	New       int `json:"new,omitempty" yaml:"new,omitempty"`
	Updated   int `json:"updated,omitempty" yaml:"updated,omitempty"`
	Adopted   int `json:"adopted,omitempty" yaml:"adopted,omitempty"`
	Conflicts int `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Changed   int `json:"changed" yaml:"changed"` // rows whose values differ after the stage
	Warnings  int `json:"warnings" yaml:"warnings"`

	Wrote    bool          `json:"wrote" yaml:"wrote"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Fail marks the stage failed with err.
func (s *StageResult) Fail(err error) {
	s.Status = StatusFailed
	s.Err = err
	if err != nil {
		s.Error = err.Error()
	}
}

// Summary returns a one-line description of the stage.
func (s *StageResult) Summary() string {
	switch s.Status {
	case StatusFailed:
		return fmt.Sprintf("%s: FAILED: %v", s.Name, s.Err)
	case StatusSkipped:
		return fmt.Sprintf("%s: skipped", s.Name)
	}
	var parts []string
	switch s.Name {
	case StageMerge:
		parts = append(parts, fmt.Sprintf("%d new", s.New), fmt.Sprintf("%d updated", s.Updated))
	case StageReconcile:
		parts = append(parts, fmt.Sprintf("%d adopted", s.Adopted), fmt.Sprintf("%d conflicts", s.Conflicts))
	}
	parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	if s.Wrote {
		parts = append(parts, "written")
	}
	return fmt.Sprintf("%s: %s", s.Name, strings.Join(parts, ", "))
}

// Result represents the complete result of a sync run.
type Result struct {
	Season       string   `json:"season" yaml:"season"`
	RegistryPath string   `json:"registry_path" yaml:"registry_path"`
	DryRun       bool     `json:"dry_run" yaml:"dry_run"`
	ColumnsAdded []string `json:"columns_added,omitempty" yaml:"columns_added,omitempty"`
	Rows         int      `json:"rows" yaml:"rows"`

	Stages   []*StageResult               `json:"stages" yaml:"stages"`
	Warnings []*errors.DataQualityWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	DiscoveredTeams int `json:"discovered_teams,omitempty" yaml:"discovered_teams,omitempty"`

	StartedAt  utc.Time `json:"started_at" yaml:"started_at"`
	FinishedAt utc.Time `json:"finished_at" yaml:"finished_at"`
}

// NewResult creates an empty result stamped with the current time.
func NewResult(seasonTag, path string, dryRun bool) *Result {
	return &Result{
		Season:       seasonTag,
		RegistryPath: path,
		DryRun:       dryRun,
		StartedAt:    utc.Now(),
	}
}

// Stage returns the named stage result, or nil.
func (r *Result) Stage(name string) *StageResult {
	for _, s := range r.Stages {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Failed reports whether any stage failed.
func (r *Result) Failed() bool {
	for _, s := range r.Stages {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Err joins the errors of every failed stage, or returns nil.
func (r *Result) Err() error {
	var errs []error
	for _, s := range r.Stages {
		if s.Status == StatusFailed && s.Err != nil {
			errs = append(errs, errors.NewStageError(s.Name, s.Err))
		}
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return stderrors.Join(errs...)
}

// HasChanges reports whether any stage altered the registry, or would have
// in a dry run. Rows matched without a differing value do not count.
func (r *Result) HasChanges() bool {
	if len(r.ColumnsAdded) > 0 {
		return true
	}
	for _, s := range r.Stages {
		if s.Wrote || s.Changed > 0 {
			return true
		}
	}
	return false
}

// Duration is the wall time of the run.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	status := "succeeded"
	if r.Failed() {
		status = "FAILED"
	}
	var parts []string
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}
	for _, s := range r.Stages {
		parts = append(parts, s.Summary())
	}
	summary := fmt.Sprintf("Sync %s for season %s", status, r.Season)
	if len(parts) > 0 {
		summary += ": " + strings.Join(parts, "; ")
	}
	return summary
}
