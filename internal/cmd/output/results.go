package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/playermap/internal/cmd/emoji"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/season"
	"github.com/agentstation/playermap/pkg/sync"
	"github.com/agentstation/playermap/pkg/teams"
)

// SyncResult renders a sync run as a per-stage table.
type SyncResult struct {
	*sync.Result
}

// TableData implements Tabular. The wide form adds timing and the write flag.
func (r SyncResult) TableData(wide bool) Data {
	headers := []string{"Stage", "Status", "New", "Updated", "Adopted", "Conflicts", "Warnings"}
	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight}
	if wide {
		headers = append(headers, "Written", "Duration", "Error")
		align = append(align, AlignCenter, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(r.Stages))
	for _, s := range r.Stages {
		row := []string{
			s.Name,
			statusLabel(s.Status),
			strconv.Itoa(s.New),
			strconv.Itoa(s.Updated),
			strconv.Itoa(s.Adopted),
			strconv.Itoa(s.Conflicts),
			strconv.Itoa(s.Warnings),
		}
		if wide {
			written := ""
			if s.Wrote {
				written = emoji.Success
			}
			row = append(row, written, s.Duration.Round(time.Millisecond).String(), s.Error)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

func statusLabel(s sync.Status) string {
	switch s {
	case sync.StatusOK:
		return emoji.Success + " ok"
	case sync.StatusFailed:
		return emoji.Error + " failed"
	case sync.StatusSkipped:
		return emoji.Optional + " skipped"
	default:
		return emoji.Unknown + " " + string(s)
	}
}

// Warnings renders data-quality warnings as a table.
type Warnings []*errors.DataQualityWarning

// TableData implements Tabular.
func (ws Warnings) TableData(bool) Data {
	rows := make([][]string, 0, len(ws))
	for _, w := range ws {
		rows = append(rows, []string{string(w.Kind), w.Code, w.Name, w.Message})
	}
	return Data{Headers: []string{"Kind", "Code", "Name", "Message"}, Rows: rows}
}

// Teams renders team codes as a table, marking codes the known table lacks.
type Teams struct {
	Teams      []teams.Team `json:"teams" yaml:"teams"`
	Discovered []teams.Team `json:"discovered,omitempty" yaml:"discovered,omitempty"`
}

// TableData implements Tabular.
func (t Teams) TableData(bool) Data {
	rows := make([][]string, 0, len(t.Teams)+len(t.Discovered))
	for _, team := range t.Teams {
		rows = append(rows, []string{strconv.Itoa(team.Code), team.Name, "known"})
	}
	for _, team := range t.Discovered {
		rows = append(rows, []string{strconv.Itoa(team.Code), team.Name, emoji.Warning + " discovered"})
	}
	return Data{
		Headers:         []string{"Code", "Name", "Status"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

// Season describes one season and its registry columns.
type Season struct {
	Tag          string `json:"tag" yaml:"tag"`
	Display      string `json:"display" yaml:"display"`
	ProviderID   string `json:"provider_id_column" yaml:"provider_id_column"`
	Team         string `json:"team_column" yaml:"team_column"`
	InRegistry   bool   `json:"in_registry" yaml:"in_registry"`
	RegistryPath string `json:"registry_path,omitempty" yaml:"registry_path,omitempty"`
}

// NewSeason builds the description of s.
func NewSeason(s season.Season) Season {
	cols := s.Columns()
	return Season{
		Tag:        s.Tag(),
		Display:    s.Display(),
		ProviderID: cols.ProviderID,
		Team:       cols.Team,
	}
}

// WriteStageLines prints one status line per stage, for human output on
// stderr alongside a machine-readable stdout.
func WriteStageLines(w io.Writer, result *sync.Result) {
	for _, s := range result.Stages {
		icon := emoji.Success
		switch s.Status {
		case sync.StatusFailed:
			icon = emoji.Error
		case sync.StatusSkipped:
			icon = emoji.Optional
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", icon, s.Summary())
	}
	if n := len(result.Warnings); n > 0 {
		_, _ = fmt.Fprintf(w, "%s %d data quality %s\n", emoji.Warning, n, plural(n, "warning", "warnings"))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// JoinColumns formats a column list for display.
func JoinColumns(cols []string) string {
	if len(cols) == 0 {
		return "none"
	}
	return strings.Join(cols, ", ")
}
