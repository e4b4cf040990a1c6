// Package report writes a markdown summary of a sync run, suitable for a
// CI job summary or a pull request comment.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/playermap/internal/cmd/output"
	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/sync"
)

// maxWarnings caps the warnings table; the rest are counted.
const maxWarnings = 50

// Write renders result as markdown to w.
func Write(w io.Writer, result *sync.Result) error {
	doc := md.NewMarkdown(w)

	status := "succeeded"
	if result.Failed() {
		status = "FAILED"
	}
	doc.H1(fmt.Sprintf("Registry sync %s for season %s", status, result.Season))

	facts := []string{
		"Registry: " + md.Code(result.RegistryPath),
		"Started: " + result.StartedAt.Format(constants.TimeFormatHuman),
		"Duration: " + result.Duration().Round(time.Millisecond).String(),
		"Rows: " + strconv.Itoa(result.Rows),
		"Columns added: " + output.JoinColumns(result.ColumnsAdded),
	}
	if result.DiscoveredTeams > 0 {
		facts = append(facts, "Discovered team codes: "+strconv.Itoa(result.DiscoveredTeams))
	}
	doc.BulletList(facts...)
	if result.DryRun {
		doc.Blockquote(md.Bold("Dry run:") + " no files were written.")
	}

	doc.H2("Stages")
	stages := output.SyncResult{Result: result}.TableData(true)
	doc.Table(md.TableSet{Header: stages.Headers, Rows: stages.Rows})

	doc.H2("Data quality")
	if len(result.Warnings) == 0 {
		doc.PlainText("No data quality warnings.")
	} else {
		doc.Table(warningsTable(result.Warnings))
		if extra := len(result.Warnings) - maxWarnings; extra > 0 {
			doc.PlainTextf("%d more warnings not shown.", extra)
		}
	}

	return doc.Build()
}

func warningsTable(warnings []*errors.DataQualityWarning) md.TableSet {
	if len(warnings) > maxWarnings {
		warnings = warnings[:maxWarnings]
	}
	data := output.Warnings(warnings).TableData(false)
	return md.TableSet{Header: data.Headers, Rows: data.Rows}
}

// WriteFile renders result to path, creating parent directories.
func WriteFile(path string, result *sync.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapStorage("write report", path, err)
	}
	f, err := os.Create(path) //nolint:gosec // path comes from a flag
	if err != nil {
		return errors.WrapStorage("write report", path, err)
	}
	if err := Write(f, result); err != nil {
		_ = f.Close()
		return errors.WrapStorage("write report", path, err)
	}
	return errors.WrapStorage("write report", path, f.Close())
}
