package output

import (
	"io"

	md "github.com/nao1215/markdown"
)

// MarkdownFormatter outputs tables as GitHub-flavored markdown.
type MarkdownFormatter struct{}

// Format implements the Formatter interface for markdown output.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	table, ok := tableOf(data, true)
	if !ok {
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
	return md.NewMarkdown(w).
		Table(md.TableSet{Header: table.Headers, Rows: table.Rows}).
		Build()
}
