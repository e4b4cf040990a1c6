package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Align is a table column alignment.
type Align int

// Column alignments.
const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Data is a rendered table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// Tabular is implemented by values that lay out their own table.
type Tabular interface {
	TableData(wide bool) Data
}

// TableFormatter draws tables with tablewriter. Values that cannot be
// tabulated are written as JSON.
type TableFormatter struct {
	Wide bool
}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	table, ok := tableOf(data, f.Wide)
	if !ok {
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}

	cfg := tablewriter.Config{}
	if len(table.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(table.ColumnAlignment))
		for i, a := range table.ColumnAlignment {
			align[i] = twAlign(a)
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: align}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	if len(table.Headers) > 0 {
		tbl.Header(cells(table.Headers)...)
	}
	for _, row := range table.Rows {
		if err := tbl.Append(cells(row)...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

func twAlign(a Align) tw.Align {
	switch a {
	case AlignLeft:
		return tw.AlignLeft
	case AlignCenter:
		return tw.AlignCenter
	case AlignRight:
		return tw.AlignRight
	default:
		return tw.Skip
	}
}

func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// tableOf lays out data as a table. A struct becomes a property/value
// table and a non-empty slice of structs gets one row per element.
func tableOf(data any, wide bool) (Data, bool) {
	switch v := data.(type) {
	case Data:
		return v, true
	case Tabular:
		return v.TableData(wide), true
	}

	rv := reflect.Indirect(reflect.ValueOf(data))
	switch {
	case rv.Kind() == reflect.Struct:
		fields := exportedFields(rv.Type())
		table := Data{Headers: []string{"Property", "Value"}}
		for _, f := range fields {
			table.Rows = append(table.Rows, []string{fieldTitle(f), fmt.Sprint(rv.FieldByIndex(f.Index).Interface())})
		}
		return table, true

	case rv.Kind() == reflect.Slice && rv.Len() > 0 && rv.Type().Elem().Kind() == reflect.Struct:
		fields := exportedFields(rv.Type().Elem())
		table := Data{}
		for _, f := range fields {
			table.Headers = append(table.Headers, fieldTitle(f))
		}
		for i := 0; i < rv.Len(); i++ {
			row := make([]string, len(fields))
			for j, f := range fields {
				row[j] = fmt.Sprint(rv.Index(i).FieldByIndex(f.Index).Interface())
			}
			table.Rows = append(table.Rows, row)
		}
		return table, true
	}
	return Data{}, false
}

func exportedFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && f.Tag.Get("json") != "-" {
			fields = append(fields, f)
		}
	}
	return fields
}

// fieldTitle titles a field by its json name, e.g. provider_id_column
// becomes "Provider Id Column".
func fieldTitle(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return Title(strings.ReplaceAll(name, "_", " "))
}

// Title title-cases s in English.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
