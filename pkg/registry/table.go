package registry

// Row is one registry record keyed by column name. A row held by a Table
// always carries a value, possibly empty, for every schema column.
type Row map[string]string

// Get returns the value stored under column, or "" when absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Set stores value under column.
func (r Row) Set(column, value string) {
	r[column] = value
}

// Code returns the raw stable code of the row.
func (r Row) Code() string {
	return r[ColumnCode]
}

// ExternalID returns the cross-reference identifier of the row.
func (r Row) ExternalID() string {
	return r[ColumnExternalID]
}

// Table is the in-memory registry: a schema plus rows in file order.
type Table struct {
	schema *Schema
	rows   []Row
}

// NewTable creates an empty table with the given schema columns.
func NewTable(columns ...string) *Table {
	return &Table{schema: NewSchema(columns...)}
}

// Schema returns the table schema.
func (t *Table) Schema() *Schema {
	return t.schema
}

// Columns returns the schema columns in order.
func (t *Table) Columns() []string {
	return t.schema.Columns()
}

// Rows returns the rows in order. The slice is shared with the table;
// callers may mutate row values but must add rows through Append.
func (t *Table) Rows() []Row {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the row at position i.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// NewRow returns a detached row seeded with "" for every schema column.
func (t *Table) NewRow() Row {
	row := make(Row, t.schema.Len())
	for _, c := range t.schema.columns {
		row[c] = ""
	}
	return row
}

// Append adds row to the end of the table, back-filling any schema
// column it lacks with "".
func (t *Table) Append(row Row) {
	for _, c := range t.schema.columns {
		if _, ok := row[c]; !ok {
			row[c] = ""
		}
	}
	t.rows = append(t.rows, row)
}

// AddColumns appends the columns absent from the schema, preserving the
// order given, and back-fills every row with "". It returns the columns
// actually added. Calling it again with the same columns is a no-op.
func (t *Table) AddColumns(columns ...string) []string {
	added := t.schema.Missing(columns...)
	for _, c := range added {
		t.schema.add(c)
	}
	t.fill()
	return added
}

// fill guarantees every row has a value for every column.
func (t *Table) fill() {
	for _, row := range t.rows {
		for _, c := range t.schema.columns {
			if _, ok := row[c]; !ok {
				row[c] = ""
			}
		}
	}
}

// Records renders the table as a header record followed by one record per
// row, in schema order.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.rows)+1)
	records = append(records, t.schema.Columns())
	for _, row := range t.rows {
		record := make([]string, t.schema.Len())
		for i, c := range t.schema.columns {
			record[i] = row[c]
		}
		records = append(records, record)
	}
	return records
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	clone := &Table{
		schema: NewSchema(t.schema.columns...),
		rows:   make([]Row, len(t.rows)),
	}
	for i, row := range t.rows {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		clone.rows[i] = cp
	}
	return clone
}
