package registry

// Base columns every registry carries, in their canonical order.
const (
	ColumnCode         = "Code"
	ColumnName         = "FPL_Name"
	ColumnShortName    = "Web_Name"
	ColumnExternalID   = "Understat_ID"
	ColumnExternalName = "Understat_Name"
)

// BaseColumns returns the identity columns in canonical order.
func BaseColumns() []string {
	return []string{ColumnCode, ColumnName, ColumnShortName, ColumnExternalID, ColumnExternalName}
}

// Schema is the ordered column set of a registry. Columns are only ever
// appended; nothing removes or reorders them.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema creates a schema from the given columns, dropping duplicates
// while keeping first-seen order.
func NewSchema(columns ...string) *Schema {
	s := &Schema{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		s.add(c)
	}
	return s
}

func (s *Schema) add(column string) bool {
	if _, ok := s.index[column]; ok {
		return false
	}
	s.index[column] = len(s.columns)
	s.columns = append(s.columns, column)
	return true
}

// Columns returns a copy of the column names in order.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Has reports whether column is part of the schema.
func (s *Schema) Has(column string) bool {
	_, ok := s.index[column]
	return ok
}

// Index returns the position of column.
func (s *Schema) Index(column string) (int, bool) {
	i, ok := s.index[column]
	return i, ok
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Missing returns the subset of columns not yet in the schema, in the order given.
func (s *Schema) Missing(columns ...string) []string {
	var out []string
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if !s.Has(c) && !seen[c] {
			out = append(out, c)
			seen[c] = true
		}
	}
	return out
}
