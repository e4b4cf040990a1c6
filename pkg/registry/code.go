package registry

import (
	"strconv"
	"strings"
)

// NormalizeCode canonicalizes a stable code for comparison. Surrounding
// whitespace is ignored and integer codes compare by value, so "0100",
// " 100" and "100" are the same code. The second result is false for empty
// or non-integer codes; those are returned trimmed and never match an
// integer code from a provider.
func NormalizeCode(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s, false
	}
	return strconv.FormatInt(n, 10), true
}

// CodeIndex maps normalized stable codes to row positions.
type CodeIndex struct {
	positions map[string]int

	// Unmatchable lists the raw, non-empty codes that are not integers.
	Unmatchable []string
}

// IndexByCode builds a CodeIndex over the table's current rows. When two
// rows normalize to the same code the first one wins.
func (t *Table) IndexByCode() *CodeIndex {
	idx := &CodeIndex{positions: make(map[string]int, len(t.rows))}
	for i, row := range t.rows {
		raw := row.Code()
		code, ok := NormalizeCode(raw)
		if !ok {
			if code != "" {
				idx.Unmatchable = append(idx.Unmatchable, raw)
			}
			continue
		}
		if _, dup := idx.positions[code]; !dup {
			idx.positions[code] = i
		}
	}
	return idx
}

// Lookup returns the row position for an integer stable code.
func (idx *CodeIndex) Lookup(code int64) (int, bool) {
	i, ok := idx.positions[strconv.FormatInt(code, 10)]
	return i, ok
}

// Put records the position of a newly appended row.
func (idx *CodeIndex) Put(code int64, position int) {
	idx.positions[strconv.FormatInt(code, 10)] = position
}

// Len returns the number of indexed codes.
func (idx *CodeIndex) Len() int {
	return len(idx.positions)
}
