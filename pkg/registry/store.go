// Package registry implements the tabular player registry: an ordered,
// append-only column schema and one row per player, persisted as a
// human-editable CSV file that is read fully and rewritten wholesale.
package registry

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
)

const utf8BOM = "\ufeff"

// Load reads the registry at path. A missing or unreadable file, a file
// without data rows, a malformed file or duplicate stable codes all fail
// with a StorageError; none of them is treated as an empty registry.
func Load(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // registry path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewStorageError("load", path, stderrors.Join(errors.ErrNotFound, err))
		}
		return nil, errors.NewStorageError("load", path, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, path)
}

// Parse reads a registry from r. name is used in error messages.
func Parse(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if stderrors.As(err, &perr) {
			return nil, errors.NewStorageError("load", name, &errors.ParseError{
				Format: "csv", File: name, Line: perr.Line, Message: perr.Err.Error(), Err: err,
			})
		}
		return nil, errors.NewStorageError("load", name, err)
	}
	if len(records) < 2 {
		return nil, errors.NewStorageError("load", name, errors.ErrRegistryEmpty)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	table := NewTable(header...)
	if table.schema.Len() != len(header) {
		return nil, errors.NewStorageError("load", name, errors.NewParseError("csv", name, "duplicate column in header", nil))
	}

	seen := make(map[string]int, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		if len(record) > len(header) {
			return nil, errors.NewStorageError("load", name, &errors.ParseError{
				Format: "csv", File: name, Line: line, Message: "row has more fields than the header",
			})
		}
		row := make(Row, len(header))
		for j, column := range header {
			if j < len(record) {
				row[column] = record[j]
			} else {
				row[column] = ""
			}
		}
		if code, ok := NormalizeCode(row.Code()); ok {
			if first, dup := seen[code]; dup {
				return nil, errors.NewStorageError("load", name, &errors.ParseError{
					Format: "csv", File: name, Line: line,
					Message: "stable code " + code + " already used on line " + strconv.Itoa(first),
					Err:     errors.ErrDuplicateCode,
				})
			}
			seen[code] = line
		}
		table.rows = append(table.rows, row)
	}

	return table, nil
}

// Write renders the table as CSV to w using the schema's column order.
func Write(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(t.Records()); err != nil {
		return err
	}
	return writer.Error()
}

// Save replaces the registry at path with the table contents. The data is
// written to a temporary file in the same directory and renamed over path,
// so concurrent readers see either the old or the new file.
func Save(path string, t *Table) error {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return errors.NewStorageError("save", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.NewStorageError("save", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.NewStorageError("save", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.NewStorageError("save", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.NewStorageError("save", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.NewStorageError("save", path, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		cleanup()
		return errors.NewStorageError("save", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.NewStorageError("save", path, err)
	}
	return nil
}
