package activation

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"mixprep/internal/failure"
	"mixprep/internal/fileutil"
)

// TimeColumn is the mandatory first-class column of every activation table.
const TimeColumn = "time"

const component = "activation"

// Table is an activation confidence table. Cells are kept as the exact text
// read from disk so filtering never reformats values.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Read loads a comma-separated activation table with a header row.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.MissingFile(component, "activation file not found", path)
		}
		return nil, fmt.Errorf("read activation %s: %w", path, err)
	}
	table, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Parse decodes an activation table and checks that it has a time column.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, failure.Wrap(failure.ErrSchema, component, "parse", "missing header row", nil)
		}
		return nil, failure.Wrap(failure.ErrSchema, component, "parse", "header", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	if !slices.Contains(header, TimeColumn) {
		return nil, failure.Wrap(failure.ErrSchema, component, "parse", "'time' column not found", nil)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, failure.Wrap(failure.ErrSchema, component, "parse", "rows", err)
	}
	return &Table{Columns: header, Rows: rows}, nil
}

// Filter returns a new table holding the time column followed by every column
// named in keep, in source column order. Rows keep their order and text.
func (t *Table) Filter(keep []string) *Table {
	wanted := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		wanted[id] = struct{}{}
	}
	timeIdx := slices.Index(t.Columns, TimeColumn)
	indexes := []int{timeIdx}
	for i, col := range t.Columns {
		if i == timeIdx {
			continue
		}
		if _, ok := wanted[col]; ok {
			indexes = append(indexes, i)
		}
	}

	out := &Table{
		Columns: make([]string, len(indexes)),
		Rows:    make([][]string, len(t.Rows)),
	}
	for j, idx := range indexes {
		out.Columns[j] = t.Columns[idx]
	}
	for r, row := range t.Rows {
		projected := make([]string, len(indexes))
		for j, idx := range indexes {
			if idx < len(row) {
				projected[j] = row[idx]
			}
		}
		out.Rows[r] = projected
	}
	return out
}

// Column returns the cells of the named column, or false when absent.
func (t *Table) Column(name string) ([]string, bool) {
	idx := slices.Index(t.Columns, name)
	if idx < 0 {
		return nil, false
	}
	cells := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if idx < len(row) {
			cells[r] = row[idx]
		}
	}
	return cells, true
}

// Encode writes the table as CSV with a header row.
func (t *Table) Encode(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// Write saves the table to path through a temporary file.
func (t *Table) Write(path string) error {
	if err := fileutil.WriteAtomicFunc(path, 0o644, t.Encode); err != nil {
		return fmt.Errorf("write activation %s: %w", path, err)
	}
	return nil
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
