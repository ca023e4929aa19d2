// Package table provides the in-memory tabular data model the pipeline
// transforms: an ordered set of named columns over rows of tagged-variant
// cells (text, number, or missing).
package table

import (
	"fmt"
	"strconv"
)

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	KindMissing CellKind = iota
	KindText
	KindNumber
)

// Cell is a single dynamically-typed scalar value.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
}

// Missing returns the missing-value sentinel cell.
func Missing() Cell { return Cell{Kind: KindMissing} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == KindMissing }

// String renders the cell for display and export. Missing cells render empty.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric value of the cell and whether it is numeric.
func (c Cell) Float() (float64, bool) {
	if c.Kind == KindNumber {
		return c.Num, true
	}
	return 0, false
}

// Table is an ordered collection of named columns over rows of cells.
// Rows are mutable in place during cleaning passes. A Table must not be
// mutated concurrently with an in-flight pass over it.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// New creates an empty table with the given column set.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// AppendRow adds a row, padding or truncating to the column count.
func (t *Table) AppendRow(cells ...Cell) {
	row := make([]Cell, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = Missing()
		}
	}
	t.Rows = append(t.Rows, row)
}

// Cell returns the cell at the given row for the named column.
// Out-of-range or unknown columns yield a missing cell.
func (t *Table) Cell(row int, col string) Cell {
	i := t.ColumnIndex(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return Missing()
	}
	return t.Rows[row][i]
}

// SetCell overwrites the cell at the given row for the named column.
func (t *Table) SetCell(row int, col string, c Cell) {
	i := t.ColumnIndex(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return
	}
	t.Rows[row][i] = c
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) []Cell {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	out := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// AddColumn appends a new column. The cell slice must match the row count.
func (t *Table) AddColumn(name string, cells []Cell) error {
	if t.HasColumn(name) {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(cells) != len(t.Rows) {
		return fmt.Errorf("column %q has %d cells, table has %d rows", name, len(cells), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for r := range t.Rows {
		t.Rows[r] = append(t.Rows[r], cells[r])
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([][]Cell, len(t.Rows))
	for r, row := range t.Rows {
		cp := make([]Cell, len(row))
		copy(cp, row)
		out.Rows[r] = cp
	}
	return out
}

// Select returns a new table containing only the rows for which keep returns
// true, preserving encounter order.
func (t *Table) Select(keep func(row int) bool) *Table {
	out := New(t.Columns...)
	for r := range t.Rows {
		if keep(r) {
			cp := make([]Cell, len(t.Rows[r]))
			copy(cp, t.Rows[r])
			out.Rows = append(out.Rows, cp)
		}
	}
	return out
}

// UniqueStrings returns the distinct rendered values of a column in first
// encounter order, skipping missing cells.
func (t *Table) UniqueStrings(col string) []string {
	i := t.ColumnIndex(col)
	if i < 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.Rows {
		c := row[i]
		if c.IsMissing() {
			continue
		}
		s := c.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
