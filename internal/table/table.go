package table

import (
	"fmt"
	"slices"
)

// Row maps column name to cell value. Cells never hold anything other than
// the literal string read from (or destined for) a CSV field.
type Row map[string]string

// Table is an ordered header plus zero or more rows.
//
// Invariants (enforced by New and AppendRow):
//   - Columns contains no duplicate entries (case-sensitive comparison)
//   - every Row has a value for every column and nothing else
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given header.
// Returns an error if the header contains a duplicate column name.
func New(columns []string) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("duplicate column %q in header", c)
		}
		seen[c] = true
	}
	return &Table{Columns: slices.Clone(columns)}, nil
}

// MustNew is New for statically-known headers. Panics on duplicates.
func MustNew(columns []string) *Table {
	t, err := New(columns)
	if err != nil {
		panic(err)
	}
	return t
}

// AppendRow adds a row, dropping any keys outside the header and filling
// missing columns with the empty string. The stored row is a copy.
func (t *Table) AppendRow(r Row) {
	row := make(Row, len(t.Columns))
	for _, c := range t.Columns {
		row[c] = r[c]
	}
	t.Rows = append(t.Rows, row)
}

// HasColumn reports whether the header contains the exact column name.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Values returns the cells of one column in row order.
func (t *Table) Values(column string) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[column]
	}
	return out
}

// Clone returns a deep copy. Mutating the copy never affects the original.
func (t *Table) Clone() *Table {
	c := &Table{Columns: slices.Clone(t.Columns), Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		row := make(Row, len(r))
		for k, v := range r {
			row[k] = v
		}
		c.Rows[i] = row
	}
	return c
}

// Rename changes a column's name in the header and in every row.
// Renaming a column that does not exist is a no-op; renaming onto an
// existing column is an error because it would merge two columns.
func (t *Table) Rename(from, to string) error {
	if from == to || !t.HasColumn(from) {
		return nil
	}
	if t.HasColumn(to) {
		return fmt.Errorf("cannot rename column %q to %q: target already exists", from, to)
	}
	for i, c := range t.Columns {
		if c == from {
			t.Columns[i] = to
		}
	}
	for _, r := range t.Rows {
		r[to] = r[from]
		delete(r, from)
	}
	return nil
}
