// Package detable provides parsing for differential expression (DE) results
// tables in CSV or TSV format.
package detable

// Table is a DE results table: named columns and untyped string cells.
// Column names are whatever the input file declared; cells are interpreted
// (as gene identifiers, scores, ...) by the consumer.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Cell returns the value at the given row and column index. Rows shorter
// than the header are treated as having empty trailing cells.
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Column returns all values of the named column in row order, or false if
// the column does not exist.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i := range t.Rows {
		values[i] = t.Cell(i, idx)
	}
	return values, true
}
