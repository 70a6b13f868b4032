package inventory

import "strings"

// Table is an ordered sequence of rows sharing one header.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// Row is one data row of a Table. Line is the 1-based line (or sheet row)
// the values came from; the header occupies line 1.
type Row struct {
	Line  int
	cells []string
	table *Table
}

// NewTable builds a Table from a header and raw data rows. Header names are
// trimmed; a repeated header keeps its first position. Rows that are entirely
// blank are dropped. firstLine is the line number of records[0].
func NewTable(header []string, records [][]string, firstLine int) *Table {
	return buildTable(header, records, func(i int) int { return firstLine + i })
}

func buildTable(header []string, records [][]string, lineOf func(i int) int) *Table {
	t := &Table{
		Columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		t.Columns[i] = name
		if name == "" {
			continue
		}
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}

	t.Rows = make([]Row, 0, len(records))
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, Row{
			Line:  lineOf(i),
			cells: rec,
			table: t,
		})
	}
	return t
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Get returns the value of the named column. The boolean is false when the
// table has no such column or the row is too short to carry a cell for it.
// An empty cell present in the row returns ("", true).
func (r Row) Get(column string) (string, bool) {
	if r.table == nil {
		return "", false
	}
	i, ok := r.table.index[column]
	if !ok || i >= len(r.cells) {
		return "", false
	}
	return r.cells[i], true
}

// Values returns the row as a column-name keyed map, for logging and tests.
func (r Row) Values() map[string]string {
	out := make(map[string]string, len(r.cells))
	if r.table == nil {
		return out
	}
	for name, i := range r.table.index {
		if i < len(r.cells) {
			out[name] = r.cells[i]
		}
	}
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
