package models

// RowSet is the tabular structure handed back by the query layer: named
// columns matching the source view's projection plus positional row values.
// It is the unit stored in the query cache, so it must survive a JSON
// round-trip (numeric values may come back as float64 after one).
type RowSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (rs *RowSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// ColumnIndex returns the position of a named column, or -1.
func (rs *RowSet) ColumnIndex(name string) int {
	if rs == nil {
		return -1
	}
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// DropColumn returns a copy of the row set without the named column.
// Used to strip internal ordering/counting columns before rows leave
// the query layer.
func (rs *RowSet) DropColumn(name string) *RowSet {
	idx := rs.ColumnIndex(name)
	if idx < 0 {
		return rs
	}
	out := &RowSet{Columns: make([]string, 0, len(rs.Columns)-1)}
	out.Columns = append(out.Columns, rs.Columns[:idx]...)
	out.Columns = append(out.Columns, rs.Columns[idx+1:]...)
	out.Rows = make([][]any, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		if idx >= len(row) {
			out.Rows = append(out.Rows, row)
			continue
		}
		trimmed := make([]any, 0, len(row)-1)
		trimmed = append(trimmed, row[:idx]...)
		trimmed = append(trimmed, row[idx+1:]...)
		out.Rows = append(out.Rows, trimmed)
	}
	return out
}
