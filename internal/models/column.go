package models

// RowID identifies a data row of a statement: its 0-based position among
// the data rows, with the header row excluded. It is assigned once at
// tokenization and carried unchanged through classification and assembly.
type RowID int

// Cell is one raw field of a statement together with the row it came from.
type Cell struct {
	Row   RowID  `json:"row" yaml:"row"`
	Value string `json:"value" yaml:"value"`
}

// RawColumn is the column-major view of one field position of a statement.
// Cells are in row order; a row too short to reach Index has no cell here.
type RawColumn struct {
	Index int    `json:"index" yaml:"index"`
	Cells []Cell `json:"cells" yaml:"cells"`
}

// Values returns the cell texts in row order.
func (c RawColumn) Values() []string {
	out := make([]string, len(c.Cells))
	for i, cell := range c.Cells {
		out[i] = cell.Value
	}
	return out
}

// IsBlank reports whether every cell of the column is empty.
func (c RawColumn) IsBlank() bool {
	for _, cell := range c.Cells {
		if cell.Value != "" {
			return false
		}
	}
	return true
}

// Table is the tokenized form of a statement.
type Table struct {
	// Headers maps field index to its normalized header text.
	Headers map[int]string `json:"headers" yaml:"headers"`
	// Columns holds the non-blank columns ordered by Index.
	Columns []RawColumn `json:"columns" yaml:"columns"`
	// RowCount is the number of data rows split from the text.
	RowCount int `json:"row_count" yaml:"row_count"`
}

// Column returns the column with the given field index.
func (t Table) Column(index int) (RawColumn, bool) {
	for _, c := range t.Columns {
		if c.Index == index {
			return c, true
		}
	}
	return RawColumn{}, false
}

// Header returns the header for the given field index, or "" when the
// statement had no header row.
func (t Table) Header(index int) string {
	return t.Headers[index]
}
