package table

import (
	"fmt"
	"strings"
)

// Column is a named, homogeneous sequence of typed values
type Column struct {
	Name   string  `json:"name"`
	Type   Type    `json:"type"`
	Values []Value `json:"values"`
}

// NullCount returns the number of missing cells in the column
func (c Column) NullCount() int {
	count := 0
	for _, v := range c.Values {
		if v.IsMissing {
			count++
		}
	}
	return count
}

// Floats returns the non-missing numeric content of the column
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Table is an immutable in-memory rectangular dataset. All columns have
// equal length and unique names; transformations produce new tables
// rather than mutating in place.
type Table struct {
	columns []Column
}

// New builds a table after validating the rectangular invariants
func New(columns []Column) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	rows := -1
	for _, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column name cannot be empty")
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		seen[col.Name] = true
		if rows == -1 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d values, expected %d", col.Name, len(col.Values), rows)
		}
	}
	return &Table{columns: columns}, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0].Values)
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// Columns returns the ordered column list
func (t *Table) Columns() []Column {
	return t.columns
}

// ColumnNames returns the ordered column names
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnTypes returns the column name to inferred type mapping
func (t *Table) ColumnTypes() map[string]Type {
	types := make(map[string]Type, len(t.columns))
	for _, col := range t.columns {
		types[col.Name] = col.Type
	}
	return types
}

// NumericColumns returns the columns tagged numeric, in table order
func (t *Table) NumericColumns() []Column {
	var numeric []Column
	for _, col := range t.columns {
		if col.Type == TypeNumeric {
			numeric = append(numeric, col)
		}
	}
	return numeric
}

// Row returns the values of one row across all columns
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, col := range t.columns {
		row[j] = col.Values[i]
	}
	return row
}

// RowFingerprint returns a stable string identity for a row, used for
// value-wise duplicate detection
func (t *Table) RowFingerprint(i int) string {
	parts := make([]string, len(t.columns))
	for j, col := range t.columns {
		parts[j] = col.Values[i].String()
	}
	return strings.Join(parts, "\x1f")
}

// CellCount returns rows x columns
func (t *Table) CellCount() int {
	return t.RowCount() * t.ColumnCount()
}
