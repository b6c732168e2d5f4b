// Package table is a small typed, column-oriented table used by the export
// bridge. Columns hold int64, float64, string or bool values, with nil as a
// null.
package table

import (
	"errors"
	"fmt"
)

// Type is the semantic type of a column.
type Type int

// Column types.
const (
	String Type = iota
	Int
	Float
	Bool
)

// String returns the type descriptor written to export sidecars.
func (t Type) String() string {
	switch t {
	case Int:
		return "int64"
	case Float:
		return "float64"
	case Bool:
		return "bool"
	default:
		return "string"
	}
}

// Column is a named, typed sequence of values. A nil value is a null.
type Column struct {
	Name   string
	Type   Type
	Values []any
}

// Table is an immutable ordered set of equal-length columns.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// ErrShape is returned when columns do not form a valid table.
var ErrShape = errors.New("invalid table shape")

// New builds a table from columns. Columns must have unique names, equal
// lengths, and values matching their declared type.
func New(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrShape, i)
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrShape, col.Name)
		}
		if i > 0 && len(col.Values) != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrShape, col.Name, len(col.Values), t.rows)
		}
		if err := checkValues(col); err != nil {
			return nil, err
		}
		t.rows = len(col.Values)
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// checkValues verifies every non-nil value has the column's Go type.
func checkValues(col Column) error {
	for row, value := range col.Values {
		if value == nil {
			continue
		}
		ok := false
		switch col.Type {
		case Int:
			_, ok = value.(int64)
		case Float:
			_, ok = value.(float64)
		case Bool:
			_, ok = value.(bool)
		case String:
			_, ok = value.(string)
		}
		if !ok {
			return fmt.Errorf("%w: column %q row %d holds %T, want %s", ErrShape, col.Name, row, value, col.Type)
		}
	}
	return nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return t.rows
}

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []Column {
	return t.columns
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether a column called name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the column called name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Value returns the value at row in column name; nil for nulls.
func (t *Table) Value(row int, name string) (any, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	if row < 0 || row >= t.rows {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, t.rows)
	}
	return col.Values[row], nil
}

// WithColumnAt returns a new table with col inserted at position i.
// The receiver is left unchanged.
func (t *Table) WithColumnAt(i int, col Column) (*Table, error) {
	if i < 0 || i > len(t.columns) {
		return nil, fmt.Errorf("%w: column position %d out of range", ErrShape, i)
	}
	columns := make([]Column, 0, len(t.columns)+1)
	columns = append(columns, t.columns[:i]...)
	columns = append(columns, col)
	columns = append(columns, t.columns[i:]...)
	return New(columns...)
}

// Sequence returns an Int column holding 0..n-1.
func Sequence(name string, n int) Column {
	values := make([]any, n)
	for i := range n {
		values[i] = int64(i)
	}
	return Column{Name: name, Type: Int, Values: values}
}
