package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// parquetReadBatch is the number of rows decoded per ReadRows call.
const parquetReadBatch = 128

// WriteParquet writes t as a single parquet file. Every column is optional so
// nulls survive the round trip. Parquet groups order their fields by name, so
// the written column order is alphabetical rather than t's order.
func WriteParquet(w io.Writer, t *Table) error {
	schema := parquetSchema(t)

	leaves := make([]int, len(t.columns))
	for i, col := range t.columns {
		leaf, ok := schema.Lookup(col.Name)
		if !ok {
			return fmt.Errorf("parquet schema is missing column %q", col.Name)
		}
		leaves[i] = leaf.ColumnIndex
	}

	rows := make([]parquet.Row, t.rows)
	for r := range t.rows {
		row := make(parquet.Row, len(t.columns))
		for i, col := range t.columns {
			row[leaves[i]] = parquetValue(col.Values[r], leaves[i])
		}
		rows[r] = row
	}

	writer := parquet.NewWriter(w, schema)
	if _, err := writer.WriteRows(rows); err != nil {
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return nil
}

func parquetSchema(t *Table) *parquet.Schema {
	group := make(parquet.Group, len(t.columns))
	for _, col := range t.columns {
		group[col.Name] = parquet.Optional(parquetNode(col.Type))
	}
	return parquet.NewSchema("table", group)
}

func parquetNode(typ Type) parquet.Node {
	switch typ {
	case Int:
		return parquet.Int(64)
	case Float:
		return parquet.Leaf(parquet.DoubleType)
	case Bool:
		return parquet.Leaf(parquet.BooleanType)
	default:
		return parquet.String()
	}
}

// parquetValue converts a cell to a leaf value. Optional top-level columns
// have definition level 1 when set and 0 when null.
func parquetValue(value any, column int) parquet.Value {
	var v parquet.Value
	switch x := value.(type) {
	case nil:
		return parquet.NullValue().Level(0, 0, column)
	case int64:
		v = parquet.Int64Value(x)
	case float64:
		v = parquet.DoubleValue(x)
	case bool:
		v = parquet.BooleanValue(x)
	case string:
		v = parquet.ByteArrayValue([]byte(x))
	default:
		v = parquet.ByteArrayValue([]byte(fmt.Sprint(x)))
	}
	return v.Level(0, 1, column)
}

// ReadParquet reads a parquet file written by WriteParquet (or any file with
// flat int64, double, boolean or byte-array columns).
func ReadParquet(r io.ReaderAt, size int64) (*Table, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}

	schema := file.Schema()
	paths := schema.Columns()
	columns := make([]Column, len(paths))
	for i, path := range paths {
		leaf, ok := schema.Lookup(path...)
		if !ok || len(path) != 1 {
			return nil, fmt.Errorf("%w: unsupported parquet column %v", ErrShape, path)
		}
		columns[i] = Column{
			Name:   path[0],
			Type:   typeFromKind(leaf.Node.Type().Kind()),
			Values: make([]any, 0, file.NumRows()),
		}
	}

	for _, group := range file.RowGroups() {
		if err := readRowGroup(group, columns); err != nil {
			return nil, err
		}
	}
	return New(columns...)
}

func readRowGroup(group parquet.RowGroup, columns []Column) error {
	rows := group.Rows()
	defer rows.Close() //nolint:errcheck // read-only row reader

	buf := make([]parquet.Row, parquetReadBatch)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for _, value := range row {
				col := &columns[value.Column()]
				col.Values = append(col.Values, cellFromValue(value, col.Type))
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading parquet rows: %w", err)
		}
	}
}

func typeFromKind(kind parquet.Kind) Type {
	switch kind {
	case parquet.Int32, parquet.Int64:
		return Int
	case parquet.Float, parquet.Double:
		return Float
	case parquet.Boolean:
		return Bool
	default:
		return String
	}
}

func cellFromValue(value parquet.Value, typ Type) any {
	if value.IsNull() {
		return nil
	}
	switch typ {
	case Int:
		if value.Kind() == parquet.Int32 {
			return int64(value.Int32())
		}
		return value.Int64()
	case Float:
		if value.Kind() == parquet.Float {
			return float64(value.Float())
		}
		return value.Double()
	case Bool:
		return value.Boolean()
	default:
		return string(value.ByteArray())
	}
}
