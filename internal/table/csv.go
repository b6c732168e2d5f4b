package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes t with a header row. Nulls are written as empty cells.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Names()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	record := make([]string, len(t.columns))
	for row := range t.rows {
		for i, col := range t.columns {
			record[i] = formatCell(col.Values[row])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", row, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// ReadCSV reads a CSV document whose first row is the header. Column types
// are inferred from the non-empty cells: int, then float, then bool, else
// string. Empty cells become nulls.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: CSV has no header row", ErrShape)
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cells := make([][]string, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		for i := range header {
			cells[i] = append(cells[i], record[i])
		}
	}

	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = inferColumn(strings.TrimSpace(name), cells[i])
	}
	return New(columns...)
}

// inferColumn picks the narrowest type that parses every non-empty cell.
func inferColumn(name string, cells []string) Column {
	for _, typ := range []Type{Int, Float, Bool} {
		if values, ok := parseCells(cells, typ); ok {
			return Column{Name: name, Type: typ, Values: values}
		}
	}
	values, _ := parseCells(cells, String)
	return Column{Name: name, Type: String, Values: values}
}

func parseCells(cells []string, typ Type) ([]any, bool) {
	values := make([]any, len(cells))
	seen := false
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		value, ok := parseCell(cell, typ)
		if !ok {
			return nil, false
		}
		values[i] = value
		seen = true
	}
	if !seen && typ != String {
		return nil, false
	}
	return values, true
}

func parseCell(cell string, typ Type) (any, bool) {
	switch typ {
	case Int:
		v, err := strconv.ParseInt(cell, 10, 64)
		return v, err == nil
	case Float:
		v, err := strconv.ParseFloat(cell, 64)
		return v, err == nil
	case Bool:
		switch strings.ToLower(cell) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return nil, false
	default:
		return cell, true
	}
}
