// Package dataset loads simulation output CSV files into tables with named
// columns and derives the percentage columns the figure panels plot.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrNoColumn is returned when a requested column is not in the table.
var ErrNoColumn = errors.New("no such column")

// Table is an in-memory CSV dataset. Cells are kept as text and parsed on
// access, so categorical and numeric columns share one representation.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// Load reads the CSV file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// Read parses comma separated records with optional double quoting. The
// first record is the header; its names are whitespace trimmed.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}

	t := &Table{index: make(map[string]int, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.header = append(t.header, name)
		t.index[name] = i
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// Columns returns the column names in file order, derived columns last.
func (t *Table) Columns() []string {
	return append([]string(nil), t.header...)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Strings returns the trimmed text of every cell in col.
func (t *Table) Strings(col string) ([]string, error) {
	i, ok := t.index[col]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", col, ErrNoColumn)
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = strings.TrimSpace(row[i])
	}
	return out, nil
}

// Floats parses every cell in col as a float64. Empty cells become NaN;
// any other unparsable cell is an error.
func (t *Table) Floats(col string) ([]float64, error) {
	cells, err := t.Strings(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for r, s := range cells {
		if s == "" {
			out[r] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", col, r+1, err)
		}
		out[r] = v
	}
	return out, nil
}

// SetFloats adds col, or replaces it when it already exists.
func (t *Table) SetFloats(col string, vals []float64) error {
	if len(vals) != len(t.rows) {
		return fmt.Errorf("column %q: %d values for %d rows", col, len(vals), len(t.rows))
	}
	i, ok := t.index[col]
	if !ok {
		i = len(t.header)
		t.header = append(t.header, col)
		t.index[col] = i
	}
	for r, v := range vals {
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if i < len(t.rows[r]) {
			t.rows[r][i] = s
			continue
		}
		t.rows[r] = append(t.rows[r], s)
	}
	return nil
}

// FilterIn returns a new table holding only the rows whose col value is one
// of allowed.
func (t *Table) FilterIn(col string, allowed []float64) (*Table, error) {
	vals, err := t.Floats(col)
	if err != nil {
		return nil, err
	}
	keep := make(map[float64]bool, len(allowed))
	for _, v := range allowed {
		keep[v] = true
	}

	out := &Table{
		header: t.Columns(),
		index:  make(map[string]int, len(t.index)),
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	for r, v := range vals {
		if keep[v] {
			out.rows = append(out.rows, append([]string(nil), t.rows[r]...))
		}
	}
	return out, nil
}
