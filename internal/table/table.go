package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"battle-features/internal/features"

	json "github.com/goccy/go-json"
)

// Table is a rectangular view over feature records. Columns are the union of
// every record's keys in first-seen order. Missing cells read as 0.
type Table struct {
	Columns []string
	Rows    [][]features.Value
	index   map[string]int
	sources []*features.Record
}

// Materialize aligns records into a shared column space
func Materialize(records []*features.Record) *Table {
	t := &Table{index: make(map[string]int), sources: records}
	for _, rec := range records {
		for _, k := range rec.Keys() {
			if _, ok := t.index[k]; !ok {
				t.index[k] = len(t.Columns)
				t.Columns = append(t.Columns, k)
			}
		}
	}

	t.Rows = make([][]features.Value, len(records))
	for i, rec := range records {
		row := make([]features.Value, len(t.Columns))
		for _, k := range rec.Keys() {
			row[t.index[k]], _ = rec.Get(k)
		}
		t.Rows[i] = row
	}
	return t
}

func (t *Table) Len() int { return len(t.Rows) }

// Column returns the position of a column, or -1
func (t *Table) Column(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Record returns row i as a dense record over every column
func (t *Table) Record(i int) *features.Record {
	rec := features.NewRecord()
	for j, col := range t.Columns {
		rec.Set(col, t.Rows[i][j])
	}
	return rec
}

// Source returns the sparse record row i was built from, or nil
func (t *Table) Source(i int) *features.Record {
	if i >= len(t.sources) {
		return nil
	}
	return t.sources[i]
}

// WriteCSV writes a header row followed by one row per battle.
// Booleans are written as 0/1.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	cells := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, v := range row {
			cells[j] = v.String()
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as an array of objects with every column present
func (t *Table) WriteJSON(w io.Writer) error {
	records := make([]*features.Record, t.Len())
	for i := range t.Rows {
		records[i] = t.Record(i)
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	return nil
}
