package db

import (
	"context"
	"fmt"
	"time"

	"battle-features/internal/table"

	json "github.com/goccy/go-json"
)

const batchSize = 100

// Run describes one extraction run
type Run struct {
	ID        string
	Preset    string
	Rows      int
	Columns   int
	CreatedAt time.Time
}

// Row is one battle's feature vector as stored by a sink
type Row struct {
	BattleID  string
	PlayerWon *int
	Features  []byte // JSON object over every table column
}

// Sink persists extraction runs
type Sink interface {
	CreateTables(ctx context.Context) error
	SaveRun(ctx context.Context, run Run, rows []Row) error
	Close() error
}

// RowsFromTable converts a materialized table into sink rows. The id and
// outcome come from each row's source record, so an unlabeled battle stores a
// NULL outcome. Rows without a battle id are keyed by their position.
func RowsFromTable(t *table.Table) ([]Row, error) {
	rows := make([]Row, t.Len())
	for i := range t.Rows {
		payload, err := json.Marshal(t.Record(i))
		if err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		row := Row{Features: payload}

		src := t.Source(i)
		if src == nil {
			src = t.Record(i)
		}
		if id, ok := src.Get("battle_id"); ok {
			row.BattleID = id.String()
		}
		if row.BattleID == "" {
			row.BattleID = fmt.Sprintf("_row_%06d", i)
		}
		if v, ok := src.Get("player_won"); ok {
			won := int(v.Float())
			row.PlayerWon = &won
		}
		rows[i] = row
	}
	return rows, nil
}

func chunks(n int, fn func(start, end int) error) error {
	for i := 0; i < n; i += batchSize {
		if err := fn(i, min(i+batchSize, n)); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Sink = (*SQLStore)(nil)
	_ Sink = (*PostgresStore)(nil)
)
