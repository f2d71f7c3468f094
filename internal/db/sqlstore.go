package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// SQLStore is a feature sink over database/sql. It serves a local SQLite file
// (driver "sqlite") and Turso (driver "libsql").
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLite opens or creates a local SQLite database
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	return newSQLStore(db, "sqlite")
}

// OpenTurso connects to a Turso database
func OpenTurso(url, authToken string) (*SQLStore, error) {
	connStr := url
	if authToken != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Turso: %w", err)
	}
	return newSQLStore(db, "libsql")
}

func newSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// CreateTables creates the run and row tables if they don't exist
func (s *SQLStore) CreateTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS feature_runs (
			run_id TEXT PRIMARY KEY,
			preset TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			column_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS feature_rows (
			run_id TEXT NOT NULL,
			battle_id TEXT NOT NULL,
			player_won INTEGER,
			features TEXT NOT NULL,
			PRIMARY KEY (run_id, battle_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feature_rows_battle ON feature_rows(battle_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// SaveRun records the run, then inserts rows in transactional batches of 100
func (s *SQLStore) SaveRun(ctx context.Context, run Run, rows []Row) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO feature_runs (run_id, preset, row_count, column_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Preset, run.Rows, run.Columns, run.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	return chunks(len(rows), func(start, end int) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO feature_rows (run_id, battle_id, player_won, features) VALUES (?, ?, ?, ?)`)
		if err != nil {
			tx.Rollback()
			return err
		}

		for _, r := range rows[start:end] {
			if _, err := stmt.ExecContext(ctx, run.ID, r.BattleID, r.PlayerWon, string(r.Features)); err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("failed to insert battle %s: %w", r.BattleID, err)
			}
		}

		stmt.Close()
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit batch: %w", err)
		}
		return nil
	})
}

// LatestRun returns the most recent run, or nil when none exist
func (s *SQLStore) LatestRun(ctx context.Context) (*Run, error) {
	var (
		run     Run
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, preset, row_count, column_count, created_at FROM feature_runs ORDER BY created_at DESC, run_id DESC LIMIT 1`,
	).Scan(&run.ID, &run.Preset, &run.Rows, &run.Columns, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &run, nil
}

// RowCount returns the number of stored rows for a run
func (s *SQLStore) RowCount(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feature_rows WHERE run_id = ?`, runID).Scan(&count)
	return count, err
}

// Features returns the stored feature JSON for one battle of a run
func (s *SQLStore) Features(ctx context.Context, runID, battleID string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT features FROM feature_rows WHERE run_id = ? AND battle_id = ?`, runID, battleID).Scan(&payload)
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}
