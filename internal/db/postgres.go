package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a feature sink backed by a pgx connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new connection pool and verifies it
func NewPostgres(ctx context.Context, dbURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateTables creates the run and row tables if they don't exist
func (s *PostgresStore) CreateTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS feature_runs (
			run_id TEXT PRIMARY KEY,
			preset TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			column_count INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS feature_rows (
			run_id TEXT NOT NULL REFERENCES feature_runs(run_id) ON DELETE CASCADE,
			battle_id TEXT NOT NULL,
			player_won SMALLINT,
			features JSONB NOT NULL,
			PRIMARY KEY (run_id, battle_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feature_rows_battle ON feature_rows(battle_id)`,
	}

	for _, query := range queries {
		if _, err := s.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// SaveRun records the run and queues rows as pgx batches of 100
func (s *PostgresStore) SaveRun(ctx context.Context, run Run, rows []Row) error {
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO feature_runs (run_id, preset, row_count, column_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id) DO UPDATE SET preset = EXCLUDED.preset, row_count = EXCLUDED.row_count,
			column_count = EXCLUDED.column_count, created_at = EXCLUDED.created_at
	`, run.ID, run.Preset, run.Rows, run.Columns, run.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	return chunks(len(rows), func(start, end int) error {
		batch := &pgx.Batch{}
		for _, r := range rows[start:end] {
			batch.Queue(`
				INSERT INTO feature_rows (run_id, battle_id, player_won, features)
				VALUES ($1, $2, $3, $4::jsonb)
				ON CONFLICT (run_id, battle_id) DO UPDATE SET player_won = EXCLUDED.player_won, features = EXCLUDED.features
			`, run.ID, r.BattleID, r.PlayerWon, string(r.Features))
		}

		br := s.pool.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert battle %s: %w", rows[i].BattleID, err)
			}
		}
		return br.Close()
	})
}

// LatestRun returns the most recent run, or nil when none exist
func (s *PostgresStore) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx, `
		SELECT run_id, preset, row_count, column_count, created_at
		FROM feature_runs
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.Preset, &run.Rows, &run.Columns, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RowCount returns the number of stored rows for a run
func (s *PostgresStore) RowCount(ctx context.Context, runID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feature_rows WHERE run_id = $1`, runID).Scan(&count)
	return count, err
}
