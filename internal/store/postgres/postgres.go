// Package postgres implements store.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olealberto/msds-460-assignment-two/internal/store"
)

// PGStore implements store.Store using PostgreSQL via pgx.
type PGStore struct {
	db *pgxpool.Pool
}

var _ store.Store = (*PGStore)(nil)

// New creates a new PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Connect opens a pool for url and makes sure the schema exists.
func Connect(ctx context.Context, url string) (*PGStore, func(), error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	s := New(pool)
	if err := s.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create schema: %w", err)
	}
	return s, pool.Close, nil
}

// Save inserts run, replacing an existing run with the same ID.
func (s *PGStore) Save(ctx context.Context, run *store.Run) error {
	if !store.ValidID(run.ID) {
		return fmt.Errorf("save run: invalid id %q", run.ID)
	}
	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	sum := run.Summarize()

	_, err = s.db.Exec(ctx, `
		INSERT INTO critpath_runs (id, network, created_at, scenarios, failed, results)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			network    = EXCLUDED.network,
			created_at = EXCLUDED.created_at,
			scenarios  = EXCLUDED.scenarios,
			failed     = EXCLUDED.failed,
			results    = EXCLUDED.results`,
		run.ID, run.Network, run.CreatedAt, sum.Scenarios, sum.Failed, results,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *PGStore) Get(ctx context.Context, id string) (*store.Run, error) {
	if !store.ValidID(id) {
		return nil, store.ErrNotFound
	}

	var (
		run     store.Run
		results []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, network, created_at, results FROM critpath_runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.Network, &run.CreatedAt, &results)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	if err := json.Unmarshal(results, &run.Results); err != nil {
		return nil, fmt.Errorf("parse run %s: %w", id, err)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return &run, nil
}

// List returns every run summary, newest first.
func (s *PGStore) List(ctx context.Context) ([]store.Summary, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, network, created_at, scenarios, failed FROM critpath_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []store.Summary
	for rows.Next() {
		var sum store.Summary
		if err := rows.Scan(&sum.ID, &sum.Network, &sum.CreatedAt, &sum.Scenarios, &sum.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.CreatedAt = sum.CreatedAt.UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows runs: %w", err)
	}
	return out, nil
}

// Delete removes a run by ID.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	if !store.ValidID(id) {
		return store.ErrNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM critpath_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
