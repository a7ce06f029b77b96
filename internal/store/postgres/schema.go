package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS critpath_runs (
    id         TEXT PRIMARY KEY,
    network    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    scenarios  INTEGER NOT NULL DEFAULT 0,
    failed     INTEGER NOT NULL DEFAULT 0,
    results    JSONB NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_critpath_runs_created_at ON critpath_runs(created_at DESC);
`

// CreateSchema creates the critpath_runs table if it doesn't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the critpath_runs table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS critpath_runs CASCADE;`)
	return err
}
