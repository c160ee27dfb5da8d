package storage

import (
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/teamgraph/internal/errors"
)

// PostgresStore implements storage using PostgreSQL
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore creates a new PostgreSQL storage
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "connect to postgres")
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{sqlStore{
		db:         db,
		logger:     logger,
		encodeInts: pgInts,
	}}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "init postgres schema")
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		roster_digest TEXT NOT NULL,
		reference DATE NOT NULL,
		windows INTEGER[] NOT NULL,
		trend_months INTEGER NOT NULL,
		contributors INTEGER NOT NULL,
		projects INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		window_days INTEGER NOT NULL,
		offset_months INTEGER NOT NULL,
		reference DATE NOT NULL,
		mean DOUBLE PRECISION NOT NULL,
		median DOUBLE PRECISION NOT NULL,
		rank_index INTEGER NOT NULL,
		distribution INTEGER[] NOT NULL,
		PRIMARY KEY (run_id, kind, window_days, offset_months)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}
