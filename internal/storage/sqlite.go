package storage

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/teamgraph/internal/errors"
)

// SQLiteStore implements storage using SQLite (for local use)
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore creates a new SQLite storage. ":memory:" opens a private
// in-memory database.
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "create database directory").
				WithContext("path", path)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "connect to sqlite").
			WithContext("path", path)
	}
	// one connection keeps :memory: databases shared across queries
	db.SetMaxOpenConns(1)

	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{sqlStore{
		db:         db,
		logger:     logger,
		encodeInts: jsonInts,
	}}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "init sqlite schema")
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		roster_digest TEXT NOT NULL,
		reference DATETIME NOT NULL,
		windows TEXT NOT NULL,
		trend_months INTEGER NOT NULL,
		contributors INTEGER NOT NULL,
		projects INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		window_days INTEGER NOT NULL,
		offset_months INTEGER NOT NULL,
		reference DATETIME NOT NULL,
		mean REAL NOT NULL,
		median REAL NOT NULL,
		rank_index INTEGER NOT NULL,
		distribution TEXT NOT NULL,
		PRIMARY KEY (run_id, kind, window_days, offset_months),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}
