package storage

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/teamgraph/internal/errors"
)

// sqlStore holds the queries shared by the sqlite and postgres stores.
// Queries use ? placeholders and are rebound for the driver.
type sqlStore struct {
	db         *sqlx.DB
	logger     *logrus.Logger
	encodeInts func(IntList) interface{}
}

// SaveRun inserts or replaces a run
func (s *sqlStore) SaveRun(ctx context.Context, run *Run) error {
	query := s.db.Rebind(`
		INSERT INTO runs
		(id, roster_digest, reference, windows, trend_months, contributors, projects, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			roster_digest = excluded.roster_digest,
			reference = excluded.reference,
			windows = excluded.windows,
			trend_months = excluded.trend_months,
			contributors = excluded.contributors,
			projects = excluded.projects,
			created_at = excluded.created_at
	`)
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.RosterDigest, run.Reference, s.encodeInts(run.Windows),
		run.TrendMonths, run.Contributors, run.Projects, run.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "save run").
			WithContext("run_id", run.ID)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":  run.ID,
		"windows": len(run.Windows),
	}).Debug("run saved")
	return nil
}

// GetRun loads one run
func (s *sqlStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	query := s.db.Rebind(`SELECT * FROM runs WHERE id = ?`)

	err := s.db.GetContext(ctx, &run, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "get run").
			WithContext("run_id", id)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *sqlStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	var runs []*Run
	query := `SELECT * FROM runs ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	if err := s.db.SelectContext(ctx, &runs, s.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "list runs")
	}
	return runs, nil
}

// SaveSnapshots replaces the snapshots of a run
func (s *sqlStore) SaveSnapshots(ctx context.Context, runID string, records []SnapshotRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "begin snapshot transaction").
			WithContext("run_id", runID)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM snapshots WHERE run_id = ?`), runID); err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "clear snapshots").
			WithContext("run_id", runID)
	}

	query := s.db.Rebind(`
		INSERT INTO snapshots
		(run_id, kind, window_days, offset_months, reference, mean, median, rank_index, distribution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for _, r := range records {
		_, err := tx.ExecContext(ctx, query,
			runID, r.Kind, r.WindowDays, r.OffsetMonths, r.Reference,
			r.Mean, r.Median, r.RankIndex, s.encodeInts(r.Distribution))
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "save snapshot").
				WithContext("run_id", runID).
				WithContext("kind", r.Kind).
				WithContext("window_days", r.WindowDays).
				WithContext("offset_months", r.OffsetMonths)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "commit snapshots").
			WithContext("run_id", runID)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":    runID,
		"snapshots": len(records),
	}).Debug("snapshots saved")
	return nil
}

// GetSnapshots loads the snapshots of a run ordered by kind, window and
// offset
func (s *sqlStore) GetSnapshots(ctx context.Context, runID string) ([]SnapshotRecord, error) {
	var records []SnapshotRecord
	query := s.db.Rebind(`
		SELECT * FROM snapshots WHERE run_id = ?
		ORDER BY kind, window_days, offset_months
	`)

	if err := s.db.SelectContext(ctx, &records, query, runID); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityHigh, "get snapshots").
			WithContext("run_id", runID)
	}
	return records, nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}
