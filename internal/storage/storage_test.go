package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/teamgraph/internal/errors"
	"github.com/rohankatakam/teamgraph/internal/metrics"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleRun(t *testing.T, created time.Time) (*Run, []SnapshotRecord) {
	t.Helper()
	ref := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	run := NewRun("digest-1", ref, []int{30, 90}, 24, 12, 4)
	run.CreatedAt = created

	records := []SnapshotRecord{
		SnapshotRecordFrom(run.ID, 0, metrics.NewSnapshot(metrics.KindConnections, 30, ref, []int{2, 1, 1})),
		SnapshotRecordFrom(run.ID, 0, metrics.NewSnapshot(metrics.KindProjects, 30, ref, []int{2, 2, 1})),
		SnapshotRecordFrom(run.ID, 1, metrics.NewSnapshot(metrics.KindConnections, 30, ref.AddDate(0, -1, 0), nil)),
	}
	return run, records
}

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()
	created := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)
	run, records := sampleRun(t, created)

	require.NoError(t, store.SaveRun(ctx, run))
	require.NoError(t, store.SaveSnapshots(ctx, run.ID, records))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "digest-1", got.RosterDigest)
	assert.Equal(t, IntList{30, 90}, got.Windows)
	assert.True(t, run.Reference.Equal(got.Reference), "reference %v", got.Reference)
	assert.True(t, created.Equal(got.CreatedAt), "created %v", got.CreatedAt)

	snapshots, err := store.GetSnapshots(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, "C", snapshots[0].Kind)
	assert.Equal(t, 0, snapshots[0].OffsetMonths)
	assert.Equal(t, IntList{2, 1, 1}, snapshots[0].Distribution)
	assert.Equal(t, 1, snapshots[0].RankIndex)
	assert.Equal(t, 1, snapshots[1].OffsetMonths)
	assert.Empty(t, snapshots[1].Distribution)
	assert.Equal(t, "P", snapshots[2].Kind)
	assert.Equal(t, 2.0, snapshots[2].Median)

	// saving again replaces rather than duplicates
	require.NoError(t, store.SaveSnapshots(ctx, run.ID, records[:1]))
	snapshots, err = store.GetSnapshots(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)

	later, _ := sampleRun(t, created.Add(time.Hour))
	require.NoError(t, store.SaveRun(ctx, later))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, later.ID, runs[0].ID)

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(":memory:", quietLogger())
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "teamgraph.db")
	store, err := Open(Options{Type: "sqlite", LocalPath: path}, quietLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEAMGRAPH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEAMGRAPH_TEST_POSTGRES_DSN not set, skipping postgres integration test")
	}

	store, err := NewPostgresStore(dsn, quietLogger())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec(`DELETE FROM snapshots; DELETE FROM runs;`)
	require.NoError(t, err)

	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	_, err := Open(Options{Type: "none"}, quietLogger())
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = Open(Options{Type: "cassandra"}, quietLogger())
	assert.ErrorIs(t, err, errors.New(errors.ErrorTypeConfig, errors.SeverityLow, ""))
}

func TestSQLiteStore_FailuresAreStorageErrors(t *testing.T) {
	storageErr := errors.New(errors.ErrorTypeStorage, errors.SeverityLow, "")
	ctx := context.Background()
	run, records := sampleRun(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))

	t.Run("unknown run", func(t *testing.T) {
		store, err := NewSQLiteStore(":memory:", quietLogger())
		require.NoError(t, err)
		defer store.Close()

		err = store.SaveSnapshots(ctx, run.ID, records)
		require.Error(t, err)
		assert.ErrorIs(t, err, storageErr)

		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, run.ID, e.Context["run_id"])
	})

	store, err := NewSQLiteStore(":memory:", quietLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	tests := []struct {
		name string
		call func() error
	}{
		{"save run", func() error { return store.SaveRun(ctx, run) }},
		{"get run", func() error { _, err := store.GetRun(ctx, run.ID); return err }},
		{"list runs", func() error { _, err := store.ListRuns(ctx, 0); return err }},
		{"save snapshots", func() error { return store.SaveSnapshots(ctx, run.ID, records) }},
		{"get snapshots", func() error { _, err := store.GetSnapshots(ctx, run.ID); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name+" after close", func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, storageErr)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestIntList_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want IntList
	}{
		{"json bytes", []byte("[3,2,1]"), IntList{3, 2, 1}},
		{"json string", "[]", IntList{}},
		{"postgres array", "{5,4,4}", IntList{5, 4, 4}},
		{"empty postgres array", []byte("{}"), IntList{}},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l IntList
			require.NoError(t, l.Scan(tt.src))
			assert.Equal(t, tt.want, l)
		})
	}

	var l IntList
	assert.Error(t, l.Scan(42))
}

func TestRunCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "runs.db")
	cache, err := OpenRunCache(path, quietLogger())
	require.NoError(t, err)
	defer cache.Close()

	type entry struct {
		Windows []int  `json:"windows"`
		Label   string `json:"label"`
	}

	key := CacheKey("digest", "2024-06-01", "30,90")
	assert.Equal(t, "digest|2024-06-01|30,90", key)

	var got entry
	found, err := cache.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Put(key, entry{Windows: []int{30, 90}, Label: "x"}))

	found, err = cache.Get(key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Windows: []int{30, 90}, Label: "x"}, got)

	require.NoError(t, cache.Put("bad", "not an entry"))
	_, err = cache.Get("bad", &got)
	assert.ErrorIs(t, err, errors.New(errors.ErrorTypeStorage, errors.SeverityLow, ""))
}
