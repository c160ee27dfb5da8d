package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rohankatakam/teamgraph/internal/metrics"
)

// Common errors
var (
	ErrNotFound = errors.New("not found")
	ErrDisabled = errors.New("storage disabled")
)

// Store persists the derived outputs of analytics runs. Only scalars and
// distributions are stored; edge lists and graphs never are.
type Store interface {
	// Run operations
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// Snapshot operations
	SaveSnapshots(ctx context.Context, runID string, records []SnapshotRecord) error
	GetSnapshots(ctx context.Context, runID string) ([]SnapshotRecord, error)

	// Close connection
	Close() error
}

// Run describes one persisted analytics run
type Run struct {
	ID           string    `db:"id" json:"id" yaml:"id"`
	RosterDigest string    `db:"roster_digest" json:"roster_digest" yaml:"roster_digest"`
	Reference    time.Time `db:"reference" json:"reference" yaml:"reference"`
	Windows      IntList   `db:"windows" json:"windows" yaml:"windows"`
	TrendMonths  int       `db:"trend_months" json:"trend_months" yaml:"trend_months"`
	Contributors int       `db:"contributors" json:"contributors" yaml:"contributors"`
	Projects     int       `db:"projects" json:"projects" yaml:"projects"`
	CreatedAt    time.Time `db:"created_at" json:"created_at" yaml:"created_at"`
}

// NewRun creates a run with a fresh ID
func NewRun(digest string, reference time.Time, windows []int, trendMonths, contributors, projects int) *Run {
	return &Run{
		ID:           uuid.NewString(),
		RosterDigest: digest,
		Reference:    reference,
		Windows:      IntList(windows),
		TrendMonths:  trendMonths,
		Contributors: contributors,
		Projects:     projects,
		CreatedAt:    time.Now().UTC(),
	}
}

// SnapshotRecord is one network index snapshot of a run. OffsetMonths is 0
// for the window results and k for the k-th trend entry.
type SnapshotRecord struct {
	RunID        string    `db:"run_id" json:"run_id" yaml:"run_id"`
	Kind         string    `db:"kind" json:"kind" yaml:"kind"`
	WindowDays   int       `db:"window_days" json:"window_days" yaml:"window_days"`
	OffsetMonths int       `db:"offset_months" json:"offset_months" yaml:"offset_months"`
	Reference    time.Time `db:"reference" json:"reference" yaml:"reference"`
	Mean         float64   `db:"mean" json:"mean" yaml:"mean"`
	Median       float64   `db:"median" json:"median" yaml:"median"`
	RankIndex    int       `db:"rank_index" json:"rank_index" yaml:"rank_index"`
	Distribution IntList   `db:"distribution" json:"distribution" yaml:"distribution"`
}

// SnapshotRecordFrom converts a metrics snapshot
func SnapshotRecordFrom(runID string, offsetMonths int, s metrics.Snapshot) SnapshotRecord {
	return SnapshotRecord{
		RunID:        runID,
		Kind:         string(s.Kind),
		WindowDays:   s.WindowDays,
		OffsetMonths: offsetMonths,
		Reference:    s.Reference,
		Mean:         s.Mean,
		Median:       s.Median,
		RankIndex:    s.RankIndex,
		Distribution: IntList(s.Distribution),
	}
}

// IntList is an integer list column. It is written as JSON text by the
// sqlite store and as INTEGER[] by the postgres store, and scans from both.
type IntList []int

// Scan implements sql.Scanner
func (l *IntList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into IntList", src)
	}

	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		*l = IntList{}
		return nil
	case strings.HasPrefix(raw, "{"):
		var arr pq.Int64Array
		if err := arr.Scan(raw); err != nil {
			return err
		}
		out := make(IntList, len(arr))
		for i, v := range arr {
			out[i] = int(v)
		}
		*l = out
		return nil
	default:
		var out []int
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return fmt.Errorf("decode int list: %w", err)
		}
		*l = out
		return nil
	}
}

// jsonInts encodes a list for a TEXT column
func jsonInts(l IntList) interface{} {
	if l == nil {
		l = IntList{}
	}
	data, _ := json.Marshal([]int(l))
	return string(data)
}

// pgInts encodes a list for an INTEGER[] column
func pgInts(l IntList) interface{} {
	arr := make(pq.Int64Array, len(l))
	for i, v := range l {
		arr[i] = int64(v)
	}
	return arr
}
