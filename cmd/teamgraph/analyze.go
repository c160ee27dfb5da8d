package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/teamgraph/internal/landscape"
	"github.com/rohankatakam/teamgraph/internal/metrics"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/storage"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

var (
	rosterPath  string
	refFlag     string
	topFlag     int
	windowFlags []int
	monthsFlag  int
	storeFlag   bool
	noCache     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute the relationship landscape of a roster",
	Long: `Run every configured lookback window over a roster and print the
strongest contributor and project connections, the six network indices
(C/P median, mean and index) and per-contributor counts.

Edge lists are truncated to --top for display only; all statistics use
the complete graphs.

Examples:
  teamgraph analyze --roster roster.json
  teamgraph analyze --roster roster.json --ref 2024-06-30 --window 30 --window 365 -o json
  teamgraph analyze --roster roster.json --store`,
	RunE: runAnalyze,
}

func init() {
	addRosterFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&topFlag, "top", -1, "show at most N edges and contributors per window (0 = all, default from config)")
	analyzeCmd.Flags().IntSliceVar(&windowFlags, "window", nil, "lookback window in days (repeatable, default from config)")
	analyzeCmd.Flags().IntVar(&monthsFlag, "months", 0, "trend length in months (0 = config, negative disables trends)")
	analyzeCmd.Flags().BoolVar(&storeFlag, "store", false, "persist the indices and trend series as a new run")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the local run cache")
}

func addRosterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rosterPath, "roster", "", "roster file (.json or .yaml) produced by extract")
	cmd.Flags().StringVar(&refFlag, "ref", "", "reference day YYYY-MM-DD (default: latest commit date)")
	cmd.MarkFlagRequired("roster")
}

// loadRoster reads the roster and resolves the reference date
func loadRoster() (*roster.Roster, time.Time, error) {
	r, err := roster.Load(rosterPath)
	if err != nil {
		return nil, time.Time{}, err
	}

	ref := r.LatestCommitDate()
	if refFlag != "" {
		ref, err = temporal.ParseDay(refFlag)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("invalid --ref: %w", err)
		}
	}

	logger.WithFields(logrus.Fields{
		"roster":       rosterPath,
		"contributors": r.Len(),
		"projects":     len(r.Projects()),
		"reference":    temporal.FormatDay(ref),
	}).Debug("Roster loaded")
	return r, temporal.Truncate(ref), nil
}

func newEngine(r *roster.Roster) (*landscape.Engine, error) {
	return landscape.NewEngine(r, landscape.Options{
		Parallelism: cfg.Analysis.Parallelism,
		CacheSize:   cfg.Analysis.CacheSize,
		RookieDays:  cfg.Analysis.RookieDays,
	})
}

// analysisRequest merges flags over the analysis config
func analysisRequest(ref time.Time) landscape.Request {
	req := landscape.Request{
		Reference:    ref,
		Windows:      cfg.Analysis.Windows,
		TrendWindows: cfg.Analysis.TrendWindows,
		TrendMonths:  cfg.Analysis.TrendMonths,
	}
	if len(windowFlags) > 0 {
		req.Windows = windowFlags
	}
	if monthsFlag != 0 {
		req.TrendMonths = monthsFlag
	}
	return req
}

func displayTopK() int {
	if topFlag >= 0 {
		return topFlag
	}
	return cfg.Analysis.TopK
}

// reportCacheKey identifies a report by roster content, request and the
// configured rookie period
func reportCacheKey(digest string, req landscape.Request) string {
	return storage.CacheKey(
		digest,
		temporal.FormatDay(req.Reference),
		joinInts(req.Windows),
		joinInts(req.TrendWindows),
		strconv.Itoa(req.TrendMonths),
		strconv.Itoa(cfg.Analysis.RookieDays),
	)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	r, ref, err := loadRoster()
	if err != nil {
		return err
	}
	req := analysisRequest(ref)

	report, err := cachedReport(ctx, r, req)
	if err != nil {
		return err
	}

	if storeFlag {
		if err := storeReport(ctx, r.Digest(), req, report); err != nil {
			return err
		}
	}

	formatter, err := selectFormatter(displayTopK())
	if err != nil {
		return err
	}
	return formatter.Report(os.Stdout, report)
}

// cachedReport serves the report from the bbolt run cache when an identical
// request over the same roster was analysed before
func cachedReport(ctx context.Context, r *roster.Roster, req landscape.Request) (*landscape.Report, error) {
	var cache *storage.RunCache
	if !noCache && cfg.Storage.CachePath != "" {
		c, err := storage.OpenRunCache(cfg.Storage.CachePath, logger)
		if err != nil {
			logger.WithError(err).Warn("Run cache unavailable")
		} else {
			cache = c
			defer cache.Close()
		}
	}

	key := reportCacheKey(r.Digest(), req)
	if cache != nil {
		var report landscape.Report
		found, err := cache.Get(key, &report)
		if err != nil {
			logger.WithError(err).Warn("Run cache read failed")
		} else if found {
			logger.WithField("key", key).Debug("Run cache hit")
			return &report, nil
		}
	}

	engine, err := newEngine(r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := engine.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"windows":  len(report.Windows),
		"trends":   len(report.Trends),
		"duration": time.Since(start).String(),
	}).Info("Analysis complete")

	if cache != nil {
		if err := cache.Put(key, report); err != nil {
			logger.WithError(err).Warn("Run cache write failed")
		}
	}
	return report, nil
}

func openStore() (storage.Store, error) {
	return storage.Open(storage.Options{
		Type:        cfg.Storage.Type,
		LocalPath:   cfg.Storage.LocalPath,
		PostgresDSN: cfg.Storage.PostgresDSN,
	}, logger)
}

func storeReport(ctx context.Context, digest string, req landscape.Request, report *landscape.Report) error {
	store, err := openStore()
	if stderrors.Is(err, storage.ErrDisabled) {
		logger.Warn("Storage is disabled (storage.type = none), run not saved")
		return nil
	}
	if err != nil {
		return err
	}
	defer store.Close()

	windows := make([]int, len(report.Windows))
	for i, w := range report.Windows {
		windows[i] = w.WindowDays
	}
	months := 0
	if len(report.Trends) > 0 {
		months = report.Trends[0].Len()
	}

	run := storage.NewRun(digest, report.Reference, windows, months,
		report.Summary.Contributors, report.Summary.Projects)
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}
	if err := store.SaveSnapshots(ctx, run.ID, snapshotRecords(run.ID, report)); err != nil {
		return err
	}

	logger.WithField("run_id", run.ID).Info("Run stored")
	fmt.Fprintf(os.Stderr, "Stored run %s\n", run.ID)
	return nil
}

// snapshotRecords flattens a report into stored snapshots: window results
// at offset 0 and trend entry k at offset k. A trend's first entry equals
// the window result of the same length and is written once.
func snapshotRecords(runID string, report *landscape.Report) []storage.SnapshotRecord {
	type key struct {
		kind   metrics.Kind
		days   int
		offset int
	}
	seen := make(map[key]bool)
	var records []storage.SnapshotRecord

	add := func(offset int, s metrics.Snapshot) {
		k := key{s.Kind, s.WindowDays, offset}
		if seen[k] {
			return
		}
		seen[k] = true
		records = append(records, storage.SnapshotRecordFrom(runID, offset, s))
	}

	for _, w := range report.Windows {
		add(0, w.Connections)
		add(0, w.Projects)
	}
	for _, t := range report.Trends {
		for k := 0; k < t.Len(); k++ {
			add(k, t.Connections[k])
			add(k, t.Projects[k])
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.WindowDays != b.WindowDays {
			return a.WindowDays < b.WindowDays
		}
		if a.OffsetMonths != b.OffsetMonths {
			return a.OffsetMonths < b.OffsetMonths
		}
		return a.Kind < b.Kind
	})
	return records
}
