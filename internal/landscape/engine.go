package landscape

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rohankatakam/teamgraph/internal/graph"
	"github.com/rohankatakam/teamgraph/internal/metrics"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

// Options tunes an Engine. Zero values pick defaults.
type Options struct {
	// Parallelism bounds concurrent window computations (default GOMAXPROCS)
	Parallelism int
	// CacheSize is the number of memoised window results (default 256)
	CacheSize int
	// RookieDays overrides roster.RookieDays
	RookieDays int
}

// Engine derives relationship analytics from one immutable roster. All
// methods are safe for concurrent use; results are shared and must be
// treated as read-only.
type Engine struct {
	roster *roster.Roster
	opts   Options
	cache  *lru.Cache[windowKey, *WindowResult]
	logger *slog.Logger
}

type windowKey struct {
	reference string
	days      int
}

// NewEngine creates an engine over r
func NewEngine(r *roster.Roster, opts Options) (*Engine, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.RookieDays <= 0 {
		opts.RookieDays = roster.RookieDays
	}

	cache, err := lru.New[windowKey, *WindowResult](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create window cache: %w", err)
	}

	return &Engine{
		roster: r,
		opts:   opts,
		cache:  cache,
		logger: slog.Default().With("component", "landscape"),
	}, nil
}

// Roster returns the roster the engine analyses
func (e *Engine) Roster() *roster.Roster {
	return e.roster
}

// RunWindow builds the active graph for [ref-days, ref], derives both
// dependency projections and summarises them. Results are memoised per
// (calendar day, days); memoisation never changes the outcome.
func (e *Engine) RunWindow(ref time.Time, days int) *WindowResult {
	w := roster.NewWindow(ref, days)
	key := windowKey{reference: temporal.FormatDay(w.Reference), days: days}
	if res, ok := e.cache.Get(key); ok {
		return res
	}

	res := e.computeWindow(w)
	e.cache.Add(key, res)
	return res
}

func (e *Engine) computeWindow(w roster.Window) *WindowResult {
	g := graph.Build(e.roster, w)
	contributorEdges := graph.DeriveContributorEdges(g)
	projectEdges := graph.DeriveProjectEdges(g)

	// counts come from the full edge set, before any display truncation
	degrees := graph.Degrees(contributorEdges)

	stats := make([]ContributorStats, 0, g.Len())
	connections := make([]int, 0, g.Len())
	projects := make([]int, 0, g.Len())
	for _, id := range g.Contributors() {
		cs := ContributorStats{
			ID:          id,
			Projects:    g.ProjectCount(id),
			Connections: degrees[id],
		}
		if c, ok := e.roster.Lookup(id); ok {
			cs.CommitDays = c.CommitDaysIn(w)
			cs.Rookie = c.IsRookieWithin(w.Reference, e.opts.RookieDays)
		}
		stats = append(stats, cs)
		connections = append(connections, cs.Connections)
		projects = append(projects, cs.Projects)
	}
	sortByConnections(stats)

	projectDegrees := graph.Degrees(projectEdges)
	activeProjects := g.ActiveProjects()
	projectStats := make([]ProjectStats, 0, len(activeProjects))
	for _, p := range activeProjects {
		projectStats = append(projectStats, ProjectStats{
			Project:      p,
			Contributors: len(g.Members(p)),
			Connections:  projectDegrees[p],
		})
	}
	sort.SliceStable(projectStats, func(i, j int) bool {
		return projectStats[i].Contributors > projectStats[j].Contributors
	})

	res := &WindowResult{
		Reference:          w.Reference,
		WindowDays:         w.Days,
		ActiveContributors: g.Len(),
		ActiveProjects:     len(activeProjects),
		ContributorEdges:   contributorEdges,
		ProjectEdges:       projectEdges,
		Connections:        metrics.NewSnapshot(metrics.KindConnections, w.Days, w.Reference, connections),
		Projects:           metrics.NewSnapshot(metrics.KindProjects, w.Days, w.Reference, projects),
		Contributors:       stats,
		ProjectActivity:    projectStats,
	}

	e.logger.Debug("window computed",
		"reference", temporal.FormatDay(w.Reference),
		"window_days", w.Days,
		"active_contributors", res.ActiveContributors,
		"active_projects", res.ActiveProjects,
		"contributor_edges", len(contributorEdges),
		"project_edges", len(projectEdges))

	return res
}

// RunWindows evaluates several window lengths concurrently. Results are in
// the order of days.
func (e *Engine) RunWindows(ctx context.Context, ref time.Time, days []int) ([]*WindowResult, error) {
	results := make([]*WindowResult, len(days))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Parallelism)
	for i, d := range days {
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.RunWindow(ref, d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run windows: %w", err)
	}
	return results, nil
}

// BuildTrend recomputes the window of the given length at ref, one month
// earlier, and so on for months entries, most recent first. Every entry is
// computed from scratch; months before any activity yield zero snapshots,
// so the series always has exactly months entries.
func (e *Engine) BuildTrend(ctx context.Context, ref time.Time, days, months int) (*Trend, error) {
	if months < 0 {
		months = 0
	}
	start := time.Now()

	t := &Trend{
		WindowDays:  days,
		References:  make([]time.Time, months),
		Connections: make([]metrics.Snapshot, months),
		Projects:    make([]metrics.Snapshot, months),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Parallelism)
	for k := 0; k < months; k++ {
		k := k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := e.RunWindow(temporal.ShiftMonths(ref, k), days)
			t.References[k] = res.Reference
			t.Connections[k] = res.Connections
			t.Projects[k] = res.Projects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build trend for %s: %w", WindowLabel(days), err)
	}

	e.logger.Info("trend built",
		"window_days", days,
		"months", months,
		"duration", time.Since(start))

	return t, nil
}

// Request describes one full analytics run
type Request struct {
	// Reference defaults to the roster's latest commit date
	Reference time.Time
	// Windows defaults to DefaultWindows
	Windows []int
	// TrendWindows are the window lengths that get a trend series
	TrendWindows []int
	// TrendMonths defaults to DefaultTrendMonths; negative disables trends
	TrendMonths int
}

// Analyze runs every requested window and trend concurrently and assembles
// a report
func (e *Engine) Analyze(ctx context.Context, req Request) (*Report, error) {
	ref := req.Reference
	if ref.IsZero() {
		ref = e.roster.LatestCommitDate()
	}
	ref = temporal.Truncate(ref)
	windows := req.Windows
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	months := req.TrendMonths
	if months == 0 {
		months = DefaultTrendMonths
	}
	var trendWindows []int
	if months > 0 {
		trendWindows = req.TrendWindows
	}

	report := &Report{
		Reference: ref,
		Windows:   make([]*WindowResult, len(windows)),
		Trends:    make([]*Trend, len(trendWindows)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results, err := e.RunWindows(gctx, ref, windows)
		if err != nil {
			return err
		}
		copy(report.Windows, results)
		return nil
	})
	for i, d := range trendWindows {
		i, d := i, d
		g.Go(func() error {
			trend, err := e.BuildTrend(gctx, ref, d, months)
			if err != nil {
				return err
			}
			report.Trends[i] = trend
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Summary = e.Summarize(ref)
	return report, nil
}

// Summarize computes the headline counts at ref
func (e *Engine) Summarize(ref time.Time) Summary {
	recent := e.RunWindow(ref, 30)
	rookies := 0
	for _, c := range recent.Contributors {
		if c.Rookie {
			rookies++
		}
	}
	return Summary{
		LatestCommitDate:    e.roster.LatestCommitDate(),
		Contributors:        e.roster.Len(),
		Projects:            len(e.roster.Projects()),
		RecentContributors:  recent.ActiveContributors,
		Contributors3Months: e.RunWindow(ref, 90).ActiveContributors,
		Contributors6Months: e.RunWindow(ref, 180).ActiveContributors,
		ActiveRookies:       rookies,
	}
}

func sortByConnections(stats []ContributorStats) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Connections != stats[j].Connections {
			return stats[i].Connections > stats[j].Connections
		}
		if stats[i].Projects != stats[j].Projects {
			return stats[i].Projects > stats[j].Projects
		}
		return stats[i].ID < stats[j].ID
	})
}
