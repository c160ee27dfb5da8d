package landscape

import (
	"fmt"
	"time"

	"github.com/rohankatakam/teamgraph/internal/graph"
	"github.com/rohankatakam/teamgraph/internal/metrics"
	"github.com/rohankatakam/teamgraph/internal/roster"
)

// AllTimeDays is the conventional window length meaning "all history"
const AllTimeDays = 36500

// DefaultWindows are the lookback windows evaluated when none are configured
var DefaultWindows = []int{30, 90, 180, 365, AllTimeDays}

// DefaultTrendMonths is the conventional length of a trend series
const DefaultTrendMonths = 24

// ContributorStats is one contributor's standing within a window
type ContributorStats struct {
	ID          roster.ContributorID `json:"id" yaml:"id"`
	Projects    int                  `json:"projects" yaml:"projects"`
	Connections int                  `json:"connections" yaml:"connections"`
	CommitDays  int                  `json:"commit_days" yaml:"commit_days"`
	Rookie      bool                 `json:"rookie" yaml:"rookie"`
}

// ProjectStats is one project's standing within a window
type ProjectStats struct {
	Project      roster.ProjectID `json:"project" yaml:"project"`
	Contributors int              `json:"contributors" yaml:"contributors"`
	Connections  int              `json:"connections" yaml:"connections"`
}

// WindowResult is everything derived for one lookback window. Edge lists
// are complete; truncation for display happens on top of them.
type WindowResult struct {
	Reference          time.Time               `json:"reference" yaml:"reference"`
	WindowDays         int                     `json:"window_days" yaml:"window_days"`
	ActiveContributors int                     `json:"active_contributors" yaml:"active_contributors"`
	ActiveProjects     int                     `json:"active_projects" yaml:"active_projects"`
	ContributorEdges   []graph.ContributorEdge `json:"contributor_edges" yaml:"contributor_edges"`
	ProjectEdges       []graph.ProjectEdge     `json:"project_edges" yaml:"project_edges"`
	Connections        metrics.Snapshot        `json:"connections" yaml:"connections"`
	Projects           metrics.Snapshot        `json:"projects" yaml:"projects"`
	// Contributors is ordered by connections, then projects, then ID
	Contributors []ContributorStats `json:"contributors" yaml:"contributors"`
	// ProjectActivity is ordered by active contributors, then project
	ProjectActivity []ProjectStats `json:"project_activity" yaml:"project_activity"`
}

// Label renders the window length for display ("30 days", "all time")
func (w *WindowResult) Label() string {
	return WindowLabel(w.WindowDays)
}

// WindowLabel renders a window length for display
func WindowLabel(days int) string {
	if days >= AllTimeDays {
		return "all time"
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// Statistic selects one scalar of a snapshot pair
type Statistic string

const (
	CMean   Statistic = "c-mean"
	CMedian Statistic = "c-median"
	CIndex  Statistic = "c-index"
	PMean   Statistic = "p-mean"
	PMedian Statistic = "p-median"
	PIndex  Statistic = "p-index"
)

// Statistics lists the six scalars in display order
var Statistics = []Statistic{CMedian, CMean, CIndex, PMedian, PMean, PIndex}

// Value extracts a statistic from a window result
func (w *WindowResult) Value(s Statistic) float64 {
	return valueOf(s, w.Connections, w.Projects)
}

func valueOf(s Statistic, c, p metrics.Snapshot) float64 {
	switch s {
	case CMean:
		return c.Mean
	case CMedian:
		return c.Median
	case CIndex:
		return float64(c.RankIndex)
	case PMean:
		return p.Mean
	case PMedian:
		return p.Median
	case PIndex:
		return float64(p.RankIndex)
	default:
		return 0
	}
}

// Trend is the history of the network indices for one window length,
// most recent first. Entry k was computed with the reference shifted back k
// months.
type Trend struct {
	WindowDays  int                `json:"window_days" yaml:"window_days"`
	References  []time.Time        `json:"references" yaml:"references"`
	Connections []metrics.Snapshot `json:"connections" yaml:"connections"`
	Projects    []metrics.Snapshot `json:"projects" yaml:"projects"`
}

// Len returns the number of months in the trend
func (t *Trend) Len() int {
	return len(t.References)
}

// Series returns one statistic across the trend, most recent first
func (t *Trend) Series(s Statistic) []float64 {
	series := make([]float64, len(t.References))
	for i := range series {
		series[i] = valueOf(s, t.Connections[i], t.Projects[i])
	}
	return series
}

// Summary holds headline counts for the latest reference date
type Summary struct {
	LatestCommitDate    time.Time `json:"latest_commit_date" yaml:"latest_commit_date"`
	Contributors        int       `json:"contributors" yaml:"contributors"`
	Projects            int       `json:"projects" yaml:"projects"`
	RecentContributors  int       `json:"recent_contributors" yaml:"recent_contributors"`
	Contributors3Months int       `json:"contributors_3_months" yaml:"contributors_3_months"`
	Contributors6Months int       `json:"contributors_6_months" yaml:"contributors_6_months"`
	ActiveRookies       int       `json:"active_rookies" yaml:"active_rookies"`
}

// Report bundles all windows and trends of one analytics run
type Report struct {
	Reference time.Time       `json:"reference" yaml:"reference"`
	Summary   Summary         `json:"summary" yaml:"summary"`
	Windows   []*WindowResult `json:"windows" yaml:"windows"`
	Trends    []*Trend        `json:"trends" yaml:"trends"`
}

// Window finds the result for a window length
func (r *Report) Window(days int) (*WindowResult, bool) {
	for _, w := range r.Windows {
		if w.WindowDays == days {
			return w, true
		}
	}
	return nil, false
}
