package output

import (
	"fmt"

	"github.com/rohankatakam/teamgraph/internal/graph"
	"github.com/rohankatakam/teamgraph/internal/landscape"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

// Statistics are the six network index scalars of one window
type Statistics struct {
	CMedian float64 `json:"c_median" yaml:"c_median"`
	CMean   float64 `json:"c_mean" yaml:"c_mean"`
	CIndex  int     `json:"c_index" yaml:"c_index"`
	PMedian float64 `json:"p_median" yaml:"p_median"`
	PMean   float64 `json:"p_mean" yaml:"p_mean"`
	PIndex  int     `json:"p_index" yaml:"p_index"`
}

// WindowView is the display form of one window. Edge and ranking lists are
// truncated to the display limit; the counts always describe the full
// result.
type WindowView struct {
	Window             string                       `json:"window" yaml:"window"`
	WindowDays         int                          `json:"window_days" yaml:"window_days"`
	Reference          string                       `json:"reference" yaml:"reference"`
	ActiveContributors int                          `json:"active_contributors" yaml:"active_contributors"`
	ActiveProjects     int                          `json:"active_projects" yaml:"active_projects"`
	ContributorEdges   int                          `json:"contributor_edges" yaml:"contributor_edges"`
	ProjectEdges       int                          `json:"project_edges" yaml:"project_edges"`
	Statistics         Statistics                   `json:"statistics" yaml:"statistics"`
	TopConnections     []landscape.ConnectionDetail `json:"top_connections" yaml:"top_connections"`
	TopProjectLinks    []graph.ProjectEdge          `json:"top_project_links" yaml:"top_project_links"`
	MostConnected      []landscape.ContributorStats `json:"most_connected" yaml:"most_connected"`
	MostProjects       []landscape.ContributorStats `json:"most_projects" yaml:"most_projects"`
	Projects           []landscape.ProjectStats     `json:"projects" yaml:"projects"`
}

// SeriesView is one statistic across a trend, most recent first
type SeriesView struct {
	Statistic landscape.Statistic `json:"statistic" yaml:"statistic"`
	Values    []float64           `json:"values" yaml:"values"`
}

// TrendView is the display form of a trend
type TrendView struct {
	Window     string       `json:"window" yaml:"window"`
	WindowDays int          `json:"window_days" yaml:"window_days"`
	References []string     `json:"references" yaml:"references"`
	Series     []SeriesView `json:"series" yaml:"series"`
}

// ReportView is the display form of a full report
type ReportView struct {
	Reference string            `json:"reference" yaml:"reference"`
	Summary   landscape.Summary `json:"summary" yaml:"summary"`
	Windows   []WindowView      `json:"windows" yaml:"windows"`
	Trends    []TrendView       `json:"trends" yaml:"trends"`
}

// NewWindowView builds the display form of a window with lists truncated to
// topK (topK <= 0 keeps everything)
func NewWindowView(w *landscape.WindowResult, topK int) WindowView {
	projects := w.ProjectActivity
	if topK > 0 && len(projects) > topK {
		projects = projects[:topK]
	}

	return WindowView{
		Window:             w.Label(),
		WindowDays:         w.WindowDays,
		Reference:          temporal.FormatDay(w.Reference),
		ActiveContributors: w.ActiveContributors,
		ActiveProjects:     w.ActiveProjects,
		ContributorEdges:   len(w.ContributorEdges),
		ProjectEdges:       len(w.ProjectEdges),
		Statistics: Statistics{
			CMedian: w.Connections.Median,
			CMean:   w.Connections.Mean,
			CIndex:  w.Connections.RankIndex,
			PMedian: w.Projects.Median,
			PMean:   w.Projects.Mean,
			PIndex:  w.Projects.RankIndex,
		},
		TopConnections:  w.TopConnections(topK),
		TopProjectLinks: graph.TopK(w.ProjectEdges, topK),
		MostConnected:   w.MostConnected(topK),
		MostProjects:    w.MostProjects(topK),
		Projects:        append([]landscape.ProjectStats(nil), projects...),
	}
}

// NewTrendView builds the display form of a trend
func NewTrendView(t *landscape.Trend) TrendView {
	refs := make([]string, len(t.References))
	for i, r := range t.References {
		refs[i] = temporal.FormatDay(r)
	}

	series := make([]SeriesView, 0, len(landscape.Statistics))
	for _, s := range landscape.Statistics {
		series = append(series, SeriesView{Statistic: s, Values: t.Series(s)})
	}

	return TrendView{
		Window:     landscape.WindowLabel(t.WindowDays),
		WindowDays: t.WindowDays,
		References: refs,
		Series:     series,
	}
}

// NewReportView builds the display form of a report
func NewReportView(r *landscape.Report, topK int) ReportView {
	view := ReportView{
		Reference: temporal.FormatDay(r.Reference),
		Summary:   r.Summary,
		Windows:   make([]WindowView, 0, len(r.Windows)),
		Trends:    make([]TrendView, 0, len(r.Trends)),
	}
	for _, w := range r.Windows {
		view.Windows = append(view.Windows, NewWindowView(w, topK))
	}
	for _, t := range r.Trends {
		view.Trends = append(view.Trends, NewTrendView(t))
	}
	return view
}

// ProjectTimelineView is one contributor's distinct projects per bucket
type ProjectTimelineView struct {
	Contributor roster.ContributorID `json:"contributor" yaml:"contributor"`
	Buckets     []roster.BucketCount `json:"buckets" yaml:"buckets"`
}

// monthsAgo labels trend offsets for display: "now", "1 month ago", ...
func monthsAgo(k int) string {
	switch k {
	case 0:
		return "now"
	case 1:
		return "1 month ago"
	default:
		return fmt.Sprintf("%d months ago", k)
	}
}
