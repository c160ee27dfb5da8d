package landscape

import (
	"sort"

	"github.com/rohankatakam/teamgraph/internal/graph"
	"github.com/rohankatakam/teamgraph/internal/roster"
)

// ConnectionDetail annotates a contributor edge with how much of each
// endpoint's active work the shared projects represent
type ConnectionDetail struct {
	graph.ContributorEdge `yaml:",inline"`
	FromProjects          int     `json:"from_projects" yaml:"from_projects"`
	ToProjects            int     `json:"to_projects" yaml:"to_projects"`
	FromShare             float64 `json:"from_share" yaml:"from_share"`
	ToShare               float64 `json:"to_share" yaml:"to_share"`
}

// TopConnections returns the k heaviest contributor edges with per-endpoint
// detail. k <= 0 returns all of them.
func (w *WindowResult) TopConnections(k int) []ConnectionDetail {
	projects := make(map[roster.ContributorID]int, len(w.Contributors))
	for _, c := range w.Contributors {
		projects[c.ID] = c.Projects
	}

	edges := graph.TopK(w.ContributorEdges, k)
	details := make([]ConnectionDetail, 0, len(edges))
	for _, e := range edges {
		d := ConnectionDetail{
			ContributorEdge: e,
			FromProjects:    projects[e.From],
			ToProjects:      projects[e.To],
		}
		d.FromShare = share(e.Weight, d.FromProjects)
		d.ToShare = share(e.Weight, d.ToProjects)
		details = append(details, d)
	}
	return details
}

func share(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

// MostConnected returns the k contributors with the most connections
func (w *WindowResult) MostConnected(k int) []ContributorStats {
	return headStats(w.Contributors, k)
}

// MostProjects returns the k contributors active in the most projects
func (w *WindowResult) MostProjects(k int) []ContributorStats {
	ranked := make([]ContributorStats, len(w.Contributors))
	copy(ranked, w.Contributors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Projects > ranked[j].Projects
	})
	return headStats(ranked, k)
}

// Rookies returns the active rookies in the window, in connection order
func (w *WindowResult) Rookies() []ContributorStats {
	var rookies []ContributorStats
	for _, c := range w.Contributors {
		if c.Rookie {
			rookies = append(rookies, c)
		}
	}
	return rookies
}

func headStats(stats []ContributorStats, k int) []ContributorStats {
	if k <= 0 || k > len(stats) {
		k = len(stats)
	}
	out := make([]ContributorStats, k)
	copy(out, stats[:k])
	return out
}
