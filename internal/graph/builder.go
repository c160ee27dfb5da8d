package graph

import (
	"sort"

	"github.com/rohankatakam/teamgraph/internal/roster"
)

// ActiveGraph is the bipartite contributor/project membership graph for one
// lookback window. It is stored as adjacency lists in both directions and is
// read-only after Build.
type ActiveGraph struct {
	window       roster.Window
	contributors []roster.ContributorID
	projectsOf   map[roster.ContributorID][]roster.ProjectID
	members      map[roster.ProjectID][]roster.ContributorID
}

// Build computes the active contributors of the roster in window w and, for
// each, the projects they committed to inside the window. Contributors with
// no activity and projects with no active contributor are absent.
func Build(r *roster.Roster, w roster.Window) *ActiveGraph {
	g := &ActiveGraph{
		window:     w,
		projectsOf: make(map[roster.ContributorID][]roster.ProjectID),
		members:    make(map[roster.ProjectID][]roster.ContributorID),
	}

	for _, c := range r.Contributors() {
		projects := c.ActiveProjects(w)
		if len(projects) == 0 {
			continue
		}
		if _, dup := g.projectsOf[c.ID]; dup {
			projects = mergeProjects(g.projectsOf[c.ID], projects)
		} else {
			g.contributors = append(g.contributors, c.ID)
		}
		g.projectsOf[c.ID] = projects
	}

	sort.Slice(g.contributors, func(i, j int) bool { return g.contributors[i] < g.contributors[j] })

	// invert once; contributors are visited in sorted order so member lists
	// come out sorted
	for _, id := range g.contributors {
		for _, p := range g.projectsOf[id] {
			g.members[p] = append(g.members[p], id)
		}
	}
	return g
}

// Window returns the lookback window the graph was built for
func (g *ActiveGraph) Window() roster.Window {
	return g.window
}

// Contributors returns the active contributors, sorted
func (g *ActiveGraph) Contributors() []roster.ContributorID {
	return g.contributors
}

// Projects returns the active projects of one contributor, sorted
func (g *ActiveGraph) Projects(id roster.ContributorID) []roster.ProjectID {
	return g.projectsOf[id]
}

// ProjectCount returns how many projects a contributor was active in
func (g *ActiveGraph) ProjectCount(id roster.ContributorID) int {
	return len(g.projectsOf[id])
}

// Members returns the active contributors of one project, sorted
func (g *ActiveGraph) Members(p roster.ProjectID) []roster.ContributorID {
	return g.members[p]
}

// ActiveProjects returns every project with at least one active contributor
func (g *ActiveGraph) ActiveProjects() []roster.ProjectID {
	projects := make([]roster.ProjectID, 0, len(g.members))
	for p := range g.members {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i] < projects[j] })
	return projects
}

// Len returns the number of active contributors
func (g *ActiveGraph) Len() int {
	return len(g.contributors)
}

// mergeProjects unions two sorted project lists (same identity listed twice
// in a roster)
func mergeProjects(a, b []roster.ProjectID) []roster.ProjectID {
	seen := make(map[roster.ProjectID]struct{}, len(a)+len(b))
	out := make([]roster.ProjectID, 0, len(a)+len(b))
	for _, list := range [][]roster.ProjectID{a, b} {
		for _, p := range list {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
