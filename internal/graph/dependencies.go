package graph

import (
	"sort"

	"github.com/rohankatakam/teamgraph/internal/roster"
)

// Node is the identity type of one side of the bipartite graph
type Node interface {
	~string
}

// Edge is an undirected dependency between two nodes of the same kind.
// From < To always holds, and Weight counts the shared counterpart nodes.
type Edge[N Node] struct {
	From   N   `json:"from" yaml:"from"`
	To     N   `json:"to" yaml:"to"`
	Weight int `json:"weight" yaml:"weight"`
}

// ContributorEdge links two contributors; Weight is the number of shared
// active projects
type ContributorEdge = Edge[roster.ContributorID]

// ProjectEdge links two projects; Weight is the number of shared active
// contributors
type ProjectEdge = Edge[roster.ProjectID]

// pair is an unordered node pair normalised so a < b
type pair[N Node] struct {
	a, b N
}

func makePair[N Node](x, y N) pair[N] {
	if x > y {
		x, y = y, x
	}
	return pair[N]{a: x, b: y}
}

// DeriveContributorEdges projects the active graph onto contributors. Work
// is proportional to the sum over projects of (members per project)^2, never
// to the square of the roster size.
func DeriveContributorEdges(g *ActiveGraph) []ContributorEdge {
	groups := make([][]roster.ContributorID, 0, len(g.members))
	for _, p := range g.ActiveProjects() {
		groups = append(groups, g.members[p])
	}
	return coOccurrences(groups)
}

// DeriveProjectEdges projects the active graph onto projects: two projects
// are linked by every contributor active in both
func DeriveProjectEdges(g *ActiveGraph) []ProjectEdge {
	groups := make([][]roster.ProjectID, 0, len(g.contributors))
	for _, id := range g.contributors {
		groups = append(groups, g.projectsOf[id])
	}
	return coOccurrences(groups)
}

// coOccurrences counts, for every unordered pair, the number of groups that
// contain both members. Each group must list a node at most once.
func coOccurrences[N Node](groups [][]N) []Edge[N] {
	counts := make(map[pair[N]]int)
	for _, members := range groups {
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if members[i] == members[j] {
					continue
				}
				counts[makePair(members[i], members[j])]++
			}
		}
	}

	edges := make([]Edge[N], 0, len(counts))
	for p, w := range counts {
		edges = append(edges, Edge[N]{From: p.a, To: p.b, Weight: w})
	}
	SortEdges(edges)
	return edges
}

// SortEdges orders edges by weight descending, then by (From, To)
func SortEdges[N Node](edges []Edge[N]) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
}

// TopK returns at most k leading edges of an already sorted list as a new
// slice. k <= 0 means no limit. Totals must be computed on the full list.
func TopK[N Node](edges []Edge[N], k int) []Edge[N] {
	if k <= 0 || k > len(edges) {
		k = len(edges)
	}
	out := make([]Edge[N], k)
	copy(out, edges[:k])
	return out
}

// Degrees returns the number of distinct neighbours of every node that
// appears in edges
func Degrees[N Node](edges []Edge[N]) map[N]int {
	degrees := make(map[N]int)
	for _, e := range edges {
		degrees[e.From]++
		degrees[e.To]++
	}
	return degrees
}

// Weight looks up the weight between two nodes in either order (0 if the
// pair is not linked)
func Weight[N Node](edges []Edge[N], x, y N) int {
	p := makePair(x, y)
	for _, e := range edges {
		if e.From == p.a && e.To == p.b {
			return e.Weight
		}
	}
	return 0
}
