package landscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/teamgraph/internal/roster"
)

func TestTopConnections(t *testing.T) {
	ref := day(t, "2024-06-01")
	b := roster.NewBuilder()
	for _, p := range []string{"p1", "p2", "p3", "p4"} {
		b.Add("x", p, ref)
	}
	b.Add("y", "p1", ref)
	b.Add("y", "p2", ref)
	b.Add("z", "p4", ref)
	e := newEngine(t, b.Build(), Options{})
	res := e.RunWindow(ref, 30)

	details := res.TopConnections(1)
	require.Len(t, details, 1)
	d := details[0]
	assert.Equal(t, roster.ContributorID("x"), d.From)
	assert.Equal(t, roster.ContributorID("y"), d.To)
	assert.Equal(t, 2, d.Weight)
	assert.Equal(t, 4, d.FromProjects)
	assert.Equal(t, 2, d.ToProjects)
	assert.Equal(t, 50.0, d.FromShare)
	assert.Equal(t, 100.0, d.ToShare)

	// truncation is for display only
	assert.Len(t, res.TopConnections(0), 2)
	assert.Len(t, res.ContributorEdges, 2)
	assert.Equal(t, 2, res.Contributors[0].Connections)
}

func TestMostProjects(t *testing.T) {
	ref := day(t, "2024-06-01")
	b := roster.NewBuilder()
	b.Add("hub", "p1", ref)
	b.Add("hub", "p2", ref)
	b.Add("a", "p1", ref)
	b.Add("b", "p2", ref)
	b.Add("solo", "p3", ref)
	b.Add("solo", "p4", ref)
	b.Add("solo", "p5", ref)
	e := newEngine(t, b.Build(), Options{})
	res := e.RunWindow(ref, 30)

	connected := res.MostConnected(1)
	require.Len(t, connected, 1)
	assert.Equal(t, roster.ContributorID("hub"), connected[0].ID)

	busy := res.MostProjects(2)
	require.Len(t, busy, 2)
	assert.Equal(t, roster.ContributorID("solo"), busy[0].ID)
	assert.Equal(t, roster.ContributorID("hub"), busy[1].ID)

	assert.Len(t, res.MostProjects(0), 4)
	assert.Len(t, res.Rookies(), 4)
}
