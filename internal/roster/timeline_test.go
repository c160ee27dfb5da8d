package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/teamgraph/internal/temporal"
)

func TestTimeline_Months(t *testing.T) {
	b := NewBuilder()
	b.Add("vet@x", "p1", day(t, "2020-01-10"))
	b.Add("vet@x", "p1", day(t, "2024-04-10"))
	b.Add("vet@x", "p2", day(t, "2024-04-11"))
	b.Add("new@x", "p1", day(t, "2024-04-20"))
	b.Add("new@x", "p1", day(t, "2024-06-01"))
	b.Add("future@x", "p1", day(t, "2024-07-01"))
	r := b.Build()

	slots := r.Timeline(temporal.Month, 4, day(t, "2024-06-15"), 0)
	require.Len(t, slots, 4)

	assert.Equal(t, "2024-03", slots[0].Key)
	assert.Empty(t, slots[0].Contributors)

	assert.Equal(t, "2024-04", slots[1].Key)
	assert.Equal(t, []ContributorID{"new@x", "vet@x"}, slots[1].Contributors)
	assert.Equal(t, []ContributorID{"new@x"}, slots[1].Rookies)
	assert.Equal(t, 3, slots[1].CommitDays)

	assert.Equal(t, "2024-05", slots[2].Key)
	assert.Empty(t, slots[2].Contributors)

	assert.Equal(t, "2024-06", slots[3].Key)
	assert.Equal(t, []ContributorID{"new@x"}, slots[3].Contributors)
}

func TestProjectsPerBucket(t *testing.T) {
	b := NewBuilder()
	b.Add("a@x", "p1", day(t, "2024-05-13"))
	b.Add("a@x", "p1", day(t, "2024-05-14"))
	b.Add("a@x", "p2", day(t, "2024-05-15"))
	b.Add("a@x", "p2", day(t, "2024-05-07"))
	c, _ := b.Build().Lookup("a@x")

	counts := c.ProjectsPerBucket(temporal.Week, 3, day(t, "2024-05-19"))
	assert.Equal(t, []int{0, 1, 2}, counts)
}

func TestTimeline_CustomRookiePeriod(t *testing.T) {
	b := NewBuilder()
	b.Add("a@x", "p1", day(t, "2024-01-10"))
	b.Add("a@x", "p1", day(t, "2024-06-05"))
	r := b.Build()

	slots := r.Timeline(temporal.Month, 1, day(t, "2024-06-15"), 0)
	assert.Equal(t, []ContributorID{"a@x"}, slots[0].Rookies)

	slots = r.Timeline(temporal.Month, 1, day(t, "2024-06-15"), 90)
	assert.Equal(t, []ContributorID{"a@x"}, slots[0].Contributors)
	assert.Empty(t, slots[0].Rookies)
}

func TestProjectsPerBucket_IgnoresCommitsAfterReference(t *testing.T) {
	b := NewBuilder()
	b.Add("a@x", "p1", day(t, "2024-06-20"))
	r := b.Build()
	c, _ := r.Lookup("a@x")
	ref := day(t, "2024-06-10")

	assert.Equal(t, []int{0, 0}, c.ProjectsPerBucket(temporal.Month, 2, ref))

	slots := r.Timeline(temporal.Month, 2, ref, 0)
	assert.Empty(t, slots[1].Contributors)
}

func TestProjectTimeline(t *testing.T) {
	b := NewBuilder()
	b.Add("a@x", "p1", day(t, "2024-05-03"))
	b.Add("a@x", "p2", day(t, "2024-06-01"))
	b.Add("a@x", "p3", day(t, "2024-06-02"))
	c, _ := b.Build().Lookup("a@x")

	got := c.ProjectTimeline(temporal.Month, 3, day(t, "2024-06-15"))
	assert.Equal(t, []BucketCount{
		{Key: "2024-04", Count: 0},
		{Key: "2024-05", Count: 1},
		{Key: "2024-06", Count: 2},
	}, got)
}
