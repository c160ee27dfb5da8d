package roster

import (
	"sort"
	"time"

	"github.com/rohankatakam/teamgraph/internal/temporal"
)

// Slot is the activity observed in one time bucket
type Slot struct {
	Key          string          `json:"key" yaml:"key"`
	Contributors []ContributorID `json:"contributors" yaml:"contributors"`
	Rookies      []ContributorID `json:"rookies" yaml:"rookies"`
	CommitDays   int             `json:"commit_days" yaml:"commit_days"`
}

// BucketCount is a count observed in one time bucket
type BucketCount struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Timeline lists, for each of the last count buckets ending at ref (oldest
// first), the contributors who committed in it and which of them were
// rookies (first commit within rookieDays) as of their last commit in the
// bucket. Empty buckets are kept. rookieDays <= 0 means RookieDays.
func (r *Roster) Timeline(g temporal.Granularity, count int, ref time.Time, rookieDays int) []Slot {
	if rookieDays <= 0 {
		rookieDays = RookieDays
	}
	keys := temporal.PastBuckets(count, g, ref)
	index := temporal.BucketIndex(keys)
	ref = temporal.Truncate(ref)

	slots := make([]Slot, len(keys))
	for i, k := range keys {
		slots[i] = Slot{Key: k, Contributors: []ContributorID{}, Rookies: []ContributorID{}}
	}

	for _, c := range r.contributors {
		// latest commit day per bucket, used as the rookie reference
		latest := make(map[int]time.Time)
		for _, d := range c.CommitDates {
			if d.After(ref) {
				continue
			}
			i, ok := index[temporal.BucketKey(d, g)]
			if !ok {
				continue
			}
			slots[i].CommitDays++
			if d.After(latest[i]) {
				latest[i] = d
			}
		}
		for i, at := range latest {
			slots[i].Contributors = append(slots[i].Contributors, c.ID)
			if c.IsRookieWithin(at, rookieDays) {
				slots[i].Rookies = append(slots[i].Rookies, c.ID)
			}
		}
	}

	for i := range slots {
		sortIDs(slots[i].Contributors)
		sortIDs(slots[i].Rookies)
	}
	return slots
}

// ProjectsPerBucket counts the distinct projects the contributor touched in
// each of the last count buckets ending at ref, oldest first. Commits after
// ref are ignored.
func (c *Contributor) ProjectsPerBucket(g temporal.Granularity, count int, ref time.Time) []int {
	keys := temporal.PastBuckets(count, g, ref)
	index := temporal.BucketIndex(keys)
	ref = temporal.Truncate(ref)
	counts := make([]int, len(keys))

	for _, p := range c.Projects {
		seen := make(map[int]bool)
		for _, d := range p.CommitDates {
			if d.After(ref) {
				continue
			}
			if i, ok := index[temporal.BucketKey(d, g)]; ok && !seen[i] {
				seen[i] = true
				counts[i]++
			}
		}
	}
	return counts
}

// ProjectTimeline pairs ProjectsPerBucket with the bucket keys
func (c *Contributor) ProjectTimeline(g temporal.Granularity, count int, ref time.Time) []BucketCount {
	keys := temporal.PastBuckets(count, g, ref)
	counts := c.ProjectsPerBucket(g, count, ref)
	out := make([]BucketCount, len(keys))
	for i, k := range keys {
		out[i] = BucketCount{Key: k, Count: counts[i]}
	}
	return out
}

func sortIDs(ids []ContributorID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
