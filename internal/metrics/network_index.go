package metrics

import (
	"sort"
	"time"
)

// Kind names which per-contributor distribution a snapshot summarises
type Kind string

const (
	// KindConnections is the number of other contributors a person shares
	// at least one active project with (C-mean / C-median / C-index)
	KindConnections Kind = "C"
	// KindProjects is the number of active projects per contributor
	// (P-mean / P-median / P-index)
	KindProjects Kind = "P"
)

// Stats are the summary statistics of one degree distribution
type Stats struct {
	Mean      float64 `json:"mean" yaml:"mean"`
	Median    float64 `json:"median" yaml:"median"`
	RankIndex int     `json:"rank_index" yaml:"rank_index"`
}

// Snapshot is the network index of one (kind, window, reference date)
type Snapshot struct {
	Kind       Kind      `json:"kind" yaml:"kind"`
	WindowDays int       `json:"window_days" yaml:"window_days"`
	Reference  time.Time `json:"reference" yaml:"reference"`
	Stats
	// Distribution is sorted descending
	Distribution []int `json:"distribution" yaml:"distribution"`
}

// Mean is the arithmetic mean, 0 for an empty distribution
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// Median averages the two middle values for even lengths, 0 when empty
func Median(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := sortedAscending(values)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// RankIndex is the largest n such that at least n values are >= n, the
// h-index of the distribution
func RankIndex(values []int) int {
	sorted := SortDescending(values)
	index := 0
	for i, v := range sorted {
		if v < i+1 {
			break
		}
		index = i + 1
	}
	return index
}

// Summarize computes all three statistics
func Summarize(values []int) Stats {
	return Stats{
		Mean:      Mean(values),
		Median:    Median(values),
		RankIndex: RankIndex(values),
	}
}

// NewSnapshot summarises a distribution for one kind, window and reference
func NewSnapshot(kind Kind, windowDays int, reference time.Time, values []int) Snapshot {
	return Snapshot{
		Kind:         kind,
		WindowDays:   windowDays,
		Reference:    reference,
		Stats:        Summarize(values),
		Distribution: SortDescending(values),
	}
}

// SortDescending returns a sorted copy, largest first
func SortDescending(values []int) []int {
	out := make([]int, len(values))
	copy(out, values)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func sortedAscending(values []int) []int {
	out := make([]int, len(values))
	copy(out, values)
	sort.Ints(out)
	return out
}
