package roster

import (
	"sort"
	"time"

	"github.com/rohankatakam/teamgraph/internal/temporal"
)

// RookieDays is the period after a contributor's first commit during which
// they count as a rookie
const RookieDays = 365

// ContributorID identifies a contributor (normalized email)
type ContributorID string

// ProjectID identifies a project (repository name or path)
type ProjectID string

// ProjectActivity holds the commit days one contributor has in one project
type ProjectActivity struct {
	Project     ProjectID
	CommitDates []time.Time // ascending, deduplicated calendar days
}

// Contributor is one person in the roster. It is immutable once the roster
// has been built.
type Contributor struct {
	ID          ContributorID
	CommitDates []time.Time // ascending, deduplicated calendar days
	Projects    []ProjectActivity
}

// Window is the closed interval [Reference-Days, Reference] of calendar days
type Window struct {
	Reference time.Time
	Days      int
}

// NewWindow builds a window ending at the calendar day of ref
func NewWindow(ref time.Time, days int) Window {
	return Window{Reference: temporal.Truncate(ref), Days: days}
}

// Start returns the first day included in the window
func (w Window) Start() time.Time {
	return temporal.AddDays(w.Reference, -w.Days)
}

// Contains reports whether d falls inside the window. A negative length
// contains nothing; dates after the reference are never contained.
func (w Window) Contains(d time.Time) bool {
	if w.Days < 0 {
		return false
	}
	age := temporal.DaysBetween(d, w.Reference)
	return age >= 0 && age <= w.Days
}

// ActiveIn reports whether the project has at least one commit day in w
func (p ProjectActivity) ActiveIn(w Window) bool {
	return countIn(p.CommitDates, w) > 0
}

// Latest returns the most recent commit day in the project
func (p ProjectActivity) Latest() time.Time {
	if len(p.CommitDates) == 0 {
		return time.Time{}
	}
	return p.CommitDates[len(p.CommitDates)-1]
}

// FirstCommit returns the contributor's earliest commit day
func (c *Contributor) FirstCommit() time.Time {
	if len(c.CommitDates) == 0 {
		return time.Time{}
	}
	return c.CommitDates[0]
}

// LastCommit returns the contributor's latest commit day
func (c *Contributor) LastCommit() time.Time {
	if len(c.CommitDates) == 0 {
		return time.Time{}
	}
	return c.CommitDates[len(c.CommitDates)-1]
}

// ActiveProjects returns the projects with at least one commit day in w,
// sorted by project ID
func (c *Contributor) ActiveProjects(w Window) []ProjectID {
	var active []ProjectID
	for _, p := range c.Projects {
		if p.ActiveIn(w) {
			active = append(active, p.Project)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i] < active[j] })
	return active
}

// IsActive reports whether the contributor touched any project in w
func (c *Contributor) IsActive(w Window) bool {
	for _, p := range c.Projects {
		if p.ActiveIn(w) {
			return true
		}
	}
	return false
}

// IsRookie reports whether the first commit lies within RookieDays before at
func (c *Contributor) IsRookie(at time.Time) bool {
	return c.IsRookieWithin(at, RookieDays)
}

// IsRookieWithin is IsRookie with a configurable rookie period
func (c *Contributor) IsRookieWithin(at time.Time, days int) bool {
	first := c.FirstCommit()
	if first.IsZero() {
		return false
	}
	return NewWindow(at, days).Contains(first)
}

// CommitDaysIn counts the distinct commit days inside w
func (c *Contributor) CommitDaysIn(w Window) int {
	return countIn(c.CommitDates, w)
}

// countIn counts sorted days inside w using binary search on both bounds
func countIn(days []time.Time, w Window) int {
	if w.Days < 0 || len(days) == 0 {
		return 0
	}
	start, end := w.Start(), w.Reference
	lo := sort.Search(len(days), func(i int) bool { return !days[i].Before(start) })
	hi := sort.Search(len(days), func(i int) bool { return days[i].After(end) })
	if hi < lo {
		return 0
	}
	return hi - lo
}
