package roster

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/rohankatakam/teamgraph/internal/temporal"
)

// Fact is a single (contributor, project, commit day) observation as
// produced by a history extractor
type Fact struct {
	Email   string
	Project string
	Date    time.Time
}

// Roster is the ordered, read-only collection of contributors for one
// analytics run. Callers must not mutate it once it is handed to the engine.
type Roster struct {
	contributors []*Contributor
	byID         map[ContributorID]*Contributor
	latest       time.Time
}

// New builds a roster from already-normalized contributors, keeping their
// order
func New(contributors []*Contributor) *Roster {
	r := &Roster{
		contributors: contributors,
		byID:         make(map[ContributorID]*Contributor, len(contributors)),
	}
	for _, c := range contributors {
		r.byID[c.ID] = c
		if last := c.LastCommit(); last.After(r.latest) {
			r.latest = last
		}
	}
	return r
}

// Contributors returns the roster in its original order
func (r *Roster) Contributors() []*Contributor {
	return r.contributors
}

// Len returns the number of contributors
func (r *Roster) Len() int {
	return len(r.contributors)
}

// Lookup finds a contributor by ID
func (r *Roster) Lookup(id ContributorID) (*Contributor, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// LatestCommitDate is the most recent commit day across the roster. It is
// the conventional reference date so reports are reproducible from a frozen
// dataset.
func (r *Roster) LatestCommitDate() time.Time {
	return r.latest
}

// Projects returns every project identity present in the roster, sorted
func (r *Roster) Projects() []ProjectID {
	seen := make(map[ProjectID]struct{})
	for _, c := range r.contributors {
		for _, p := range c.Projects {
			seen[p.Project] = struct{}{}
		}
	}
	projects := make([]ProjectID, 0, len(seen))
	for p := range seen {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i] < projects[j] })
	return projects
}

// Digest returns a stable content hash of the roster, used as a cache key
func (r *Roster) Digest() string {
	h := sha256.New()
	for _, c := range r.contributors {
		h.Write([]byte(c.ID))
		h.Write([]byte{0})
		for _, d := range c.CommitDates {
			h.Write([]byte(temporal.FormatDay(d)))
		}
		for _, p := range c.Projects {
			h.Write([]byte(p.Project))
			h.Write([]byte{1})
			for _, d := range p.CommitDates {
				h.Write([]byte(temporal.FormatDay(d)))
			}
			h.Write([]byte{2})
		}
		h.Write([]byte{3})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeEmail lowercases and trims an email so the same person is keyed
// identically across repositories
func NormalizeEmail(email string) ContributorID {
	return ContributorID(strings.ToLower(strings.TrimSpace(email)))
}

// Builder accumulates facts and produces a normalized Roster
type Builder struct {
	// contributor -> project -> set of days
	facts map[ContributorID]map[ProjectID]map[time.Time]struct{}
	// commit days not attributed to any project
	loose map[ContributorID]map[time.Time]struct{}
	order []ContributorID
}

// NewBuilder creates an empty roster builder
func NewBuilder() *Builder {
	return &Builder{
		facts: make(map[ContributorID]map[ProjectID]map[time.Time]struct{}),
		loose: make(map[ContributorID]map[time.Time]struct{}),
	}
}

// Add records one commit day for a contributor in a project. Empty emails
// or projects are ignored.
func (b *Builder) Add(email, project string, date time.Time) {
	id := NormalizeEmail(email)
	project = strings.TrimSpace(project)
	if id == "" || project == "" || date.IsZero() {
		return
	}

	projects := b.contributor(id)
	days, ok := projects[ProjectID(project)]
	if !ok {
		days = make(map[time.Time]struct{})
		projects[ProjectID(project)] = days
	}
	days[temporal.Truncate(date)] = struct{}{}
}

// AddCommitDay records a commit day that belongs to no known project. It
// still counts towards the contributor's first and last commit.
func (b *Builder) AddCommitDay(email string, date time.Time) {
	id := NormalizeEmail(email)
	if id == "" || date.IsZero() {
		return
	}
	b.contributor(id)
	days, ok := b.loose[id]
	if !ok {
		days = make(map[time.Time]struct{})
		b.loose[id] = days
	}
	days[temporal.Truncate(date)] = struct{}{}
}

func (b *Builder) contributor(id ContributorID) map[ProjectID]map[time.Time]struct{} {
	projects, ok := b.facts[id]
	if !ok {
		projects = make(map[ProjectID]map[time.Time]struct{})
		b.facts[id] = projects
		b.order = append(b.order, id)
	}
	return projects
}

// AddFacts records a batch of facts
func (b *Builder) AddFacts(facts []Fact) {
	for _, f := range facts {
		b.Add(f.Email, f.Project, f.Date)
	}
}

// Build returns the roster. Contributors keep first-seen order; project
// lists are sorted by ID and commit days ascending.
func (b *Builder) Build() *Roster {
	contributors := make([]*Contributor, 0, len(b.order))
	for _, id := range b.order {
		contributors = append(contributors, buildContributor(id, b.facts[id], b.loose[id]))
	}
	return New(contributors)
}

func buildContributor(id ContributorID, projects map[ProjectID]map[time.Time]struct{}, loose map[time.Time]struct{}) *Contributor {
	c := &Contributor{ID: id}
	all := make(map[time.Time]struct{}, len(loose))
	for d := range loose {
		all[d] = struct{}{}
	}

	for project, days := range projects {
		activity := ProjectActivity{Project: project, CommitDates: sortedDays(days)}
		for d := range days {
			all[d] = struct{}{}
		}
		c.Projects = append(c.Projects, activity)
	}
	sort.Slice(c.Projects, func(i, j int) bool { return c.Projects[i].Project < c.Projects[j].Project })
	c.CommitDates = sortedDays(all)
	return c
}

func sortedDays(set map[time.Time]struct{}) []time.Time {
	days := make([]time.Time, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
