package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/teamgraph/internal/temporal"
)

func apiCommit(email, date string, parents int) *github.RepositoryCommit {
	when, _ := time.Parse(time.RFC3339, date)
	c := &github.RepositoryCommit{
		SHA: github.String("sha-" + email),
		Commit: &github.Commit{
			Author: &github.CommitAuthor{
				Email: github.String(email),
				Date:  &github.Timestamp{Time: when},
			},
		},
	}
	for i := 0; i < parents; i++ {
		c.Parents = append(c.Parents, &github.Commit{SHA: github.String(fmt.Sprintf("p%d", i))})
	}
	return c
}

func TestCommitFacts(t *testing.T) {
	commits := []*github.RepositoryCommit{
		apiCommit("alice@example.com", "2024-06-01T22:30:00Z", 1),
		apiCommit("bob@example.com", "2024-06-02T08:00:00Z", 2),
		apiCommit("", "2024-06-02T08:00:00Z", 1),
		{SHA: github.String("no-commit")},
	}

	facts := commitFacts(commits, "acme/api")
	require.Len(t, facts, 1)
	assert.Equal(t, "alice@example.com", facts[0].Email)
	assert.Equal(t, "acme/api", facts[0].Project)
	assert.Equal(t, "2024-06-01", temporal.FormatDay(facts[0].Date))
}

func TestParseRepoSlug(t *testing.T) {
	owner, name, err := ParseRepoSlug(" acme/api ")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "api", name)

	for _, bad := range []string{"", "acme", "acme/api/extra", "/api"} {
		_, _, err := ParseRepoSlug(bad)
		assert.Error(t, err, bad)
	}
}

func TestExtractRoster(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/api/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"sha": "1", "commit": {"author": {"email": "alice@example.com", "date": "2024-06-01T10:00:00Z"}}, "parents": [{"sha": "0"}]},
			{"sha": "2", "commit": {"author": {"email": "bob@example.com", "date": "2024-05-20T10:00:00Z"}}, "parents": [{"sha": "1"}]}
		]`)
	})
	mux.HandleFunc("/repos/acme/web/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"sha": "3", "commit": {"author": {"email": "Alice@Example.com", "date": "2024-06-03T10:00:00Z"}}, "parents": [{"sha": "2"}]}
		]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient("", 100, 2)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	c.client.BaseURL = base

	r, err := c.ExtractRoster(context.Background(), []string{"acme/api", "acme/web"}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	alice, ok := r.Lookup("alice@example.com")
	require.True(t, ok)
	require.Len(t, alice.Projects, 2)
	assert.Equal(t, "2024-06-03", temporal.FormatDay(r.LatestCommitDate()))
}

func TestExtractRoster_BadSlug(t *testing.T) {
	c := NewClient("", 100, 1)
	_, err := c.ExtractRoster(context.Background(), []string{"nope"}, time.Time{})
	assert.Error(t, err)
}
