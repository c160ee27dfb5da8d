package github

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/rohankatakam/teamgraph/internal/errors"
	"github.com/rohankatakam/teamgraph/internal/roster"
)

// Client wraps the GitHub API client with rate limiting and concurrency
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	maxWorkers  int
	logger      *slog.Logger
}

// NewClient creates a new GitHub client with rate limiting. An empty token
// makes unauthenticated requests.
func NewClient(token string, rateLimit, maxWorkers int) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if rateLimit <= 0 {
		rateLimit = 10
	}
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		maxWorkers:  maxWorkers,
		logger:      slog.Default().With("component", "github"),
	}
}

// ParseRepoSlug splits "owner/name"
func ParseRepoSlug(slug string) (owner, name string, err error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(slug), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Validationf("invalid repository %q, expected owner/name", slug)
	}
	return parts[0], parts[1], nil
}

// FetchCommitFacts lists the default-branch commits of one repository since
// the given day and converts them to roster facts attributed to
// "owner/name"
func (c *Client) FetchCommitFacts(ctx context.Context, owner, name string, since time.Time) ([]roster.Fact, error) {
	opts := &github.CommitsListOptions{
		Since: since,
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}
	project := owner + "/" + name

	var facts []roster.Fact
	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		commits, resp, err := c.client.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch commits for %s: %w", project, err)
		}

		facts = append(facts, commitFacts(commits, project)...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("commits fetched", "repo", project, "facts", len(facts))
	return facts, nil
}

// commitFacts converts API commits, skipping merges and commits without an
// author email
func commitFacts(commits []*github.RepositoryCommit, project string) []roster.Fact {
	facts := make([]roster.Fact, 0, len(commits))
	for _, commit := range commits {
		if len(commit.Parents) > 1 {
			continue
		}
		author := commit.GetCommit().GetAuthor()
		email := author.GetEmail()
		date := author.GetDate().Time
		if email == "" || date.IsZero() {
			continue
		}
		facts = append(facts, roster.Fact{Email: email, Project: project, Date: date})
	}
	return facts
}

// ExtractRoster fetches every "owner/name" repository concurrently and
// merges the facts in argument order
func (c *Client) ExtractRoster(ctx context.Context, repos []string, since time.Time) (*roster.Roster, error) {
	results := make([][]roster.Fact, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)
	for i, slug := range repos {
		i, slug := i, slug
		g.Go(func() error {
			owner, name, err := ParseRepoSlug(slug)
			if err != nil {
				return err
			}
			facts, err := c.FetchCommitFacts(gctx, owner, name, since)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeExternal, errors.SeverityHigh, "github extraction failed").
					WithContext("repo", slug)
			}
			results[i] = facts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := roster.NewBuilder()
	for _, facts := range results {
		b.AddFacts(facts)
	}
	r := b.Build()

	c.logger.Info("github extraction complete", "repos", len(repos), "contributors", r.Len())
	return r, nil
}
