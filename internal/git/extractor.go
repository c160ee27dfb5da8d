package git

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rohankatakam/teamgraph/internal/errors"
	"github.com/rohankatakam/teamgraph/internal/roster"
)

// ExtractOptions controls a multi-repository extraction
type ExtractOptions struct {
	// Since limits history to commits on or after this day (zero = all)
	Since time.Time
	// MaxWorkers bounds concurrent git processes (default GOMAXPROCS)
	MaxWorkers int
}

// Extract reads every repository concurrently and merges the facts into a
// roster. Repositories are merged in argument order so the roster is
// deterministic.
func Extract(ctx context.Context, repos []string, opts ExtractOptions) (*roster.Roster, error) {
	logger := slog.Default().With("component", "git")
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([][]roster.Fact, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			if err := DetectGitRepo(gctx, repo); err != nil {
				return errors.Wrap(err, errors.ErrorTypeExternal, errors.SeverityHigh, "repository unavailable").
					WithContext("repo", repo)
			}

			project := ProjectName(gctx, repo)
			facts, err := NewLogReader(repo, project).Facts(gctx, opts.Since)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeExternal, errors.SeverityHigh, "history extraction failed").
					WithContext("repo", repo)
			}

			logger.Debug("repository read", "repo", repo, "project", project, "facts", len(facts))
			results[i] = facts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := roster.NewBuilder()
	total := 0
	for _, facts := range results {
		b.AddFacts(facts)
		total += len(facts)
	}
	r := b.Build()

	logger.Info("extraction complete",
		"repos", len(repos),
		"facts", total,
		"contributors", r.Len())

	return r, nil
}
