package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/teamgraph/internal/git"
	"github.com/rohankatakam/teamgraph/internal/github"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

var (
	extractRepos []string
	extractRoot  string
	extractOut   string
	extractSince string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build a roster from local git repositories",
	Long: `Read commit history from local git repositories and write a roster file.

Each repository becomes one project, named after its origin remote
(owner/repo) or its directory. A contributor is identified by the
lower-cased author email.

Examples:
  teamgraph extract --repo ./api --repo ./web --out roster.json
  teamgraph extract --root ~/src/landscape --since 2023-01-01`,
	RunE: runExtract,
}

var extractGitHubCmd = &cobra.Command{
	Use:   "extract-github",
	Short: "Build a roster from GitHub repositories",
	Long: `Fetch commit history through the GitHub API and write a roster file.

Requires GITHUB_TOKEN (or github.token in the config) for private
repositories and for reasonable rate limits.

Example:
  teamgraph extract-github --repo octo/api --repo octo/web --out roster.json`,
	RunE: runExtractGitHub,
}

func init() {
	extractCmd.Flags().StringSliceVar(&extractRepos, "repo", nil, "repository path (repeatable)")
	extractCmd.Flags().StringVar(&extractRoot, "root", "", "directory whose git repositories are all extracted")
	extractCmd.Flags().StringVar(&extractOut, "out", "roster.json", "roster output file (.json or .yaml)")
	extractCmd.Flags().StringVar(&extractSince, "since", "", "only commits on or after this day (YYYY-MM-DD)")

	extractGitHubCmd.Flags().StringSliceVar(&extractRepos, "repo", nil, "owner/name slug (repeatable)")
	extractGitHubCmd.Flags().StringVar(&extractOut, "out", "roster.json", "roster output file (.json or .yaml)")
	extractGitHubCmd.Flags().StringVar(&extractSince, "since", "", "only commits on or after this day (YYYY-MM-DD)")
	extractGitHubCmd.MarkFlagRequired("repo")
}

func parseSince(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	since, err := temporal.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since: %w", err)
	}
	return since, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	since, err := parseSince(extractSince)
	if err != nil {
		return err
	}

	repos := append([]string(nil), extractRepos...)
	if extractRoot != "" {
		found, err := git.DiscoverRepos(extractRoot)
		if err != nil {
			return err
		}
		repos = append(repos, found...)
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repositories given (use --repo or --root)")
	}

	logger.WithFields(logrus.Fields{
		"repos": len(repos),
		"since": extractSince,
	}).Info("Extracting commit history")

	r, err := git.Extract(ctx, repos, git.ExtractOptions{
		Since:      since,
		MaxWorkers: cfg.Analysis.Parallelism,
	})
	if err != nil {
		return err
	}
	return writeRoster(r)
}

func runExtractGitHub(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	since, err := parseSince(extractSince)
	if err != nil {
		return err
	}
	if cfg.GitHub.Token == "" {
		logger.Warn("GITHUB_TOKEN not set, using unauthenticated requests")
	}

	client := github.NewClient(cfg.GitHub.Token, cfg.GitHub.RateLimit, cfg.GitHub.MaxWorkers)
	r, err := client.ExtractRoster(ctx, extractRepos, since)
	if err != nil {
		return err
	}
	return writeRoster(r)
}

func writeRoster(r *roster.Roster) error {
	if err := roster.Save(extractOut, r); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"contributors": r.Len(),
		"projects":     len(r.Projects()),
		"latest":       temporal.FormatDay(r.LatestCommitDate()),
		"out":          extractOut,
	}).Info("Roster written")
	fmt.Fprintf(os.Stderr, "Wrote %d contributors across %d projects to %s\n", r.Len(), len(r.Projects()), extractOut)
	return nil
}
