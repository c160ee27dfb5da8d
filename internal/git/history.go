package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

// logFormat prints one "<author email>\t<author day>" line per commit
const logFormat = "--format=%ae%x09%ad"

// LogReader reads the per-day author activity of one local repository
type LogReader struct {
	repoPath string
	project  string
}

// NewLogReader creates a reader that attributes every commit in repoPath to
// project
func NewLogReader(repoPath, project string) *LogReader {
	return &LogReader{repoPath: repoPath, project: project}
}

// Facts returns one fact per distinct (author, commit day) in the
// repository history. Merge commits are skipped. A zero since reads the
// whole history.
func (lr *LogReader) Facts(ctx context.Context, since time.Time) ([]roster.Fact, error) {
	args := []string{"log", "--no-merges", logFormat, "--date=short"}
	if !since.IsZero() {
		args = append(args, "--since="+temporal.FormatDay(since))
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = lr.repoPath

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("git log failed in %s: %w (stderr: %s)", lr.repoPath, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git log failed in %s: %w", lr.repoPath, err)
	}

	return parseLog(string(output), lr.project)
}

// parseLog turns git log output into deduplicated facts, in log order
func parseLog(output, project string) ([]roster.Fact, error) {
	seen := make(map[string]struct{})
	var facts []roster.Fact

	for i, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed git log line %d: %q", i+1, line)
		}
		email := strings.TrimSpace(parts[0])
		if email == "" {
			continue
		}
		date, err := temporal.ParseDay(parts[1])
		if err != nil {
			return nil, fmt.Errorf("git log line %d: %w", i+1, err)
		}

		key := strings.ToLower(email) + "|" + temporal.FormatDay(date)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		facts = append(facts, roster.Fact{Email: email, Project: project, Date: date})
	}

	return facts, nil
}
