package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	httpsRemote = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/]+)`)
	sshRemote   = regexp.MustCompile(`git@[^:]+:([^/]+)/([^/]+)`)
	gitRemote   = regexp.MustCompile(`git://[^/]+/([^/]+)/([^/]+)`)
)

// DetectGitRepo checks that path is inside a git working tree
func DetectGitRepo(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "git", "-C", path, "rev-parse", "--is-inside-work-tree")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("not a git repository: %s: %w", path, err)
	}
	return nil
}

// ParseRepoURL extracts org and repo name from git remote URL
// Supports multiple URL formats:
//   - HTTPS: https://github.com/owner/repo.git
//   - SSH: git@github.com:owner/repo.git
//   - Git protocol: git://github.com/owner/repo.git
func ParseRepoURL(remoteURL string) (org, repo string, err error) {
	remoteURL = strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")

	for _, re := range []*regexp.Regexp{httpsRemote, sshRemote, gitRemote} {
		if matches := re.FindStringSubmatch(remoteURL); len(matches) == 3 {
			return matches[1], matches[2], nil
		}
	}
	return "", "", fmt.Errorf("unrecognized git URL format: %s", remoteURL)
}

// RemoteURL returns the URL of the origin remote of the repository at path
func RemoteURL(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", path, "config", "--get", "remote.origin.url")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// ProjectName names the project a repository contributes to the roster:
// "owner/repo" from the origin remote when there is one, otherwise the
// directory name
func ProjectName(ctx context.Context, path string) string {
	if url, err := RemoteURL(ctx, path); err == nil && url != "" {
		if org, repo, err := ParseRepoURL(url); err == nil {
			return org + "/" + repo
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.Base(abs)
}

// DiscoverRepos returns root itself when it is a repository, otherwise
// every immediate subdirectory that is one, sorted
func DiscoverRepos(root string) ([]string, error) {
	if isRepoDir(root) {
		return []string{root}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var repos []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if isRepoDir(path) {
			repos = append(repos, path)
		}
	}
	sort.Strings(repos)
	return repos, nil
}

func isRepoDir(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}
