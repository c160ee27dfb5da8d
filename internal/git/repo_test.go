package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/teamgraph/internal/temporal"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := temporal.ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantOrg  string
		wantRepo string
		wantErr  bool
	}{
		{"https with .git", "https://github.com/acme/api.git", "acme", "api", false},
		{"https without .git", "https://github.com/acme/api", "acme", "api", false},
		{"ssh", "git@github.com:acme/web.git", "acme", "web", false},
		{"git protocol", "git://github.com/acme/tools.git", "acme", "tools", false},
		{"invalid", "not-a-url", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, repo, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrg, org)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestProjectName(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "billing-service")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, exec.Command("git", "-C", dir, "init", "-q").Run())

	assert.Equal(t, "billing-service", ProjectName(ctx, dir))

	require.NoError(t, exec.Command("git", "-C", dir, "remote", "add", "origin", "git@github.com:acme/billing.git").Run())
	assert.Equal(t, "acme/billing", ProjectName(ctx, dir))
}

func TestDetectGitRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx := context.Background()

	repo := t.TempDir()
	require.NoError(t, exec.Command("git", "-C", repo, "init", "-q").Run())
	assert.NoError(t, DetectGitRepo(ctx, repo))
	assert.Error(t, DetectGitRepo(ctx, t.TempDir()))
}

func TestDiscoverRepos(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"web", "api"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name, ".git"), 0755))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), nil, 0644))

	repos, err := DiscoverRepos(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "api"), filepath.Join(root, "web")}, repos)

	single, err := DiscoverRepos(filepath.Join(root, "web"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "web")}, single)

	_, err = DiscoverRepos(filepath.Join(root, "missing"))
	assert.Error(t, err)
}
