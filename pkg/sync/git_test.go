package sync

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestSyncRepoRequiresRepo(t *testing.T) {
	var out bytes.Buffer
	err := SyncRepo(t.TempDir(), &out, time.Now())
	assert.ErrorIs(t, err, ErrNotRepo)
}

func TestInitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	var out bytes.Buffer

	require.NoError(t, InitRepo(dir, "", &out))
	assert.True(t, IsRepo(dir))
	assert.Contains(t, out.String(), "No remote specified")

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, gitignore, string(data))

	// Idempotent, and sets the remote.
	out.Reset()
	require.NoError(t, InitRepo(dir, "https://example.com/lab.git", &out))
	assert.Contains(t, out.String(), "Remote set to: https://example.com/lab.git")
	assert.NotContains(t, out.String(), "Initialized")

	url, err := exec.Command("git", "-C", dir, "remote", "get-url", "origin").Output()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/lab.git", strings.TrimSpace(string(url)))
}

func TestSyncRepoCommitsLocallyWithoutRemote(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	var out bytes.Buffer
	require.NoError(t, InitRepo(dir, "", &out))
	for _, kv := range [][2]string{{"user.email", "lab@example.com"}, {"user.name", "lab"}} {
		require.NoError(t, exec.Command("git", "-C", dir, "config", kv[0], kv[1]).Run())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "daily_20260305.json"), []byte("{}"), 0644))

	out.Reset()
	now := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	require.NoError(t, SyncRepo(dir, &out, now))
	assert.Contains(t, out.String(), "Committed locally")

	msg, err := exec.Command("git", "-C", dir, "log", "-1", "--format=%s").Output()
	require.NoError(t, err)
	assert.Equal(t, "sync 2026-03-05 18:00:00", strings.TrimSpace(string(msg)))
}

func TestHead(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	var out bytes.Buffer
	require.NoError(t, InitRepo(dir, "", &out))

	_, err := Head(dir)
	assert.Error(t, err, "no commits yet")

	for _, kv := range [][2]string{{"user.email", "lab@example.com"}, {"user.name", "lab"}} {
		require.NoError(t, exec.Command("git", "-C", dir, "config", kv[0], kv[1]).Run())
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lab"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lab", "project.yaml"), []byte("project_name: lab\n"), 0644))
	require.NoError(t, SyncRepo(dir, &out, time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)))

	head, err := Head(filepath.Join(dir, "lab"))
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{40,64}$`, head)
}
