package sync

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var ErrNotRepo = errors.New("not a git repository. Run 'labbook init' first")

// gitignore keeps interrupted atomic saves out of commits.
const gitignore = "*.tmp\n"

// IsRepo reports whether dir is the root of a git work tree.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func git(dir string, out io.Writer, args ...string) *exec.Cmd {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd
}

// Head returns the commit hash checked out in the work tree containing dir.
func Head(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// InitRepo makes dir a git repository if it is not one yet and, when remote
// is non-empty, points origin at it.
func InitRepo(dir, remote string, out io.Writer) error {
	if !IsRepo(dir) {
		if err := git(dir, out, "init").Run(); err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}
		ignorePath := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
			if err := os.WriteFile(ignorePath, []byte(gitignore), 0644); err != nil {
				return fmt.Errorf("writing .gitignore: %w", err)
			}
		}
		fmt.Fprintf(out, "Initialized repository in %s\n", dir)
	}

	if remote == "" {
		fmt.Fprintln(out, "No remote specified. Use --remote <url> to set one.")
		return nil
	}

	// Remove existing origin first (ignore error if doesn't exist)
	git(dir, io.Discard, "remote", "remove", "origin").Run()

	if err := git(dir, out, "remote", "add", "origin", remote).Run(); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	fmt.Fprintf(out, "Remote set to: %s\n", remote)
	return nil
}

// SyncRepo synchronizes dir with its remote.
// Strategy: commit local changes, rebase, fallback to merge, push.
func SyncRepo(dir string, out io.Writer, now time.Time) error {
	if !IsRepo(dir) {
		return ErrNotRepo
	}

	// 1. Stage and commit any uncommitted local changes
	fmt.Fprintln(out, "Staging changes...")
	git(dir, out, "add", "-A").Run()
	if err := git(dir, io.Discard, "diff", "--cached", "--quiet").Run(); err != nil {
		msg := "sync " + now.Format("2006-01-02 15:04:05")
		if err := git(dir, out, "commit", "-m", msg).Run(); err != nil {
			return fmt.Errorf("committing local changes: %w", err)
		}
	}

	if err := git(dir, io.Discard, "remote", "get-url", "origin").Run(); err != nil {
		fmt.Fprintln(out, "No remote configured. Committed locally.")
		return nil
	}

	// 2. Try pull --rebase
	fmt.Fprintln(out, "Pulling...")
	if err := git(dir, out, "pull", "--rebase").Run(); err != nil {
		// 3. Rebase failed, abort and try merge
		fmt.Fprintln(out, "Rebase failed, trying merge...")
		git(dir, io.Discard, "rebase", "--abort").Run()

		if err := git(dir, out, "pull", "--no-rebase").Run(); err != nil {
			// 4. Merge also failed, abort and report
			git(dir, io.Discard, "merge", "--abort").Run()
			return fmt.Errorf("sync failed: could not rebase or merge. Resolve conflicts manually")
		}
	}

	// 5. Push
	fmt.Fprintln(out, "Pushing...")
	if err := git(dir, out, "push").Run(); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Fprintln(out, "Sync complete.")
	return nil
}
