// Package testutil provides test fixtures shared across iolib packages:
// throwaway git repositories, bare "wiki" remotes with working clones, and
// generated documentation trees.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// SetupTestRepo creates a temporary git repository with one initial commit.
// Returns the path to the repository. Cleanup happens with the test.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test User")

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repository\n"), 0o644); err != nil {
		t.Fatalf("failed to create README: %v", err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	return dir
}

// SetupWikiRemote creates a bare repository acting as a wiki remote, seeded
// with the given files on branch "master". Returns the bare repo path (usable
// as a clone URL) and the path of a working clone tracking it.
func SetupWikiRemote(t *testing.T, files map[string]string) (remote, clone string) {
	t.Helper()

	remote = filepath.Join(t.TempDir(), "wiki.git")
	if err := os.MkdirAll(remote, 0o755); err != nil {
		t.Fatalf("create remote dir: %v", err)
	}
	runGit(t, remote, "init", "--bare", "-b", "master")

	clone = filepath.Join(t.TempDir(), "wiki")
	runGit(t, filepath.Dir(clone), "clone", remote, clone)
	runGit(t, clone, "config", "user.email", "test@test.com")
	runGit(t, clone, "config", "user.name", "Test User")
	runGit(t, clone, "checkout", "-b", "master")

	WriteFiles(t, clone, files)
	if len(files) == 0 {
		// Seed an empty commit so the branch exists on the remote.
		runGit(t, clone, "commit", "--allow-empty", "-m", "Seed wiki")
	} else {
		runGit(t, clone, "add", ".")
		runGit(t, clone, "commit", "-m", "Seed wiki")
	}
	runGit(t, clone, "push", "-u", "origin", "master")

	return remote, clone
}

// WriteFiles writes the given path/content pairs under dir, creating parent
// directories as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write file %s: %v", path, err)
		}
	}
}

// ListFileNames returns the sorted base names of regular files directly
// under dir.
func ListFileNames(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}
