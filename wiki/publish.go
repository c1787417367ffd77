// Package wiki manages the documentation wiki working copy: a fresh clone
// per publish run, replacement of previously published files by name prefix,
// and the final commit and push.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/utilitywarehouse/iolib/git"
)

// DefaultCommitMessage is used when the publisher has no message configured.
const DefaultCommitMessage = "Update documentation"

// Publisher publishes generated documentation files into a wiki repository.
type Publisher struct {
	// URL is the wiki remote, e.g. "git@github.com:org/repo.wiki.git".
	URL string

	// Branch is the wiki branch to clone and push to.
	Branch string

	// Prefix selects previously published files to replace, by base name.
	Prefix string

	// Author is the fixed commit identity.
	Author git.Author

	// Message overrides DefaultCommitMessage.
	Message string

	// Runner overrides the command runner used for git operations.
	// Tests inject a mock; the SSH deploy key path configures an
	// ExecRunner with GIT_SSH_COMMAND.
	Runner git.CommandRunner
}

// Result summarizes one publish run.
type Result struct {
	Removed   int  // previously published files removed
	Copied    int  // generated files copied in
	Committed bool // false when there was nothing to commit
}

// Publish clones the wiki, replaces prefixed files with the contents of
// srcDir, commits under the fixed author identity and pushes.
//
// A clean working copy after replacement is treated as a no-op success;
// Result.Committed reports whether a commit was pushed.
func (p *Publisher) Publish(ctx context.Context, srcDir string) (*Result, error) {
	workDir, err := os.MkdirTemp("", "iolib-wiki-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	cloneDir := filepath.Join(workDir, "wiki")
	opts := []git.Option{git.WithAuthor(p.Author)}
	if p.Runner != nil {
		opts = append(opts, git.WithRunner(p.Runner))
	}
	repo, err := git.Clone(ctx, p.URL, cloneDir, p.Branch, opts...)
	if err != nil {
		return nil, err
	}

	removed, err := RemovePrefixed(repo.WorkDir(), p.Prefix)
	if err != nil {
		return nil, err
	}

	copied, err := CopyIn(srcDir, repo.WorkDir())
	if err != nil {
		return nil, err
	}

	message := p.Message
	if message == "" {
		message = DefaultCommitMessage
	}

	result := &Result{Removed: removed, Copied: copied, Committed: true}
	if err := repo.CommitAllAndPush(ctx, message); err != nil {
		if errors.Is(err, git.ErrNothingToCommit) {
			slog.Info("wiki unchanged, nothing to publish", "prefix", p.Prefix)
			result.Committed = false
			return result, nil
		}
		return nil, err
	}
	return result, nil
}

// RemovePrefixed deletes regular files directly under dir whose base name
// starts with prefix. It returns how many files were removed; zero matches
// is not an error.
func RemovePrefixed(dir, prefix string) (int, error) {
	if prefix == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read wiki dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// CopyIn copies every regular file directly under srcDir into dstDir,
// overwriting by name. It returns how many files were copied.
func CopyIn(srcDir, dstDir string) (int, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, fmt.Errorf("read source dir: %w", err)
	}

	copied := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := copyFile(
			filepath.Join(srcDir, e.Name()),
			filepath.Join(dstDir, e.Name()),
		); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", dst, err)
	}
	return out.Close()
}
