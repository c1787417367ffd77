package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Author identifies the committer and author of commits made through Context.
type Author struct {
	Name  string
	Email string
}

// Context manages git operations for one working copy.
type Context struct {
	workDir string
	author  Author
	runner  CommandRunner
}

// Option configures Context.
type Option func(*Context)

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(g *Context) {
		g.runner = runner
	}
}

// WithAuthor sets the identity used for commits.
func WithAuthor(author Author) Option {
	return func(g *Context) {
		g.author = author
	}
}

// NewContext creates a git context for an existing repository.
// It validates that the path is a git working copy.
func NewContext(ctx context.Context, repoPath string, opts ...Option) (*Context, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	g := &Context{
		workDir: absPath,
		runner:  NewExecRunner(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if _, err := g.runGit(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, ErrNotGitRepo
	}
	return g, nil
}

// Clone clones the repository at url into path, checked out at branch, and
// returns a Context for the fresh working copy.
func Clone(ctx context.Context, url, path, branch string, opts ...Option) (*Context, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	g := &Context{
		workDir: absPath,
		runner:  NewExecRunner(),
	}
	for _, opt := range opts {
		opt(g)
	}

	args := []string{"clone"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, absPath)

	// Clone runs from the parent so the target directory need not exist.
	if output, err := g.runner.Run(ctx, filepath.Dir(absPath), "git", args...); err != nil {
		return nil, &Error{Op: "clone", Output: output, Err: errors.Join(ErrCloneFailed, err)}
	}
	return g, nil
}

// WorkDir returns the working copy path.
func (g *Context) WorkDir() string {
	return g.workDir
}

// WithAuthor returns a copy of the context committing as author.
func (g *Context) WithAuthor(author Author) *Context {
	clone := *g
	clone.author = author
	return &clone
}

// CurrentBranch returns the current branch name.
func (g *Context) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := g.runGit(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &Error{Op: "get current branch", Err: err}
	}
	return branch, nil
}

// HeadCommit returns the current HEAD commit SHA.
func (g *Context) HeadCommit(ctx context.Context) (string, error) {
	sha, err := g.runGit(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", &Error{Op: "get HEAD commit", Err: err}
	}
	return sha, nil
}

// StageAll stages all changes (git add -A).
func (g *Context) StageAll(ctx context.Context) error {
	if _, err := g.runGit(ctx, "add", "-A"); err != nil {
		return &Error{Op: "stage all", Err: err}
	}
	return nil
}

// Commit creates a commit with the given message under the configured author.
// Returns ErrNothingToCommit if there are no staged changes.
func (g *Context) Commit(ctx context.Context, message string) error {
	args := []string{}
	if g.author.Name != "" {
		args = append(args,
			"-c", "user.name="+g.author.Name,
			"-c", "user.email="+g.author.Email)
	}
	args = append(args, "commit", "-m", message)

	output, err := g.runGit(ctx, args...)
	if err != nil {
		if strings.Contains(output, "nothing to commit") ||
			strings.Contains(err.Error(), "nothing to commit") {
			return ErrNothingToCommit
		}
		return &Error{Op: "commit", Output: output, Err: err}
	}
	return nil
}

// Push pushes the current branch to its upstream on the remote.
func (g *Context) Push(ctx context.Context, remote string) error {
	if output, err := g.runGit(ctx, "push", remote, "HEAD"); err != nil {
		return &Error{Op: "push", Output: output, Err: errors.Join(ErrPushFailed, err)}
	}
	return nil
}

// CommitAllAndPush stages everything, commits with the message, and pushes
// to origin. Returns ErrNothingToCommit when the working copy is clean.
func (g *Context) CommitAllAndPush(ctx context.Context, message string) error {
	if err := g.StageAll(ctx); err != nil {
		return err
	}
	if err := g.Commit(ctx, message); err != nil {
		return err
	}
	return g.Push(ctx, "origin")
}

// Status returns the working tree status in short format.
func (g *Context) Status(ctx context.Context) (string, error) {
	status, err := g.runGit(ctx, "status", "--short")
	if err != nil {
		return "", &Error{Op: "status", Err: err}
	}
	return status, nil
}

// IsClean returns true if the working tree has no uncommitted changes.
func (g *Context) IsClean(ctx context.Context) (bool, error) {
	status, err := g.Status(ctx)
	if err != nil {
		return false, err
	}
	return status == "", nil
}

// RemoteURL returns the URL of the specified remote.
func (g *Context) RemoteURL(ctx context.Context, remote string) (string, error) {
	url, err := g.runGit(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", &Error{Op: "get remote URL", Err: err}
	}
	return url, nil
}

// runGit executes a git command in the working copy and returns stdout.
func (g *Context) runGit(ctx context.Context, args ...string) (string, error) {
	return g.runner.Run(ctx, g.workDir, "git", args...)
}
