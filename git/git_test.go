package git

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitUsesAuthorIdentity(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("", nil) // git commit

	g := &Context{
		workDir: t.TempDir(),
		author:  Author{Name: "publisher", Email: "publisher@example.com"},
		runner:  runner,
	}

	require.NoError(t, g.Commit(context.Background(), "Update documentation"))

	require.Len(t, runner.History, 1)
	assert.Equal(t, []string{
		"-c", "user.name=publisher",
		"-c", "user.email=publisher@example.com",
		"commit", "-m", "Update documentation",
	}, runner.History[0].Args)
}

func TestCommitNothingToCommit(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("nothing to commit, working tree clean", errors.New("exit status 1"))

	g := &Context{workDir: t.TempDir(), runner: runner}

	err := g.Commit(context.Background(), "msg")
	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestCommitAllAndPush(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("", nil) // git add -A
	runner.AddOutput("", nil) // git commit
	runner.AddOutput("", nil) // git push origin HEAD

	g := &Context{workDir: t.TempDir(), runner: runner}

	require.NoError(t, g.CommitAllAndPush(context.Background(), "msg"))
	assert.Equal(t, []string{
		"git add -A",
		"git commit -m msg",
		"git push origin HEAD",
	}, runner.Calls())
}

func TestPushFailure(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("rejected: non-fast-forward", errors.New("exit status 1"))

	g := &Context{workDir: t.TempDir(), runner: runner}

	err := g.Push(context.Background(), "origin")
	assert.ErrorIs(t, err, ErrPushFailed)

	var gitErr *Error
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, "push", gitErr.Op)
	assert.Contains(t, gitErr.Output, "non-fast-forward")
}

func TestCloneFailure(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("fatal: repository not found", errors.New("exit status 128"))

	_, err := Clone(context.Background(), "git@example.com:nope.git", t.TempDir(), "main",
		WithRunner(runner))
	assert.ErrorIs(t, err, ErrCloneFailed)
}

func TestClonePassesBranch(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("", nil)

	_, err := Clone(context.Background(), "https://example.com/wiki.git", t.TempDir()+"/wiki", "master",
		WithRunner(runner))
	require.NoError(t, err)

	require.Len(t, runner.History, 1)
	assert.Contains(t, runner.History[0].Args, "--branch")
	assert.Contains(t, runner.History[0].Args, "master")
}

func TestIsClean(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("", nil)
	runner.AddOutput(" M docs/iolib.drive.md", nil)

	g := &Context{workDir: t.TempDir(), runner: runner}

	clean, err := g.IsClean(context.Background())
	require.NoError(t, err)
	assert.True(t, clean)

	clean, err = g.IsClean(context.Background())
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestNewContextNotARepo(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("fatal: not a git repository", errors.New("exit status 128"))

	_, err := NewContext(context.Background(), t.TempDir(), WithRunner(runner))
	assert.ErrorIs(t, err, ErrNotGitRepo)
}
