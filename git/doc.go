// Package git provides the git operations the iolib automation flows need:
// cloning a working copy, staging, committing under a fixed author identity,
// and pushing.
//
// Core types:
//   - Context: operations bound to one working copy
//   - CommandRunner: interface for executing git commands (with mocks for testing)
//
// Example usage:
//
//	repo, err := git.Clone(ctx, "git@github.com:org/repo.wiki.git", dir, "master")
//	repo = repo.WithAuthor(git.Author{Name: "publisher", Email: "publisher@example.com"})
//	err = repo.CommitAllAndPush(ctx, "Update documentation")
package git
