package flow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"
	"github.com/utilitywarehouse/iolib/config"
	"github.com/utilitywarehouse/iolib/docgen"
	"github.com/utilitywarehouse/iolib/git"
	"github.com/utilitywarehouse/iolib/wiki"
)

type serviceContextKey string

const runnerServiceKey serviceContextKey = "iolib.runner"

// WithRunner adds a CommandRunner to the context. Nodes use it for
// every external command, which makes flows testable with a mock.
func WithRunner(ctx context.Context, r git.CommandRunner) context.Context {
	return context.WithValue(ctx, runnerServiceKey, r)
}

// RunnerFromContext extracts the CommandRunner from context,
// falling back to an ExecRunner.
func RunnerFromContext(ctx context.Context) git.CommandRunner {
	if r, ok := ctx.Value(runnerServiceKey).(git.CommandRunner); ok {
		return r
	}
	return git.NewExecRunner()
}

// installNode installs the package with its development extras.
//
// Updates: state.Installed, state.InstallOutput
func installNode(cfg config.Install) flowgraph.NodeFunc[State] {
	return func(ctx flowgraph.Context, state State) (State, error) {
		runner := RunnerFromContext(ctx)

		out, err := runner.Run(ctx, state.RepoRoot, cfg.Command[0], cfg.Command[1:]...)
		state.InstallOutput = out
		if err != nil {
			return state, fmt.Errorf("install package: %w", err)
		}

		state.Installed = true
		return state, nil
	}
}

// lintStageNode runs one static-analysis stage.
//
// A hard stage fails the flow when the analyser exits non-zero. An
// advisory stage reports its findings and always succeeds.
//
// Updates: state.Stages
func lintStageNode(stage config.Stage) flowgraph.NodeFunc[State] {
	return func(ctx flowgraph.Context, state State) (State, error) {
		runner := RunnerFromContext(ctx)

		out, err := runner.Run(ctx, state.RepoRoot, stage.Command[0], stage.Command[1:]...)
		findings := ParseFindings(out)

		result := StageResult{
			Name:     stage.Name,
			Advisory: stage.Advisory,
			Passed:   err == nil,
			Findings: findings,
			Output:   out,
		}
		state.Stages = append(state.Stages, result)

		if stage.Advisory {
			for _, f := range findings {
				slog.Warn("advisory finding",
					"stage", stage.Name,
					"file", f.File,
					"line", f.Line,
					"rule", f.Rule,
					"message", f.Message,
				)
			}
			return state, nil
		}

		if err != nil {
			for _, f := range findings {
				slog.Error("finding",
					"stage", stage.Name,
					"file", f.File,
					"line", f.Line,
					"rule", f.Rule,
					"message", f.Message,
				)
			}
			return state, fmt.Errorf("stage %s: %d finding(s): %w", stage.Name, len(findings), err)
		}
		return state, nil
	}
}

// testNode runs the test suite.
//
// Updates: state.TestOutput, state.TestPassed, state.TestRunAt
func testNode(cfg config.Test) flowgraph.NodeFunc[State] {
	return func(ctx flowgraph.Context, state State) (State, error) {
		runner := RunnerFromContext(ctx)

		out, err := runner.Run(ctx, state.RepoRoot, cfg.Command[0], cfg.Command[1:]...)
		state.TestOutput = out
		state.TestRunAt = time.Now()
		state.TestPassed = err == nil

		if err != nil {
			return state, fmt.Errorf("run tests: %w", err)
		}
		return state, nil
	}
}

// generateDocsNode produces the documentation set.
//
// Updates: state.DocsDir, state.GeneratedFiles
func generateDocsNode(cfg config.Docs) flowgraph.NodeFunc[State] {
	return func(ctx flowgraph.Context, state State) (State, error) {
		outDir := cfg.OutputDir
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(state.RepoRoot, outDir)
		}

		files, err := docgen.Generate(state.RepoRoot, outDir)
		if err != nil {
			return state, fmt.Errorf("generate documentation: %w", err)
		}

		state.DocsDir = outDir
		state.GeneratedFiles = files
		return state, nil
	}
}

// publishNode pushes the generated documentation to the wiki.
//
// Updates: state.Removed, state.Copied, state.Committed, state.PublishedAt
func publishNode(cfg config.Docs) flowgraph.NodeFunc[State] {
	return func(ctx flowgraph.Context, state State) (State, error) {
		if cfg.WikiURL == "" {
			return state, fmt.Errorf("publish documentation: wiki URL not configured")
		}

		publisher := &wiki.Publisher{
			URL:    cfg.WikiURL,
			Branch: cfg.WikiBranch,
			Prefix: cfg.Prefix,
			Author: git.Author{
				Name:  cfg.AuthorName,
				Email: cfg.AuthorEmail,
			},
			Message: cfg.CommitMessage,
			Runner:  RunnerFromContext(ctx),
		}

		result, err := publisher.Publish(ctx, state.DocsDir)
		if err != nil {
			return state, fmt.Errorf("publish documentation: %w", err)
		}

		state.Removed = result.Removed
		state.Copied = result.Copied
		state.Committed = result.Committed
		state.PublishedAt = time.Now()
		return state, nil
	}
}
