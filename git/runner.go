package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// CommandRunner executes a command in a directory and returns its combined
// output with surrounding whitespace trimmed.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Env is appended to the inherited environment, e.g. GIT_SSH_COMMAND.
	Env []string
}

// NewExecRunner creates a runner that executes commands directly.
func NewExecRunner(env ...string) *ExecRunner {
	return &ExecRunner{Env: env}
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	output := strings.TrimSpace(buf.String())
	if err != nil {
		if output != "" {
			return output, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, output)
		}
		return output, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return output, nil
}

// SequentialMockRunner replays scripted outputs in order, recording every
// invocation. Tests use it to exercise git flows without a git binary.
type SequentialMockRunner struct {
	mu      sync.Mutex
	queue   []mockResult
	History []MockCall
}

// MockCall records one runner invocation.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

type mockResult struct {
	output string
	err    error
}

// NewSequentialMockRunner creates an empty mock runner.
func NewSequentialMockRunner() *SequentialMockRunner {
	return &SequentialMockRunner{}
}

// AddOutput queues output and error for the next invocation.
func (r *SequentialMockRunner) AddOutput(output string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, mockResult{output: output, err: err})
}

// Run implements CommandRunner.
func (r *SequentialMockRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.History = append(r.History, MockCall{Dir: dir, Name: name, Args: args})
	if len(r.queue) == 0 {
		return "", fmt.Errorf("unexpected command: %s %s", name, strings.Join(args, " "))
	}
	next := r.queue[0]
	r.queue = r.queue[1:]
	return next.output, next.err
}

// Calls returns the recorded invocations as "name arg arg ..." strings.
func (r *SequentialMockRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	calls := make([]string, len(r.History))
	for i, c := range r.History {
		calls[i] = strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
	}
	return calls
}
