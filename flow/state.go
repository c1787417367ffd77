package flow

import (
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Flow names.
const (
	FlowCheck   = "check"
	FlowPublish = "publish"
)

// Trigger events.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Trigger describes the repository event that started a run.
type Trigger struct {
	// Event is the event kind, EventPush or EventPullRequest.
	Event string `json:"event"`

	// Branch is the branch the event targets.
	Branch string `json:"branch"`
}

// ShouldRun reports whether a flow's gate matches a trigger.
// The check flow runs on pull requests targeting the main branch;
// the publish flow runs on pushes to the main branch.
func ShouldRun(flowName string, t Trigger, mainBranch string) bool {
	switch flowName {
	case FlowCheck:
		return t.Event == EventPullRequest && t.Branch == mainBranch
	case FlowPublish:
		return t.Event == EventPush && t.Branch == mainBranch
	}
	return false
}

// InstallState tracks the package-install step.
type InstallState struct {
	Installed     bool   `json:"installed,omitempty"`
	InstallOutput string `json:"installOutput,omitempty"`
}

// LintState tracks the static-analysis stages.
type LintState struct {
	Stages []StageResult `json:"stages,omitempty"`
}

// StageResult is the outcome of one static-analysis stage.
type StageResult struct {
	Name     string    `json:"name"`
	Advisory bool      `json:"advisory,omitempty"`
	Passed   bool      `json:"passed"`
	Findings []Finding `json:"findings,omitempty"`
	Output   string    `json:"output,omitempty"`
}

// TestState tracks test execution.
type TestState struct {
	TestOutput string    `json:"testOutput,omitempty"`
	TestPassed bool      `json:"testPassed,omitempty"`
	TestRunAt  time.Time `json:"testRunAt,omitempty"`
}

// DocsState tracks documentation generation.
type DocsState struct {
	DocsDir        string   `json:"docsDir,omitempty"`
	GeneratedFiles []string `json:"generatedFiles,omitempty"`
}

// PublishState tracks wiki publishing.
type PublishState struct {
	Removed     int       `json:"removed,omitempty"`
	Copied      int       `json:"copied,omitempty"`
	Committed   bool      `json:"committed,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// State is the complete state of a flow run.
type State struct {
	RunID    string  `json:"runId"`
	Flow     string  `json:"flow"`
	Trigger  Trigger `json:"trigger"`
	RepoRoot string  `json:"repoRoot"`

	InstallState
	LintState
	TestState
	DocsState
	PublishState

	// Skipped is set when the trigger did not match the flow's gate.
	Skipped bool `json:"skipped,omitempty"`

	Error     string        `json:"error,omitempty"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// NewState creates a run state with a fresh run ID.
func NewState(flowName string, trigger Trigger) State {
	return State{
		RunID:     generateRunID(flowName),
		Flow:      flowName,
		Trigger:   trigger,
		StartTime: time.Now(),
	}
}

// SetError records an error on the state.
func (s *State) SetError(err error) {
	if err != nil {
		s.Error = err.Error()
	}
}

// HasError reports whether the run failed.
func (s State) HasError() bool {
	return s.Error != ""
}

// FinalizeDuration sets the total duration from the start time.
func (s *State) FinalizeDuration() {
	s.Duration = time.Since(s.StartTime)
}

func generateRunID(flowName string) string {
	id, err := nanoid.New()
	if err != nil {
		// nanoid only fails when the system entropy source does.
		return fmt.Sprintf("%s-%d", flowName, time.Now().UnixNano())
	}
	return flowName + "-" + id
}
