package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"
	"github.com/utilitywarehouse/iolib/artifact"
	"github.com/utilitywarehouse/iolib/config"
	"github.com/utilitywarehouse/iolib/git"
	"github.com/utilitywarehouse/iolib/history"
	"github.com/utilitywarehouse/iolib/notify"
)

// Services holds the optional collaborators a Runner uses.
type Services struct {
	// Runner executes external commands. Defaults to ExecRunner.
	Runner git.CommandRunner

	// Notifier receives run events. Nil disables notifications.
	Notifier notify.Notifier

	// History journals runs. Nil disables the journal.
	History *history.Store

	// Artifacts persists run outputs. Nil disables artifact storage.
	Artifacts *artifact.Store
}

// Runner executes flows against a repository working copy.
type Runner struct {
	Config   config.Config
	RepoRoot string
	Services Services
}

// Run executes the named flow if the trigger matches its gate.
// A non-matching trigger returns a skipped state and no error.
func (r *Runner) Run(ctx context.Context, flowName string, trigger Trigger) (State, error) {
	state := NewState(flowName, trigger)
	state.RepoRoot = r.repoRoot()

	if !ShouldRun(flowName, trigger, r.Config.MainBranch) {
		state.Skipped = true
		state.FinalizeDuration()
		slog.Info("flow skipped",
			"flow", flowName,
			"event", trigger.Event,
			"branch", trigger.Branch,
		)
		r.notify(ctx, state, notify.EventRunSkipped, notify.SeverityInfo,
			fmt.Sprintf("%s flow skipped: %s on %s does not match its gate", flowName, trigger.Event, trigger.Branch))
		r.journalSkip(ctx, state)
		return state, nil
	}

	r.journalStart(ctx, state)
	r.notify(ctx, state, notify.EventRunStarted, notify.SeverityInfo,
		fmt.Sprintf("%s flow started", flowName))

	result, err := r.execute(ctx, flowName, state)
	result.FinalizeDuration()

	if err != nil {
		result.SetError(err)
		slog.Error("flow failed", "flow", flowName, "run_id", result.RunID, "error", err)
		r.saveArtifacts(result)
		r.notify(ctx, result, notify.EventRunFailed, notify.SeverityError,
			fmt.Sprintf("%s flow failed: %v", flowName, err))
		r.journalFinish(ctx, result, history.StatusFailed, err.Error())
		return result, err
	}
	r.saveArtifacts(result)

	slog.Info("flow completed", "flow", flowName, "run_id", result.RunID, "duration", result.Duration)
	r.notify(ctx, result, notify.EventRunCompleted, notify.SeverityInfo,
		fmt.Sprintf("%s flow completed", flowName))
	r.journalFinish(ctx, result, history.StatusSucceeded, "")
	return result, nil
}

func (r *Runner) execute(ctx context.Context, flowName string, state State) (State, error) {
	baseCtx := ctx
	if r.Services.Runner != nil {
		baseCtx = WithRunner(baseCtx, r.Services.Runner)
	}
	fctx := flowgraph.NewContext(baseCtx)

	switch flowName {
	case FlowCheck:
		return r.runCheck(fctx, state)
	case FlowPublish:
		return r.runPublish(fctx, state)
	default:
		return state, fmt.Errorf("unknown flow: %s", flowName)
	}
}

// runCheck wires install -> lint stages (in order) -> test.
func (r *Runner) runCheck(ctx flowgraph.Context, state State) (State, error) {
	graph := flowgraph.NewGraph[State]().
		AddNode("install", installNode(r.Config.Install))

	prev := "install"
	for _, stage := range r.Config.Lint.Stages {
		name := "lint-" + stage.Name
		graph = graph.
			AddNode(name, lintStageNode(stage)).
			AddEdge(prev, name)
		prev = name
	}

	graph = graph.
		AddNode("test", testNode(r.Config.Test)).
		AddEdge(prev, "test").
		AddEdge("test", flowgraph.END).
		SetEntry("install")

	compiled, err := graph.Compile()
	if err != nil {
		return state, fmt.Errorf("compile check graph: %w", err)
	}
	return compiled.Run(ctx, state)
}

// runPublish wires install -> generate-docs -> publish.
func (r *Runner) runPublish(ctx flowgraph.Context, state State) (State, error) {
	graph := flowgraph.NewGraph[State]().
		AddNode("install", installNode(r.Config.Install)).
		AddNode("generate-docs", generateDocsNode(r.Config.Docs)).
		AddNode("publish", publishNode(r.Config.Docs)).
		AddEdge("install", "generate-docs").
		AddEdge("generate-docs", "publish").
		AddEdge("publish", flowgraph.END).
		SetEntry("install")

	compiled, err := graph.Compile()
	if err != nil {
		return state, fmt.Errorf("compile publish graph: %w", err)
	}
	return compiled.Run(ctx, state)
}

func (r *Runner) repoRoot() string {
	if r.RepoRoot != "" {
		return r.RepoRoot
	}
	return "."
}

func (r *Runner) notify(ctx context.Context, state State, eventType notify.EventType, severity, message string) {
	notifier := r.Services.Notifier
	if notifier == nil {
		notifier = notify.NotifierFromContext(ctx)
	}
	if notifier == nil {
		return
	}

	event := notify.Event{
		Type:      eventType,
		RunID:     state.RunID,
		Flow:      state.Flow,
		Message:   message,
		Severity:  severity,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"event":  state.Trigger.Event,
			"branch": state.Trigger.Branch,
		},
	}

	// Notification failures never fail the flow.
	if err := notifier.Notify(ctx, event); err != nil {
		slog.Warn("notify failed", "error", err, "event_type", eventType)
	}
}

// saveArtifacts persists the final run state. Failures are logged,
// never fatal.
func (r *Runner) saveArtifacts(state State) {
	store := r.Services.Artifacts
	if store == nil {
		return
	}
	if err := store.SaveJSON(state.RunID, "state.json", state); err != nil {
		slog.Warn("save run artifacts failed", "error", err, "run_id", state.RunID)
	}
	for _, stage := range state.Stages {
		if stage.Output == "" {
			continue
		}
		name := "lint-" + stage.Name + ".txt"
		if err := store.Save(state.RunID, name, []byte(stage.Output)); err != nil {
			slog.Warn("save run artifacts failed", "error", err, "run_id", state.RunID)
		}
	}
}

func (r *Runner) journalStart(ctx context.Context, state State) {
	if r.Services.History == nil {
		return
	}
	err := r.Services.History.RecordStart(ctx, history.Run{
		ID:        state.RunID,
		Flow:      state.Flow,
		Event:     state.Trigger.Event,
		Branch:    state.Trigger.Branch,
		StartedAt: state.StartTime,
	})
	if err != nil {
		slog.Warn("journal run start failed", "error", err, "run_id", state.RunID)
	}
}

func (r *Runner) journalSkip(ctx context.Context, state State) {
	if r.Services.History == nil {
		return
	}
	r.journalStart(ctx, state)
	r.journalFinish(ctx, state, history.StatusSkipped, "")
}

func (r *Runner) journalFinish(ctx context.Context, state State, status history.RunStatus, errMsg string) {
	if r.Services.History == nil {
		return
	}
	if err := r.Services.History.RecordFinish(ctx, state.RunID, status, errMsg); err != nil {
		slog.Warn("journal run finish failed", "error", err, "run_id", state.RunID)
	}
}
