package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/utilitywarehouse/iolib/auth"
	"github.com/utilitywarehouse/iolib/flow"
	"github.com/utilitywarehouse/iolib/git"
)

const timeRound = 10 * time.Millisecond

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var event, branch string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Install the package, run static analysis and the test suite",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFlow(cmd, opts, flow.FlowCheck, event, branch, "")
		},
	}

	cmd.Flags().StringVar(&event, "event", flow.EventPullRequest, "triggering event (push|pull_request)")
	cmd.Flags().StringVar(&branch, "branch", "", "target branch (default: configured main branch)")
	return cmd
}

func newPublishDocsCmd(opts *rootOptions) *cobra.Command {
	var event, branch, deployKey string

	cmd := &cobra.Command{
		Use:   "publish-docs",
		Short: "Generate documentation and publish it to the wiki",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFlow(cmd, opts, flow.FlowPublish, event, branch, deployKey)
		},
	}

	cmd.Flags().StringVar(&event, "event", flow.EventPush, "triggering event (push|pull_request)")
	cmd.Flags().StringVar(&branch, "branch", "", "target branch (default: configured main branch)")
	cmd.Flags().StringVar(&deployKey, "deploy-key", "", "SSH private key for pushing to the wiki remote")
	return cmd
}

// deployKeyRunner builds a command runner whose git pushes authenticate
// with the given deploy key.
func deployKeyRunner(path string) (*git.ExecRunner, error) {
	key, err := auth.LoadDeployKey(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded deploy key", "path", key.Path, "fingerprint", key.Fingerprint)
	return git.NewExecRunner(key.GitSSHCommand()), nil
}

func runFlow(cmd *cobra.Command, opts *rootOptions, flowName, event, branch, deployKey string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if branch == "" {
		branch = cfg.MainBranch
	}

	runner, cleanup, err := opts.buildRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if deployKey != "" {
		execRunner, err := deployKeyRunner(deployKey)
		if err != nil {
			return err
		}
		runner.Services.Runner = execRunner
	}

	state, err := runner.Run(cmd.Context(), flowName, flow.Trigger{
		Event:  event,
		Branch: branch,
	})
	if err != nil {
		return err
	}
	if state.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: skipped (%s on %s)\n", flowName, event, branch)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (run %s, %s)\n", flowName, state.RunID, state.Duration.Round(timeRound))
	return nil
}
