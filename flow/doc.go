// Package flow runs the repository's automation flows.
//
// Two flows exist:
//
//   - check: install the package, run the static-analysis stages, run
//     the test suite. Triggered by a pull request targeting the main
//     branch.
//   - publish: install the package, generate documentation, publish it
//     to the wiki repository. Triggered by a push to the main branch.
//
// Each flow is a small graph of nodes executed in order. State passes
// from node to node; the first failing node aborts the flow. A trigger
// that does not match a flow's gate skips the run entirely.
//
// Example:
//
//	runner := flow.Runner{Config: cfg}
//	state, err := runner.Run(ctx, flow.FlowCheck, flow.Trigger{
//	    Event:  flow.EventPullRequest,
//	    Branch: "main",
//	})
package flow
