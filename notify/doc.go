// Package notify reports flow run events.
//
// A Notifier receives an Event when a run starts, completes, or fails.
// Implementations include structured logging (LogNotifier), a generic
// JSON webhook (WebhookNotifier), and a fan-out (MultiNotifier).
//
// Flows find their notifier via the context:
//
//	ctx = notify.WithNotifier(ctx, notify.NewLogNotifier(nil))
package notify
