// Package monitor implements the full-screen `livetap watch` and
// `livetap tail` views.
//
// A Model owns one stream.Subscription. Every signal on the subscription's
// Changes channel becomes a changeMsg; the model then folds the current
// Status into its own state:
//
//	json   - decode telemetry, push series.Charts, run the alert monitor
//	lines  - refresh the log viewport, following the tail unless scrolled
//	alerts - replace the alert list and recompute active alert types
//
// Pausing toggles the subscription's enabled flag, which closes the socket
// and keeps the last snapshot on screen. Quitting unsubscribes.
package monitor
