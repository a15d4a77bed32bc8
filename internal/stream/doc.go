// Package stream keeps live socket feeds from the monitoring backend
// flowing.
//
// A Subscription owns at most one physical connection for its current key
// (the resolved stream URL). It reconnects after unexpected drops under a
// ReconnectPolicy, replaces its connection when the key changes, and
// exposes the latest decoded payload (or a bounded log tail) through
// Status.
//
// Every connection is tagged with an epoch. Callbacks from a connection
// whose epoch is no longer current are dropped after a single integer
// comparison, so late events from a superseded or torn-down connection
// never reach the subscription's state.
//
//	sub := stream.Subscribe(url, true, stream.ModeJSON)
//	defer sub.Unsubscribe()
//	for range sub.Changes() {
//		st := sub.Status()
//		...
//	}
package stream
