// Package capture records stream lifecycle traces to disk.
//
// Each physical connection gets a UUID; every state change, received frame,
// dropped frame, reconnect decision and transport error is written as one
// CBOR-encoded Event. Traces are append-only and can be replayed with
// Reader, optionally narrowed with a Filter.
//
//	rec, err := capture.NewFileRecorder("trace.cbor", capture.FileOptions{})
//	sub := stream.Subscribe(key, true, stream.ModeJSON, stream.WithRecorder(rec))
package capture
