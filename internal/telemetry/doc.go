// Package telemetry holds the wire shapes exchanged with the monitoring
// backend: live snapshots pushed over streams, alert feeds, and the
// REST resources (apps, containers, historical stats, state timelines).
//
// Field names follow the backend's JSON keys exactly. Optional fields are
// pointers so "absent" and "zero" stay distinguishable where consumers
// care (network rates, thresholds).
package telemetry
