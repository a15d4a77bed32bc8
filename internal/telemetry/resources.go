package telemetry

import (
	"sort"
	"time"
)

// App is one entry of GET /apps. The backend returns an object keyed by
// app id; the id is copied into AppID when decoding.
type App struct {
	AppID     string `json:"app_id"`
	Running   bool   `json:"running"`
	Trackable bool   `json:"trackable"`
	Version   string `json:"version,omitempty"`
	Cgroup    string `json:"cgroup,omitempty"`
}

// Container is one entry of GET /containers, keyed by container name.
type Container struct {
	ContainerName  string  `json:"container_name"`
	Running        bool    `json:"running"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemBytes       float64 `json:"mem_bytes"`
	CPUThreshold   float64 `json:"cpu_threshold"`
	MemThresholdMB float64 `json:"memory_threshold_mb"`
	MemLimit       float64 `json:"mem_limit"`
	Image          string  `json:"image,omitempty"`
	Version        string  `json:"version,omitempty"`
	VersionReal    string  `json:"version_real,omitempty"`
}

// VersionDrift compares image:version against what is actually running.
func (c Container) VersionDrift() bool {
	return c.Version != "" && c.VersionReal != "" && c.Image+":"+c.Version != c.VersionReal
}

// AppsFromMap flattens the keyed /apps response into a slice sorted by id.
func AppsFromMap(m map[string]App) []App {
	out := make([]App, 0, len(m))
	for id, a := range m {
		a.AppID = id
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppID < out[j].AppID })
	return out
}

// ContainersFromMap flattens the keyed /containers response into a slice sorted by name.
func ContainersFromMap(m map[string]Container) []Container {
	out := make([]Container, 0, len(m))
	for name, c := range m {
		c.ContainerName = name
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContainerName < out[j].ContainerName })
	return out
}

// StatsPoint is one aggregated bucket of a historical stats query.
type StatsPoint struct {
	T      int64   `json:"t"`
	CPUAvg float64 `json:"cpu_avg"`
	CPUMin float64 `json:"cpu_min"`
	CPUMax float64 `json:"cpu_max"`
	MemAvg float64 `json:"mem_avg"`
	MemMin float64 `json:"mem_min"`
	MemMax float64 `json:"mem_max"`
	IORAvg float64 `json:"io_r_avg"`
	IOWAvg float64 `json:"io_w_avg"`
}

// Time converts T (epoch ms) to a time.Time.
func (p StatsPoint) Time() time.Time {
	return time.UnixMilli(p.T)
}

// StatsResponse is the body of a stats query.
type StatsResponse struct {
	Points []StatsPoint `json:"points"`
}

// State of a tracked workload in a state timeline.
type State string

const (
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// StateTimelineItem is one contiguous run/stop span. A nil EndTime means
// the span is still open.
type StateTimelineItem struct {
	State     State  `json:"state"`
	StartTime int64  `json:"start_time"`
	EndTime   *int64 `json:"end_time,omitempty"`
}

// Duration returns the span length, using now for open spans.
func (s StateTimelineItem) Duration(now time.Time) time.Duration {
	end := now.UnixMilli()
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return time.Duration(end-s.StartTime) * time.Millisecond
}

// Thresholds is the body of GET /system/thresholds, keyed by metric name
// (for example "cpu_percent" or "memory_percent").
type Thresholds map[string]float64

// Get returns the threshold for key and whether it was present.
func (t Thresholds) Get(key string) (float64, bool) {
	v, ok := t[key]
	return v, ok
}
