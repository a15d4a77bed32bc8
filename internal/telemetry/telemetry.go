package telemetry

import (
	"time"
)

const (
	bytesPerKB = 1024
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// SystemAppID is the id the backend uses for host-wide series. Callers may
// use the friendlier "system" and translate with WireAppID.
const SystemAppID = "__system__"

// WireAppID maps the user-facing "system" id to SystemAppID and passes
// every other id through unchanged.
func WireAppID(id string) string {
	if id == "system" {
		return SystemAppID
	}
	return id
}

// Telemetry is one live sample. The same shape is pushed for the host
// (mode=system), a tracked service (mode=service) and a container.
type Telemetry struct {
	TsMs           int64    `json:"ts_ms"`
	CPUPercent     float64  `json:"cpu_percent"`
	MemBytes       float64  `json:"mem_bytes"`
	TotalRAM       float64  `json:"total_ram,omitempty"`
	ReadBps        float64  `json:"read_Bps"`
	WriteBps       float64  `json:"write_Bps"`
	NetRxBps       *float64 `json:"net_rx_Bps,omitempty"`
	NetTxBps       *float64 `json:"net_tx_Bps,omitempty"`
	DiskUsedPct    *float64 `json:"disk_used_percent,omitempty"`
	AppID          string   `json:"app_id,omitempty"`
	ContainerName  string   `json:"container_name,omitempty"`
	CPUThreshold   *float64 `json:"cpu_threshold,omitempty"`
	MemThresholdMB *float64 `json:"memory_threshold_mb,omitempty"`
	MemLimit       float64  `json:"mem_limit,omitempty"`
	Running        *bool    `json:"running,omitempty"`

	Services []ServiceSnapshot `json:"services,omitempty"`
}

// Time converts TsMs to a time.Time in the local zone.
func (t Telemetry) Time() time.Time {
	return time.UnixMilli(t.TsMs)
}

// MemMB is memory in mebibytes.
func (t Telemetry) MemMB() float64 {
	return t.MemBytes / bytesPerMB
}

// MemGB is memory in gibibytes.
func (t Telemetry) MemGB() float64 {
	return t.MemBytes / bytesPerGB
}

// MemPercent is memory use relative to TotalRAM, or 0 when the total is unknown.
func (t Telemetry) MemPercent() float64 {
	if t.TotalRAM <= 0 {
		return 0
	}
	return t.MemBytes / t.TotalRAM * 100
}

// DiskKBps returns read and write throughput in KB/s.
func (t Telemetry) DiskKBps() (read, write float64) {
	return t.ReadBps / bytesPerKB, t.WriteBps / bytesPerKB
}

// NetKBps returns receive and transmit throughput in KB/s. Missing rates count as zero.
func (t Telemetry) NetKBps() (rx, tx float64) {
	return deref(t.NetRxBps) / bytesPerKB, deref(t.NetTxBps) / bytesPerKB
}

// ServiceSnapshot is a per-service row embedded in a system sample.
type ServiceSnapshot struct {
	AppID          string  `json:"app_id"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemBytes       float64 `json:"mem_bytes"`
	CPUThreshold   float64 `json:"cpu_threshold"`
	MemThresholdMB float64 `json:"memory_threshold_mb"`
	Running        bool    `json:"running"`
	Trackable      bool    `json:"trackable"`
	Version        string  `json:"version,omitempty"`
	VersionReal    string  `json:"version_real,omitempty"`
	Uptime         string  `json:"uptime,omitempty"`
	Cgroup         string  `json:"cgroup,omitempty"`
}

// MemMB is memory in mebibytes.
func (s ServiceSnapshot) MemMB() float64 {
	return s.MemBytes / bytesPerMB
}

// CPUExceeded reports whether CPU is at or over the service's own threshold.
func (s ServiceSnapshot) CPUExceeded() bool {
	return s.CPUThreshold > 0 && s.CPUPercent >= s.CPUThreshold
}

// MemExceeded reports whether memory is at or over the service's own threshold.
func (s ServiceSnapshot) MemExceeded() bool {
	return s.MemThresholdMB > 0 && s.MemMB() >= s.MemThresholdMB
}

// VersionDrift reports whether the declared and running versions disagree.
func (s ServiceSnapshot) VersionDrift() bool {
	return s.Version != "" && s.VersionReal != "" && s.Version != s.VersionReal
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
