package alert

import (
	"time"

	"github.com/rileyhilliard/livetap/internal/telemetry"
)

// Thresholds are the host-wide limits, in percent.
type Thresholds struct {
	CPUPercent    float64
	MemoryPercent float64
}

// ThresholdsFrom reads the /system/thresholds body, keeping defaults for
// missing keys.
func ThresholdsFrom(t telemetry.Thresholds, defaults Thresholds) Thresholds {
	out := defaults
	if v, ok := t.Get("cpu_percent"); ok {
		out.CPUPercent = v
	}
	if v, ok := t.Get("memory_percent"); ok {
		out.MemoryPercent = v
	}
	return out
}

// Watch observes one sample. Host-wide CPU and memory percent are checked
// against th; a sample carrying its own thresholds (service or container
// feeds) is checked against those; every embedded service is checked
// against its own limits. Keys look like "cpu", "memory",
// "service/web/cpu".
func Watch(m *Monitor, t telemetry.Telemetry, th Thresholds, now time.Time) []BreachEvent {
	var out []BreachEvent
	observe := func(key, label string, value, threshold float64) {
		if threshold <= 0 {
			return
		}
		m.SetLabel(key, label)
		if ev := m.Observe(key, value, threshold, now); ev != nil {
			out = append(out, *ev)
		}
	}

	if t.CPUThreshold != nil {
		observe("cpu", "CPU", t.CPUPercent, *t.CPUThreshold)
	} else {
		observe("cpu", "CPU", t.CPUPercent, th.CPUPercent)
	}
	if t.MemThresholdMB != nil {
		observe("memory", "Memory", t.MemMB(), *t.MemThresholdMB)
	} else if t.TotalRAM > 0 {
		observe("memory", "Memory", t.MemPercent(), th.MemoryPercent)
	}

	for _, svc := range t.Services {
		prefix := "service/" + svc.AppID + "/"
		observe(prefix+"cpu", svc.AppID+" CPU", svc.CPUPercent, svc.CPUThreshold)
		observe(prefix+"memory", svc.AppID+" memory", svc.MemMB(), svc.MemThresholdMB)
	}
	return out
}
