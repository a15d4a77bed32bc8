package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/livetap/internal/telemetry"
)

const mb = 1024 * 1024

func ptr(v float64) *float64 { return &v }

func TestWatch_System(t *testing.T) {
	m := NewMonitor(10 * time.Second)
	th := Thresholds{CPUPercent: 90, MemoryPercent: 80}
	sample := telemetry.Telemetry{CPUPercent: 95, MemBytes: 900, TotalRAM: 1000}

	assert.Empty(t, Watch(m, sample, th, at(0)))
	events := Watch(m, sample, th, at(10000))

	require.Len(t, events, 2)
	assert.Equal(t, "CPU", events[0].Label)
	assert.Equal(t, "Memory", events[1].Label)
	assert.InDelta(t, 90.0, events[1].Value, 0.001)
}

func TestWatch_OwnThresholdsWin(t *testing.T) {
	m := NewMonitor(time.Second)
	sample := telemetry.Telemetry{
		CPUPercent:     50,
		CPUThreshold:   ptr(40),
		MemBytes:       300 * mb,
		MemThresholdMB: ptr(256),
	}

	Watch(m, sample, Thresholds{CPUPercent: 90}, at(0))
	events := Watch(m, sample, Thresholds{CPUPercent: 90}, at(1000))

	require.Len(t, events, 2)
	assert.Equal(t, 40.0, events[0].Threshold)
	assert.Equal(t, 256.0, events[1].Threshold)
	assert.InDelta(t, 300.0, events[1].Value, 0.001)
}

func TestWatch_Services(t *testing.T) {
	m := NewMonitor(time.Second)
	sample := telemetry.Telemetry{
		Services: []telemetry.ServiceSnapshot{
			{AppID: "web", CPUPercent: 85, CPUThreshold: 80, MemBytes: 10 * mb, MemThresholdMB: 512},
			{AppID: "idle", CPUPercent: 1, CPUThreshold: 0},
		},
	}

	Watch(m, sample, Thresholds{}, at(0))
	events := Watch(m, sample, Thresholds{}, at(1000))

	require.Len(t, events, 1)
	assert.Equal(t, "service/web/cpu", events[0].Key)
	assert.Equal(t, "web CPU", events[0].Label)
}

func TestWatch_ZeroThresholdIgnored(t *testing.T) {
	m := NewMonitor(time.Second)
	sample := telemetry.Telemetry{CPUPercent: 100}

	Watch(m, sample, Thresholds{}, at(0))
	assert.Empty(t, Watch(m, sample, Thresholds{}, at(5000)))
}

func TestThresholdsFrom(t *testing.T) {
	defaults := Thresholds{CPUPercent: 90, MemoryPercent: 90}

	got := ThresholdsFrom(telemetry.Thresholds{"cpu_percent": 75}, defaults)
	assert.Equal(t, Thresholds{CPUPercent: 75, MemoryPercent: 90}, got)

	assert.Equal(t, defaults, ThresholdsFrom(nil, defaults))
}
