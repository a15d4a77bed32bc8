package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/livetap/internal/telemetry"
)

func f(v float64) *float64 { return &v }

func TestCharts_PushAlignsTimestamps(t *testing.T) {
	ts := time.Date(2024, 3, 1, 13, 4, 5, 0, time.Local)
	sample := telemetry.Telemetry{
		TsMs:       ts.UnixMilli(),
		CPUPercent: 42,
		MemBytes:   512 * 1024 * 1024,
		ReadBps:    2048,
		WriteBps:   1024,
		NetRxBps:   f(10240),
	}

	c := NewCharts(60).Push(sample)
	require.Equal(t, 1, c.Len())

	cpu, _ := c.CPU.Last()
	mem, _ := c.Memory.Last()
	disk, _ := c.Disk.Last()
	net, _ := c.Network.Last()

	assert.Equal(t, "13:04:05", cpu.Time)
	assert.Equal(t, cpu.Time, mem.Time)
	assert.Equal(t, cpu.Time, disk.Time)
	assert.Equal(t, cpu.Time, net.Time)

	assert.Equal(t, 42.0, cpu.Value)
	assert.Equal(t, 512.0, mem.Value)
	assert.Equal(t, PairPoint{Time: "13:04:05", A: 2, B: 1}, disk)
	assert.Equal(t, PairPoint{Time: "13:04:05", A: 10, B: 0}, net)
}

func TestCharts_CapacityPerMetric(t *testing.T) {
	c := NewCharts(5)
	for i := 0; i < 7; i++ {
		c = c.Push(telemetry.Telemetry{TsMs: int64(i) * 1000, CPUPercent: float64(i)})
	}

	assert.Equal(t, 5, c.CPU.Len())
	assert.Equal(t, 5, c.Network.Len())
	assert.Equal(t, []float64{2, 3, 4, 5, 6}, Values(c.CPU.Items()))
}

func TestSplit(t *testing.T) {
	a, b := Split([]PairPoint{{A: 1, B: 2}, {A: 3, B: 4}})
	assert.Equal(t, []float64{1, 3}, a)
	assert.Equal(t, []float64{2, 4}, b)
}
