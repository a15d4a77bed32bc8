package series

import (
	"github.com/rileyhilliard/livetap/internal/telemetry"
)

// TimeFormat is the display format of chart timestamps.
const TimeFormat = "15:04:05"

// Point is one value at a display timestamp.
type Point struct {
	Time  string
	Value float64
}

// PairPoint carries two values sharing a timestamp (read/write, rx/tx).
type PairPoint struct {
	Time string
	A    float64
	B    float64
}

// Charts keeps the per-metric buffers of one live feed. Every Push stamps
// all four buffers with the same timestamp so the charts stay aligned.
type Charts struct {
	CPU     Buffer[Point]     // percent
	Memory  Buffer[Point]     // MB
	Disk    Buffer[PairPoint] // read, write KB/s
	Network Buffer[PairPoint] // rx, tx KB/s
}

// NewCharts returns empty charts holding capacity points per metric.
func NewCharts(capacity int) Charts {
	return Charts{
		CPU:     New[Point](capacity),
		Memory:  New[Point](capacity),
		Disk:    New[PairPoint](capacity),
		Network: New[PairPoint](capacity),
	}
}

// Push folds one sample into new Charts.
func (c Charts) Push(t telemetry.Telemetry) Charts {
	ts := t.Time().Format(TimeFormat)
	read, write := t.DiskKBps()
	rx, tx := t.NetKBps()

	return Charts{
		CPU:     c.CPU.Push(Point{Time: ts, Value: t.CPUPercent}),
		Memory:  c.Memory.Push(Point{Time: ts, Value: t.MemMB()}),
		Disk:    c.Disk.Push(PairPoint{Time: ts, A: read, B: write}),
		Network: c.Network.Push(PairPoint{Time: ts, A: rx, B: tx}),
	}
}

// Len is the number of aligned samples held.
func (c Charts) Len() int {
	return c.CPU.Len()
}

// Values extracts the numeric series of points, oldest first.
func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

// Split extracts the two numeric series of pair points, oldest first.
func Split(points []PairPoint) (a, b []float64) {
	a = make([]float64, len(points))
	b = make([]float64, len(points))
	for i, p := range points {
		a[i] = p.A
		b[i] = p.B
	}
	return a, b
}
