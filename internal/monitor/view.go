package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/livetap/internal/series"
	"github.com/rileyhilliard/livetap/internal/stream"
	"github.com/rileyhilliard/livetap/internal/telemetry"
	"github.com/rileyhilliard/livetap/internal/ui"
)

const (
	headerHeight = 2
	footerHeight = 2

	minSparkWidth = 10
	progressWidth = 20
)

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(renderHelp())
	} else {
		switch m.status.Mode {
		case stream.ModeLines:
			b.WriteString(m.renderLogs())
		case stream.ModeAlerts:
			b.WriteString(m.renderAlerts())
		default:
			b.WriteString(m.renderTelemetry())
		}
	}

	if n := m.renderNotifications(); n != "" {
		b.WriteString("\n")
		b.WriteString(n)
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	glyph, color := stateGlyph(m.status)
	parts := []string{
		TitleStyle.Render(m.title),
		lipgloss.NewStyle().Foreground(color).Render(glyph + " " + StateText(m.status)),
	}

	if m.status.Attempts > 0 && !m.status.Exhausted() {
		parts = append(parts, MutedStyle.Render(fmt.Sprintf("retry %d", m.status.Attempts)))
	}
	if !m.lastUpdate.IsZero() {
		parts = append(parts, MutedStyle.Render("updated "+ago(m.now().Sub(m.lastUpdate))))
	}

	header := HeaderStyle.Render(strings.Join(parts, MutedStyle.Render(" | ")))
	if m.status.Err != nil {
		header += "\n" + ErrorStyle.Render("  "+firstLine(m.status.Err.Error()))
	}
	return header
}

func (m Model) renderTelemetry() string {
	t := m.latest
	if t == nil {
		return MutedStyle.Render("  Waiting for data...")
	}

	width := m.sparkWidth()
	var rows []string

	cpuLimit := m.opts.Thresholds.CPUPercent
	if t.CPUThreshold != nil {
		cpuLimit = *t.CPUThreshold
	}
	rows = append(rows, row("CPU",
		ui.RenderSparkline(series.Values(m.charts.CPU.Items()), width),
		colored(fmt.Sprintf("%5.1f%%", t.CPUPercent), levelColor(t.CPUPercent, cpuLimit))))

	mem := series.Values(m.charts.Memory.Items())
	memText := fmt.Sprintf("%.1f MB", t.MemMB())
	switch {
	case t.MemThresholdMB != nil:
		memText = colored(memText, levelColor(t.MemMB(), *t.MemThresholdMB)) +
			MutedStyle.Render(fmt.Sprintf(" / %.0f MB", *t.MemThresholdMB))
	case t.TotalRAM > 0:
		memText = ui.RenderProgressBar(t.MemPercent(), progressWidth) + " " +
			MutedStyle.Render(fmt.Sprintf("%.2f GB", t.MemGB()))
	}
	rows = append(rows, row("Memory",
		ui.RenderSparklineScaled(mem, width, peak(mem), ColorGraph), memText))

	reads, writes := series.Split(m.charts.Disk.Items())
	read, write := t.DiskKBps()
	rows = append(rows, row("Disk",
		ui.RenderSparklineScaled(reads, width, peak(reads, writes), ColorGraph)+" "+
			ui.RenderSparklineScaled(writes, width, peak(reads, writes), ColorGraphAlt),
		fmt.Sprintf("R %.1f KB/s  W %.1f KB/s", read, write)))

	if t.NetRxBps != nil || t.NetTxBps != nil {
		rxs, txs := series.Split(m.charts.Network.Items())
		rx, tx := t.NetKBps()
		rows = append(rows, row("Network",
			ui.RenderSparklineScaled(rxs, width, peak(rxs, txs), ColorGraph)+" "+
				ui.RenderSparklineScaled(txs, width, peak(rxs, txs), ColorGraphAlt),
			fmt.Sprintf("↓ %.1f KB/s  ↑ %.1f KB/s", rx, tx)))
	}
	if t.DiskUsedPct != nil {
		rows = append(rows, row("Disk use", ui.RenderProgressBar(*t.DiskUsedPct, progressWidth), ""))
	}
	if t.Running != nil && !*t.Running {
		rows = append(rows, row("State", ErrorStyle.Render(ui.SymbolFail+" not running"), ""))
	}

	out := PanelStyle.Render(strings.Join(rows, "\n"))
	if len(t.Services) > 0 {
		out += "\n" + renderServices(t.Services)
	}
	return out
}

func renderServices(services []telemetry.ServiceSnapshot) string {
	rows := make([][]string, 0, len(services))
	for _, s := range services {
		state := ui.SymbolComplete + " running"
		if !s.Running {
			state = ui.SymbolPending + " stopped"
		}
		cpu := fmt.Sprintf("%.1f%%", s.CPUPercent)
		if s.CPUExceeded() {
			cpu += " " + ui.SymbolAlert
		}
		mem := fmt.Sprintf("%.1f MB", s.MemMB())
		if s.MemExceeded() {
			mem += " " + ui.SymbolAlert
		}
		version := s.Version
		if s.VersionDrift() {
			version = s.Version + " → " + s.VersionReal
		}
		rows = append(rows, []string{s.AppID, state, cpu, mem, version, s.Uptime})
	}
	return ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "SERVICE"}, {Title: "STATE"}, {Title: "CPU"},
		{Title: "MEMORY"}, {Title: "VERSION"}, {Title: "UPTIME"},
	}, rows)
}

func (m Model) renderAlerts() string {
	if len(m.alerts) == 0 {
		return MutedStyle.Render("  No alerts")
	}

	var b strings.Builder
	var active []string
	for _, typ := range []telemetry.AlertType{telemetry.AlertCPU, telemetry.AlertMemory} {
		if m.active[typ] {
			active = append(active, strings.ToUpper(string(typ)))
		}
	}
	if len(active) > 0 {
		b.WriteString(ErrorStyle.Render("  "+ui.SymbolAlert+" active: "+strings.Join(active, ", ")) + "\n")
	}

	now := m.now()
	rows := make([][]string, 0, len(m.alerts))
	for _, a := range m.alerts {
		rows = append(rows, []string{a.Ago(now), string(a.AlertType), a.DisplaySubject(), a.FormatValue()})
	}
	b.WriteString(ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "WHEN"}, {Title: "TYPE"}, {Title: "SOURCE"}, {Title: "VALUE"},
	}, rows))
	return b.String()
}

func (m Model) renderLogs() string {
	if len(m.status.Lines) == 0 {
		return MutedStyle.Render("  Waiting for log lines...")
	}
	return m.logs.View()
}

func (m Model) renderNotifications() string {
	active := m.tray.Active(m.now())
	if len(active) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(active))
	for _, n := range active {
		boxes = append(boxes, NotificationStyle.Render(
			ErrorStyle.Bold(true).Render(ui.SymbolAlert+" "+n.Title)+"\n"+n.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

func (m Model) renderFooter() string {
	hints := []string{"q quit", "p pause", "? help"}
	if m.status.Exhausted() || m.status.State == stream.StateClosed {
		hints = append(hints, "r reconnect")
	}
	if m.status.Mode == stream.ModeLines {
		follow := "f follow"
		if m.follow {
			follow = "f unfollow"
		}
		hints = append(hints, follow)
	}
	return FooterStyle.Render(strings.Join(hints, " · "))
}

func (m Model) sparkWidth() int {
	w := m.opts.Points
	if m.width > 0 {
		w = min(w, (m.width-40)/2)
	}
	return max(w, minSparkWidth)
}

func row(label, graph, value string) string {
	line := LabelStyle.Render(label) + graph
	if value != "" {
		line += "  " + value
	}
	return line
}

func colored(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// peak is the largest value across series, used as a shared chart ceiling.
func peak(sets ...[]float64) float64 {
	var p float64
	for _, s := range sets {
		for _, v := range s {
			p = max(p, v)
		}
	}
	return p
}

func ago(d time.Duration) string {
	s := int(d.Seconds())
	if s <= 0 {
		return "just now"
	}
	return fmt.Sprintf("%ds ago", s)
}

func firstLine(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), ui.SymbolFail+" ")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
