package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/livetap/internal/alert"
	"github.com/rileyhilliard/livetap/internal/config"
	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/logger"
	"github.com/rileyhilliard/livetap/internal/monitor"
	"github.com/rileyhilliard/livetap/internal/stream"
	"github.com/rileyhilliard/livetap/internal/telemetry"
	"github.com/rileyhilliard/livetap/internal/ui"
)

// debugLogFile receives log output while the full-screen view owns the terminal.
const debugLogFile = "livetap-debug.log"

// liveTarget is one stream to render.
type liveTarget struct {
	Title string
	URL   string
	Mode  stream.Mode
}

// LiveFlags are shared by watch, tail and alerts.
type LiveFlags struct {
	Plain bool
}

// AddLiveFlags registers --plain on a live command.
func AddLiveFlags(cmd *cobra.Command, flags *LiveFlags) {
	cmd.Flags().BoolVar(&flags.Plain, "plain", false, "print one line per update instead of the full-screen view")
}

// runLive subscribes to target and renders it until the user quits, the
// stream gives up, or the process is interrupted.
func runLive(ctx context.Context, cfg *config.Config, target liveTarget, th alert.Thresholds, flags LiveFlags) error {
	if target.URL == "" {
		return errors.New(errors.ErrConfig,
			"Nothing to subscribe to",
			"Pass a service or container name")
	}

	tui := !flags.Plain && term.IsTerminal(int(os.Stdout.Fd()))
	log := logger.NewEnvLogger("[stream]")
	if tui {
		if os.Getenv(logger.DebugEnv) != "" {
			if f, err := tea.LogToFile(debugLogFile, "livetap"); err == nil {
				defer f.Close()
			}
		} else {
			log = logger.Noop()
		}
	}

	opts, closeCapture, err := streamOptions(cfg, log)
	if err != nil {
		return err
	}
	defer closeCapture()

	sub := stream.Subscribe(target.URL, true, target.Mode, opts...)
	defer sub.Unsubscribe()

	if tui {
		return monitor.Run(monitor.NewModel(sub, target.Title, monitor.Options{
			Thresholds:   th,
			Cooldown:     cfg.Alerts.Cooldown,
			DismissAfter: cfg.Alerts.DismissAfter,
			ActiveWindow: cfg.Alerts.ActiveWindow,
			Points:       cfg.Stream.Points,
			Logger:       log,
		}))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return streamPlain(ctx, os.Stdout, sub, plainOptions{
		Thresholds:   th,
		Cooldown:     cfg.Alerts.Cooldown,
		ActiveWindow: cfg.Alerts.ActiveWindow,
	})
}

type plainOptions struct {
	Thresholds   alert.Thresholds
	Cooldown     time.Duration
	ActiveWindow time.Duration
	Now          func() time.Time
}

// streamPlain prints a subscription as text: state changes as "# ..."
// lines, then one line per sample, log line or new alert. It returns nil
// when ctx ends or the subscription is released, and a STREAM error once
// the reconnect budget is spent.
func streamPlain(ctx context.Context, w io.Writer, sub *stream.Subscription, opts plainOptions) error {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := &plainPrinter{w: w, opts: opts, monitor: alert.NewMonitor(opts.Cooldown)}

	for {
		st := sub.Status()
		p.print(st)
		if st.Exhausted() {
			return errors.WrapWithCode(st.Err, errors.ErrStream,
				"Stream gave up reconnecting",
				"Check the backend is reachable, then run the command again")
		}

		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-sub.Changes():
			if !ok {
				return nil
			}
		}
	}
}

type plainPrinter struct {
	w       io.Writer
	opts    plainOptions
	monitor *alert.Monitor

	label    string
	seen     *stream.Snapshot
	received int
	newestTs int64
}

func (p *plainPrinter) print(st stream.Status) {
	if label := monitor.StateText(st); label != p.label {
		p.label = label
		line := "# " + label
		if st.Err != nil && !st.Exhausted() {
			line += ": " + st.Err.Error()
		}
		fmt.Fprintln(p.w, line)
	}

	if st.Mode == stream.ModeLines {
		fresh := min(st.Received-p.received, len(st.Lines))
		for _, l := range st.Lines[len(st.Lines)-max(fresh, 0):] {
			fmt.Fprintln(p.w, ui.HighlightLogLine(l))
		}
		p.received = st.Received
		return
	}

	if st.Latest == nil || st.Latest == p.seen {
		return
	}
	p.seen = st.Latest
	if st.Mode == stream.ModeAlerts {
		p.printAlerts(st.Latest.Alerts)
		return
	}
	p.printSample(st.Latest)
}

func (p *plainPrinter) printSample(snap *stream.Snapshot) {
	var t telemetry.Telemetry
	if err := snap.Decode(&t); err != nil {
		return
	}
	at := p.opts.Now()
	if t.TsMs > 0 {
		at = t.Time()
	}
	fmt.Fprintln(p.w, formatSample(t, at))

	for _, ev := range alert.Watch(p.monitor, t, p.opts.Thresholds, at) {
		fmt.Fprintf(p.w, "! %s threshold exceeded: %.1f over limit %.1f\n", ev.Label, ev.Value, ev.Threshold)
	}
}

// formatSample renders one telemetry sample on a single line.
func formatSample(t telemetry.Telemetry, at time.Time) string {
	parts := []string{
		at.Format("15:04:05"),
		fmt.Sprintf("cpu %.1f%%", t.CPUPercent),
	}
	mem := fmt.Sprintf("mem %.1f MB", t.MemMB())
	if t.TotalRAM > 0 {
		mem += fmt.Sprintf(" (%.0f%%)", t.MemPercent())
	}
	parts = append(parts, mem)

	read, write := t.DiskKBps()
	parts = append(parts, fmt.Sprintf("disk r %.1f w %.1f KB/s", read, write))
	if t.NetRxBps != nil || t.NetTxBps != nil {
		rx, tx := t.NetKBps()
		parts = append(parts, fmt.Sprintf("net rx %.1f tx %.1f KB/s", rx, tx))
	}
	if t.Running != nil && !*t.Running {
		parts = append(parts, "stopped")
	}
	for _, s := range t.Services {
		if s.CPUExceeded() || s.MemExceeded() {
			parts = append(parts, "over-limit:"+s.AppID)
		}
	}
	return strings.Join(parts, "  ")
}

// printAlerts prints alerts newer than any printed before, oldest first.
func (p *plainPrinter) printAlerts(alerts []telemetry.Alert) {
	fresh := make([]telemetry.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.TsMs > p.newestTs {
			fresh = append(fresh, a)
		}
	}
	sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].TsMs < fresh[j].TsMs })

	now := p.opts.Now()
	for _, a := range fresh {
		fmt.Fprintf(p.w, "%s  %-6s  %-20s  %s\n", a.Ago(now), a.AlertType, a.DisplaySubject(), a.FormatValue())
		p.newestTs = a.TsMs
	}
	if len(fresh) > 0 {
		active := telemetry.ActiveAlertTypes(alerts, now, p.opts.ActiveWindow)
		var names []string
		for _, typ := range []telemetry.AlertType{telemetry.AlertCPU, telemetry.AlertMemory} {
			if active[typ] {
				names = append(names, string(typ))
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(p.w, "# active: %s\n", strings.Join(names, ", "))
		}
	}
}
