package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/livetap/internal/alert"
	"github.com/rileyhilliard/livetap/internal/logger"
	"github.com/rileyhilliard/livetap/internal/series"
	"github.com/rileyhilliard/livetap/internal/stream"
	"github.com/rileyhilliard/livetap/internal/telemetry"
	"github.com/rileyhilliard/livetap/internal/ui"
)

// tickInterval drives notification expiry and the "updated Ns ago" text.
const tickInterval = time.Second

// Options tunes a Model. Zero values fall back to package defaults.
type Options struct {
	Thresholds   alert.Thresholds
	Cooldown     time.Duration
	DismissAfter time.Duration
	ActiveWindow time.Duration
	Points       int
	Logger       logger.Logger
	Now          func() time.Time
}

// Model is the Bubble Tea model for one live feed.
type Model struct {
	title string
	sub   *stream.Subscription
	opts  Options
	log   logger.Logger

	status stream.Status
	seen   *stream.Snapshot // last snapshot folded into the model

	latest     *telemetry.Telemetry
	charts     series.Charts
	alerts     []telemetry.Alert
	active     map[telemetry.AlertType]bool
	lastUpdate time.Time

	monitor *alert.Monitor
	tray    *alert.Tray

	logs   viewport.Model
	follow bool

	width    int
	height   int
	showHelp bool
	quitting bool
	closed   bool
}

// changeMsg means the subscription's Status may have changed.
type changeMsg struct{}

// closedMsg means the subscription was released.
type closedMsg struct{}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// NewModel wraps sub. The model takes ownership and unsubscribes on quit.
func NewModel(sub *stream.Subscription, title string, opts Options) Model {
	if opts.Points <= 0 {
		opts.Points = series.DefaultCapacity
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	m := Model{
		title:   title,
		sub:     sub,
		opts:    opts,
		log:     opts.Logger,
		charts:  series.NewCharts(opts.Points),
		monitor: alert.NewMonitor(opts.Cooldown),
		tray:    alert.NewTray(opts.DismissAfter),
		logs:    viewport.New(80, 20),
		follow:  true,
	}
	m.refresh(m.now())
	return m
}

// Init starts listening for subscription changes and the refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.sub.Changes()), tickCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}
		if m.status.Mode == stream.ModeLines {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			m.follow = m.logs.AtBottom()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logs.Width = msg.Width
		m.logs.Height = max(1, msg.Height-headerHeight-footerHeight)
		if m.follow {
			m.logs.GotoBottom()
		}

	case changeMsg:
		m.refresh(m.now())
		return m, waitForChange(m.sub.Changes())

	case closedMsg:
		m.closed = true
		return m, tea.Quit

	case tickMsg:
		return m, tickCmd()
	}

	return m, nil
}

// View renders the feed.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Status is the last subscription status the model folded.
func (m Model) Status() stream.Status {
	return m.status
}

// Latest is the most recent telemetry sample, nil before the first one.
func (m Model) Latest() *telemetry.Telemetry {
	return m.latest
}

// Charts returns the rolling chart buffers.
func (m Model) Charts() series.Charts {
	return m.charts
}

// Alerts returns the current alert feed snapshot.
func (m Model) Alerts() []telemetry.Alert {
	return m.alerts
}

// Notifications returns the live breach notifications.
func (m Model) Notifications() []alert.Notification {
	return m.tray.Active(m.now())
}

func (m Model) now() time.Time {
	return m.opts.Now()
}

// refresh folds the subscription's current status into the model.
func (m *Model) refresh(now time.Time) {
	st := m.sub.Status()
	m.status = st

	if st.Mode == stream.ModeLines {
		m.logs.SetContent(ui.HighlightLogLines(st.Lines))
		if m.follow {
			m.logs.GotoBottom()
		}
		if len(st.Lines) > 0 {
			m.lastUpdate = now
		}
		return
	}

	if st.Latest == nil {
		if m.seen != nil {
			m.reset()
		}
		return
	}
	if st.Latest == m.seen {
		return
	}
	m.seen = st.Latest
	m.lastUpdate = now

	switch st.Mode {
	case stream.ModeAlerts:
		m.alerts = st.Latest.Alerts
		m.active = telemetry.ActiveAlertTypes(m.alerts, now, m.opts.ActiveWindow)
	default:
		m.foldTelemetry(st.Latest, now)
	}
}

func (m *Model) foldTelemetry(snap *stream.Snapshot, now time.Time) {
	var t telemetry.Telemetry
	if err := snap.Decode(&t); err != nil {
		m.log.Debug("skipping sample that is not telemetry: %v", err)
		return
	}
	m.latest = &t
	m.charts = m.charts.Push(t)

	at := now
	if t.TsMs > 0 {
		at = t.Time()
	}
	for _, ev := range alert.Watch(m.monitor, t, m.opts.Thresholds, at) {
		m.tray.Push(ev, now)
		m.log.Info("%s at %.1f (limit %.1f)", ev.Label, ev.Value, ev.Threshold)
	}
}

// reset clears per-key state after the subscription dropped its snapshot.
func (m *Model) reset() {
	m.seen = nil
	m.latest = nil
	m.charts = series.NewCharts(m.opts.Points)
	m.alerts = nil
	m.active = nil
	m.monitor.Reset()
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return closedMsg{}
		}
		return changeMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts a full-screen program for m and blocks until it exits.
func Run(m Model) error {
	defer m.sub.Unsubscribe()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
