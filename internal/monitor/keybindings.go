package monitor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/livetap/internal/stream"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyPause      = "p"
	KeyReconnect  = "r"
	KeyDismiss    = "d"
	KeyFollow     = "f"
	KeyToggleHelp = "?"
	KeyCollapse   = "esc"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		m.sub.Unsubscribe()
		return true, tea.Quit

	case KeyPause:
		m.sub.SetEnabled(!m.status.Enabled)
		m.refresh(m.now())
		return true, nil

	case KeyReconnect:
		// Toggling enabled is the only way out of an exhausted retry budget.
		if m.status.Exhausted() || m.status.State == stream.StateClosed {
			m.sub.SetEnabled(false)
			m.sub.SetEnabled(true)
			m.refresh(m.now())
		}
		return true, nil

	case KeyDismiss:
		for _, n := range m.tray.Active(m.now()) {
			m.tray.Dismiss(n.ID)
		}
		return true, nil

	case KeyFollow:
		if m.status.Mode == stream.ModeLines {
			m.follow = !m.follow
			if m.follow {
				m.logs.GotoBottom()
			}
		}
		return true, nil
	}

	return false, nil
}
