package telemetry

import (
	"fmt"
	"time"
)

// AlertType names the resource an alert was raised for.
type AlertType string

const (
	AlertCPU    AlertType = "cpu"
	AlertMemory AlertType = "memory"
)

// Alert is one server-side alert record.
type Alert struct {
	TsMs          int64     `json:"ts_ms"`
	AlertType     AlertType `json:"alert_type"`
	Value         float64   `json:"value"`
	AppID         string    `json:"app_id,omitempty"`
	ContainerName string    `json:"container_name,omitempty"`
}

// Time converts TsMs to a time.Time.
func (a Alert) Time() time.Time {
	return time.UnixMilli(a.TsMs)
}

// Subject is the app id or container name the alert belongs to.
func (a Alert) Subject() string {
	if a.ContainerName != "" {
		return a.ContainerName
	}
	return a.AppID
}

// DisplaySubject is Subject with the host-wide id shown as "System".
func (a Alert) DisplaySubject() string {
	if s := a.Subject(); s != SystemAppID {
		return s
	}
	return "System"
}

// Ago renders the alert's age relative to now: "12s ago", "4m ago",
// "3h ago", then an absolute timestamp past a day.
func (a Alert) Ago(now time.Time) string {
	d := now.Sub(a.Time())
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return a.Time().Format("2006-01-02 15:04:05")
	}
}

// FormatValue renders Value in the alert type's unit.
func (a Alert) FormatValue() string {
	switch a.AlertType {
	case AlertMemory:
		return fmt.Sprintf("%.2f MB", a.Value)
	case AlertCPU:
		return fmt.Sprintf("%.1f%%", a.Value)
	default:
		return fmt.Sprintf("%.2f", a.Value)
	}
}

// AlertsEnvelope is the frame shape of the alert feeds.
type AlertsEnvelope struct {
	Alerts []Alert `json:"alerts"`
}

// ActiveAlertTypes returns which alert types have at least one alert newer
// than window, measured from now. A zero window counts every alert.
func ActiveAlertTypes(alerts []Alert, now time.Time, window time.Duration) map[AlertType]bool {
	active := make(map[AlertType]bool)
	for _, a := range alerts {
		if window > 0 && now.Sub(a.Time()) > window {
			continue
		}
		active[a.AlertType] = true
	}
	return active
}
