package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
const CurrentConfigVersion = 1

// Config is the complete .livetap.yaml file.
type Config struct {
	Version    int           `yaml:"version" mapstructure:"version"`
	APIBaseURL string        `yaml:"api_base_url" mapstructure:"api_base_url"`
	WSBaseURL  string        `yaml:"ws_base_url" mapstructure:"ws_base_url"`
	Stream     StreamConfig  `yaml:"stream" mapstructure:"stream"`
	Alerts     AlertsConfig  `yaml:"alerts" mapstructure:"alerts"`
	History    HistoryConfig `yaml:"history" mapstructure:"history"`
	Capture    CaptureConfig `yaml:"capture" mapstructure:"capture"`
}

// StreamConfig controls live socket subscriptions.
type StreamConfig struct {
	// Interval is the server push interval requested on live feeds.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// ReconnectDelay is the fixed wait before each reconnect.
	ReconnectDelay time.Duration `yaml:"reconnect_delay" mapstructure:"reconnect_delay"`

	// MaxReconnects caps reconnects between successful opens. 0 = retry forever.
	MaxReconnects int `yaml:"max_reconnects" mapstructure:"max_reconnects"`

	// HandshakeTimeout bounds the websocket opening handshake.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout" mapstructure:"handshake_timeout"`

	// ReadTimeout drops a silent connection. 0 disables it.
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`

	// LogLines is how many log lines a tail keeps.
	LogLines int `yaml:"log_lines" mapstructure:"log_lines"`

	// Points is how many samples each chart keeps.
	Points int `yaml:"points" mapstructure:"points"`
}

// AlertsConfig controls client-side threshold watching and the alert feed.
type AlertsConfig struct {
	Cooldown      time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
	DismissAfter  time.Duration `yaml:"dismiss_after" mapstructure:"dismiss_after"`
	CPUPercent    float64       `yaml:"cpu_percent" mapstructure:"cpu_percent"`
	MemoryPercent float64       `yaml:"memory_percent" mapstructure:"memory_percent"`

	// FeedLimit is the limit requested from the server alert feeds.
	FeedLimit int `yaml:"feed_limit" mapstructure:"feed_limit"`

	// ActiveWindow is how old a server alert may be and still mark its
	// type as active.
	ActiveWindow time.Duration `yaml:"active_window" mapstructure:"active_window"`
}

// HistoryConfig controls historical stats queries.
type HistoryConfig struct {
	MaxSpan   time.Duration `yaml:"max_span" mapstructure:"max_span"`
	MaxPoints int           `yaml:"max_points" mapstructure:"max_points"`
}

// CaptureConfig controls stream trace recording.
type CaptureConfig struct {
	// Path of the CBOR trace file. Empty disables capture.
	Path string `yaml:"path" mapstructure:"path"`

	// Payloads keeps raw frame bytes in the trace.
	Payloads bool `yaml:"payloads" mapstructure:"payloads"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:    CurrentConfigVersion,
		APIBaseURL: "http://localhost:8000",
		WSBaseURL:  "ws://localhost:8000",
		Stream: StreamConfig{
			Interval:         time.Second,
			ReconnectDelay:   5 * time.Second,
			MaxReconnects:    10,
			HandshakeTimeout: 10 * time.Second,
			LogLines:         100,
			Points:           60,
		},
		Alerts: AlertsConfig{
			Cooldown:      10 * time.Second,
			DismissAfter:  5 * time.Second,
			CPUPercent:    90,
			MemoryPercent: 90,
			FeedLimit:     10,
			ActiveWindow:  15 * time.Minute,
		},
		History: HistoryConfig{
			MaxSpan:   24 * time.Hour,
			MaxPoints: 100,
		},
	}
}
