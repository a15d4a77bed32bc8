package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rileyhilliard/livetap/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but livetap only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade livetap or lower the version field.")
	}

	if err := validateBaseURL("api_base_url", cfg.APIBaseURL, "http", "https"); err != nil {
		return err
	}
	if err := validateBaseURL("ws_base_url", cfg.WSBaseURL, "ws", "wss", "http", "https"); err != nil {
		return err
	}

	if err := validateStream(cfg.Stream); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'stream' section in your .livetap.yaml.")
	}
	if err := validateAlerts(cfg.Alerts); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'alerts' section in your .livetap.yaml.")
	}
	if err := validateHistory(cfg.History); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'history' section in your .livetap.yaml.")
	}

	return nil
}

func validateBaseURL(field, raw string, schemes ...string) error {
	if raw == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is empty", field),
			fmt.Sprintf("Set %s to your backend, like 'http://localhost:8000'.", field))
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a valid URL: %s", field, raw),
			"Use a full URL including the scheme and host.")
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' has unsupported scheme '%s'", field, u.Scheme),
		fmt.Sprintf("Use one of: %v", schemes))
}

func validateStream(s StreamConfig) error {
	if err := positive("stream.interval", s.Interval); err != nil {
		return err
	}
	if err := positive("stream.reconnect_delay", s.ReconnectDelay); err != nil {
		return err
	}
	if s.MaxReconnects < 0 {
		return fmt.Errorf("stream.max_reconnects can't be negative (use 0 to retry forever)")
	}
	if s.HandshakeTimeout < 0 {
		return fmt.Errorf("stream.handshake_timeout can't be negative")
	}
	if s.ReadTimeout < 0 {
		return fmt.Errorf("stream.read_timeout can't be negative (use 0 to disable)")
	}
	if s.LogLines < 1 {
		return fmt.Errorf("stream.log_lines must be at least 1, got %d", s.LogLines)
	}
	if s.Points < 2 {
		return fmt.Errorf("stream.points must be at least 2 to draw a chart, got %d", s.Points)
	}
	return nil
}

func validateAlerts(a AlertsConfig) error {
	if a.Cooldown < 0 {
		return fmt.Errorf("alerts.cooldown can't be negative")
	}
	if err := positive("alerts.dismiss_after", a.DismissAfter); err != nil {
		return err
	}
	if err := percent("alerts.cpu_percent", a.CPUPercent); err != nil {
		return err
	}
	if err := percent("alerts.memory_percent", a.MemoryPercent); err != nil {
		return err
	}
	if a.FeedLimit < 1 {
		return fmt.Errorf("alerts.feed_limit must be at least 1, got %d", a.FeedLimit)
	}
	if err := positive("alerts.active_window", a.ActiveWindow); err != nil {
		return err
	}
	return nil
}

func validateHistory(h HistoryConfig) error {
	if err := positive("history.max_span", h.MaxSpan); err != nil {
		return err
	}
	if h.MaxPoints < 1 {
		return fmt.Errorf("history.max_points must be at least 1, got %d", h.MaxPoints)
	}
	return nil
}

func positive(field string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", field, d)
	}
	return nil
}

func percent(field string, v float64) error {
	if v <= 0 || v > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %g", field, v)
	}
	return nil
}
