package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/livetap/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "unbounded reconnects", mutate: func(c *Config) { c.Stream.MaxReconnects = 0 }},
		{name: "http ws base is allowed", mutate: func(c *Config) { c.WSBaseURL = "http://localhost:8000" }},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "empty api url",
			mutate:  func(c *Config) { c.APIBaseURL = "" },
			wantErr: "'api_base_url' is empty",
		},
		{
			name:    "api url without host",
			mutate:  func(c *Config) { c.APIBaseURL = "http://" },
			wantErr: "isn't a valid URL",
		},
		{
			name:    "ws url with bad scheme",
			mutate:  func(c *Config) { c.WSBaseURL = "ftp://host" },
			wantErr: "unsupported scheme 'ftp'",
		},
		{
			name:    "zero reconnect delay",
			mutate:  func(c *Config) { c.Stream.ReconnectDelay = 0 },
			wantErr: "stream.reconnect_delay must be positive",
		},
		{
			name:    "negative reconnects",
			mutate:  func(c *Config) { c.Stream.MaxReconnects = -1 },
			wantErr: "stream.max_reconnects can't be negative",
		},
		{
			name:    "no log lines",
			mutate:  func(c *Config) { c.Stream.LogLines = 0 },
			wantErr: "stream.log_lines must be at least 1",
		},
		{
			name:    "cpu percent over 100",
			mutate:  func(c *Config) { c.Alerts.CPUPercent = 120 },
			wantErr: "alerts.cpu_percent must be between 0 and 100",
		},
		{
			name:    "zero dismiss",
			mutate:  func(c *Config) { c.Alerts.DismissAfter = 0 },
			wantErr: "alerts.dismiss_after must be positive",
		},
		{
			name:    "zero max points",
			mutate:  func(c *Config) { c.History.MaxPoints = 0 },
			wantErr: "history.max_points must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}
