package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/livetap/internal/errors"
)

const (
	// ConfigFileName is the project-local config file name.
	ConfigFileName = ".livetap.yaml"
	// GlobalConfigDir is the directory for global config, relative to home.
	GlobalConfigDir = ".config/livetap"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. LIVETAP_WS_BASE_URL
	// or LIVETAP_STREAM_RECONNECT_DELAY.
	EnvPrefix = "LIVETAP"
)

// Load reads config from path and applies environment overrides.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'livetap init' to create one, or pass --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .livetap.yaml in the current directory
// 3. .livetap.yaml in parent directories (stops at git root or home)
// 4. ~/.config/livetap/config.yaml
//
// Returns "" when nothing is found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && dir == home) {
			break
		}
		dir = parent
	}

	if home != "" {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Resolve finds and loads the config. With no file anywhere it returns
// defaults with environment overrides applied. The returned path is ""
// in that case.
func Resolve(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so AutomaticEnv can override keys the
// file leaves out.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("api_base_url", d.APIBaseURL)
	v.SetDefault("ws_base_url", d.WSBaseURL)

	v.SetDefault("stream.interval", d.Stream.Interval)
	v.SetDefault("stream.reconnect_delay", d.Stream.ReconnectDelay)
	v.SetDefault("stream.max_reconnects", d.Stream.MaxReconnects)
	v.SetDefault("stream.handshake_timeout", d.Stream.HandshakeTimeout)
	v.SetDefault("stream.read_timeout", d.Stream.ReadTimeout)
	v.SetDefault("stream.log_lines", d.Stream.LogLines)
	v.SetDefault("stream.points", d.Stream.Points)

	v.SetDefault("alerts.cooldown", d.Alerts.Cooldown)
	v.SetDefault("alerts.dismiss_after", d.Alerts.DismissAfter)
	v.SetDefault("alerts.cpu_percent", d.Alerts.CPUPercent)
	v.SetDefault("alerts.memory_percent", d.Alerts.MemoryPercent)
	v.SetDefault("alerts.feed_limit", d.Alerts.FeedLimit)
	v.SetDefault("alerts.active_window", d.Alerts.ActiveWindow)

	v.SetDefault("history.max_span", d.History.MaxSpan)
	v.SetDefault("history.max_points", d.History.MaxPoints)

	v.SetDefault("capture.path", d.Capture.Path)
	v.SetDefault("capture.payloads", d.Capture.Payloads)
}

func parseConfig(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}
	return cfg, nil
}
