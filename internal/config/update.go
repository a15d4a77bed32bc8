package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/livetap/internal/errors"
)

// WriteDefault writes a default config to path. It refuses to overwrite
// an existing file unless force is set.
func WriteDefault(path string, cfg *Config, force bool) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config already exists: "+path,
				"Use --force to overwrite it.")
		}
	}

	var buf bytes.Buffer
	buf.WriteString("# livetap configuration\n")
	buf.WriteString("# Durations use Go syntax (5s, 1m, 24h). Override any key with LIVETAP_<SECTION>_<KEY>.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(cfg)); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	enc.Close()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Failed to create config directory", "Check directory permissions")
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "Check directory permissions")
	}
	return nil
}

// toDocument renders durations as strings so the file round-trips
// through viper's duration decoding.
func toDocument(cfg *Config) map[string]any {
	return map[string]any{
		"version":      cfg.Version,
		"api_base_url": cfg.APIBaseURL,
		"ws_base_url":  cfg.WSBaseURL,
		"stream": map[string]any{
			"interval":          cfg.Stream.Interval.String(),
			"reconnect_delay":   cfg.Stream.ReconnectDelay.String(),
			"max_reconnects":    cfg.Stream.MaxReconnects,
			"handshake_timeout": cfg.Stream.HandshakeTimeout.String(),
			"read_timeout":      cfg.Stream.ReadTimeout.String(),
			"log_lines":         cfg.Stream.LogLines,
			"points":            cfg.Stream.Points,
		},
		"alerts": map[string]any{
			"cooldown":       cfg.Alerts.Cooldown.String(),
			"dismiss_after":  cfg.Alerts.DismissAfter.String(),
			"cpu_percent":    cfg.Alerts.CPUPercent,
			"memory_percent": cfg.Alerts.MemoryPercent,
			"feed_limit":     cfg.Alerts.FeedLimit,
			"active_window":  cfg.Alerts.ActiveWindow.String(),
		},
		"history": map[string]any{
			"max_span":   cfg.History.MaxSpan.String(),
			"max_points": cfg.History.MaxPoints,
		},
		"capture": map[string]any{
			"path":     cfg.Capture.Path,
			"payloads": cfg.Capture.Payloads,
		},
	}
}

// SetValue sets a dotted key (e.g. "stream.reconnect_delay") in the config
// file at path. It preserves the existing YAML structure and comments and
// creates missing sections.
func SetValue(configPath, key, value string) error {
	if _, ok := knownKeys()[key]; !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown config key '%s'", key),
			"Run 'livetap config keys' to list valid keys.")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for _, section := range parts[:len(parts)-1] {
		next := findMapValue(node, section)
		if next == nil {
			next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: section}, next)
		}
		if next.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a section", section)
		}
		node = next
	}

	leaf := parts[len(parts)-1]
	scalar := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if existing := findMapValue(node, leaf); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = ""
		existing.Value = value
		existing.Content = nil
	} else {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: leaf}, scalar)
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Keys lists every settable dotted config key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(knownKeys()))
	for k := range knownKeys() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func knownKeys() map[string]struct{} {
	out := map[string]struct{}{}
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if sub, ok := v.(map[string]any); ok {
				walk(prefix+k+".", sub)
				continue
			}
			out[prefix+k] = struct{}{}
		}
	}
	walk("", toDocument(DefaultConfig()))
	return out
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if k := node.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
