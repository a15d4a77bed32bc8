package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/alert"
	"github.com/rileyhilliard/livetap/internal/config"
	"github.com/rileyhilliard/livetap/internal/logger"
	"github.com/rileyhilliard/livetap/internal/stream"
	"github.com/rileyhilliard/livetap/internal/telemetry"
)

var (
	watchFlags    LiveFlags
	watchInterval string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live telemetry for the host, a service or a container",
	Long: `Subscribe to a live telemetry feed and chart CPU, memory, disk and network.

Thresholds are watched client-side: a value held at or over its limit for
the alert cooldown (10s by default) raises a notification.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  p           Pause or resume the stream
  r           Reconnect after the stream gave up
  d           Dismiss notifications
  ?           Show help

Examples:
  livetap watch system
  livetap watch service api
  livetap watch container postgres --plain`,
}

var watchSystemCmd = &cobra.Command{
	Use:   "system",
	Short: "Host-wide telemetry with per-service rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context(), "system", "")
	},
}

var watchServiceCmd = &cobra.Command{
	Use:   "service <app-id>",
	Short: "Telemetry for one tracked service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context(), "service", args[0])
	},
}

var watchContainerCmd = &cobra.Command{
	Use:   "container <name>",
	Short: "Telemetry for one container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context(), "container", args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.AddCommand(watchSystemCmd, watchServiceCmd, watchContainerCmd)
	watchCmd.PersistentFlags().BoolVar(&watchFlags.Plain, "plain", false, "print one line per update instead of the full-screen view")
	watchCmd.PersistentFlags().StringVar(&watchInterval, "interval", "", "server push interval (e.g. 500ms, 2s)")
}

func watchCommand(ctx context.Context, kind, id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchInterval != "" {
		d, err := ParseDurationFlag("interval", watchInterval)
		if err != nil {
			return err
		}
		cfg.Stream.Interval = d
	}

	target, err := watchTarget(cfg, kind, id)
	if err != nil {
		return err
	}
	return runLive(ctx, cfg, target, watchThresholds(ctx, cfg, kind), watchFlags)
}

// watchTarget resolves the feed URL for a watch subcommand.
func watchTarget(cfg *config.Config, kind, id string) (liveTarget, error) {
	eps, err := newEndpoints(cfg)
	if err != nil {
		return liveTarget{}, err
	}
	switch kind {
	case "service":
		return liveTarget{Title: "service " + id, URL: eps.ServiceLive(telemetry.WireAppID(id), cfg.Stream.Interval), Mode: stream.ModeJSON}, nil
	case "container":
		return liveTarget{Title: "container " + id, URL: eps.ContainerLive(id, cfg.Stream.Interval), Mode: stream.ModeJSON}, nil
	default:
		return liveTarget{Title: "system", URL: eps.SystemLive(cfg.Stream.Interval), Mode: stream.ModeJSON}, nil
	}
}

// watchThresholds starts from config and, for the host feed, overlays the
// backend's /system/thresholds. Service and container samples carry their
// own limits.
func watchThresholds(ctx context.Context, cfg *config.Config, kind string) alert.Thresholds {
	th := alert.Thresholds{CPUPercent: cfg.Alerts.CPUPercent, MemoryPercent: cfg.Alerts.MemoryPercent}
	if kind != "system" {
		return th
	}
	client, err := newClient(cfg)
	if err != nil {
		return th
	}
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()
	remote, err := client.SystemThresholds(ctx)
	if err != nil {
		logger.Default().Debug("using configured thresholds: %v", err)
		return th
	}
	return alert.ThresholdsFrom(remote, th)
}
