package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/alert"
	"github.com/rileyhilliard/livetap/internal/config"
	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/stream"
	"github.com/rileyhilliard/livetap/internal/telemetry"
)

var (
	alertsFlags      LiveFlags
	alertsApp        string
	alertsContainer  string
	alertsContainers bool
	alertsLimit      int
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Follow the backend's alert feed",
	Long: `Follow the server-side alert feed. Each update replaces the list; an alert
type counts as active when it fired within alerts.active_window (15m).

Examples:
  livetap alerts
  livetap alerts --app api
  livetap alerts --containers
  livetap alerts --container postgres --limit 50`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return alertsCommand(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	AddLiveFlags(alertsCmd, &alertsFlags)
	alertsCmd.Flags().StringVar(&alertsApp, "app", "", "only alerts for this app (use 'system' for the host)")
	alertsCmd.Flags().StringVar(&alertsContainer, "container", "", "only alerts for this container")
	alertsCmd.Flags().BoolVar(&alertsContainers, "containers", false, "follow the container alert feed")
	alertsCmd.Flags().IntVar(&alertsLimit, "limit", 0, "number of alerts to request (default alerts.feed_limit)")
}

func alertsCommand(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	target, err := alertsTarget(cfg, alertsApp, alertsContainer, alertsContainers, alertsLimit)
	if err != nil {
		return err
	}
	return runLive(ctx, cfg, target, alert.Thresholds{}, alertsFlags)
}

// alertsTarget picks the app or container alert feed.
func alertsTarget(cfg *config.Config, app, container string, containers bool, limit int) (liveTarget, error) {
	if app != "" && (container != "" || containers) {
		return liveTarget{}, errors.New(errors.ErrConfig,
			"--app and --container can't be used together",
			"Follow app alerts or container alerts, not both.")
	}
	if limit <= 0 {
		limit = cfg.Alerts.FeedLimit
	}
	eps, err := newEndpoints(cfg)
	if err != nil {
		return liveTarget{}, err
	}

	if container != "" || containers {
		title := "container alerts"
		if container != "" {
			title += " " + container
		}
		return liveTarget{Title: title, URL: eps.ContainerAlerts(limit, container), Mode: stream.ModeAlerts}, nil
	}

	title := "alerts"
	if app != "" {
		app = telemetry.WireAppID(app)
		title += " " + app
	}
	return liveTarget{Title: title, URL: eps.Alerts(limit, app), Mode: stream.ModeAlerts}, nil
}
