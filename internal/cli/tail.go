package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/alert"
	"github.com/rileyhilliard/livetap/internal/stream"
)

var tailFlags LiveFlags

var tailCmd = &cobra.Command{
	Use:   "tail <service>",
	Short: "Follow a service's log stream",
	Long: `Follow the live log stream of a service. The view keeps the most recent
lines (100 by default, stream.log_lines in config).

Examples:
  livetap tail api
  livetap tail api --plain | grep ERROR`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return tailCommand(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)
	AddLiveFlags(tailCmd, &tailFlags)
}

func tailCommand(ctx context.Context, service string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eps, err := newEndpoints(cfg)
	if err != nil {
		return err
	}
	target := liveTarget{Title: "logs " + service, URL: eps.Logs(service), Mode: stream.ModeLines}
	return runLive(ctx, cfg, target, alert.Thresholds{}, tailFlags)
}
