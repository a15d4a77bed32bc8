package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/api"
	"github.com/rileyhilliard/livetap/internal/telemetry"
	"github.com/rileyhilliard/livetap/internal/ui"
)

var (
	timelineRange TimeRangeFlags
	timelineJSON  bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <app|container> <id>",
	Short: "Running/stopped history of an app or container",
	Long: `Show when an app or container was running or stopped.

Examples:
  livetap timeline app api
  livetap timeline container postgres --since 72h`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return timelineCommand(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(timelineCmd)
	timelineCmd.Flags().StringVar(&timelineRange.Since, "since", "", "relative window ending now (default 24h)")
	timelineCmd.Flags().StringVar(&timelineRange.Start, "start", "", "range start (RFC3339)")
	timelineCmd.Flags().StringVar(&timelineRange.End, "end", "", "range end (RFC3339, default now)")
	timelineCmd.Flags().BoolVar(&timelineJSON, "json", false, "output JSON")
}

func timelineCommand(ctx context.Context, w io.Writer, kindArg, id string) error {
	err := func() error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kind, err := api.ParseKind(kindArg)
		if err != nil {
			return err
		}
		now := time.Now()
		from, to, err := timelineRange.Resolve(now, 24*time.Hour)
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		items, err := client.StateTimeline(ctx, kind, id, from, to)
		if err != nil {
			return err
		}
		if timelineJSON {
			return WriteJSONSuccess(w, items)
		}
		renderTimeline(w, items, now)
		return nil
	}()
	if err != nil && timelineJSON {
		_ = WriteJSONFromError(w, err)
	}
	return err
}

func renderTimeline(w io.Writer, items []telemetry.StateTimelineItem, now time.Time) {
	if len(items) == 0 {
		fmt.Fprintln(w, ui.MutedStyle.Render("No state changes in this range."))
		return
	}
	columns := []ui.TableColumn{{Title: "STATE"}, {Title: "FROM"}, {Title: "TO"}, {Title: "FOR"}}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		glyph := ui.SymbolFail
		if it.State == telemetry.StateRunning {
			glyph = ui.SymbolSuccess
		}
		to := "now"
		if it.EndTime != nil {
			to = time.UnixMilli(*it.EndTime).Local().Format(time.DateTime)
		}
		rows = append(rows, []string{
			glyph + " " + string(it.State),
			time.UnixMilli(it.StartTime).Local().Format(time.DateTime),
			to,
			it.Duration(now).Round(time.Second).String(),
		})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
}
