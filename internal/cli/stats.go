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
	statsRange     TimeRangeFlags
	statsMaxPoints int
	statsBucket    string
	statsJSON      bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <app|container> <id>",
	Short: "Historical CPU, memory and IO for an app or container",
	Long: `Query aggregated history for one app or container. Ranges longer than
history.max_span (24h) are rejected before any request is made.

Examples:
  livetap stats app api --since 6h
  livetap stats container postgres --start 2024-05-01T00:00:00Z --end 2024-05-01T12:00:00Z
  livetap stats app system --since 1h --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return statsCommand(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsRange.Since, "since", "", "relative window ending now (default 1h)")
	statsCmd.Flags().StringVar(&statsRange.Start, "start", "", "range start (RFC3339)")
	statsCmd.Flags().StringVar(&statsRange.End, "end", "", "range end (RFC3339, default now)")
	statsCmd.Flags().IntVar(&statsMaxPoints, "max-points", 0, "point budget (default history.max_points)")
	statsCmd.Flags().StringVar(&statsBucket, "bucket", "", "fixed bucket size (e.g. 1m)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output JSON")
}

func statsCommand(ctx context.Context, w io.Writer, kindArg, id string) error {
	err := func() error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kind, err := api.ParseKind(kindArg)
		if err != nil {
			return err
		}
		start, end, err := statsRange.Resolve(time.Now(), time.Hour)
		if err != nil {
			return err
		}
		bucket, err := ParseDurationFlag("bucket", statsBucket)
		if err != nil {
			return err
		}
		maxPoints := statsMaxPoints
		if maxPoints <= 0 {
			maxPoints = cfg.History.MaxPoints
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		return runStats(ctx, w, client, kind, id, api.StatsQuery{
			Start: start, End: end, MaxPoints: maxPoints, Bucket: bucket,
		}, statsJSON)
	}()
	if err != nil && statsJSON {
		_ = WriteJSONFromError(w, err)
	}
	return err
}

// statsSource is the slice of api.Client that stats needs.
type statsSource interface {
	Stats(ctx context.Context, kind api.Kind, id string, q api.StatsQuery) (telemetry.StatsResponse, error)
}

func runStats(ctx context.Context, w io.Writer, src statsSource, kind api.Kind, id string, q api.StatsQuery, asJSON bool) error {
	resp, err := src.Stats(ctx, kind, id, q)
	if err != nil {
		return err
	}
	if asJSON {
		return WriteJSONSuccess(w, resp)
	}
	renderStats(w, string(kind)+" "+id, q, resp.Points)
	return nil
}

const statsSparkWidth = 40

func renderStats(w io.Writer, title string, q api.StatsQuery, points []telemetry.StatsPoint) {
	fmt.Fprintln(w, ui.BoldStyle.Render(title))
	fmt.Fprintf(w, "%s → %s  (%d points)\n\n",
		q.Start.Local().Format(time.DateTime), q.End.Local().Format(time.DateTime), len(points))
	if len(points) == 0 {
		fmt.Fprintln(w, ui.MutedStyle.Render("No data points in this range."))
		return
	}

	cpu := make([]float64, len(points))
	mem := make([]float64, len(points))
	var cpuPeak, memPeak float64
	for i, p := range points {
		cpu[i] = p.CPUAvg
		mem[i] = bytesToMB(p.MemAvg)
		cpuPeak = max(cpuPeak, p.CPUMax)
		memPeak = max(memPeak, bytesToMB(p.MemMax))
	}
	fmt.Fprintf(w, "CPU  %s  peak %.1f%%\n", ui.RenderSparklineScaled(cpu, statsSparkWidth, 100, ui.ThresholdColor(cpuPeak)), cpuPeak)
	fmt.Fprintf(w, "MEM  %s  peak %.1f MB\n\n", ui.RenderSparkline(mem, statsSparkWidth), memPeak)

	columns := []ui.TableColumn{
		{Title: "TIME"},
		{Title: "CPU AVG"},
		{Title: "CPU MIN/MAX"},
		{Title: "MEM AVG"},
		{Title: "MEM MAX"},
		{Title: "READ KB/s"},
		{Title: "WRITE KB/s"},
	}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Time().Local().Format("01-02 15:04"),
			fmt.Sprintf("%.1f%%", p.CPUAvg),
			fmt.Sprintf("%.1f/%.1f", p.CPUMin, p.CPUMax),
			fmt.Sprintf("%.1f MB", bytesToMB(p.MemAvg)),
			fmt.Sprintf("%.1f MB", bytesToMB(p.MemMax)),
			fmt.Sprintf("%.1f", p.IORAvg/1024),
			fmt.Sprintf("%.1f", p.IOWAvg/1024),
		})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
}

func bytesToMB(b float64) float64 {
	return b / 1024 / 1024
}
