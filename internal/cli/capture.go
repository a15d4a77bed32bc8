package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/capture"
)

var captureShow struct {
	key   string
	conn  string
	kind  string
	since string
	limit int
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Inspect stream trace files",
	Long: `Stream traces are written when capture.path is set in config (or
LIVETAP_CAPTURE_PATH). They record state changes, frames, drops, errors
and reconnect attempts for every subscription.`,
}

var captureShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print events from a trace file",
	Long: `Print events from a trace file, oldest first.

Examples:
  livetap capture show trace.cbor
  livetap capture show trace.cbor --kind error --since 10m`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := captureFilter(time.Now())
		if err != nil {
			return err
		}
		return runCaptureShow(cmd.OutOrStdout(), args[0], filter, captureShow.limit)
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.AddCommand(captureShowCmd)
	f := captureShowCmd.Flags()
	f.StringVar(&captureShow.key, "key", "", "only events for this stream URL")
	f.StringVar(&captureShow.conn, "conn", "", "only events for this connection id")
	f.StringVar(&captureShow.kind, "kind", "", "only events of this kind (state, frame, drop, error, reconnect)")
	f.StringVar(&captureShow.since, "since", "", "only events newer than this (e.g. 10m)")
	f.IntVar(&captureShow.limit, "limit", 0, "stop after this many events (0 = all)")
}

func captureFilter(now time.Time) (capture.Filter, error) {
	filter := capture.Filter{Key: captureShow.key, ConnectionID: captureShow.conn}
	if captureShow.kind != "" {
		k, err := capture.ParseKind(captureShow.kind)
		if err != nil {
			return filter, err
		}
		filter.Kind = &k
	}
	if captureShow.since != "" {
		d, err := ParseDurationFlag("since", captureShow.since)
		if err != nil {
			return filter, err
		}
		filter.Since = now.Add(-d)
	}
	return filter, nil
}

func runCaptureShow(w io.Writer, path string, filter capture.Filter, limit int) error {
	r, err := capture.NewReader(path, filter)
	if err != nil {
		return err
	}
	defer r.Close()

	n := 0
	for limit <= 0 || n < limit {
		ev, err := r.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ev.String())
		n++
	}
	if n == 0 {
		fmt.Fprintln(w, "no matching events")
	}
	return nil
}
