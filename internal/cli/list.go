package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/telemetry"
	"github.com/rileyhilliard/livetap/internal/ui"
)

var listJSON bool

var appsCmd = &cobra.Command{
	Use:     "apps",
	Aliases: []string{"services"},
	Short:   "List tracked services",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand(cmd.Context(), cmd.OutOrStdout(), listApps)
	},
}

var containersCmd = &cobra.Command{
	Use:   "containers",
	Short: "List containers with their current usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand(cmd.Context(), cmd.OutOrStdout(), listContainers)
	},
}

func init() {
	rootCmd.AddCommand(appsCmd, containersCmd)
	appsCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")
	containersCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")
}

// inventory is the slice of api.Client the list commands need.
type inventory interface {
	Apps(ctx context.Context) ([]telemetry.App, error)
	Containers(ctx context.Context) ([]telemetry.Container, error)
}

type lister func(ctx context.Context, w io.Writer, src inventory, asJSON bool) error

func listCommand(ctx context.Context, w io.Writer, list lister) error {
	err := func() error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		return list(ctx, w, client, listJSON)
	}()
	if err != nil && listJSON {
		_ = WriteJSONFromError(w, err)
	}
	return err
}

func listApps(ctx context.Context, w io.Writer, src inventory, asJSON bool) error {
	apps, err := src.Apps(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return WriteJSONSuccess(w, apps)
	}
	if len(apps) == 0 {
		fmt.Fprintln(w, ui.MutedStyle.Render("No tracked services."))
		return nil
	}
	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, []string{a.AppID, runningText(a.Running), yesNo(a.Trackable), dash(a.Version)})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "APP"}, {Title: "STATE"}, {Title: "TRACKED"}, {Title: "VERSION"},
	}, rows))
	return nil
}

func listContainers(ctx context.Context, w io.Writer, src inventory, asJSON bool) error {
	containers, err := src.Containers(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return WriteJSONSuccess(w, containers)
	}
	if len(containers) == 0 {
		fmt.Fprintln(w, ui.MutedStyle.Render("No containers."))
		return nil
	}
	rows := make([][]string, 0, len(containers))
	for _, c := range containers {
		version := dash(c.Version)
		if c.VersionDrift() {
			version += " " + ui.SymbolAlert + " " + c.VersionReal
		}
		rows = append(rows, []string{
			c.ContainerName,
			runningText(c.Running),
			fmt.Sprintf("%.1f%%", c.CPUPercent),
			fmt.Sprintf("%.1f MB", bytesToMB(c.MemBytes)),
			dash(c.Image),
			version,
		})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "CONTAINER"}, {Title: "STATE"}, {Title: "CPU"}, {Title: "MEM"}, {Title: "IMAGE"}, {Title: "VERSION"},
	}, rows))
	return nil
}

func runningText(running bool) string {
	if running {
		return ui.SymbolComplete + " running"
	}
	return ui.SymbolPending + " stopped"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
