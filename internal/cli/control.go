package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/livetap/internal/api"
	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/ui"
)

var controlYes bool

var controlCmd = &cobra.Command{
	Use:   "control <app|container> <id> <start|stop|restart>",
	Short: "Start, stop or restart an app or container",
	Long: `Ask the backend to start, stop or restart a workload. When stdin is a
terminal you are asked to confirm; pass --yes to skip the prompt.

Examples:
  livetap control container postgres restart
  livetap control app api stop --yes`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return controlCommand(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(controlCmd)
	controlCmd.Flags().BoolVarP(&controlYes, "yes", "y", false, "skip the confirmation prompt")
}

func controlCommand(ctx context.Context, w io.Writer, kindArg, id, actionArg string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kind, err := api.ParseKind(kindArg)
	if err != nil {
		return err
	}
	action, err := api.ParseAction(actionArg)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	confirm := confirmAlways
	if !controlYes && term.IsTerminal(int(os.Stdin.Fd())) {
		confirm = confirmPrompt
	}
	return runControl(ctx, w, client, kind, id, action, confirm)
}

// controller is the slice of api.Client control needs.
type controller interface {
	Control(ctx context.Context, kind api.Kind, id string, action api.Action) (map[string]any, error)
}

type confirmFunc func(title string) (bool, error)

func confirmAlways(string) (bool, error) { return true, nil }

func confirmPrompt(title string) (bool, error) {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	err := form.Run()
	return ok, err
}

func runControl(ctx context.Context, w io.Writer, c controller, kind api.Kind, id string, action api.Action, confirm confirmFunc) error {
	target := fmt.Sprintf("%s %s", kindNoun(kind), id)
	ok, err := confirm(fmt.Sprintf("%s %s?", action, target))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Confirmation was cancelled", "")
	}
	if !ok {
		fmt.Fprintln(w, ui.WarningStyle.Render("Cancelled."))
		return nil
	}

	if _, err := c.Control(ctx, kind, id, action); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s: %s requested\n", ui.SuccessStyle.Render(ui.SymbolSuccess), target, action)
	return nil
}

func kindNoun(k api.Kind) string {
	if k == api.KindContainers {
		return "container"
	}
	return "app"
}
