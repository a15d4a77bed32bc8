package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/config"
	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Global bool
	Force  bool
	API    string
	WS     string
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with every setting at its default.

Without --global the file is .livetap.yaml in the current directory;
with --global it is ~/.config/livetap/config.yaml.

Examples:
  livetap init
  livetap init --global --api https://mon.example.com --ws wss://mon.example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initPath(initOpts.Global)
		if err != nil {
			return err
		}
		return runInit(cmd.OutOrStdout(), path, initOpts)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write the global config instead of .livetap.yaml")
	initCmd.Flags().BoolVar(&initOpts.Force, "force", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&initOpts.API, "api", "", "REST base URL (default http://localhost:8000)")
	initCmd.Flags().StringVar(&initOpts.WS, "ws", "", "WebSocket base URL (default ws://localhost:8000)")
}

func initPath(global bool) (string, error) {
	if !global {
		return config.ConfigFileName, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Write a project config instead: livetap init")
	}
	return filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), nil
}

func runInit(w io.Writer, path string, opts InitOptions) error {
	cfg := config.DefaultConfig()
	if opts.API != "" {
		cfg.APIBaseURL = opts.API
	}
	if opts.WS != "" {
		cfg.WSBaseURL = opts.WS
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.WriteDefault(path, cfg, opts.Force); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Wrote %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), path)
	fmt.Fprintln(w, ui.InfoStyle.Render("Try it: livetap watch system"))
	return nil
}
