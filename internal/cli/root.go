package cli

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/config"
	"github.com/rileyhilliard/livetap/internal/logger"
	"github.com/rileyhilliard/livetap/internal/ui"
)

// Global flags
var (
	cfgFile     string
	noColor     bool
	verbose     bool
	capturePath string
)

var rootCmd = &cobra.Command{
	Use:   "livetap",
	Short: "Live telemetry, logs and alerts from a monitoring backend",
	Long: `livetap subscribes to a monitoring backend's WebSocket feeds and renders
live telemetry, log tails and alerts in the terminal. It also queries the
backend's REST API for historical stats and workload control.

Streams reconnect automatically after a drop (5s apart, 10 attempts by
default). Tune this in .livetap.yaml or with LIVETAP_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
		if verbose {
			os.Setenv(logger.DebugEnv, "1")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .livetap.yaml, then ~/.config/livetap/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log stream lifecycle and debug details")
	rootCmd.PersistentFlags().StringVar(&capturePath, "capture", "", "record a stream trace to this file")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			if name := extractUnknownCommand(err); name != "" {
				fmt.Fprintf(os.Stderr, "livetap doesn't have a '%s' command.\n\nRun 'livetap --help' for usage.\n", name)
			} else {
				fmt.Fprintf(os.Stderr, "%s\n\nRun 'livetap --help' for usage.\n", err)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadConfig resolves and validates config for commands that talk to the backend.
func loadConfig() (*config.Config, error) {
	cfg, path, err := config.Resolve(cfgFile)
	if err != nil {
		return nil, err
	}
	if capturePath != "" {
		cfg.Capture.Path = capturePath
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if path == "" {
		path = "defaults"
	}
	logger.Default().Debug("config loaded from %s", path)
	return cfg, nil
}

var (
	unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)
	unknownFlagPattern    = regexp.MustCompile(`^unknown (shorthand )?flag`)
)

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return unknownCommandPattern.MatchString(msg) || unknownFlagPattern.MatchString(msg)
}

// extractUnknownCommand returns the offending word of an unknown command error.
func extractUnknownCommand(err error) string {
	if m := unknownCommandPattern.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}
