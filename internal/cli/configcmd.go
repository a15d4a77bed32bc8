package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/livetap/internal/config"
	"github.com/rileyhilliard/livetap/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print which config file is in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(cfgFile)
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "(none, using defaults)")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.Keys(), "\n"))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one key, keeping the file's comments",
	Long: `Set one dotted key in the config file in use.

Examples:
  livetap config set stream.reconnect_delay 2s
  livetap config set alerts.cpu_percent 75`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(cfgFile)
		if err != nil {
			return err
		}
		return runConfigSet(cmd.OutOrStdout(), path, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configKeysCmd, configSetCmd)
}

// runConfigSet writes key=value and re-validates the result.
func runConfigSet(w io.Writer, path, key, value string) error {
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file to edit",
			"Create one with: livetap init")
	}
	if err := config.SetValue(path, key, value); err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s = %s (%s)\n", key, value, path)
	return nil
}
