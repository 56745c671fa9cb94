// Package cmd implements the tickerbar command line.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tickerbar/internal/app"
	"tickerbar/internal/config"
	"tickerbar/internal/dock"
)

// Root command flags
var (
	configPath    string
	runPosition   string
	runSize       string
	runHelper     string
	runHelperWait time.Duration
	runNoHelper   bool
)

var rootCmd = &cobra.Command{
	Use:   "tickerbar",
	Short: "Always-on-top ticker bar docked to a screen edge",
	Long: `Run the ticker bar: a borderless, always-on-top window docked to one
edge of the primary display.

On Windows the bar registers as an AppBar through the tickerbar-appbar
helper so other windows stay clear of it. Elsewhere, or when the helper
fails, the bar is placed with plain geometry.

Examples:
  tickerbar                          # Dock with config file settings
  tickerbar --position left --size 120
  tickerbar --no-helper              # Geometry placement only`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runBar,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: per-user config dir)")

	rootCmd.Flags().StringVarP(&runPosition, "position", "p", "", "Dock edge: top, bottom, left or right")
	rootCmd.Flags().StringVarP(&runSize, "size", "s", "", "Bar thickness in pixels (1-1999)")
	rootCmd.Flags().StringVar(&runHelper, "helper", "", "Path to the AppBar helper executable")
	rootCmd.Flags().DurationVar(&runHelperWait, "helper-timeout", config.DefaultHelperTimeout, "Helper timeout (0 disables)")
	rootCmd.Flags().BoolVar(&runNoHelper, "no-helper", false, "Never use the AppBar helper")
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runBar(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return err
	}
	return app.Run(cfg)
}

// applyOverrides copies explicitly set flags onto cfg
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("position") {
		e, err := dock.ParseEdge(runPosition)
		if err != nil {
			return fmt.Errorf("invalid --position: %w", err)
		}
		cfg.Position = string(e)
	}
	if flags.Changed("size") {
		n, err := dock.ParseBarSize(runSize)
		if err != nil {
			return fmt.Errorf("invalid --size: %w", err)
		}
		cfg.BarSize = n
	}
	if flags.Changed("helper") {
		cfg.Helper.Path = runHelper
		if cfg.Helper.Mode == config.HelperNever {
			cfg.Helper.Mode = config.HelperAuto
		}
	}
	if flags.Changed("helper-timeout") {
		if runHelperWait < 0 {
			return errors.New("invalid --helper-timeout: must not be negative")
		}
		cfg.Helper.Timeout = runHelperWait
	}
	if runNoHelper {
		cfg.Helper.Mode = config.HelperNever
	}
	return nil
}
