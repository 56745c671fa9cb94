package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tickerbar/internal/config"
	"tickerbar/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent dock placements",
	Long: `Show the placements the bar applied, newest first.

Each row shows when the placement happened, the requested edge and size,
the resulting window rectangle and whether the AppBar helper or the
geometry fallback produced it.

Examples:
  tickerbar history          # Last 20 placements
  tickerbar history -n 100`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of placements to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	path := cfg.HistoryPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No placements recorded yet")
		return nil
	}

	store, err := history.Open(path, 0)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No placements recorded yet")
		return nil
	}
	return printHistory(cmd.OutOrStdout(), entries)
}

func printHistory(w io.Writer, entries []history.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tEDGE\tSIZE\tRECT\tSOURCE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d,%d %dx%d\t%s\n",
			e.AppliedAt.Format("2006-01-02 15:04:05"),
			e.Settings.Position, e.Settings.BarSize,
			e.Rect.X, e.Rect.Y, e.Rect.Width, e.Rect.Height,
			e.Source)
	}
	return tw.Flush()
}
