package cmd

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	"tickerbar/internal/dock"
)

var (
	rectDisplay  string
	rectPosition string
	rectSize     string
)

var rectCmd = &cobra.Command{
	Use:   "rect",
	Short: "Print the fallback rectangle for a display",
	Long: `Print the window rectangle the geometry fallback would use, as
"x y width height" in the same form the AppBar helper prints.

Examples:
  tickerbar rect --position right --size 100
  tickerbar rect --display 2560x1440+1920+0 --position bottom`,
	Args: cobra.NoArgs,
	RunE: runRect,
}

func init() {
	rectCmd.Flags().StringVar(&rectDisplay, "display", "1920x1080", "Display geometry WxH[+X+Y]")
	rectCmd.Flags().StringVarP(&rectPosition, "position", "p", "top", "Dock edge: top, bottom, left or right")
	rectCmd.Flags().StringVarP(&rectSize, "size", "s", strconv.Itoa(dock.DefaultBarSize), "Bar thickness in pixels (1-1999)")
	rootCmd.AddCommand(rectCmd)
}

func runRect(cmd *cobra.Command, args []string) error {
	d, err := parseDisplay(rectDisplay)
	if err != nil {
		return err
	}
	edge, err := dock.ParseEdge(rectPosition)
	if err != nil {
		return fmt.Errorf("invalid --position: %w", err)
	}
	size, err := dock.ParseBarSize(rectSize)
	if err != nil {
		return fmt.Errorf("invalid --size: %w", err)
	}

	r := dock.FallbackRect(d, edge, size)
	fmt.Fprintf(cmd.OutOrStdout(), "%d %d %d %d\n", r.X, r.Y, r.Width, r.Height)
	return nil
}

var displayPattern = regexp.MustCompile(`^(\d+)x(\d+)(?:([+-]\d+)([+-]\d+))?$`)

// parseDisplay reads X11-style geometry such as "1920x1080" or
// "2560x1440-2560+0"
func parseDisplay(s string) (dock.Display, error) {
	m := displayPattern.FindStringSubmatch(s)
	if m == nil {
		return dock.Display{}, fmt.Errorf("invalid --display %q: want WxH[+X+Y]", s)
	}
	var fields [4]int
	for i, v := range m[1:] {
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return dock.Display{}, fmt.Errorf("invalid --display %q: %w", s, err)
		}
		fields[i] = n
	}
	d := dock.Display{Width: fields[0], Height: fields[1], X: fields[2], Y: fields[3]}
	if d.Width <= 0 || d.Height <= 0 {
		return dock.Display{}, fmt.Errorf("invalid --display %q: size must be positive", s)
	}
	return d, nil
}
