// tickerbar is an always-on-top ticker docked to a screen edge.
package main

import (
	"os"

	"tickerbar/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
