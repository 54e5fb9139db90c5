// Command eeplugin is a command-line driver for the extreme-event
// detection plugin, running it against a synthetic NWP emulator.
package main

import (
	"fmt"
	"os"

	"github.com/ecmwf-labs/extreme-events/internal/eecmd"
)

func main() {
	if err := eecmd.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
