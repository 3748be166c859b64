// main is the entry point for the mapvalidator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/tier4/mapvalidator/cmd"
	"github.com/tier4/mapvalidator/internal/history"
)

func main() {
	err := cmd.Execute()

	history.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Failed to stop profiling:", perr)
	}

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
