// Command tis100check loads a grid layout and reports whether it reaches
// a fixed point (every node blocked in READ or WRITE mode) before a tick
// budget is exhausted. It is a thin consumer of the core API, not
// a puzzle harness or a terminal front-end: it prints one line and exits.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
