// Command partloader resolves and loads template parts from the command line,
// using the same child theme, parent theme and plugin lookup as the library.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
