package main

import (
	"fmt"
	"os"

	"github.com/joseph-ayodele/invoice-sorter/internal/common"
)

var version = "0.1.0"

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	if err := Execute(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps run errors to process exit codes: 2 for bad input or
// configuration, 1 for everything else.
func exitCode(err error) int {
	switch common.CodeOf(err) {
	case common.CodeInput, common.CodeConfig, common.CodeCatalog:
		return 2
	default:
		return 1
	}
}
