package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	ycgerrors "ycg/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes the single terminal message for a failed command,
// followed by any suggested fixes.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var ye *ycgerrors.YcgError
	if !stderrors.As(err, &ye) {
		return
	}
	for _, fix := range ye.SuggestedFixes {
		switch {
		case fix.Command != "":
			fmt.Fprintf(w, "  Try: %s  (%s)\n", fix.Command, fix.Description)
		case fix.Description != "":
			fmt.Fprintf(w, "  Hint: %s\n", fix.Description)
		}
	}
}
