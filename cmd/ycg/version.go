package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ycg/internal/enrich"
	"ycg/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.Full())
		fmt.Fprintf(out, "Graph: %s\n", version.GraphName())
		fmt.Fprintf(out, "Tree-sitter enrichment: %t\n", enrich.Available)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
