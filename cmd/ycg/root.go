package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ycg/internal/slogutil"
	"ycg/internal/version"
)

var (
	verbosity int
	quiet     bool
	logFormat string
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "ycg",
	Short: "ycg - SCIP index to compact code graph",
	Long: `ycg converts a SCIP code-intelligence index into a compact symbol graph
for language models: YAML (flat or adjacency form) or a pipe-delimited
ad-hoc format with three granularity levels.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("ycg version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v for debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: human or json (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also append logs to this file")
}

// newLogger builds the command logger. Flags win over the configured level
// and format. The returned closer releases the log file, if any.
func newLogger(configLevel, configFormat string) (*slog.Logger, func(), error) {
	level := slogutil.ResolveLevel(configLevel, verbosity, quiet)
	format := configFormat
	if logFormat != "" {
		format = logFormat
	}

	handler := slogutil.ConsoleHandler(os.Stderr, format, level)
	closer := func() {}

	if logFile != "" {
		fileHandler, f, err := slogutil.FileHandler(logFile, level)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handler = slogutil.Tee(handler, fileHandler)
		closer = func() { _ = f.Close() }
	}

	return slog.New(handler), closer, nil
}
