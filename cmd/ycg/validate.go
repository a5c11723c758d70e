package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ycg/internal/adhoc"
	ycgerrors "ycg/internal/errors"
	"ycg/internal/output"
	"ycg/internal/pipeline"
	"ycg/internal/validate"
)

var (
	validateFormat      string
	validateGranularity int
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a written graph document",
	Long: `Validate a document produced by 'ycg convert'.

Checks the document structure and the referential integrity of its edges.
Compressed files (.gz, .zst) are decompressed first.

Examples:
  ycg validate graph.yaml
  ycg validate graph.txt --format adhoc --granularity 2`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "yaml", "Document format: yaml or adhoc")
	validateCmd.Flags().IntVar(&validateGranularity, "granularity", 0, "Ad-hoc granularity the document was written with")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := pipeline.ParseFormat(validateFormat)
	if err != nil {
		return ycgerrors.New(ycgerrors.ConfigInvalid, err.Error(), nil)
	}
	level, err := adhoc.ParseGranularity(validateGranularity)
	if err != nil {
		return ycgerrors.New(ycgerrors.ConfigInvalid, err.Error(), nil)
	}
	if format == pipeline.FormatYAML && level != adhoc.Default {
		return ycgerrors.New(ycgerrors.ConfigConflict, "granularity levels apply only to the adhoc format", nil)
	}

	body, err := output.ReadFile(path)
	if err != nil {
		return ycgerrors.New(ycgerrors.OutputFailed, "failed to read document "+path, err)
	}

	var summary *validate.Summary
	if format == pipeline.FormatAdHoc {
		summary, err = validate.AdHocDocument(body, level)
	} else {
		summary, err = validate.YAMLDocument(body)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s document (%d definitions, %d edges)\n",
		path, summary.Shape, summary.Definitions, summary.Edges)
	return nil
}
