package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ycg/internal/config"
	"ycg/internal/slogutil"
	"ycg/internal/storage"
)

var (
	historyRoot  string
	historyLimit int
	historyJSON  bool
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `List conversion runs recorded in the history database.

History is written when history.enabled is true in the configuration.

Examples:
  ycg history               # last 20 runs
  ycg history -n 5 --json
  ycg history --prune 720h  # delete runs older than 30 days`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyRoot, "root", ".", "Project root")
	historyCmd.Flags().IntVarP(&historyLimit, "lines", "n", 20, "Number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print runs as JSON")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "Delete runs older than this duration first")
	rootCmd.AddCommand(historyCmd)
}

// historyEntry is the JSON form of a run
type historyEntry struct {
	ID           string  `json:"id"`
	StartedAt    string  `json:"startedAt"`
	DurationMs   int64   `json:"durationMs"`
	Format       string  `json:"format"`
	Granularity  int     `json:"granularity"`
	LOD          string  `json:"lod"`
	Definitions  int     `json:"definitions"`
	Edges        int     `json:"edges"`
	InputTokens  int     `json:"inputTokens"`
	OutputTokens int     `json:"outputTokens"`
	Ratio        float64 `json:"ratio,omitempty"`
	Status       string  `json:"status"`
	ErrorCode    string  `json:"errorCode,omitempty"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(historyRoot)
	if err != nil {
		return err
	}
	dbPath := resolvePath(historyRoot, cfg.History.Path)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "No history recorded at %s\n", dbPath)
		return nil
	}

	db, err := storage.Open(dbPath, slogutil.NewDiscardLogger())
	if err != nil {
		return err
	}
	defer db.Close()

	if historyPrune > 0 {
		n, err := db.PruneRuns(time.Now().Add(-historyPrune))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Pruned %d run(s)\n", n)
	}

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		entries := make([]historyEntry, 0, len(runs))
		for _, r := range runs {
			entries = append(entries, historyEntry{
				ID:           r.ID,
				StartedAt:    r.StartedAt.Format(time.RFC3339),
				DurationMs:   r.Duration.Milliseconds(),
				Format:       r.Format,
				Granularity:  r.Granularity,
				LOD:          r.LOD,
				Definitions:  r.Definitions,
				Edges:        r.Edges,
				InputTokens:  r.InputTokens,
				OutputTokens: r.OutputTokens,
				Ratio:        r.Ratio(),
				Status:       r.Status,
				ErrorCode:    r.ErrorCode,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tFORMAT\tLOD\tDEFS\tEDGES\tRATIO\tSTATUS")
	for _, r := range runs {
		status := r.Status
		if r.ErrorCode != "" {
			status += " (" + r.ErrorCode + ")"
		}
		format := r.Format
		if format == "adhoc" {
			format = fmt.Sprintf("adhoc/%d", r.Granularity)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2fx\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			format, r.LOD, r.Definitions, r.Edges, r.Ratio(), status)
	}
	return tw.Flush()
}
