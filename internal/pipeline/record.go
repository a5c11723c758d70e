package pipeline

import (
	"fmt"
	"time"

	ycgerrors "ycg/internal/errors"
	"ycg/internal/metrics"
	"ycg/internal/storage"
)

func formatRatio(r float64) string {
	return fmt.Sprintf("%.2fx", r)
}

// Sample converts a run outcome into a metrics sample. res may be nil when
// err is set.
func Sample(opts Options, res *Result, err error) metrics.Sample {
	s := metrics.Sample{
		Format: string(opts.Format),
		LOD:    opts.LOD.String(),
		Failed: err != nil,
	}
	if res == nil {
		return s
	}
	s.Documents = res.DocumentsKept
	s.Definitions = res.Definitions
	s.Edges = res.Edges
	s.InputTokens = res.InputTokens
	s.OutputTokens = res.OutputTokens
	s.Duration = res.Duration
	return s
}

// HistoryRun converts a run outcome into a history row.
func HistoryRun(opts Options, outputPath string, started time.Time, res *Result, err error) *storage.Run {
	run := &storage.Run{
		StartedAt:   started,
		Duration:    time.Since(started),
		IndexPath:   opts.IndexPath,
		OutputPath:  outputPath,
		Format:      string(opts.Format),
		Granularity: int(opts.Granularity),
		LOD:         opts.LOD.String(),
		Compact:     opts.Compact,
		Status:      storage.StatusSuccess,
	}
	if err != nil {
		run.Status = storage.StatusError
		code, _ := ycgerrors.CodeOf(err)
		run.ErrorCode = string(code)
	}
	if res != nil {
		run.Duration = res.Duration
		run.Documents = res.DocumentsKept
		run.Definitions = res.Definitions
		run.Edges = res.Edges
		run.InputTokens = res.InputTokens
		run.OutputTokens = res.OutputTokens
	}
	return run
}
