// Package pipeline runs a conversion end to end: load the SCIP index,
// filter documents, build the graph, render and validate the document, and
// report token density.
package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"ycg/internal/adhoc"
	"ycg/internal/backends/scip"
	"ycg/internal/enrich"
	ycgerrors "ycg/internal/errors"
	"ycg/internal/filter"
	"ycg/internal/graph"
	"ycg/internal/slogutil"
	"ycg/internal/tokens"
	"ycg/internal/validate"
	"ycg/internal/version"
)

// Result is a finished conversion. Body is only set when Run succeeds.
type Result struct {
	Body []byte

	Options   Options
	Build     graph.BuildStats
	Framework filter.FrameworkStats
	Cache     enrich.CacheStats

	DocumentsTotal int
	DocumentsKept  int
	Definitions    int
	Edges          int
	InputTokens    int
	OutputTokens   int

	// Integrity is set when dangling edges were found and tolerated.
	Integrity *validate.IntegrityReport

	StartedAt time.Time
	Duration  time.Duration
}

// Ratio returns input tokens over output tokens, or 0 without input.
func (r *Result) Ratio() float64 {
	return tokens.Ratio(r.InputTokens, r.OutputTokens)
}

// Run performs one conversion. Any returned error is a *errors.YcgError
// (or a context error); on error no document is produced.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if opts.ProjectRoot == "" {
		opts.ProjectRoot = "."
	}
	if opts.Format == "" {
		opts.Format = FormatYAML
	}
	res := &Result{Options: opts, StartedAt: time.Now()}

	idx, err := scip.LoadIndex(opts.IndexPath)
	if err != nil {
		return nil, err
	}
	res.DocumentsTotal = len(idx.Documents)
	logger.Info("Loaded SCIP index",
		"path", opts.IndexPath,
		"documents", len(idx.Documents),
		"occurrences", idx.OccurrenceCount(),
	)

	if opts.fileFilterActive() {
		ff, err := filter.NewFileFilter(filter.FileOptions{
			ProjectRoot:  opts.ProjectRoot,
			Include:      opts.Include,
			Exclude:      opts.Exclude,
			UseGitignore: opts.UseGitignore,
		})
		if err != nil {
			return nil, ycgerrors.New(ycgerrors.ConfigInvalid, "invalid file filter", err)
		}
		if ff.Active() {
			filtered := *idx
			filtered.Documents = ff.Documents(idx.Documents)
			logger.Info("Filtered documents",
				"before", len(idx.Documents),
				"after", len(filtered.Documents),
			)
			idx = &filtered
		}
	}
	res.DocumentsKept = len(idx.Documents)

	counter := opts.Counter
	if counter == nil {
		counter = tokens.NewBPE(logger)
	}
	res.InputTokens = countSourceTokens(counter, opts.ProjectRoot, idx.Documents)

	enricher := opts.Enricher
	if enricher == nil {
		ts := enrich.NewTreeSitter(logger)
		defer func() {
			res.Cache = ts.Stats()
			ts.Close()
		}()
		enricher = ts
	}

	built, err := graph.NewBuilder(
		graph.WithProjectRoot(opts.ProjectRoot),
		graph.WithLevelOfDetail(opts.LOD),
		graph.WithEnricher(enricher),
		graph.WithMetadata(graph.Metadata{Name: version.GraphName(), Version: version.Version}),
		graph.WithLogger(logger),
	).Build(ctx, idx)
	if err != nil {
		return nil, err
	}
	res.Build = built.Stats
	g := built.Graph

	if opts.IgnoreFrameworkNoise {
		before := len(g.Definitions)
		res.Framework = filter.FrameworkNoise(g)
		logger.Info("Framework noise filter applied",
			"before", before,
			"after", len(g.Definitions),
			"edges_removed", res.Framework.EdgesRemoved,
			"simplified", res.Framework.Simplified,
		)
	}

	body, err := render(g, opts)
	if err != nil {
		return nil, err
	}

	if err := checkIntegrity(g, opts, res); err != nil {
		return nil, err
	}
	if res.Integrity != nil {
		logger.Warn("Graph has dangling edges",
			"invalid_edges", res.Integrity.Total,
			"first", res.Integrity.Violations[0].String(),
		)
	}

	res.Body = body
	res.Definitions = len(g.Definitions)
	res.Edges = len(g.References)
	res.OutputTokens = counter.Count(string(body))
	res.Duration = time.Since(res.StartedAt)

	logger.Info("Conversion complete",
		"format", string(opts.Format),
		"definitions", len(g.Definitions),
		"edges", len(g.References),
		"duration", res.Duration,
	)
	logger.Info("Token density",
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens,
	)
	if res.InputTokens > 0 {
		logger.Info("Compression ratio", "ratio", formatRatio(res.Ratio()))
	}

	return res, nil
}

// render serializes g and runs the structural validators for the chosen
// format. Structural failures are always fatal.
func render(g *graph.Graph, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatAdHoc:
		doc := adhoc.NewSerializer(opts.Granularity, adhoc.WithExtractor(opts.Extractor)).SerializeGraph(g)
		body, err := marshal(doc)
		if err != nil {
			return nil, err
		}
		if err := validate.AdHocGranularity(doc, opts.Granularity); err != nil {
			return nil, err
		}
		return body, nil

	default:
		var v interface{} = g
		if opts.Compact {
			v = graph.Optimize(g)
		}
		body, err := marshal(v)
		if err != nil {
			return nil, err
		}
		if err := validate.YAML(body); err != nil {
			return nil, err
		}
		return body, nil
	}
}

// checkIntegrity records dangling edges on res. It fails only in strict
// mode.
func checkIntegrity(g *graph.Graph, opts Options, res *Result) error {
	err := validate.Integrity(g)
	if err == nil {
		return nil
	}
	if opts.Strict {
		return err
	}
	var ye *ycgerrors.YcgError
	if stderrors.As(err, &ye) {
		if report, ok := ye.Details.(*validate.IntegrityReport); ok {
			res.Integrity = report
			return nil
		}
	}
	return err
}

func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, ycgerrors.New(ycgerrors.InternalError, "failed to render YAML document", err)
	}
	if err := enc.Close(); err != nil {
		return nil, ycgerrors.New(ycgerrors.InternalError, "failed to render YAML document", err)
	}
	return buf.Bytes(), nil
}

// countSourceTokens counts tokens in every readable document under root.
// Missing sources count as zero.
func countSourceTokens(counter tokens.Counter, root string, docs []*scip.Document) int {
	total := 0
	for _, d := range docs {
		data, err := os.ReadFile(filepath.Join(root, d.RelativePath))
		if err != nil {
			continue
		}
		total += counter.Count(string(data))
	}
	return total
}
