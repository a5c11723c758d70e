package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"ycg/internal/adhoc"
	"ycg/internal/config"
	"ycg/internal/enrich"
	ycgerrors "ycg/internal/errors"
	"ycg/internal/graph"
	"ycg/internal/logic"
	"ycg/internal/tokens"
)

// Format is the rendered document format.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatAdHoc Format = "adhoc"
)

// ParseFormat parses yaml or adhoc case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatYAML:
		return FormatYAML, nil
	case FormatAdHoc:
		return FormatAdHoc, nil
	}
	return "", fmt.Errorf("invalid output format '%s', valid options are: yaml, adhoc", s)
}

// Options configures one conversion.
type Options struct {
	IndexPath   string
	ProjectRoot string

	Format      Format
	Compact     bool
	Granularity adhoc.Granularity
	LOD         graph.LevelOfDetail

	Include      []string
	Exclude      []string
	UseGitignore bool

	IgnoreFrameworkNoise bool
	Extractor            logic.Extractor

	// Strict turns dangling edges into a fatal error instead of a warning.
	Strict bool

	// Enricher defaults to a tree-sitter enricher owned by the run.
	Enricher enrich.Enricher
	// Counter defaults to the cl100k_base BPE counter.
	Counter tokens.Counter
	Logger  *slog.Logger
}

// FromConfig builds Options from a merged and validated configuration.
func FromConfig(cfg *config.Config, indexPath, projectRoot string) (Options, error) {
	format, err := ParseFormat(cfg.Output.Format)
	if err != nil {
		return Options{}, ycgerrors.New(ycgerrors.ConfigInvalid, err.Error(), nil)
	}
	gran, err := adhoc.ParseGranularity(cfg.Output.Granularity)
	if err != nil {
		return Options{}, ycgerrors.New(ycgerrors.ConfigInvalid, err.Error(), nil)
	}
	lod, ok := graph.ParseLevelOfDetail(cfg.Output.LOD)
	if !ok {
		return Options{}, ycgerrors.Newf(ycgerrors.ConfigInvalid,
			"invalid level of detail '%s', valid options are: low, medium, high", cfg.Output.LOD)
	}
	extractor, err := logic.ByName(cfg.Logic.Strategy)
	if err != nil {
		return Options{}, ycgerrors.New(ycgerrors.ConfigInvalid, err.Error(), nil)
	}

	return Options{
		IndexPath:            indexPath,
		ProjectRoot:          projectRoot,
		Format:               format,
		Compact:              cfg.Output.Compact,
		Granularity:          gran,
		LOD:                  lod,
		Include:              cfg.Include,
		Exclude:              cfg.Ignore.CustomPatterns,
		UseGitignore:         cfg.Ignore.UseGitignore,
		IgnoreFrameworkNoise: cfg.Output.IgnoreFrameworkNoise,
		Extractor:            extractor,
	}, nil
}

// fileFilterActive mirrors the condition under which the file filter runs.
func (o Options) fileFilterActive() bool {
	return len(o.Include) > 0 || len(o.Exclude) > 0 || o.UseGitignore
}
