// Package filter narrows what a conversion sees: documents by path before
// the graph is built, and framework boilerplate after.
package filter

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"ycg/internal/backends/scip"
)

// FileOptions configures a FileFilter.
type FileOptions struct {
	ProjectRoot  string
	Include      []string
	Exclude      []string
	UseGitignore bool
}

// FileFilter selects documents by relative path. A path is kept when it
// matches an include pattern (or there are none) and matches no exclude
// pattern and no .gitignore rule. Exclusion wins over inclusion.
type FileFilter struct {
	include   []string
	exclude   []string
	gitignore *Gitignore
}

// NewFileFilter validates the patterns and loads .gitignore when asked.
func NewFileFilter(opts FileOptions) (*FileFilter, error) {
	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	f := &FileFilter{include: opts.Include, exclude: opts.Exclude}
	if opts.UseGitignore {
		gi, err := LoadGitignore(opts.ProjectRoot)
		if err != nil {
			return nil, fmt.Errorf("read .gitignore: %w", err)
		}
		f.gitignore = gi
	}
	return f, nil
}

// Active reports whether the filter can drop anything.
func (f *FileFilter) Active() bool {
	return len(f.include) > 0 || len(f.exclude) > 0 || (f.gitignore != nil && f.gitignore.Len() > 0)
}

// Keep reports whether the relative path passes the filter.
func (f *FileFilter) Keep(rel string) bool {
	rel = filepath.ToSlash(rel)
	if matchAny(f.exclude, rel) {
		return false
	}
	if f.gitignore != nil && f.gitignore.Ignored(rel) {
		return false
	}
	return len(f.include) == 0 || matchAny(f.include, rel)
}

// Documents returns the documents that pass, in their original order.
func (f *FileFilter) Documents(docs []*scip.Document) []*scip.Document {
	kept := make([]*scip.Document, 0, len(docs))
	for _, d := range docs {
		if f.Keep(d.RelativePath) {
			kept = append(kept, d)
		}
	}
	return kept
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
