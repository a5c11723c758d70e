//go:build !cgo

package enrich

import "log/slog"

// Available reports whether tree-sitter enrichment is compiled in.
const Available = false

// TreeSitter is the non-cgo stand-in; it never finds anything.
type TreeSitter struct {
	stats CacheStats
}

// NewTreeSitter returns an enricher that always reports no result.
func NewTreeSitter(*slog.Logger) *TreeSitter {
	return &TreeSitter{}
}

// Enrich implements Enricher.
func (t *TreeSitter) Enrich(string, int) (*Result, bool) {
	return nil, false
}

// Stats returns zero statistics.
func (t *TreeSitter) Stats() CacheStats {
	return t.stats
}

// Close is a no-op.
func (t *TreeSitter) Close() {}
