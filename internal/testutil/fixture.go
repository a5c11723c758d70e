// Package testutil provides fixtures for tests: SCIP indexes built in
// memory and small source trees written to temporary directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"ycg/internal/backends/scip"
)

// IndexBuilder assembles a SCIP index document by document.
type IndexBuilder struct {
	idx *scippb.Index
	cur *scippb.Document
}

// NewIndex starts an empty index with typescript tool metadata.
func NewIndex() *IndexBuilder {
	return &IndexBuilder{
		idx: &scippb.Index{
			Metadata: &scippb.Metadata{
				Version:     scippb.ProtocolVersion_UnspecifiedProtocolVersion,
				ToolInfo:    &scippb.ToolInfo{Name: "scip-typescript", Version: "0.3.14"},
				ProjectRoot: "file:///project",
			},
		},
	}
}

// Document appends a document; later Define/Reference calls target it.
func (b *IndexBuilder) Document(relativePath string) *IndexBuilder {
	b.cur = &scippb.Document{RelativePath: relativePath, Language: "TypeScript"}
	b.idx.Documents = append(b.idx.Documents, b.cur)
	return b
}

// Define records a definition occurrence spanning [startLine, endLine].
// A non-zero kind also records SymbolInformation for the symbol.
func (b *IndexBuilder) Define(symbol string, kind scippb.SymbolInformation_Kind, startLine, endLine int32) *IndexBuilder {
	b.cur.Occurrences = append(b.cur.Occurrences, &scippb.Occurrence{
		Range:       lineRange(startLine, endLine),
		Symbol:      symbol,
		SymbolRoles: int32(scippb.SymbolRole_Definition),
	})
	if kind != scippb.SymbolInformation_UnspecifiedKind {
		b.cur.Symbols = append(b.cur.Symbols, &scippb.SymbolInformation{Symbol: symbol, Kind: kind})
	}
	return b
}

// DefineEnclosed records a definition whose name sits on nameLine and whose
// body spans [startLine, endLine], the way indexers fill enclosing_range.
func (b *IndexBuilder) DefineEnclosed(symbol string, kind scippb.SymbolInformation_Kind, nameLine, startLine, endLine int32) *IndexBuilder {
	b.cur.Occurrences = append(b.cur.Occurrences, &scippb.Occurrence{
		Range:          lineRange(nameLine, nameLine),
		Symbol:         symbol,
		SymbolRoles:    int32(scippb.SymbolRole_Definition),
		EnclosingRange: lineRange(startLine, endLine),
	})
	if kind != scippb.SymbolInformation_UnspecifiedKind {
		b.cur.Symbols = append(b.cur.Symbols, &scippb.SymbolInformation{Symbol: symbol, Kind: kind})
	}
	return b
}

// Reference records a reference occurrence on line.
func (b *IndexBuilder) Reference(symbol string, line int32) *IndexBuilder {
	b.cur.Occurrences = append(b.cur.Occurrences, &scippb.Occurrence{
		Range:       lineRange(line, line),
		Symbol:      symbol,
		SymbolRoles: int32(scippb.SymbolRole_ReadAccess),
	})
	return b
}

// External records an external symbol kind.
func (b *IndexBuilder) External(symbol string, kind scippb.SymbolInformation_Kind) *IndexBuilder {
	b.idx.ExternalSymbols = append(b.idx.ExternalSymbols, &scippb.SymbolInformation{Symbol: symbol, Kind: kind})
	return b
}

// Proto returns the assembled protobuf index.
func (b *IndexBuilder) Proto() *scippb.Index {
	return b.idx
}

// Index returns the assembled index in decoded form.
func (b *IndexBuilder) Index() *scip.Index {
	return scip.FromProto(b.idx)
}

// Write marshals the index to dir/index.scip and returns the path.
func (b *IndexBuilder) Write(t *testing.T, dir string) string {
	t.Helper()

	data, err := proto.Marshal(b.idx)
	if err != nil {
		t.Fatalf("Failed to marshal SCIP index: %v", err)
	}
	path := filepath.Join(dir, "index.scip")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write SCIP index: %v", err)
	}
	return path
}

// WriteFiles writes files (relative path to content) under dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

func lineRange(start, end int32) []int32 {
	if start == end {
		return []int32{start, 0, 10}
	}
	return []int32{start, 0, end, 1}
}
