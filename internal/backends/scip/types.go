package scip

import "time"

// Index is a decoded SCIP index reduced to what graph construction reads.
type Index struct {
	// Metadata contains index metadata
	Metadata *Metadata

	// Documents are all indexed documents, in index order
	Documents []*Document

	// ExternalSymbols describe symbols defined outside the indexed project
	ExternalSymbols []*SymbolInformation

	// LoadedAt is when the index was loaded
	LoadedAt time.Time
}

// Metadata represents SCIP index metadata
type Metadata struct {
	// Version is the SCIP protocol version
	Version string

	// ToolInfo contains information about the indexing tool
	ToolInfo *ToolInfo

	// ProjectRoot is the root URI recorded by the indexer
	ProjectRoot string
}

// ToolInfo contains information about the indexing tool
type ToolInfo struct {
	Name      string
	Version   string
	Arguments []string
}

// Document represents a source document in the SCIP index
type Document struct {
	// RelativePath is the path relative to the project root
	RelativePath string

	// Language is the programming language
	Language string

	// Occurrences are all symbol occurrences in this document
	Occurrences []*Occurrence

	// Symbols are symbol definitions in this document
	Symbols []*SymbolInformation
}

// Occurrence represents a single occurrence of a symbol in a document
type Occurrence struct {
	// Range is [startLine, startCol, endCol] or [startLine, startCol, endLine, endCol]
	Range []int32

	// Symbol is the SCIP symbol identifier
	Symbol string

	// SymbolRoles is a bitmask of SymbolRole* values
	SymbolRoles int32

	// EnclosingRange spans the whole definition (body included) when the
	// indexer records it; same encoding as Range
	EnclosingRange []int32
}

// IsDefinition reports whether the occurrence defines its symbol.
func (o *Occurrence) IsDefinition() bool {
	return o.SymbolRoles&SymbolRoleDefinition != 0
}

// StartLine returns the 0-based first line, or 0 for an empty range.
func (o *Occurrence) StartLine() int32 {
	if len(o.Range) == 0 {
		return 0
	}
	return o.Range[0]
}

// EndLine returns the 0-based last line. Three-element ranges are
// single-line, so their end line is the start line.
func (o *Occurrence) EndLine() int32 {
	if len(o.Range) >= 4 {
		return o.Range[2]
	}
	return o.StartLine()
}

// ScopeLines returns the line span a definition encloses: the enclosing
// range when present, the occurrence range otherwise.
func (o *Occurrence) ScopeLines() (start, end int32) {
	if len(o.EnclosingRange) >= 3 {
		outer := Occurrence{Range: o.EnclosingRange}
		return outer.StartLine(), outer.EndLine()
	}
	return o.StartLine(), o.EndLine()
}

// SymbolInformation contains detailed information about a symbol
type SymbolInformation struct {
	// Symbol is the SCIP symbol identifier
	Symbol string

	// Kind is the raw SCIP kind; 0 means unspecified
	Kind int32

	// DisplayName is the human-readable name
	DisplayName string

	// Documentation is the doc comment
	Documentation []string
}

// SymbolRole constants (from SCIP protocol)
const (
	SymbolRoleDefinition        int32 = 1
	SymbolRoleImport            int32 = 2
	SymbolRoleWriteAccess       int32 = 4
	SymbolRoleReadAccess        int32 = 8
	SymbolRoleGenerated         int32 = 16
	SymbolRoleTest              int32 = 32
	SymbolRoleForwardDefinition int32 = 64
)
