package scip

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ycg/internal/errors"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"
)

// LoadIndex loads a SCIP index from the specified path.
// A missing file is INDEX_MISSING, a read failure INDEX_UNREADABLE and
// undecodable content INDEX_CORRUPT.
func LoadIndex(path string) (*Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(
			errors.IndexMissing,
			fmt.Sprintf("SCIP index not found at %s", path),
			err,
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(
			errors.IndexUnreadable,
			fmt.Sprintf("Failed to read SCIP index from %s", path),
			err,
		)
	}

	idx, err := Decode(data)
	if err != nil {
		return nil, errors.New(
			errors.IndexCorrupt,
			fmt.Sprintf("Failed to decode SCIP index from %s", path),
			err,
		).WithDetails(map[string]interface{}{"path": path, "bytes": len(data)})
	}
	return idx, nil
}

// Decode parses protobuf-encoded SCIP bytes.
func Decode(data []byte) (*Index, error) {
	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, err
	}
	return FromProto(&index), nil
}

// FromProto converts a protobuf index to the internal representation.
func FromProto(index *scippb.Index) *Index {
	return &Index{
		Metadata:        convertMetadata(index.Metadata),
		Documents:       convertDocuments(index.Documents),
		ExternalSymbols: convertSymbols(index.ExternalSymbols),
		LoadedAt:        time.Now(),
	}
}

// DocumentCount returns the number of documents.
func (i *Index) DocumentCount() int {
	return len(i.Documents)
}

// OccurrenceCount returns the total number of occurrences over all documents.
func (i *Index) OccurrenceCount() int {
	n := 0
	for _, doc := range i.Documents {
		n += len(doc.Occurrences)
	}
	return n
}

func convertMetadata(meta *scippb.Metadata) *Metadata {
	if meta == nil {
		return nil
	}

	var toolInfo *ToolInfo
	if meta.ToolInfo != nil {
		toolInfo = &ToolInfo{
			Name:      meta.ToolInfo.Name,
			Version:   meta.ToolInfo.Version,
			Arguments: meta.ToolInfo.Arguments,
		}
	}

	return &Metadata{
		Version:     fmt.Sprintf("%d", meta.Version),
		ToolInfo:    toolInfo,
		ProjectRoot: meta.ProjectRoot,
	}
}

func convertDocuments(docs []*scippb.Document) []*Document {
	result := make([]*Document, len(docs))
	for i, doc := range docs {
		result[i] = convertDocument(doc)
	}
	return result
}

func convertDocument(doc *scippb.Document) *Document {
	occurrences := make([]*Occurrence, len(doc.Occurrences))
	for i, occ := range doc.Occurrences {
		occurrences[i] = &Occurrence{
			Range:          occ.Range,
			Symbol:         occ.Symbol,
			SymbolRoles:    occ.SymbolRoles,
			EnclosingRange: occ.EnclosingRange,
		}
	}

	return &Document{
		RelativePath: doc.RelativePath,
		Language:     doc.Language,
		Occurrences:  occurrences,
		Symbols:      convertSymbols(doc.Symbols),
	}
}

func convertSymbols(syms []*scippb.SymbolInformation) []*SymbolInformation {
	result := make([]*SymbolInformation, len(syms))
	for i, sym := range syms {
		result[i] = &SymbolInformation{
			Symbol:        sym.Symbol,
			Kind:          int32(sym.Kind),
			DisplayName:   sym.DisplayName,
			Documentation: sym.Documentation,
		}
	}
	return result
}

// GetIndexPath resolves an index path against the project root.
func GetIndexPath(projectRoot string, indexPath string) string {
	if filepath.IsAbs(indexPath) {
		return indexPath
	}
	return filepath.Join(projectRoot, indexPath)
}
