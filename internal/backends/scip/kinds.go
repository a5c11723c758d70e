package scip

import (
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
)

// KindTable maps raw symbol strings to their SCIP kind. It is built per
// conversion and owned by the caller.
type KindTable map[string]int32

// BuildKindTable collects kinds from external symbols first, then from every
// document's symbols; later entries win.
func BuildKindTable(idx *Index) KindTable {
	table := make(KindTable)
	for _, info := range idx.ExternalSymbols {
		table[info.Symbol] = info.Kind
	}
	for _, doc := range idx.Documents {
		for _, info := range doc.Symbols {
			table[info.Symbol] = info.Kind
		}
	}
	return table
}

// Lookup returns the raw kind for symbol, or 0 when unknown.
func (t KindTable) Lookup(symbol string) int32 {
	return t[symbol]
}

// Raw SCIP kind values the graph distinguishes.
const (
	KindUnspecified = int32(scippb.SymbolInformation_UnspecifiedKind)
	KindClass       = int32(scippb.SymbolInformation_Class)
	KindMethod      = int32(scippb.SymbolInformation_Method)
	KindFunction    = int32(scippb.SymbolInformation_Function)
	KindVariable    = int32(scippb.SymbolInformation_Variable)
	KindInterface   = int32(scippb.SymbolInformation_Interface)
	KindModule      = int32(scippb.SymbolInformation_Module)
)
