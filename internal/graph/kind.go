package graph

import (
	"strings"

	"ycg/internal/backends/scip"
)

// LevelOfDetail controls which definitions and edges are kept.
type LevelOfDetail int

const (
	LODLow LevelOfDetail = iota
	LODMedium
	LODHigh
)

func (l LevelOfDetail) String() string {
	switch l {
	case LODLow:
		return "low"
	case LODMedium:
		return "medium"
	case LODHigh:
		return "high"
	}
	return "unknown"
}

// ParseLevelOfDetail parses low, medium or high case-insensitively.
func ParseLevelOfDetail(s string) (LevelOfDetail, bool) {
	switch strings.ToLower(s) {
	case "low":
		return LODLow, true
	case "medium":
		return LODMedium, true
	case "high":
		return LODHigh, true
	}
	return LODLow, false
}

// Skip reports whether a definition is dropped at this level.
func (l LevelOfDetail) Skip(kind Kind, symbol string) bool {
	switch l {
	case LODLow:
		return kind == KindVariable || kind == KindInterface || kind == KindModule
	case LODMedium:
		local := kind == KindVariable && !strings.ContainsAny(symbol, "#.")
		param := strings.Contains(symbol, "().(")
		return local || param
	}
	return false
}

// KeepUnresolvedTargets reports whether edges to unregistered symbols survive.
func (l LevelOfDetail) KeepUnresolvedTargets() bool {
	return l == LODHigh
}

// MapKind converts a non-zero SCIP kind. Kinds without a graph counterpart
// become Variable.
func MapKind(raw int32) Kind {
	switch raw {
	case scip.KindClass:
		return KindClass
	case scip.KindMethod:
		return KindMethod
	case scip.KindFunction:
		return KindFunction
	case scip.KindVariable:
		return KindVariable
	case scip.KindInterface:
		return KindInterface
	case scip.KindModule:
		return KindModule
	}
	return KindVariable
}

// InferKind guesses a kind from the shape of a symbol string.
func InferKind(symbol string) Kind {
	switch {
	case strings.HasSuffix(symbol, "()."), strings.Contains(symbol, "#<constructor>"):
		return KindMethod
	case strings.HasSuffix(symbol, "#"):
		return KindClass
	case strings.Contains(symbol, "/match"), strings.Contains(symbol, "function"):
		return KindFunction
	case strings.HasSuffix(symbol, "/"):
		return KindFile
	}
	return KindVariable
}

// ResolveKind uses the table kind when specified and infers otherwise.
func ResolveKind(table scip.KindTable, symbol string) Kind {
	raw := table.Lookup(symbol)
	if raw == scip.KindUnspecified {
		return InferKind(symbol)
	}
	return MapKind(raw)
}
