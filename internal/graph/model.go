// Package graph holds the symbol/reference graph built from a SCIP index:
// the flat model, its adjacency-list form, and the two-pass builder.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the closed set of definition kinds.
type Kind string

const (
	KindFile      Kind = "file"
	KindModule    Kind = "module"
	KindClass     Kind = "class"
	KindMethod    Kind = "method"
	KindFunction  Kind = "function"
	KindVariable  Kind = "variable"
	KindInterface Kind = "interface"
)

// Kinds lists every Kind.
var Kinds = []Kind{KindFile, KindModule, KindClass, KindMethod, KindFunction, KindVariable, KindInterface}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown symbol kind %q", s)
}

// UnmarshalYAML rejects kinds outside the closed set.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// HasScope reports whether definitions of this kind open a reference scope.
func (k Kind) HasScope() bool {
	return k == KindFunction || k == KindMethod || k == KindClass
}

// EdgeType tags a reference edge. Only Calls is produced today; References
// and Imports are kept so documents using them still decode.
type EdgeType int

const (
	EdgeCalls EdgeType = iota
	EdgeReferences
	EdgeImports
)

var edgeTypeNames = [...]string{"calls", "references", "imports"}

func (e EdgeType) String() string {
	if e < 0 || int(e) >= len(edgeTypeNames) {
		return fmt.Sprintf("EdgeType(%d)", int(e))
	}
	return edgeTypeNames[e]
}

// ParseEdgeType parses an edge type name case-insensitively.
func ParseEdgeType(s string) (EdgeType, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for i, name := range edgeTypeNames {
		if lower == name {
			return EdgeType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown edge type %q", s)
}

// MarshalYAML renders the lowercase name.
func (e EdgeType) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

// UnmarshalYAML parses the lowercase name.
func (e *EdgeType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseEdgeType(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Metadata identifies the producer of a graph.
type Metadata struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LogicMetadata carries extracted logic facts for a definition.
type LogicMetadata struct {
	Preconditions []string `yaml:"pre,omitempty"`
}

// SymbolNode is one definition. Empty optional fields mean "absent".
type SymbolNode struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"n"`
	Kind          Kind           `yaml:"t"`
	ParentID      string         `yaml:"parent_id,omitempty"`
	Documentation string         `yaml:"doc,omitempty"`
	Signature     string         `yaml:"sig,omitempty"`
	Logic         *LogicMetadata `yaml:"logic,omitempty"`
}

// MarshalYAML emits the fields in declaration order. Keys are plain
// scalars; yaml.v3 would otherwise double-quote "n" as a YAML 1.1 boolean.
// Values that would resolve to another type are still quoted.
func (n SymbolNode) MarshalYAML() (interface{}, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	str := func(key, value string) {
		m.Content = append(m.Content, plainString(key), plainString(value))
	}

	str("id", n.ID)
	str("n", n.Name)
	str("t", string(n.Kind))
	if n.ParentID != "" {
		str("parent_id", n.ParentID)
	}
	if n.Documentation != "" {
		str("doc", n.Documentation)
	}
	if n.Signature != "" {
		str("sig", n.Signature)
	}
	if n.Logic != nil {
		var logic yaml.Node
		if err := logic.Encode(n.Logic); err != nil {
			return nil, err
		}
		m.Content = append(m.Content, plainString("logic"), &logic)
	}
	return m, nil
}

func plainString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// ReferenceEdge is a directed edge between two anchors.
type ReferenceEdge struct {
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
	EdgeType EdgeType `yaml:"type"`
}

// Less orders edges by (from, to, type).
func (e ReferenceEdge) Less(o ReferenceEdge) bool {
	if e.From != o.From {
		return e.From < o.From
	}
	if e.To != o.To {
		return e.To < o.To
	}
	return e.EdgeType < o.EdgeType
}

// Graph is the flat form: definitions in discovery order, edges sorted.
type Graph struct {
	Metadata    Metadata        `yaml:"_meta"`
	Definitions []SymbolNode    `yaml:"_defs"`
	References  []ReferenceEdge `yaml:"graph,omitempty"`
}

// SortReferences sorts edges by (from, to, type).
func (g *Graph) SortReferences() {
	sort.Slice(g.References, func(i, j int) bool {
		return g.References[i].Less(g.References[j])
	})
}

// DefinitionIDs returns the set of definition anchors.
func (g *Graph) DefinitionIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.Definitions))
	for _, d := range g.Definitions {
		ids[d.ID] = struct{}{}
	}
	return ids
}

// OptimizedGraph replaces the flat edge list with an adjacency map.
type OptimizedGraph struct {
	Metadata    Metadata       `yaml:"_meta"`
	Definitions []SymbolNode   `yaml:"_defs"`
	Adjacency   AdjacencyGraph `yaml:"graph"`
}
