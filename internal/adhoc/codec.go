// Package adhoc implements the pipe-delimited definition format:
//
//	User_b8c1|User|class
//	findOne_7fed|findOne(id:str):User?|method|logic:check(id)
//
// A document keeps the graph metadata, one string per definition and the
// adjacency map of the optimized YAML form.
package adhoc

import (
	"fmt"
	"strings"

	"ycg/internal/graph"
	"ycg/internal/logic"
	"ycg/internal/signature"
)

// Graph is an ad-hoc document.
type Graph struct {
	Metadata    graph.Metadata       `yaml:"_meta"`
	Definitions []string             `yaml:"_defs"`
	Adjacency   graph.AdjacencyGraph `yaml:"graph"`
}

// SourceFunc returns the source text for a definition, if known.
type SourceFunc func(node *graph.SymbolNode) string

// Serializer renders definitions at one granularity.
type Serializer struct {
	level     Granularity
	extractor logic.Extractor
	source    SourceFunc
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithExtractor sets the logic extractor used at InlineLogic.
func WithExtractor(e logic.Extractor) Option {
	return func(s *Serializer) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithSource sets the source lookup handed to the logic extractor.
func WithSource(fn SourceFunc) Option {
	return func(s *Serializer) {
		if fn != nil {
			s.source = fn
		}
	}
}

// NewSerializer creates a serializer for level. The default extractor is
// logic.Guards.
func NewSerializer(level Granularity, opts ...Option) *Serializer {
	s := &Serializer{
		level:     level,
		extractor: logic.Guards{},
		source:    func(*graph.SymbolNode) string { return "" },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Level returns the serializer's granularity.
func (s *Serializer) Level() Granularity {
	return s.level
}

// SerializeNode renders one definition string. Above Default the name
// field holds the compact signature when the node has one. At InlineLogic
// a fourth field is added only when the extractor finds logic.
func (s *Serializer) SerializeNode(n *graph.SymbolNode) string {
	label := n.Name
	if s.level >= InlineSignatures {
		if sig, ok := signature.FromNode(n); ok {
			label = sig
		}
	}
	if s.level == InlineLogic {
		if steps, ok := s.extractor.Extract(n, s.source(n)); ok {
			return Join(n.ID, label, string(n.Kind), steps)
		}
	}
	return Join(n.ID, label, string(n.Kind))
}

// SerializeGraph renders every definition in order and reshapes the
// references into adjacency form.
func (s *Serializer) SerializeGraph(g *graph.Graph) *Graph {
	defs := make([]string, len(g.Definitions))
	for i := range g.Definitions {
		defs[i] = s.SerializeNode(&g.Definitions[i])
	}
	return &Graph{
		Metadata:    g.Metadata,
		Definitions: defs,
		Adjacency:   graph.NewAdjacency(g.References),
	}
}

// Entry is one parsed definition string. Label is the name or the compact
// signature, depending on the level it was written at.
type Entry struct {
	ID    string
	Label string
	Kind  graph.Kind
	Logic string
}

// Node converts the entry to a SymbolNode with Label as the name.
func (e Entry) Node() graph.SymbolNode {
	return graph.SymbolNode{ID: e.ID, Name: e.Label, Kind: e.Kind}
}

// ParseNode parses a definition string of three fields, or four when the
// last is a logic field.
func ParseNode(raw string) (Entry, error) {
	parts := Split(raw)
	if len(parts) != 3 && len(parts) != 4 {
		return Entry{}, fmt.Errorf("invalid ad-hoc format: expected 3 or 4 fields, got %d. Input: '%s'", len(parts), raw)
	}

	kind, err := graph.ParseKind(parts[2])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid symbol kind '%s': %w", parts[2], err)
	}
	e := Entry{
		ID:    Unescape(parts[0]),
		Label: Unescape(parts[1]),
		Kind:  kind,
	}
	if len(parts) == 4 {
		e.Logic = Unescape(parts[3])
		if !strings.HasPrefix(e.Logic, logic.Prefix) {
			return Entry{}, fmt.Errorf("invalid logic field '%s': must start with '%s'", parts[3], logic.Prefix)
		}
	}
	return e, nil
}

// ParseGraph converts an ad-hoc document back to the flat graph. Logic
// fields are not carried over; references come back sorted.
func ParseGraph(doc *Graph) (*graph.Graph, error) {
	g := &graph.Graph{
		Metadata:    doc.Metadata,
		Definitions: make([]graph.SymbolNode, 0, len(doc.Definitions)),
	}
	for i, raw := range doc.Definitions {
		e, err := ParseNode(raw)
		if err != nil {
			return nil, fmt.Errorf("definition %d: %w", i, err)
		}
		g.Definitions = append(g.Definitions, e.Node())
	}
	g.References = doc.Adjacency.Edges()
	return g, nil
}
