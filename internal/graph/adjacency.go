package graph

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// AdjacencyGraph maps source anchor -> edge type -> sorted target anchors.
type AdjacencyGraph map[string]map[EdgeType][]string

// NewAdjacency groups edges by source then type and sorts every target
// list. The result does not depend on the order of edges.
func NewAdjacency(edges []ReferenceEdge) AdjacencyGraph {
	adj := make(AdjacencyGraph)
	for _, e := range edges {
		byType, ok := adj[e.From]
		if !ok {
			byType = make(map[EdgeType][]string)
			adj[e.From] = byType
		}
		byType[e.EdgeType] = append(byType[e.EdgeType], e.To)
	}
	for _, byType := range adj {
		for _, targets := range byType {
			sort.Strings(targets)
		}
	}
	return adj
}

// Sources returns the source anchors in sorted order.
func (a AdjacencyGraph) Sources() []string {
	sources := make([]string, 0, len(a))
	for s := range a {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}

// Edges flattens the adjacency back to edges sorted by (from, to, type).
func (a AdjacencyGraph) Edges() []ReferenceEdge {
	var edges []ReferenceEdge
	for from, byType := range a {
		for et, targets := range byType {
			for _, to := range targets {
				edges = append(edges, ReferenceEdge{From: from, To: to, EdgeType: et})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Less(edges[j]) })
	return edges
}

// EdgeCount returns the number of (source, type, target) entries.
func (a AdjacencyGraph) EdgeCount() int {
	n := 0
	for _, byType := range a {
		for _, targets := range byType {
			n += len(targets)
		}
	}
	return n
}

func sortedTypes(byType map[EdgeType][]string) []EdgeType {
	types := make([]EdgeType, 0, len(byType))
	for et := range byType {
		types = append(types, et)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// MarshalYAML emits both map levels with explicitly ordered keys.
func (a AdjacencyGraph) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, src := range a.Sources() {
		byType := &yaml.Node{Kind: yaml.MappingNode}
		for _, et := range sortedTypes(a[src]) {
			targets := &yaml.Node{Kind: yaml.SequenceNode}
			for _, to := range a[src][et] {
				targets.Content = append(targets.Content, scalar(to))
			}
			byType.Content = append(byType.Content, scalar(et.String()), targets)
		}
		root.Content = append(root.Content, scalar(src), byType)
	}
	return root, nil
}

// UnmarshalYAML decodes the two-level mapping, rejecting unknown edge types.
func (a *AdjacencyGraph) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: adjacency graph must be a mapping", value.Line)
	}
	var raw map[string]map[string][]string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	out := make(AdjacencyGraph, len(raw))
	for src, byName := range raw {
		byType := make(map[EdgeType][]string, len(byName))
		for name, targets := range byName {
			et, err := ParseEdgeType(name)
			if err != nil {
				return err
			}
			byType[et] = targets
		}
		out[src] = byType
	}
	*a = out
	return nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// Optimize reshapes a flat graph into its adjacency form.
func Optimize(g *Graph) *OptimizedGraph {
	return &OptimizedGraph{
		Metadata:    g.Metadata,
		Definitions: g.Definitions,
		Adjacency:   NewAdjacency(g.References),
	}
}
