package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ycg/internal/backends/scip"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Method")
	require.NoError(t, err)
	assert.Equal(t, KindMethod, k)

	_, err = ParseKind("struct")
	assert.Error(t, err)
}

func TestKind_UnmarshalYAMLRejectsUnknown(t *testing.T) {
	var n SymbolNode
	err := yaml.Unmarshal([]byte("id: a_1\nn: a\nt: struct\n"), &n)
	assert.Error(t, err)
}

func TestEdgeType(t *testing.T) {
	assert.Equal(t, "calls", EdgeCalls.String())
	assert.Equal(t, "imports", EdgeImports.String())

	et, err := ParseEdgeType("REFERENCES")
	require.NoError(t, err)
	assert.Equal(t, EdgeReferences, et)

	_, err = ParseEdgeType("extends")
	assert.Error(t, err)
}

func TestReferenceEdge_Less(t *testing.T) {
	a := ReferenceEdge{From: "a", To: "b", EdgeType: EdgeImports}
	b := ReferenceEdge{From: "a", To: "c", EdgeType: EdgeCalls}
	c := ReferenceEdge{From: "a", To: "c", EdgeType: EdgeReferences}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
}

func TestSymbolNode_OmitsEmptyFields(t *testing.T) {
	out, err := yaml.Marshal(SymbolNode{ID: "User_1a2b", Name: "User", Kind: KindClass})
	require.NoError(t, err)
	assert.Equal(t, "id: User_1a2b\nn: User\nt: class\n", string(out))
}

func TestSymbolNode_MarshalYAMLFieldOrder(t *testing.T) {
	node := SymbolNode{
		ID:            "findOne_7fed",
		Name:          "User#findOne",
		Kind:          KindMethod,
		ParentID:      "User_b8c1",
		Documentation: "Finds a user.",
		Signature:     "findOne(id: string): User",
		Logic:         &LogicMetadata{Preconditions: []string{"must avoid: !id"}},
	}
	out, err := yaml.Marshal(node)
	require.NoError(t, err)
	want := "id: findOne_7fed\nn: User#findOne\nt: method\nparent_id: User_b8c1\ndoc: Finds a user.\nsig: "
	assert.True(t, strings.HasPrefix(string(out), want), string(out))
	assert.Contains(t, string(out), "\nlogic:\n")

	var back SymbolNode
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, node, back)
}

func TestSymbolNode_AmbiguousValuesRoundTrip(t *testing.T) {
	for _, name := range []string{"n", "yes", "123", "true", "a: b", "- x"} {
		out, err := yaml.Marshal(SymbolNode{ID: "v_0001", Name: name, Kind: KindVariable})
		require.NoError(t, err)

		var back SymbolNode
		require.NoError(t, yaml.Unmarshal(out, &back), string(out))
		assert.Equal(t, name, back.Name, string(out))
	}

	out, err := yaml.Marshal(SymbolNode{ID: "v_0001", Name: "123", Kind: KindVariable})
	require.NoError(t, err)
	assert.Equal(t, "id: v_0001\nn: \"123\"\nt: variable\n", string(out))
}

func TestMapKind(t *testing.T) {
	tests := []struct {
		raw  int32
		want Kind
	}{
		{scip.KindClass, KindClass},
		{scip.KindMethod, KindMethod},
		{scip.KindFunction, KindFunction},
		{scip.KindVariable, KindVariable},
		{scip.KindInterface, KindInterface},
		{scip.KindModule, KindModule},
		{9999, KindVariable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapKind(tt.raw), "raw kind %d", tt.raw)
	}
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		symbol string
		want   Kind
	}{
		{"npm app 1.0.0 src/`a.ts`/A#run().", KindMethod},
		{"npm app 1.0.0 src/`a.ts`/A#<constructor>", KindMethod},
		{"npm app 1.0.0 src/`a.ts`/A#", KindClass},
		{"npm app 1.0.0 src/`a.ts`/match", KindFunction},
		{"npm app 1.0.0 src/`a.ts`/", KindFile},
		{"npm app 1.0.0 src/`a.ts`/LIMIT.", KindVariable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferKind(tt.symbol), tt.symbol)
	}
}

func TestLevelOfDetail_Skip(t *testing.T) {
	local := "local 3"
	param := "npm app 1.0.0 src/`a.ts`/A#run().(x)"
	field := "npm app 1.0.0 src/`a.ts`/A#name."

	assert.True(t, LODLow.Skip(KindVariable, field))
	assert.True(t, LODLow.Skip(KindInterface, "I#"))
	assert.True(t, LODLow.Skip(KindModule, "m/"))
	assert.False(t, LODLow.Skip(KindMethod, "A#run()."))

	assert.True(t, LODMedium.Skip(KindVariable, local))
	assert.True(t, LODMedium.Skip(KindVariable, param))
	assert.False(t, LODMedium.Skip(KindVariable, field))
	assert.False(t, LODMedium.Skip(KindInterface, "I#"))

	assert.False(t, LODHigh.Skip(KindVariable, local))
	assert.False(t, LODHigh.Skip(KindVariable, param))
}

func TestParseLevelOfDetail(t *testing.T) {
	lod, ok := ParseLevelOfDetail("HIGH")
	assert.True(t, ok)
	assert.Equal(t, LODHigh, lod)

	_, ok = ParseLevelOfDetail("max")
	assert.False(t, ok)
	assert.Equal(t, "medium", LODMedium.String())
}

func TestScopeIndex_Enclosing(t *testing.T) {
	s := NewScopeIndex(1)
	s.Add(2, 0, 50)
	s.Add(3, 10, 20)
	s.Add(4, 30, 40)
	s.Add(5, 30, 40)

	tests := []struct {
		line int32
		want uint64
	}{
		{5, 2},
		{10, 3},
		{20, 3},
		{35, 4}, // equal spans: first added wins
		{60, 1},
	}
	for _, tt := range tests {
		got, ok := s.Enclosing(tt.line)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "line %d", tt.line)
	}

	_, ok := s.Enclosing(FileScopeEnd + 1)
	assert.False(t, ok)
	assert.Equal(t, 5, s.Len())
}

func sampleEdges() []ReferenceEdge {
	return []ReferenceEdge{
		{From: "b_1", To: "z_1", EdgeType: EdgeCalls},
		{From: "a_1", To: "y_1", EdgeType: EdgeCalls},
		{From: "a_1", To: "x_1", EdgeType: EdgeCalls},
		{From: "a_1", To: "w_1", EdgeType: EdgeImports},
	}
}

func TestNewAdjacency(t *testing.T) {
	adj := NewAdjacency(sampleEdges())

	assert.Equal(t, []string{"a_1", "b_1"}, adj.Sources())
	assert.Equal(t, []string{"x_1", "y_1"}, adj["a_1"][EdgeCalls])
	assert.Equal(t, []string{"w_1"}, adj["a_1"][EdgeImports])
	assert.Equal(t, 4, adj.EdgeCount())
}

func TestAdjacency_EdgesRoundTrip(t *testing.T) {
	g := &Graph{References: sampleEdges()}
	g.SortReferences()

	assert.Equal(t, g.References, NewAdjacency(g.References).Edges())
}

func TestAdjacency_MarshalYAMLOrdered(t *testing.T) {
	out, err := yaml.Marshal(&OptimizedGraph{
		Metadata:    Metadata{Name: "ycg-v1.3", Version: "1.3.0"},
		Definitions: []SymbolNode{{ID: "a_1", Name: "a", Kind: KindFunction}},
		Adjacency:   NewAdjacency(sampleEdges()),
	})
	require.NoError(t, err)
	text := string(out)

	assert.Less(t, strings.Index(text, "a_1:"), strings.Index(text, "b_1:"))
	assert.Less(t, strings.Index(text, "calls:"), strings.Index(text, "imports:"))
	assert.Less(t, strings.Index(text, "x_1"), strings.Index(text, "y_1"))

	var back OptimizedGraph
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, NewAdjacency(sampleEdges()), back.Adjacency)
}

func TestAdjacency_UnmarshalRejects(t *testing.T) {
	var adj AdjacencyGraph
	assert.Error(t, yaml.Unmarshal([]byte("- a\n- b\n"), &adj))
	assert.Error(t, yaml.Unmarshal([]byte("a_1:\n  extends: [b_1]\n"), &adj))
}

func TestOptimize(t *testing.T) {
	g := &Graph{
		Metadata:    Metadata{Name: "n", Version: "v"},
		Definitions: []SymbolNode{{ID: "a_1"}},
		References:  sampleEdges(),
	}
	opt := Optimize(g)
	assert.Equal(t, g.Metadata, opt.Metadata)
	assert.Equal(t, g.Definitions, opt.Definitions)
	assert.Equal(t, 4, opt.Adjacency.EdgeCount())
}

func TestDefinitionIDs(t *testing.T) {
	g := &Graph{Definitions: []SymbolNode{{ID: "a_1"}, {ID: "b_1"}}}
	ids := g.DefinitionIDs()
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "a_1")
}
