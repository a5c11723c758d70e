package adhoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ycg/internal/graph"
	"ycg/internal/logic"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a|b|c", []string{"a", "b", "c"}},
		{`weird\|id|name\|with\|pipes|function`, []string{`weird\|id`, `name\|with\|pipes`, "function"}},
		{`a\b|c`, []string{`a\b`, "c"}},
		{`trailing\`, []string{`trailing\`}},
		{"a|b|", []string{"a", "b", ""}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		got := Split(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, len(got), CountFields(tt.in), tt.in)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	fields := []string{"plain", "a|b", `already\|escaped`, "||", `back\slash`}
	raw := Join(fields...)

	parts := Split(raw)
	require.Len(t, parts, len(fields))
	for i, p := range parts {
		assert.Equal(t, fields[i], Unescape(p))
	}
}

// A field ending in a backslash merges with the next one: the backslash
// and the separator read back as an escaped pipe.
func TestEscape_TrailingBackslashMergesFields(t *testing.T) {
	raw := Join(`C:\dir\`, "name", "function")
	assert.Equal(t, `C:\dir\|name|function`, raw)

	parts := Split(raw)
	require.Len(t, parts, 2)
	assert.Equal(t, `C:\dir|name`, Unescape(parts[0]))
	assert.Equal(t, "function", parts[1])
	assert.Equal(t, 2, CountFields(raw))
}

func TestParseNode_EscapedPipes(t *testing.T) {
	e, err := ParseNode(`weird\|id|name\|with\|pipes|function`)
	require.NoError(t, err)
	assert.Equal(t, "weird|id", e.ID)
	assert.Equal(t, "name|with|pipes", e.Label)
	assert.Equal(t, graph.KindFunction, e.Kind)
}

func TestParseNode(t *testing.T) {
	e, err := ParseNode("User_b8c1|User|CLASS")
	require.NoError(t, err)
	assert.Equal(t, graph.SymbolNode{ID: "User_b8c1", Name: "User", Kind: graph.KindClass}, e.Node())

	e, err = ParseNode("f_1|f()|function|logic:check(x)")
	require.NoError(t, err)
	assert.Equal(t, "logic:check(x)", e.Logic)

	_, err = ParseNode("a|b")
	assert.Error(t, err)
	_, err = ParseNode("a|b|struct")
	assert.Error(t, err)
	_, err = ParseNode("a|b|method|check(x)")
	assert.Error(t, err)
}

func TestParseGranularity(t *testing.T) {
	for _, level := range []int{0, 1, 2} {
		g, err := ParseGranularity(level)
		require.NoError(t, err)
		assert.Equal(t, Granularity(level), g)
	}
	_, err := ParseGranularity(3)
	assert.Error(t, err)

	lo, hi := InlineLogic.FieldCounts()
	assert.Equal(t, [2]int{3, 4}, [2]int{lo, hi})
	lo, hi = InlineSignatures.FieldCounts()
	assert.Equal(t, [2]int{3, 3}, [2]int{lo, hi})
}

func method() *graph.SymbolNode {
	return &graph.SymbolNode{
		ID:        "findOne_7fed",
		Name:      "findOne",
		Kind:      graph.KindMethod,
		Signature: "async findOne(id: string): Promise<User | null>",
		Logic:     &graph.LogicMetadata{Preconditions: []string{"must avoid: !id"}},
	}
}

func TestSerializeNode_Levels(t *testing.T) {
	n := method()

	assert.Equal(t, "findOne_7fed|findOne|method", NewSerializer(Default).SerializeNode(n))
	assert.Equal(t, "findOne_7fed|findOne(id:str):Promise<User?>|method", NewSerializer(InlineSignatures).SerializeNode(n))
	assert.Equal(t, "findOne_7fed|findOne(id:str):Promise<User?>|method|logic:check(id)", NewSerializer(InlineLogic).SerializeNode(n))
}

func TestSerializeNode_Fallbacks(t *testing.T) {
	plain := &graph.SymbolNode{ID: "greet_a3f2", Name: "greet", Kind: graph.KindFunction}
	assert.Equal(t, "greet_a3f2|greet|function", NewSerializer(InlineSignatures).SerializeNode(plain))
	assert.Equal(t, "greet_a3f2|greet|function", NewSerializer(InlineLogic).SerializeNode(plain))

	n := method()
	s := NewSerializer(InlineLogic, WithExtractor(logic.None{}))
	assert.Equal(t, "findOne_7fed|findOne(id:str):Promise<User?>|method", s.SerializeNode(n))
}

func TestSerializeNode_EscapesSignature(t *testing.T) {
	n := &graph.SymbolNode{ID: "f_1", Name: "f", Kind: graph.KindFunction, Signature: "f(a: A | B): C | D"}
	got := NewSerializer(InlineSignatures).SerializeNode(n)
	assert.Equal(t, "f_1|f(a:A):C|function", got)

	n.Signature = "weird"
	n.Name = "x|y"
	assert.Equal(t, `f_1|x\|y|function`, NewSerializer(InlineSignatures).SerializeNode(n))
}

type recordingExtractor struct{ sources []string }

func (r *recordingExtractor) Extract(_ *graph.SymbolNode, source string) (string, bool) {
	r.sources = append(r.sources, source)
	return "", false
}

func TestSerializer_SourceLookup(t *testing.T) {
	rec := &recordingExtractor{}
	s := NewSerializer(InlineLogic,
		WithExtractor(rec),
		WithSource(func(n *graph.SymbolNode) string { return "src:" + n.ID }),
	)
	s.SerializeNode(method())
	assert.Equal(t, []string{"src:findOne_7fed"}, rec.sources)
}

func sampleGraph() *graph.Graph {
	g := &graph.Graph{
		Metadata: graph.Metadata{Name: "ycg-v1.3", Version: "1.3.0"},
		Definitions: []graph.SymbolNode{
			{ID: "User_b8c1", Name: "User", Kind: graph.KindClass},
			*method(),
		},
		References: []graph.ReferenceEdge{
			{From: "findOne_7fed", To: "User_b8c1", EdgeType: graph.EdgeCalls},
		},
	}
	return g
}

func TestSerializeGraph_RoundTrip(t *testing.T) {
	doc := NewSerializer(Default).SerializeGraph(sampleGraph())
	assert.Equal(t, []string{"User_b8c1|User|class", "findOne_7fed|findOne|method"}, doc.Definitions)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)

	var back Graph
	require.NoError(t, yaml.Unmarshal(out, &back))
	g, err := ParseGraph(&back)
	require.NoError(t, err)

	want := sampleGraph()
	for i := range want.Definitions {
		want.Definitions[i] = graph.SymbolNode{ID: want.Definitions[i].ID, Name: want.Definitions[i].Name, Kind: want.Definitions[i].Kind}
	}
	assert.Equal(t, want, g)
}

func TestParseGraph_ReportsIndex(t *testing.T) {
	_, err := ParseGraph(&Graph{Definitions: []string{"a|a|class", "broken"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definition 1")
}
