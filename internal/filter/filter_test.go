package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ycg/internal/backends/scip"
	"ycg/internal/graph"
	"ycg/internal/testutil"
)

func TestGitignore(t *testing.T) {
	g := ParseGitignore([]string{
		"# build output",
		"",
		"*.log",
		"node_modules/",
		"/dist",
		"src/generated",
		"!keep.log",
	})
	assert.Equal(t, 5, g.Len())

	ignored := []string{"app.log", "logs/app.log", "node_modules/x/index.ts", "web/node_modules/y.ts", "dist/main.js", "src/generated/api.ts"}
	for _, p := range ignored {
		assert.True(t, g.Ignored(p), p)
	}
	kept := []string{"keep.log", "src/main.ts", "lib/dist/main.js", "other/src/generated/api.ts"}
	for _, p := range kept {
		assert.False(t, g.Ignored(p), p)
	}
}

func TestLoadGitignore(t *testing.T) {
	dir := t.TempDir()
	g, err := LoadGitignore(dir)
	require.NoError(t, err)
	assert.Zero(t, g.Len())

	testutil.WriteFiles(t, dir, map[string]string{".gitignore": "vendor/\n*.gen.ts\n"})
	g, err = LoadGitignore(dir)
	require.NoError(t, err)
	assert.True(t, g.Ignored("vendor/lib.ts"))
	assert.True(t, g.Ignored("src/api.gen.ts"))
}

func docs(paths ...string) []*scip.Document {
	out := make([]*scip.Document, len(paths))
	for i, p := range paths {
		out[i] = &scip.Document{RelativePath: p}
	}
	return out
}

func paths(ds []*scip.Document) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.RelativePath
	}
	return out
}

func TestFileFilter(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{".gitignore": "dist/\n"})

	f, err := NewFileFilter(FileOptions{
		ProjectRoot:  dir,
		Include:      []string{"src/**/*.ts"},
		Exclude:      []string{"**/*.spec.ts"},
		UseGitignore: true,
	})
	require.NoError(t, err)
	assert.True(t, f.Active())

	in := docs("src/a.ts", "src/deep/b.ts", "src/a.spec.ts", "lib/c.ts", "src/dist/d.ts")
	assert.Equal(t, []string{"src/a.ts", "src/deep/b.ts"}, paths(f.Documents(in)))
}

func TestFileFilter_EmptyIncludeKeepsAll(t *testing.T) {
	f, err := NewFileFilter(FileOptions{Exclude: []string{"test/**"}})
	require.NoError(t, err)

	in := docs("src/a.ts", "test/a.ts", "b.rs")
	assert.Equal(t, []string{"src/a.ts", "b.rs"}, paths(f.Documents(in)))
}

func TestFileFilter_ExcludeWins(t *testing.T) {
	f, err := NewFileFilter(FileOptions{Include: []string{"**/*.ts"}, Exclude: []string{"src/**"}})
	require.NoError(t, err)
	assert.False(t, f.Keep("src/a.ts"))
	assert.True(t, f.Keep("lib/a.ts"))
}

func TestFileFilter_Inactive(t *testing.T) {
	f, err := NewFileFilter(FileOptions{ProjectRoot: t.TempDir(), UseGitignore: true})
	require.NoError(t, err)
	assert.False(t, f.Active())
	assert.True(t, f.Keep("anything.ts"))
}

func TestFileFilter_InvalidPattern(t *testing.T) {
	_, err := NewFileFilter(FileOptions{Include: []string{"src/[a"}})
	assert.Error(t, err)
}

func TestStripDecorators(t *testing.T) {
	tests := []struct{ in, want string }{
		{"@ApiProperty() name: string", "name: string"},
		{"@IsString() @IsOptional() email?: string", "email?: string"},
		{"@Column({ type: 'varchar', length: 255 }) username: string", "username: string"},
		{"@ApiProperty()\n@IsString()\nname: string", "name: string"},
		{"name: string", "name: string"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripDecorators(tt.in))
	}
}

func ctor(sig string) *graph.SymbolNode {
	return &graph.SymbolNode{ID: "ctor_1", Name: "constructor", Kind: graph.KindMethod, Signature: sig}
}

func TestIsDIOnlyConstructor(t *testing.T) {
	assert.True(t, IsDIOnlyConstructor(ctor("constructor(private userService: UserService)")))
	assert.True(t, IsDIOnlyConstructor(ctor("constructor(private readonly repo: Repo, public log: Logger) {}")))

	assert.False(t, IsDIOnlyConstructor(ctor("constructor(name: string)")), "no parameter properties")
	assert.False(t, IsDIOnlyConstructor(ctor("constructor(private svc: Svc) { if (!svc) throw new Error() }")), "has logic")
	assert.False(t, IsDIOnlyConstructor(ctor("")), "no signature")

	n := ctor("constructor(private svc: Svc)")
	n.Kind = graph.KindFunction
	assert.False(t, IsDIOnlyConstructor(n))

	n = ctor("constructor(private svc: Svc)")
	n.Name = "User#<constructor>"
	assert.True(t, IsDIOnlyConstructor(n))
}

func TestFrameworkNoise(t *testing.T) {
	g := &graph.Graph{
		Definitions: []graph.SymbolNode{
			{ID: "Svc_1", Name: "Svc", Kind: graph.KindClass},
			{ID: "ctor_1", Name: "constructor", Kind: graph.KindMethod, ParentID: "Svc_1", Signature: "constructor(private repo: Repo)"},
			{ID: "name_1", Name: "Svc#name", Kind: graph.KindVariable, ParentID: "Svc_1", Signature: "@ApiProperty() name: string", Documentation: "@deprecated old"},
			{ID: "run_1", Name: "Svc#run", Kind: graph.KindMethod, ParentID: "Svc_1", Signature: "run(): void"},
		},
		References: []graph.ReferenceEdge{
			{From: "ctor_1", To: "Repo_1"},
			{From: "run_1", To: "ctor_1"},
			{From: "run_1", To: "name_1"},
		},
	}

	stats := FrameworkNoise(g)
	assert.Equal(t, FrameworkStats{NodesRemoved: 1, EdgesRemoved: 2, Simplified: 1}, stats)

	ids := make([]string, 0, len(g.Definitions))
	for _, d := range g.Definitions {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"Svc_1", "name_1", "run_1"}, ids)
	assert.Equal(t, "name: string", g.Definitions[1].Signature)
	assert.Equal(t, "old", g.Definitions[1].Documentation)
	assert.Equal(t, []graph.ReferenceEdge{{From: "run_1", To: "name_1"}}, g.References)
}
