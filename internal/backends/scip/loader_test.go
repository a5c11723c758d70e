package scip_test

import (
	"os"
	"path/filepath"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ycg/internal/backends/scip"
	"ycg/internal/errors"
	"ycg/internal/testutil"
)

const (
	userService = "scip-typescript npm app 1.0.0 src/`user.service.ts`/UserService#"
	findOne     = "scip-typescript npm app 1.0.0 src/`user.service.ts`/UserService#findOne()."
	lodashMap   = "scip-typescript npm lodash 4.17.21 `map.js`/map()."
)

func sampleIndex() *testutil.IndexBuilder {
	return testutil.NewIndex().
		External(lodashMap, scippb.SymbolInformation_Function).
		Document("src/user.service.ts").
		Define(userService, scippb.SymbolInformation_Class, 2, 20).
		Define(findOne, scippb.SymbolInformation_Method, 4, 8).
		Reference(lodashMap, 6)
}

func TestLoadIndex(t *testing.T) {
	path := sampleIndex().Write(t, t.TempDir())

	idx, err := scip.LoadIndex(path)
	require.NoError(t, err)

	require.Equal(t, 1, idx.DocumentCount())
	assert.Equal(t, 3, idx.OccurrenceCount())
	assert.Len(t, idx.ExternalSymbols, 1)
	require.NotNil(t, idx.Metadata)
	assert.Equal(t, "scip-typescript", idx.Metadata.ToolInfo.Name)

	doc := idx.Documents[0]
	assert.Equal(t, "src/user.service.ts", doc.RelativePath)
	assert.True(t, doc.Occurrences[0].IsDefinition())
	assert.False(t, doc.Occurrences[2].IsDefinition())
}

func TestLoadIndex_Missing(t *testing.T) {
	_, err := scip.LoadIndex(filepath.Join(t.TempDir(), "nope.scip"))
	require.Error(t, err)

	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.IndexMissing, code)
	assert.Contains(t, err.Error(), "nope.scip")
}

func TestLoadIndex_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.scip")
	// Field 1 with wire type 7 is not valid protobuf.
	require.NoError(t, os.WriteFile(path, []byte{0x0f, 0xff, 0xff}, 0o644))

	_, err := scip.LoadIndex(path)
	require.Error(t, err)

	code, _ := errors.CodeOf(err)
	assert.Equal(t, errors.IndexCorrupt, code)
}

func TestOccurrenceLines(t *testing.T) {
	tests := []struct {
		name      string
		rng       []int32
		wantStart int32
		wantEnd   int32
	}{
		{"empty", nil, 0, 0},
		{"single line", []int32{7, 2, 14}, 7, 7},
		{"multi line", []int32{3, 0, 12, 1}, 3, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := &scip.Occurrence{Range: tt.rng}
			assert.Equal(t, tt.wantStart, occ.StartLine())
			assert.Equal(t, tt.wantEnd, occ.EndLine())
		})
	}
}

func TestOccurrenceScopeLines(t *testing.T) {
	tests := []struct {
		name      string
		rng       []int32
		enclosing []int32
		wantStart int32
		wantEnd   int32
	}{
		{"range only", []int32{3, 0, 12, 1}, nil, 3, 12},
		{"name range without enclosing", []int32{4, 6, 13}, nil, 4, 4},
		{"enclosing wins", []int32{4, 6, 13}, []int32{2, 0, 9, 1}, 2, 9},
		{"single-line enclosing", []int32{4, 6, 13}, []int32{4, 0, 40}, 4, 4},
		{"short enclosing ignored", []int32{4, 6, 13}, []int32{1, 2}, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := &scip.Occurrence{Range: tt.rng, EnclosingRange: tt.enclosing}
			start, end := occ.ScopeLines()
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestLoadIndex_KeepsEnclosingRange(t *testing.T) {
	dir := t.TempDir()
	path := testutil.NewIndex().
		Document("src/a.ts").
		DefineEnclosed(findOne, scippb.SymbolInformation_Method, 4, 2, 9).
		Write(t, dir)

	idx, err := scip.LoadIndex(path)
	require.NoError(t, err)
	occ := idx.Documents[0].Occurrences[0]
	assert.Equal(t, int32(4), occ.EndLine())
	start, end := occ.ScopeLines()
	assert.Equal(t, int32(2), start)
	assert.Equal(t, int32(9), end)
}

func TestBuildKindTable(t *testing.T) {
	table := scip.BuildKindTable(sampleIndex().Index())

	assert.Equal(t, scip.KindClass, table.Lookup(userService))
	assert.Equal(t, scip.KindMethod, table.Lookup(findOne))
	assert.Equal(t, scip.KindFunction, table.Lookup(lodashMap))
	assert.Equal(t, scip.KindUnspecified, table.Lookup("unknown#"))
}

func TestBuildKindTable_DocumentOverridesExternal(t *testing.T) {
	idx := testutil.NewIndex().
		External(userService, scippb.SymbolInformation_Interface).
		Document("src/user.service.ts").
		Define(userService, scippb.SymbolInformation_Class, 0, 1).
		Index()

	assert.Equal(t, scip.KindClass, scip.BuildKindTable(idx).Lookup(userService))
}

func TestGetIndexPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", "index.scip"), scip.GetIndexPath("/repo", "index.scip"))
	assert.Equal(t, "/abs/index.scip", scip.GetIndexPath("/repo", "/abs/index.scip"))
}
