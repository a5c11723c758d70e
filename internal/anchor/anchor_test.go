package anchor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userClass  = "scip-typescript npm app 1.0.0 src/`user.ts`/User#"
	userFind   = "scip-typescript npm app 1.0.0 src/`user.ts`/User#findOne()."
	userFile   = "scip-typescript npm app 1.0.0 src/`user.ts`/"
	userParam  = "scip-typescript npm app 1.0.0 src/`user.ts`/User#findOne().(id)"
	userCtor   = "scip-typescript npm app 1.0.0 src/`user.ts`/<constructor>()."
	moduleVar  = "scip-typescript npm app 1.0.0 src/`user.ts`/DEFAULT_LIMIT."
	emptyEntry = "."
)

func TestFingerprint(t *testing.T) {
	// Reference value of XXH64("") with seed 0.
	assert.Equal(t, uint64(0xef46db3751d8e999), Fingerprint(""))
	assert.Equal(t, Fingerprint(userClass), Fingerprint(userClass))
	assert.NotEqual(t, Fingerprint(userClass), Fingerprint(userFind))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		base string
		id   uint64
		want string
	}{
		{"file", 0xef46db3751d8e999, "file_ef46"},
		{"User", 0x0123456789abcdef, "User_1234"},
		{"gen", 0xabc, "gen_abc"},
		{"ext", 0, "ext_0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.base, tt.id))
		})
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"User", "User"},
		{"User#findOne", "User_findOne"},
		{"user.ts", "def"},
		{"lib.rs", "def"},
		{"", "def"},
		{"<constructor>", "_constructor_"},
		{"naïve$value", "naïve_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Base(tt.name))
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{userClass, "User"},
		{userFind, "User#findOne"},
		{userFile, "user.ts"},
		{userParam, "User#findOne().(id)"},
		{userCtor, "constructor"},
		{moduleVar, "DEFAULT_LIMIT"},
		{emptyEntry, "unknown"},
		{"local 3", "local 3"},
		{"a/b/c()()..", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.symbol))
		})
	}
}

func TestParentSymbol(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		want   string
		wantOK bool
	}{
		{"method under class", userFind, userClass, true},
		{"trailing hash is its own delimiter", userClass, "", false},
		{"param under method", userParam, "scip-typescript npm app 1.0.0 src/`user.ts`/User#findOne()", true},
		{"module var", moduleVar, "scip-typescript npm app 1.0.0 src/`user.ts`", true},
		{"no delimiter", "local 3", "", false},
		{"leading hash only", "#", "", false},
		{"leading slash", "/x", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParentSymbol(tt.symbol)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParentFingerprint(t *testing.T) {
	id, ok := ParentFingerprint(userFind)
	require.True(t, ok)
	assert.Equal(t, Fingerprint(userClass), id)

	_, ok = ParentFingerprint("local 3")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	fileID := r.RegisterFile("src/user.ts")
	fileAnchor, ok := r.Lookup(fileID)
	require.True(t, ok)
	assert.Equal(t, Format(BaseFile, Fingerprint("src/user.ts")), fileAnchor)

	a1 := r.Register(userFind)
	a2 := r.Register(userFind)
	assert.Equal(t, a1, a2, "registration is idempotent")
	assert.Equal(t, Format("User_findOne", Fingerprint(userFind)), a1)
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Has(Fingerprint(userFind)))
	assert.False(t, r.Has(Fingerprint(userClass)))

	assert.Equal(t, a1, r.Resolve(Fingerprint(userFind), BaseExternal))
	assert.Equal(t, Format(BaseExternal, Fingerprint(userClass)), r.Resolve(Fingerprint(userClass), BaseExternal))
}

func TestRegistry_FileSymbolGetsDefBase(t *testing.T) {
	r := NewRegistry()
	a := r.Register(userFile)
	assert.Equal(t, Format(BaseDef, Fingerprint(userFile)), a)
}

func TestRegistry_Collisions(t *testing.T) {
	r := NewRegistry()
	r.anchors[1] = "x_1"
	r.anchors[2] = "x_1"
	r.anchors[3] = "y_3"

	collisions := r.Collisions()
	require.Len(t, collisions, 1)
	assert.ElementsMatch(t, []uint64{1, 2}, collisions["x_1"])
}

// With a 16-bit suffix, symbols sharing a display name alias once a few
// hundred of them exist. Distinct names never alias.
func TestCollisionProbability(t *testing.T) {
	assert.Equal(t, 0.0, CollisionProbability(0))
	assert.Equal(t, 0.0, CollisionProbability(1))
	assert.InDelta(t, 1.0/65536, CollisionProbability(2), 1e-12)
	assert.InDelta(t, 0.0755, CollisionProbability(100), 0.0005)
	assert.Equal(t, 1.0, CollisionProbability(1000))
}

func TestRegistry_SameNameManySymbolsCollide(t *testing.T) {
	// 2000 distinct symbols all named "get" exceed 16 bits of suffix space
	// often enough that at least one pair aliases.
	r := NewRegistry()
	for i := 0; i < 2000; i++ {
		r.Register(fmt.Sprintf("scip-typescript npm app 1.0.0 src/`m%d.ts`/get.", i))
	}
	assert.Equal(t, 2000, r.Len())
	assert.NotEmpty(t, r.Collisions())
}
