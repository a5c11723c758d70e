package graph

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"ycg/internal/anchor"
	"ycg/internal/backends/scip"
	"ycg/internal/enrich"
	"ycg/internal/slogutil"
	"ycg/internal/version"
)

// BuildStats summarizes one build.
type BuildStats struct {
	Documents         int
	Definitions       int
	SkippedByLOD      int
	Enriched          int
	Edges             int
	SelfLoops         int
	UnresolvedDropped int
	Duration          time.Duration
}

// BuildResult is the output of Builder.Build.
type BuildResult struct {
	Graph *Graph
	Stats BuildStats
}

// BuilderOptions configures Builder behavior.
type BuilderOptions struct {
	// ProjectRoot is joined with document paths before enrichment.
	ProjectRoot string

	// LOD gates definition and reference retention.
	// Default: LODLow
	LOD LevelOfDetail

	// Enricher supplies signature, documentation and preconditions.
	// Default: enrich.Noop
	Enricher enrich.Enricher

	// Metadata is stamped on the graph.
	// Default: version.GraphName() / version.Version
	Metadata Metadata

	// Logger receives debug output.
	Logger *slog.Logger
}

// DefaultBuilderOptions returns the defaults.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		ProjectRoot: ".",
		LOD:         LODLow,
		Enricher:    enrich.Noop{},
		Metadata:    Metadata{Name: version.GraphName(), Version: version.Version},
		Logger:      slogutil.NewDiscardLogger(),
	}
}

// BuilderOption is a functional option for configuring Builder.
type BuilderOption func(*BuilderOptions)

// WithProjectRoot sets the project root path.
func WithProjectRoot(root string) BuilderOption {
	return func(o *BuilderOptions) {
		o.ProjectRoot = root
	}
}

// WithLevelOfDetail sets the level of detail.
func WithLevelOfDetail(lod LevelOfDetail) BuilderOption {
	return func(o *BuilderOptions) {
		o.LOD = lod
	}
}

// WithEnricher sets the enricher.
func WithEnricher(e enrich.Enricher) BuilderOption {
	return func(o *BuilderOptions) {
		if e != nil {
			o.Enricher = e
		}
	}
}

// WithMetadata overrides the graph metadata.
func WithMetadata(m Metadata) BuilderOption {
	return func(o *BuilderOptions) {
		o.Metadata = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(o *BuilderOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

// Builder converts a decoded SCIP index into a Graph.
//
// The builder holds only configuration. Each Build call owns its registry,
// kind table, scopes and edge set, so builds never share state.
type Builder struct {
	options BuilderOptions
}

// NewBuilder creates a new Builder with the given options.
func NewBuilder(opts ...BuilderOption) *Builder {
	options := DefaultBuilderOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Builder{options: options}
}

// buildState holds mutable state during a single build operation.
type buildState struct {
	registry *anchor.Registry
	kinds    scip.KindTable
	nodes    []SymbolNode
	edges    map[ReferenceEdge]struct{}
	stats    BuildStats
}

// Build runs both passes over idx.
//
// Pass A registers an anchor for every document path and every defined
// symbol, so pass B can resolve parents and reference targets defined in
// documents processed later.
//
// Pass B walks each document: definitions become nodes and function,
// method and class definitions open scopes; references become Calls edges
// from their enclosing scope.
//
// The only error is ctx cancellation, checked between documents.
func (b *Builder) Build(ctx context.Context, idx *scip.Index) (*BuildResult, error) {
	start := time.Now()
	state := &buildState{
		registry: anchor.NewRegistry(),
		kinds:    scip.BuildKindTable(idx),
		edges:    make(map[ReferenceEdge]struct{}),
	}

	b.registerPhase(state, idx)

	for _, doc := range idx.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.documentPhase(state, doc)
		state.stats.Documents++
	}

	refs := make([]ReferenceEdge, 0, len(state.edges))
	for e := range state.edges {
		refs = append(refs, e)
	}
	g := &Graph{
		Metadata:    b.options.Metadata,
		Definitions: state.nodes,
		References:  refs,
	}
	g.SortReferences()

	state.stats.Definitions = len(g.Definitions)
	state.stats.Edges = len(g.References)
	state.stats.Duration = time.Since(start)

	if collisions := state.registry.Collisions(); len(collisions) > 0 {
		b.options.Logger.Debug("Anchor collisions detected", "count", len(collisions))
	}
	b.options.Logger.Debug("Graph built",
		"documents", state.stats.Documents,
		"definitions", state.stats.Definitions,
		"edges", state.stats.Edges,
		"skipped", state.stats.SkippedByLOD,
		"duration", state.stats.Duration,
	)

	return &BuildResult{Graph: g, Stats: state.stats}, nil
}

func (b *Builder) registerPhase(state *buildState, idx *scip.Index) {
	for _, doc := range idx.Documents {
		state.registry.RegisterFile(doc.RelativePath)
		for _, occ := range doc.Occurrences {
			if occ.IsDefinition() {
				state.registry.Register(occ.Symbol)
			}
		}
	}
}

func (b *Builder) documentPhase(state *buildState, doc *scip.Document) {
	fileID := anchor.Fingerprint(doc.RelativePath)
	fileAnchor, _ := state.registry.Lookup(fileID)
	scopes := NewScopeIndex(fileID)
	realPath := filepath.Join(b.options.ProjectRoot, doc.RelativePath)

	for _, occ := range doc.Occurrences {
		if occ.IsDefinition() {
			b.addDefinition(state, occ, scopes, fileAnchor, realPath)
		}
	}

	for _, occ := range doc.Occurrences {
		if !occ.IsDefinition() {
			b.addReference(state, occ, scopes, fileID)
		}
	}
}

func (b *Builder) addDefinition(state *buildState, occ *scip.Occurrence, scopes *ScopeIndex, fileAnchor, realPath string) {
	kind := ResolveKind(state.kinds, occ.Symbol)
	if b.options.LOD.Skip(kind, occ.Symbol) {
		state.stats.SkippedByLOD++
		return
	}

	id := anchor.Fingerprint(occ.Symbol)
	node := SymbolNode{
		ID:       state.registry.Resolve(id, anchor.BaseGenerated),
		Name:     anchor.DisplayName(occ.Symbol),
		Kind:     kind,
		ParentID: parentAnchor(state.registry, occ.Symbol, kind, fileAnchor),
	}

	startLine := occ.StartLine()
	if kind != KindFile && kind != KindModule {
		if res, ok := b.options.Enricher.Enrich(realPath, int(startLine)); ok {
			node.Signature = res.Signature
			node.Documentation = res.Documentation
			if len(res.Preconditions) > 0 {
				node.Logic = &LogicMetadata{Preconditions: res.Preconditions}
			}
			state.stats.Enriched++
		}
	}

	state.nodes = append(state.nodes, node)

	if kind.HasScope() {
		start, end := occ.ScopeLines()
		scopes.Add(id, start, end)
	}
}

// parentAnchor resolves the structural parent, falling back to the file
// anchor. File nodes without a structural parent get none.
func parentAnchor(reg *anchor.Registry, symbol string, kind Kind, fileAnchor string) string {
	pid, ok := anchor.ParentFingerprint(symbol)
	if !ok {
		if kind == KindFile {
			return ""
		}
		return fileAnchor
	}
	if a, ok := reg.Lookup(pid); ok {
		return a
	}
	return fileAnchor
}

func (b *Builder) addReference(state *buildState, occ *scip.Occurrence, scopes *ScopeIndex, fileID uint64) {
	source, ok := scopes.Enclosing(occ.StartLine())
	if !ok {
		source = fileID
	}
	target := anchor.Fingerprint(occ.Symbol)
	if source == target {
		state.stats.SelfLoops++
		return
	}
	if !state.registry.Has(target) && !b.options.LOD.KeepUnresolvedTargets() {
		state.stats.UnresolvedDropped++
		return
	}

	edge := ReferenceEdge{
		From:     state.registry.Resolve(source, anchor.BaseContext),
		To:       state.registry.Resolve(target, anchor.BaseExternal),
		EdgeType: EdgeCalls,
	}
	state.edges[edge] = struct{}{}
}
