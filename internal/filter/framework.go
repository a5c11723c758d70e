package filter

import (
	"regexp"
	"strings"

	"ycg/internal/graph"
)

var (
	diConstructor = regexp.MustCompile(`constructor\s*\([^)]*\b(private|public|protected|readonly)\s+\w+`)
	decorator     = regexp.MustCompile(`@\w+(\([^)]*\))?\s*`)
	bodyMarkers   = []string{"if ", "for ", "while ", "switch ", "return ", "throw ", "await ", "=>"}
)

// FrameworkStats counts what FrameworkNoise changed.
type FrameworkStats struct {
	NodesRemoved int
	EdgesRemoved int
	Simplified   int
}

// FrameworkNoise removes dependency-injection-only constructors and every
// edge touching them, and strips decorators from the signatures and docs
// of nested definitions. g is modified in place.
func FrameworkNoise(g *graph.Graph) FrameworkStats {
	var stats FrameworkStats
	removed := make(map[string]struct{})

	kept := g.Definitions[:0]
	for _, n := range g.Definitions {
		if IsDIOnlyConstructor(&n) {
			removed[n.ID] = struct{}{}
			continue
		}
		if n.ParentID != "" && simplify(&n) {
			stats.Simplified++
		}
		kept = append(kept, n)
	}
	stats.NodesRemoved = len(g.Definitions) - len(kept)
	g.Definitions = kept

	if len(removed) == 0 {
		return stats
	}
	edges := g.References[:0]
	for _, e := range g.References {
		_, from := removed[e.From]
		_, to := removed[e.To]
		if from || to {
			stats.EdgesRemoved++
			continue
		}
		edges = append(edges, e)
	}
	g.References = edges
	return stats
}

func isConstructor(n *graph.SymbolNode) bool {
	return n.Name == "constructor" || strings.HasSuffix(n.Name, "#<constructor>")
}

// IsDIOnlyConstructor reports whether n is a constructor whose signature
// only declares injected parameter properties.
func IsDIOnlyConstructor(n *graph.SymbolNode) bool {
	if n.Kind != graph.KindMethod || !isConstructor(n) || n.Signature == "" {
		return false
	}
	if !diConstructor.MatchString(n.Signature) {
		return false
	}
	return !hasBody(n.Signature)
}

func hasBody(sig string) bool {
	if !strings.Contains(sig, "{") {
		return false
	}
	for _, m := range bodyMarkers {
		if strings.Contains(sig, m) {
			return true
		}
	}
	return false
}

// StripDecorators removes @Name and @Name(...) decorators.
func StripDecorators(s string) string {
	return strings.TrimSpace(decorator.ReplaceAllString(s, ""))
}

func simplify(n *graph.SymbolNode) bool {
	changed := false
	if n.Signature != "" && strings.Contains(n.Signature, "@") {
		if s := StripDecorators(n.Signature); s != n.Signature {
			n.Signature = s
			changed = true
		}
	}
	if n.Documentation != "" && strings.Contains(n.Documentation, "@") {
		if s := StripDecorators(n.Documentation); s != n.Documentation {
			n.Documentation = s
			changed = true
		}
	}
	return changed
}
