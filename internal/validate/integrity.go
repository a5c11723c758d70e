package validate

import (
	"fmt"
	"strings"

	"ycg/internal/adhoc"
	"ycg/internal/errors"
	"ycg/internal/graph"
)

// MaxReported is the number of violations spelled out in the message.
const MaxReported = 5

// Violation is an edge with at least one endpoint missing from the
// definitions.
type Violation struct {
	From          string `json:"from"`
	To            string `json:"to"`
	SourceMissing bool   `json:"sourceMissing"`
	TargetMissing bool   `json:"targetMissing"`
}

func (v Violation) String() string {
	var what string
	switch {
	case v.SourceMissing && v.TargetMissing:
		what = "both IDs not found in definitions"
	case v.SourceMissing:
		what = "source ID not found in definitions"
	default:
		what = "target ID not found in definitions"
	}
	return fmt.Sprintf("Edge from '%s' to '%s': %s", v.From, v.To, what)
}

// IntegrityReport is attached as Details to integrity errors.
type IntegrityReport struct {
	Total      int         `json:"total"`
	Violations []Violation `json:"violations"`
}

// Integrity checks the edges of a flat graph.
func Integrity(g *graph.Graph) error {
	return checkEdges(g.DefinitionIDs(), g.References)
}

// IntegrityOptimized checks the adjacency of an optimized graph.
func IntegrityOptimized(g *graph.OptimizedGraph) error {
	ids := make(map[string]struct{}, len(g.Definitions))
	for _, d := range g.Definitions {
		ids[d.ID] = struct{}{}
	}
	return checkEdges(ids, g.Adjacency.Edges())
}

// IntegrityAdHoc checks the adjacency of an ad-hoc document. Definition
// ids are the unescaped first field of each string.
func IntegrityAdHoc(doc *adhoc.Graph) error {
	ids := make(map[string]struct{}, len(doc.Definitions))
	for _, def := range doc.Definitions {
		ids[adhoc.Unescape(adhoc.Split(def)[0])] = struct{}{}
	}
	return checkEdges(ids, doc.Adjacency.Edges())
}

func checkEdges(ids map[string]struct{}, edges []graph.ReferenceEdge) error {
	var violations []Violation
	for _, e := range edges {
		_, fromOK := ids[e.From]
		_, toOK := ids[e.To]
		if !fromOK || !toOK {
			violations = append(violations, Violation{
				From:          e.From,
				To:            e.To,
				SourceMissing: !fromOK,
				TargetMissing: !toOK,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Graph referential integrity violation: %d invalid edge(s) found", len(violations))
	for i, v := range violations {
		if i == MaxReported {
			fmt.Fprintf(&b, "\n  ... and %d more", len(violations)-MaxReported)
			break
		}
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}

	return errors.New(errors.ReferentialIntegrity, b.String(), nil).
		WithDetails(&IntegrityReport{Total: len(violations), Violations: violations})
}
