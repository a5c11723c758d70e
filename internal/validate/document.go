package validate

import (
	"ycg/internal/adhoc"
	"ycg/internal/errors"
	"ycg/internal/graph"
)

// Shape names the form a document was recognized as.
type Shape string

const (
	ShapeFlat      Shape = "flat"
	ShapeOptimized Shape = "optimized"
	ShapeAdHoc     Shape = "adhoc"
)

// Summary describes a document that passed validation.
type Summary struct {
	Shape       Shape
	Definitions int
	Edges       int
}

// YAMLDocument validates a previously written YAML document, structure
// first and referential integrity second.
func YAMLDocument(doc []byte) (*Summary, error) {
	var flat graph.Graph
	if decodeShape(doc, &flat, false) == nil && checkDefinitions(flat.Definitions) == nil {
		if err := Integrity(&flat); err != nil {
			return nil, err
		}
		return &Summary{Shape: ShapeFlat, Definitions: len(flat.Definitions), Edges: len(flat.References)}, nil
	}

	var opt graph.OptimizedGraph
	if decodeShape(doc, &opt, true) == nil && checkDefinitions(opt.Definitions) == nil {
		if err := IntegrityOptimized(&opt); err != nil {
			return nil, err
		}
		return &Summary{Shape: ShapeOptimized, Definitions: len(opt.Definitions), Edges: opt.Adjacency.EdgeCount()}, nil
	}

	return nil, YAML(doc)
}

// AdHocDocument validates a previously written ad-hoc document at level.
func AdHocDocument(doc []byte, level adhoc.Granularity) (*Summary, error) {
	var g adhoc.Graph
	if err := decodeShape(doc, &g, true); err != nil {
		return nil, errors.New(errors.FormatInvalid,
			"Invalid ad-hoc output: does not conform to the ad-hoc graph structure", err)
	}
	if err := AdHoc(&g, level); err != nil {
		return nil, err
	}
	return &Summary{Shape: ShapeAdHoc, Definitions: len(g.Definitions), Edges: g.Adjacency.EdgeCount()}, nil
}
