// Package validate checks rendered documents: YAML shape, ad-hoc field
// counts and logic keywords, and referential integrity of edges.
package validate

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"ycg/internal/adhoc"
	"ycg/internal/errors"
	"ycg/internal/graph"
	"ycg/internal/logic"
)

// FormatError details an ad-hoc definition that failed validation.
type FormatError struct {
	Index      int    `json:"index"`
	Definition string `json:"definition"`
	Fields     int    `json:"fields,omitempty"`
	Keyword    string `json:"keyword,omitempty"`
	Field      string `json:"field,omitempty"`
}

// YAML accepts doc when it decodes as the flat graph or, failing that, as
// the optimized graph. The flat form may omit "graph"; the optimized form
// may not.
func YAML(doc []byte) error {
	var flat graph.Graph
	if decodeShape(doc, &flat, false) == nil && checkDefinitions(flat.Definitions) == nil {
		return nil
	}
	var opt graph.OptimizedGraph
	if decodeShape(doc, &opt, true) == nil && checkDefinitions(opt.Definitions) == nil {
		return nil
	}
	return errors.New(errors.FormatInvalid,
		"Invalid YAML output: does not conform to the flat or optimized graph structure", nil)
}

func decodeShape(doc []byte, out interface{}, needGraph bool) error {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(doc)).Decode(&root); err != nil {
		return err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return fmt.Errorf("not a single YAML document")
	}
	body := root.Content[0]
	if body.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be a mapping", body.Line)
	}

	required := []string{"_meta", "_defs"}
	if needGraph {
		required = append(required, "graph")
	}
	for _, key := range required {
		if !hasKey(body, key) {
			return fmt.Errorf("missing key %q", key)
		}
	}
	return body.Decode(out)
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

func checkDefinitions(defs []graph.SymbolNode) error {
	for i, d := range defs {
		if d.ID == "" || d.Kind == "" {
			return fmt.Errorf("definition %d: id and t are required", i)
		}
	}
	return nil
}

// AdHocGranularity checks every definition string against level: exactly
// three fields at levels 0 and 1; three or four at level 2, where a fourth
// field must be a logic field using only known keywords.
func AdHocGranularity(doc *adhoc.Graph, level adhoc.Granularity) error {
	lo, hi := level.FieldCounts()
	for idx, def := range doc.Definitions {
		n := adhoc.CountFields(def)
		if n < lo || n > hi {
			expected := fmt.Sprintf("%d fields", lo)
			if lo != hi {
				expected = fmt.Sprintf("%d or %d fields", lo, hi)
			}
			return errors.Newf(errors.FormatInvalid,
				"Invalid ad-hoc format at definition %d for granularity level '%s': expected %s, got %d. Definition: '%s'",
				idx, level, expected, n, def).
				WithDetails(&FormatError{Index: idx, Definition: def, Fields: n})
		}
		if n < 4 {
			continue
		}

		field := adhoc.Split(def)[3]
		content, ok := strings.CutPrefix(field, logic.Prefix)
		if !ok {
			return errors.Newf(errors.FormatInvalid,
				"Invalid logic field at definition %d: logic field must start with '%s', got '%s'. Definition: '%s'",
				idx, logic.Prefix, field, def).
				WithDetails(&FormatError{Index: idx, Definition: def, Fields: n, Field: field})
		}
		if kw, bad := logic.InvalidKeyword(content); bad {
			return errors.Newf(errors.FormatInvalid,
				"Invalid logic keyword at definition %d: found '%s', valid keywords are: %s. Definition: '%s'",
				idx, kw, strings.Join(logic.Keywords, ", "), def).
				WithDetails(&FormatError{Index: idx, Definition: def, Fields: n, Keyword: kw})
		}
	}
	return nil
}

// AdHoc runs AdHocGranularity then IntegrityAdHoc.
func AdHoc(doc *adhoc.Graph, level adhoc.Granularity) error {
	if err := AdHocGranularity(doc, level); err != nil {
		return err
	}
	return IntegrityAdHoc(doc)
}
