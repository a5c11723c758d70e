package logic

import (
	"fmt"
	"regexp"
	"strings"

	"ycg/internal/graph"
)

// Extractor turns a definition into a logic field ("logic:..."). It
// reports false when nothing could be extracted. Implementations only
// produce logic for methods and functions.
type Extractor interface {
	Extract(node *graph.SymbolNode, source string) (string, bool)
}

// Strategy names accepted by ByName.
const (
	StrategyNone   = "none"
	StrategyGuards = "guards"
)

// ByName returns the extractor for a strategy name.
func ByName(name string) (Extractor, error) {
	switch strings.ToLower(name) {
	case StrategyNone:
		return None{}, nil
	case StrategyGuards, "":
		return Guards{}, nil
	}
	return nil, fmt.Errorf("unknown logic strategy %q", name)
}

func extractable(node *graph.SymbolNode) bool {
	return node.Kind == graph.KindMethod || node.Kind == graph.KindFunction
}

// None never extracts logic.
type None struct{}

// Extract implements Extractor.
func (None) Extract(*graph.SymbolNode, string) (string, bool) {
	return "", false
}

// guardPrefix marks preconditions produced by the enricher's guard clauses.
const guardPrefix = "must avoid: "

var operand = regexp.MustCompile(`^[\w.$]+$`)

// Guards renders the node's guard-clause preconditions as check steps: a
// guard "if (cond) throw" means the body requires !cond.
//
//	must avoid: !id          -> check(id)
//	must avoid: qty <= 0     -> check(!(qty<=0))
type Guards struct{}

// Extract implements Extractor.
func (Guards) Extract(node *graph.SymbolNode, _ string) (string, bool) {
	if !extractable(node) || node.Logic == nil {
		return "", false
	}
	var steps []string
	for _, pre := range node.Logic.Preconditions {
		cond, ok := strings.CutPrefix(pre, guardPrefix)
		if !ok {
			continue
		}
		cond = compactCondition(cond)
		if cond == "" {
			continue
		}
		steps = append(steps, "check("+negate(cond)+")")
	}
	return Render(steps)
}

// compactCondition drops whitespace and replaces ';', which separates steps.
func compactCondition(cond string) string {
	cond = strings.Join(strings.Fields(cond), "")
	return strings.ReplaceAll(cond, ";", ",")
}

func negate(cond string) string {
	if rest, ok := strings.CutPrefix(cond, "!"); ok && operand.MatchString(rest) {
		return rest
	}
	return "!(" + cond + ")"
}
