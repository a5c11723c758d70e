// Package signature compacts enrichment-supplied signatures for the ad-hoc
// format: modifiers are dropped, types abbreviated and whitespace removed,
// so "async findOne(id: string): User | null" becomes "findOne(id:str):User?".
package signature

import "strings"

var primitives = map[string]string{
	"string":  "str",
	"number":  "num",
	"boolean": "bool",
}

// Abbreviate shortens primitive type names inside typ. Arrays (T[]),
// optionals (T?) and generics (Base<P1,P2>) are handled recursively;
// everything else passes through unchanged. Matching is exact and
// case-sensitive. Abbreviate(Abbreviate(t)) == Abbreviate(t).
func Abbreviate(typ string) string {
	return abbreviate(strings.TrimSpace(typ))
}

func abbreviate(typ string) string {
	if base, ok := strings.CutSuffix(typ, "[]"); ok {
		return abbreviate(base) + "[]"
	}
	if base, ok := strings.CutSuffix(typ, "?"); ok {
		return abbreviate(base) + "?"
	}
	if open := strings.IndexByte(typ, '<'); open >= 0 {
		if closing := matchAngle(typ, open); closing > open {
			params := splitDepth(typ[open+1:closing], ',')
			for i, p := range params {
				params[i] = abbreviate(strings.TrimSpace(p))
			}
			out := simple(typ[:open]) + "<" + strings.Join(params, ",") + ">"
			if tail := typ[closing+1:]; strings.TrimSpace(tail) != "" {
				lead := tail[:len(tail)-len(strings.TrimLeft(tail, " "))]
				out += lead + abbreviate(strings.TrimSpace(tail))
			}
			return out
		}
	}
	return simple(typ)
}

// isArrow reports whether the '>' at i ends a "=>".
func isArrow(s string, i int) bool {
	return i > 0 && s[i-1] == '='
}

// matchAngle returns the index of the '>' closing the '<' at open, or -1.
// Arrow tokens are not brackets.
func matchAngle(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if isArrow(s, i) {
				continue
			}
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func simple(typ string) string {
	typ = strings.TrimSpace(typ)
	if short, ok := primitives[typ]; ok {
		return short
	}
	return typ
}

// splitDepth splits s on sep where angle, paren and bracket depth is zero.
// The '>' of an arrow does not close anything.
// Empty parts are dropped and the rest trimmed.
func splitDepth(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			if s[i] == '>' && isArrow(s, i) {
				continue
			}
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					parts = append(parts, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}
