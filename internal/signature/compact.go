package signature

import (
	"strings"

	"ycg/internal/graph"
)

// modifiers are removed as literal substrings, one keyword at a time.
var modifiers = []string{"async ", "export ", "public ", "private ", "protected ", "static "}

type param struct {
	name     string
	typ      string
	optional bool
}

// Compact renders sig as name(p1:t1,p2:t2):Ret. A void or missing return
// type is omitted. When sig has no parameter list, or its parentheses do
// not balance, fallback is returned unchanged; an empty name before the
// parameter list also takes fallback.
func Compact(sig, fallback string) string {
	for _, m := range modifiers {
		sig = strings.ReplaceAll(sig, m, "")
	}

	open := strings.IndexByte(sig, '(')
	if open < 0 {
		return fallback
	}
	closing := matchParen(sig, open)
	if closing < 0 {
		return fallback
	}

	name := strings.TrimSpace(sig[:open])
	if name == "" {
		name = fallback
	}

	var ret string
	if colon := strings.IndexByte(sig[closing:], ':'); colon >= 0 {
		ret = strings.TrimSpace(sig[closing+colon+1:])
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range parseParams(sig[open+1 : closing]) {
		if i > 0 {
			b.WriteByte(',')
		}
		typ := normalize(p.typ)
		if p.optional && !strings.HasSuffix(typ, "?") {
			typ += "?"
		}
		b.WriteString(p.name)
		b.WriteByte(':')
		b.WriteString(Abbreviate(typ))
	}
	b.WriteByte(')')

	if r := Abbreviate(normalize(ret)); r != "" && r != "void" {
		b.WriteByte(':')
		b.WriteString(r)
	}
	return b.String()
}

// FromNode compacts the node's signature. It reports false when the node
// carries none, in which case callers render the plain name.
func FromNode(n *graph.SymbolNode) (string, bool) {
	if n.Signature == "" {
		return "", false
	}
	return Compact(n.Signature, n.Name), true
}

// matchParen returns the index of the ')' closing the '(' at open, counting
// only parentheses, or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseParams splits a parameter list. Defaults are dropped; parameters
// without a type annotation are skipped.
func parseParams(list string) []param {
	var params []param
	for _, part := range splitDepth(list, ',') {
		if eq := defaultClause(part); eq >= 0 {
			part = part[:eq]
		}
		name, typ, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		p := param{typ: strings.TrimSpace(typ)}
		p.name, p.optional = strings.CutSuffix(name, "?")
		params = append(params, p)
	}
	return params
}

// defaultClause returns the index of the '=' starting a default value, or
// -1. Only a depth-zero '=' that is not part of "=>" counts.
func defaultClause(part string) int {
	depth := 0
	for i := 0; i < len(part); i++ {
		switch part[i] {
		case '<', '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '>':
			if !isArrow(part, i) && depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 && (i+1 >= len(part) || part[i+1] != '>') {
				return i
			}
		}
	}
	return -1
}

// normalize rewrites unions: members null and undefined are removed. A
// single survivor gets a '?' suffix; with several survivors only the first
// is kept. Generic arguments are normalized the same way.
func normalize(typ string) string {
	typ = strings.TrimSpace(typ)

	if members := splitDepth(typ, '|'); len(members) > 1 {
		var kept []string
		for _, m := range members {
			if m != "null" && m != "undefined" {
				kept = append(kept, m)
			}
		}
		switch {
		case len(kept) == 0:
			return typ
		case len(kept) == 1:
			n := normalize(kept[0])
			if !strings.HasSuffix(n, "?") {
				n += "?"
			}
			return n
		default:
			return normalize(kept[0])
		}
	}

	if open := strings.IndexByte(typ, '<'); open > 0 && strings.HasSuffix(typ, ">") {
		args := splitDepth(typ[open+1:len(typ)-1], ',')
		for i, a := range args {
			args[i] = normalize(a)
		}
		return typ[:open] + "<" + strings.Join(args, ",") + ">"
	}
	return typ
}
