package anchor

import "strings"

// DisplayName extracts the short name of a raw SCIP symbol.
//
//	"npm app 1.0.0 src/`user.ts`/User#"           -> "User"
//	"npm app 1.0.0 src/`user.ts`/User#findOne()." -> "User#findOne"
//	"npm app 1.0.0 src/`user.ts`/"                -> "user.ts"
func DisplayName(symbol string) string {
	trimmed := strings.TrimRight(symbol, ".")
	for strings.HasSuffix(trimmed, "()") {
		trimmed = strings.TrimSuffix(trimmed, "()")
	}
	trimmed = strings.TrimRight(trimmed, "#")
	trimmed = strings.TrimRight(trimmed, "/")

	last := trimmed
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		last = trimmed[i+1:]
	}
	clean := strings.ReplaceAll(last, "`", "")

	switch clean {
	case "<constructor>":
		return "constructor"
	case "":
		return "unknown"
	}
	return clean
}

// ParentSymbol returns the raw id of the symbol's structural parent.
// One trailing '.' is dropped, then the string is scanned backward for the
// last of '#', '.', '/' or '`'. A '#' stays on the parent (class descriptors
// end in '#'); other delimiters are cut. The nearest delimiter decides: when
// it yields an empty parent there is no parent.
func ParentSymbol(symbol string) (string, bool) {
	s := strings.TrimSuffix(symbol, ".")
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c != '#' && c != '.' && c != '/' && c != '`' {
			continue
		}
		end := i
		if c == '#' {
			end = i + 1
		}
		parent := s[:end]
		if parent != "" && len(parent) < len(symbol) {
			return parent, true
		}
		return "", false
	}
	return "", false
}

// ParentFingerprint is ParentSymbol followed by Fingerprint.
func ParentFingerprint(symbol string) (uint64, bool) {
	parent, ok := ParentSymbol(symbol)
	if !ok {
		return 0, false
	}
	return Fingerprint(parent), true
}
