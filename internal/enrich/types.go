// Package enrich supplies per-definition signature, documentation and
// guard-clause text from source files via tree-sitter.
package enrich

import (
	"path/filepath"
	"strings"
)

// Language represents a supported programming language.
type Language string

const (
	LangGo         Language = "go"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangPython     Language = "python"
	LangRust       Language = "rust"
)

// LanguageFromPath picks the language by file extension.
func LanguageFromPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx":
		return LangTSX, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return LangJavaScript, true
	case ".rs":
		return LangRust, true
	case ".go":
		return LangGo, true
	case ".py":
		return LangPython, true
	}
	return "", false
}

// Result is the enrichment for one definition. Empty strings are absent.
type Result struct {
	Signature     string
	Documentation string
	Preconditions []string
}

// Enricher looks up the definition starting on a 0-based line of a file.
// A false return means nothing could be extracted; callers proceed without.
type Enricher interface {
	Enrich(path string, startLine int) (*Result, bool)
}

// Noop never finds anything.
type Noop struct{}

// Enrich implements Enricher.
func (Noop) Enrich(string, int) (*Result, bool) { return nil, false }

// CacheStats counts parse cache accesses.
type CacheStats struct {
	Hits        int
	Misses      int
	CachedFiles int
}

// HitRate returns hits over total accesses, or 0 before any access.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Definition node types searched for the deepest match.
var definitionKinds = map[string]bool{
	"function_declaration":    true,
	"class_declaration":       true,
	"method_definition":       true,
	"public_field_definition": true,
	"property_signature":      true,
	"lexical_declaration":     true,
	"variable_declaration":    true,
	"function_item":           true,
	"struct_item":             true,
	"impl_item":               true,
	// Go and Python
	"method_declaration":  true,
	"type_declaration":    true,
	"function_definition": true,
	"class_definition":    true,
}

var commentKinds = map[string]bool{
	"comment":       true,
	"line_comment":  true,
	"block_comment": true,
}

// guardQuery matches if statements whose consequence is a block.
const guardQuery = `(if_statement
  condition: (_) @cond
  consequence: (statement_block) @block)`

// cleanComment strips comment markers from a comment node's text.
func cleanComment(text string) string {
	r := strings.NewReplacer("///", "", "/**", "", "*/", "", "*", "")
	return strings.TrimSpace(r.Replace(text))
}

// signatureOf returns the definition text before its body.
func signatureOf(text string) string {
	if i := strings.IndexByte(text, '{'); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return strings.TrimSpace(text)
}

// guardCondition trims outer parens and whitespace from a condition.
func guardCondition(text string) string {
	return strings.TrimSpace(strings.Trim(text, "()"))
}

// isGuardBlock reports whether a consequence exits early.
func isGuardBlock(text string) bool {
	return strings.Contains(text, "throw") || strings.Contains(text, "return")
}
