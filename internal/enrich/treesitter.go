//go:build cgo

package enrich

import (
	"context"
	"log/slog"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// parsedFile is one cache entry. A nil tree records a file that could not
// be read or parsed so it is not retried.
type parsedFile struct {
	source []byte
	tree   *sitter.Tree
	lang   *sitter.Language
}

// TreeSitter enriches definitions by parsing each file once per run.
// It is not safe for concurrent use.
type TreeSitter struct {
	parser  *sitter.Parser
	cache   map[string]*parsedFile
	queries map[Language]*sitter.Query
	stats   CacheStats
	logger  *slog.Logger
}

// Available reports whether tree-sitter enrichment is compiled in.
const Available = true

// NewTreeSitter creates an enricher with an empty parse cache.
func NewTreeSitter(logger *slog.Logger) *TreeSitter {
	return &TreeSitter{
		parser:  sitter.NewParser(),
		cache:   make(map[string]*parsedFile),
		queries: make(map[Language]*sitter.Query),
		logger:  logger,
	}
}

// Enrich implements Enricher.
func (t *TreeSitter) Enrich(path string, startLine int) (*Result, bool) {
	lang, ok := LanguageFromPath(path)
	if !ok {
		return nil, false
	}
	pf := t.parse(path, lang)
	if pf.tree == nil {
		return nil, false
	}

	target := findDeepestDefinition(pf.tree.RootNode(), uint32(startLine))
	if target == nil {
		return nil, false
	}

	return &Result{
		Signature:     signatureOf(target.Content(pf.source)),
		Documentation: extractComments(target, pf.source),
		Preconditions: t.extractGuards(target, pf, lang),
	}, true
}

// Stats returns parse cache statistics.
func (t *TreeSitter) Stats() CacheStats {
	s := t.stats
	s.CachedFiles = len(t.cache)
	return s
}

// Close releases cached trees and queries.
func (t *TreeSitter) Close() {
	for _, pf := range t.cache {
		if pf.tree != nil {
			pf.tree.Close()
		}
	}
	for _, q := range t.queries {
		if q != nil {
			q.Close()
		}
	}
	t.cache = make(map[string]*parsedFile)
	t.queries = make(map[Language]*sitter.Query)
	t.parser.Close()
}

func (t *TreeSitter) parse(path string, lang Language) *parsedFile {
	if pf, ok := t.cache[path]; ok {
		t.stats.Hits++
		return pf
	}
	t.stats.Misses++

	pf := &parsedFile{}
	t.cache[path] = pf

	source, err := os.ReadFile(path)
	if err != nil {
		t.logger.Debug("Enrichment skipped, source unreadable", "path", path, "error", err.Error())
		return pf
	}
	tsLang := getLanguage(lang)
	t.parser.SetLanguage(tsLang)
	tree, err := t.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		t.logger.Debug("Enrichment skipped, parse failed", "path", path, "error", err.Error())
		return pf
	}

	pf.source = source
	pf.tree = tree
	pf.lang = tsLang
	return pf
}

func (t *TreeSitter) guardQuery(lang Language, tsLang *sitter.Language) *sitter.Query {
	if q, ok := t.queries[lang]; ok {
		return q
	}
	// Grammars without if_statement/statement_block fail to compile the
	// query; that is recorded as nil and yields no guards.
	q, err := sitter.NewQuery([]byte(guardQuery), tsLang)
	if err != nil {
		q = nil
	}
	t.queries[lang] = q
	return q
}

func (t *TreeSitter) extractGuards(node *sitter.Node, pf *parsedFile, lang Language) []string {
	q := t.guardQuery(lang, pf.lang)
	if q == nil {
		return nil
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, node)

	var pre []string
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var cond, block *sitter.Node
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "cond":
				cond = c.Node
			case "block":
				block = c.Node
			}
		}
		if cond == nil || block == nil {
			continue
		}
		if isGuardBlock(block.Content(pf.source)) {
			pre = append(pre, "must avoid: "+guardCondition(cond.Content(pf.source)))
		}
	}
	return pre
}

// findDeepestDefinition returns the innermost definition node whose rows
// contain line. The first child subtree holding a match wins.
func findDeepestDefinition(node *sitter.Node, line uint32) *sitter.Node {
	if line < node.StartPoint().Row || line > node.EndPoint().Row {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findDeepestDefinition(node.Child(i), line); found != nil {
			return found
		}
	}
	if definitionKinds[node.Type()] {
		return node
	}
	return nil
}

// extractComments joins the comment siblings directly preceding node, in
// source order.
func extractComments(node *sitter.Node, source []byte) string {
	var comments []string
	for sib := node.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
		if !commentKinds[sib.Type()] {
			break
		}
		comments = append(comments, cleanComment(sib.Content(source)))
	}
	if len(comments) == 0 {
		return ""
	}
	for i, j := 0, len(comments)-1; i < j; i, j = i+1, j-1 {
		comments[i], comments[j] = comments[j], comments[i]
	}
	return strings.Join(comments, "\n")
}

func getLanguage(lang Language) *sitter.Language {
	switch lang {
	case LangGo:
		return golang.GetLanguage()
	case LangJavaScript:
		return javascript.GetLanguage()
	case LangTSX:
		return tsx.GetLanguage()
	case LangPython:
		return python.GetLanguage()
	case LangRust:
		return rust.GetLanguage()
	default:
		return typescript.GetLanguage()
	}
}
