package filter

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type ignoreRule struct {
	globs  []string
	negate bool
}

// Gitignore matches slash-separated relative paths against the patterns of
// one .gitignore file. Supported: comments, blank lines, '!' negation
// (last matching rule wins), trailing '/' for directories, a leading '/'
// anchoring to the root, and doublestar globs. Patterns without an inner
// '/' match at any depth.
type Gitignore struct {
	rules []ignoreRule
}

// LoadGitignore reads root/.gitignore. A missing file yields an empty
// matcher.
func LoadGitignore(root string) (*Gitignore, error) {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if os.IsNotExist(err) {
		return &Gitignore{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParseGitignore(lines), nil
}

// ParseGitignore builds a matcher from gitignore lines.
func ParseGitignore(lines []string) *Gitignore {
	g := &Gitignore{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule := ignoreRule{}
		if rest, ok := strings.CutPrefix(line, "!"); ok {
			rule.negate = true
			line = rest
		}
		rule.globs = ruleGlobs(line)
		if len(rule.globs) > 0 {
			g.rules = append(g.rules, rule)
		}
	}
	return g
}

func ruleGlobs(pattern string) []string {
	pattern = strings.TrimSuffix(pattern, "/")
	anchored := strings.HasPrefix(pattern, "/") || strings.Contains(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return nil
	}
	if !anchored {
		pattern = "**/" + pattern
	}
	// A match on a directory covers everything below it.
	return []string{pattern, pattern + "/**"}
}

// Ignored reports whether rel is ignored.
func (g *Gitignore) Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	ignored := false
	for _, r := range g.rules {
		for _, glob := range r.globs {
			if ok, _ := doublestar.Match(glob, rel); ok {
				ignored = !r.negate
				break
			}
		}
	}
	return ignored
}

// Len returns the number of rules.
func (g *Gitignore) Len() int {
	return len(g.rules)
}
