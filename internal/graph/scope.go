package graph

// FileScopeEnd is the end line of the implicit file scope.
const FileScopeEnd = 100000

// Scope is a line range owned by a definition.
type Scope struct {
	ID    uint64
	Start int32
	End   int32
}

// ScopeIndex holds the scopes of one document. The file scope is always
// first.
type ScopeIndex struct {
	scopes []Scope
}

// NewScopeIndex creates an index containing only the file scope.
func NewScopeIndex(fileID uint64) *ScopeIndex {
	return &ScopeIndex{scopes: []Scope{{ID: fileID, Start: 0, End: FileScopeEnd}}}
}

// Add appends a definition scope.
func (s *ScopeIndex) Add(id uint64, start, end int32) {
	s.scopes = append(s.scopes, Scope{ID: id, Start: start, End: end})
}

// Enclosing returns the smallest scope containing line. Scopes are scanned
// in insertion order and only a strictly smaller span replaces the current
// best, so the first of several equal spans wins.
func (s *ScopeIndex) Enclosing(line int32) (uint64, bool) {
	var best uint64
	found := false
	minSpan := int64(1<<63 - 1)
	for _, sc := range s.scopes {
		if line < sc.Start || line > sc.End {
			continue
		}
		span := int64(sc.End) - int64(sc.Start)
		if span < minSpan {
			minSpan = span
			best = sc.ID
			found = true
		}
	}
	return best, found
}

// Len returns the number of scopes including the file scope.
func (s *ScopeIndex) Len() int {
	return len(s.scopes)
}
