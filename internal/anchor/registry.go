package anchor

// Registry maps fingerprints to anchors for one conversion. It is not safe
// for concurrent use.
type Registry struct {
	anchors map[uint64]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{anchors: make(map[uint64]string)}
}

// RegisterFile registers the file-scope anchor for a document path and
// returns its fingerprint.
func (r *Registry) RegisterFile(relativePath string) uint64 {
	id := Fingerprint(relativePath)
	r.anchors[id] = Format(BaseFile, id)
	return id
}

// Register registers a defined symbol and returns its anchor. Registering
// the same symbol again yields the same anchor.
func (r *Registry) Register(symbol string) string {
	id := Fingerprint(symbol)
	anchor := Format(Base(DisplayName(symbol)), id)
	r.anchors[id] = anchor
	return anchor
}

// Lookup returns the anchor registered for id.
func (r *Registry) Lookup(id uint64) (string, bool) {
	a, ok := r.anchors[id]
	return a, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id uint64) bool {
	_, ok := r.anchors[id]
	return ok
}

// Resolve returns the registered anchor for id or a placeholder built from
// fallbackBase.
func (r *Registry) Resolve(id uint64, fallbackBase string) string {
	if a, ok := r.anchors[id]; ok {
		return a
	}
	return Format(fallbackBase, id)
}

// Len returns the number of registered fingerprints.
func (r *Registry) Len() int {
	return len(r.anchors)
}

// Collisions groups fingerprints that were assigned the same anchor.
// Only anchors shared by two or more fingerprints are returned.
func (r *Registry) Collisions() map[string][]uint64 {
	byAnchor := make(map[string][]uint64)
	for id, a := range r.anchors {
		byAnchor[a] = append(byAnchor[a], id)
	}
	for a, ids := range byAnchor {
		if len(ids) < 2 {
			delete(byAnchor, a)
		}
	}
	return byAnchor
}
