package bundle

import "bytes"

// Registry accumulates module records across one application's main package
// and all of its subpackages for the duration of a run. The orchestrator
// processes the main package first, so records a subpackage depends on are
// registered before the subpackage is split.
//
// Dependency cycles between module paths are legal: resolution is plain set
// membership, nothing is ordered or broken.
type Registry struct {
	records map[string]*Record
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: map[string]*Record{}}
}

// Add registers a record under its path. The first registration of a path
// wins; re-registering identical content is a no-op. It returns whether the
// record was newly added.
func (r *Registry) Add(rec *Record) bool {
	if _, ok := r.records[rec.Path]; ok {
		// Shared modules recur across subpackages with identical bodies.
		return false
	}
	r.records[rec.Path] = rec
	r.order = append(r.order, rec.Path)
	return true
}

// Lookup returns the record registered under path.
func (r *Registry) Lookup(path string) (*Record, bool) {
	rec, ok := r.records[path]
	return rec, ok
}

// Has reports whether a module path is registered.
func (r *Registry) Has(path string) bool {
	_, ok := r.records[path]
	return ok
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	return len(r.records)
}

// Paths returns all registered module paths in registration order.
func (r *Registry) Paths() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Unresolved returns rec's dependency paths that no processed package has
// defined yet.
func (r *Registry) Unresolved(rec *Record) []string {
	var missing []string
	for _, dep := range rec.Deps {
		if !r.Has(dep) {
			missing = append(missing, dep)
		}
	}
	return missing
}

// SameContent reports whether two records carry identical payloads.
func SameContent(a, b *Record) bool {
	return a.Kind == b.Kind && bytes.Equal(a.Body, b.Body)
}
