// Package font resolves font family names to glyph sources with a
// deterministic fallback chain. Actual font parsing and rasterization
// belong to the rendering collaborator; this package only owns the
// name-to-face mapping the run loop consults when a font change is
// staged.
package font

import (
	"sort"
	"sync"
)

// Face is an opaque glyph source handle passed through to the
// rendering collaborator. Data holds the raw font bytes the rasterizer
// consumes; the adapter never inspects them.
type Face struct {
	Family string
	Data   []byte
}

// Resolver maps family names to registered faces. Resolution is
// deterministic: the requested family if registered, else the fallback
// family supplied at construction.
type Resolver struct {
	mu       sync.RWMutex
	families map[string][]Face
	fallback string
}

// NewResolver creates a resolver seeded with the given fallback face.
// The fallback's family is registered and used whenever a requested
// family is unavailable.
func NewResolver(fallback Face) *Resolver {
	r := &Resolver{
		families: make(map[string][]Face),
		fallback: fallback.Family,
	}
	r.families[fallback.Family] = []Face{fallback}
	return r
}

// Register adds faces under the given family. Registering an already
// known family appends to it.
func (r *Resolver) Register(family string, faces ...Face) {
	if family == "" || len(faces) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[family] = append(r.families[family], faces...)
}

// Resolve returns the faces for the requested family. When the family
// is unregistered it returns the fallback faces and false.
func (r *Resolver) Resolve(family string) ([]Face, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if faces, ok := r.families[family]; ok {
		return cloneFaces(faces), true
	}
	return cloneFaces(r.families[r.fallback]), false
}

// Available reports whether the family resolves without falling back.
func (r *Resolver) Available(family string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.families[family]
	return ok
}

// Fallback returns the fallback family name.
func (r *Resolver) Fallback() string {
	return r.fallback
}

// Families returns the registered family names in sorted order.
func (r *Resolver) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cloneFaces(faces []Face) []Face {
	out := make([]Face, len(faces))
	copy(out, faces)
	return out
}
