// Package registry holds the closed button vocabularies and the set of
// identifiers currently placed in the document.
package registry

import (
	"slices"
	"sort"
	"sync"
)

var defaultNames = []string{
	"btnRed", "btnBlue", "btnGreen", "btnYellow", "btnPurple",
	"btnOrange", "btnCyan", "btnPink", "btnSkyBlue", "btnLimeGreen",
}

var defaultColors = []string{
	"red", "blue", "green", "yellow", "purple",
	"#FF5733", "#33FFCE", "#FF33A1", "#3380FF", "#4CAF50",
}

// Registry tracks allowed identifiers and colors plus the used-identifier set.
type Registry struct {
	names  []string
	colors []string

	mu   sync.RWMutex
	used map[string]struct{}
}

// New creates a registry with the built-in vocabularies and an empty used set.
func New() *Registry {
	return &Registry{
		names:  slices.Clone(defaultNames),
		colors: slices.Clone(defaultColors),
		used:   make(map[string]struct{}),
	}
}

// Names returns the allowed identifiers in their declared order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Colors returns the allowed colors in their declared order.
func (r *Registry) Colors() []string {
	return slices.Clone(r.colors)
}

// IsAllowedName reports whether name is in the identifier vocabulary.
func (r *Registry) IsAllowedName(name string) bool {
	return slices.Contains(r.names, name)
}

// IsAllowedColor reports whether color is in the color vocabulary.
// Matching is exact, so "#ff5733" is not the same as "#FF5733".
func (r *Registry) IsAllowedColor(color string) bool {
	return slices.Contains(r.colors, color)
}

// Add marks name as used.
func (r *Registry) Add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.used[name] = struct{}{}
}

// Has reports whether name is currently used.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.used[name]
	return ok
}

// Delete removes name from the used set.
func (r *Registry) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.used, name)
}

// Used returns a sorted snapshot of the used identifiers.
func (r *Registry) Used() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.used))
	for name := range r.used {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of used identifiers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.used)
}
