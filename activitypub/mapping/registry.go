package mapping

import (
	"sort"
	"sync"
)

// Describes one field of a content type schema.
type FieldDef struct {
	Name  string
	Type  FieldType
	Label string
}

// Load-time schema registry: the available fields, with types, of each content type (entity type plus bundle).
//
// Registration normally happens once at startup; lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]map[string][]FieldDef
}

func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]map[string][]FieldDef),
	}
}

// Registers (or replaces) the field schema for an entity type and bundle.
func (r *Registry) Register(typeID, bundle string, fields ...FieldDef) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bundles, ok := r.schemas[typeID]
	if !ok {
		bundles = make(map[string][]FieldDef)
		r.schemas[typeID] = bundles
	}
	defs := make([]FieldDef, len(fields))
	copy(defs, fields)
	bundles[bundle] = defs
}

func (r *Registry) Fields(typeID, bundle string) ([]FieldDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs, ok := r.schemas[typeID][bundle]
	if !ok {
		return nil, false
	}
	out := make([]FieldDef, len(defs))
	copy(out, defs)
	return out, true
}

func (r *Registry) Field(typeID, bundle, name string) (FieldDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, def := range r.schemas[typeID][bundle] {
		if def.Name == name {
			return def, true
		}
	}
	return FieldDef{}, false
}

// Sorted list of bundles registered for an entity type
func (r *Registry) Bundles(typeID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []string{}
	for b := range r.schemas[typeID] {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Sorted list of registered entity types
func (r *Registry) EntityTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []string{}
	for t := range r.schemas {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
