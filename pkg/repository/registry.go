package repository

import "slices"

// Registry is an ordered, deduplicated set of endpoints.
//
// The endpoint sequence is never mutated in place: every registration builds
// a new slice. Registries produced by [Registry.Derive] therefore share the
// sequence with their origin until either side registers something.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	endpoints []Endpoint
	ids       map[string]struct{}
}

// NewRegistry creates a registry from the configured endpoints, in order.
// With no endpoints the registry holds [Central] only.
func NewRegistry(configured ...Endpoint) *Registry {
	r := &Registry{ids: make(map[string]struct{})}
	if len(configured) == 0 {
		r.Register(Central)
		return r
	}
	for _, ep := range configured {
		r.Register(ep)
	}
	return r
}

// Register adds ep at the lowest priority. It reports false, and leaves the
// registry unchanged, when ep.ID is already known to this registry.
func (r *Registry) Register(ep Endpoint) bool {
	if _, ok := r.ids[ep.ID]; ok {
		return false
	}
	r.ids[ep.ID] = struct{}{}
	r.endpoints = aggregate(r.endpoints, ep)
	return true
}

// aggregate returns seq with ep appended. Entries already in seq keep their
// position; an id already present in seq is not added twice.
func aggregate(seq []Endpoint, ep Endpoint) []Endpoint {
	if slices.ContainsFunc(seq, func(e Endpoint) bool { return e.ID == ep.ID }) {
		return seq
	}
	out := make([]Endpoint, len(seq), len(seq)+1)
	copy(out, seq)
	return append(out, ep)
}

// Has reports whether id was registered on this registry.
func (r *Registry) Has(id string) bool {
	_, ok := r.ids[id]
	return ok
}

// Len returns the number of endpoints.
func (r *Registry) Len() int { return len(r.endpoints) }

// Snapshot returns the endpoints in priority order.
func (r *Registry) Snapshot() []Endpoint {
	return slices.Clone(r.endpoints)
}

// Derive returns an independent registry that starts with the same endpoints
// and a private copy of the registered ids.
func (r *Registry) Derive() *Registry {
	ids := make(map[string]struct{}, len(r.ids))
	for id := range r.ids {
		ids[id] = struct{}{}
	}
	return &Registry{endpoints: r.endpoints, ids: ids}
}
