package element

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/simgraph/internal/ctxlog"
)

// Registry is the in-memory set of element schemas, keyed by ID and kept in
// insertion order. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Schema
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Schema)}
}

// Add checks s, derives its ID from its name and stores it.
func (r *Registry) Add(ctx context.Context, s Schema) (Schema, error) {
	s = Normalize(s)
	s.ID = DeriveID(s.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := Check(s, r.snapshotLocked()); err != nil {
		return Schema{}, err
	}
	// Distinct names can still collapse to one ID ("a b" and "a_b").
	if _, exists := r.items[s.ID]; exists {
		return Schema{}, fmt.Errorf("%w: id %q", ErrDuplicateElement, s.ID)
	}
	s = normalizeTypes(s)

	r.items[s.ID] = s
	r.order = append(r.order, s.ID)
	ctxlog.FromContext(ctx).Debug("Element registered.", "id", s.ID, "attributes", len(s.Attributes))
	return s.clone(), nil
}

// Update replaces the name and attributes of the element with the given ID.
// The ID itself never changes.
func (r *Registry) Update(ctx context.Context, id string, s Schema) (Schema, error) {
	s = Normalize(s)
	s.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err := Check(s, r.snapshotLocked()); err != nil {
		return Schema{}, err
	}
	s = normalizeTypes(s)
	r.items[id] = s
	ctxlog.FromContext(ctx).Debug("Element updated.", "id", id)
	return s.clone(), nil
}

// Remove deletes the element. Removing an unknown ID is a no-op. Nodes that
// still reference the element are reported by lint, not rewritten.
func (r *Registry) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	ctxlog.FromContext(ctx).Debug("Element removed.", "id", id)
}

// Lookup returns the element with the given ID.
func (r *Registry) Lookup(id string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return Schema{}, false
	}
	return s.clone(), true
}

// All returns every element in insertion order.
func (r *Registry) All() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Len returns the number of registered elements.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Registry) snapshotLocked() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].clone())
	}
	return out
}

// normalizeTypes rewrites alias spellings to canonical types. Check has
// already rejected unknown ones.
func normalizeTypes(s Schema) Schema {
	for i, a := range s.Attributes {
		t, _ := ParseAttributeType(string(a.Type))
		s.Attributes[i].Type = t
	}
	return s
}
