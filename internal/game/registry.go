package game

import (
	"fmt"
	"sync"

	"chat-game-backend/internal/model"
)

// Registry manages variant registration and lookup by kind.
type Registry struct {
	variants map[model.GameKind]Variant
	mu       sync.RWMutex
}

// NewRegistry creates a new variant registry.
func NewRegistry() *Registry {
	return &Registry{
		variants: make(map[model.GameKind]Variant),
	}
}

// Register adds a variant to the registry, replacing any previous
// registration for the same kind.
func (r *Registry) Register(v Variant) error {
	if v == nil {
		return fmt.Errorf("cannot register nil variant")
	}
	if v.Kind() == "" {
		return fmt.Errorf("variant kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[v.Kind()] = v
	return nil
}

// Get retrieves a variant by kind.
func (r *Registry) Get(kind model.GameKind) (Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[kind]
	return v, ok
}

// Kinds returns all registered variant kinds.
func (r *Registry) Kinds() []model.GameKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]model.GameKind, 0, len(r.variants))
	for kind := range r.variants {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Count returns the number of registered variants.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.variants)
}
