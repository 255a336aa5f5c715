package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/tree"
)

// Factory builds a fresh widget for a node being reconstructed.
// The context carries the owner (request, controller) the widget belongs to.
type Factory func(ctx context.Context, name string) (tree.Widget, error)

// Registry maps class tags to factories.
// It is populated at startup and read on every thaw.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for tag.
// If a factory with the same tag exists, it is overwritten.
func (r *Registry) Register(tag string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[tag] = fn
}

// Lookup returns the factory for tag.
func (r *Registry) Lookup(tag string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.factories[tag]
	return fn, ok
}

// New builds a widget for tag.
// Returns a *domain.UnknownClassTagError if the tag is not registered.
func (r *Registry) New(ctx context.Context, tag, name string) (tree.Widget, error) {
	fn, ok := r.Lookup(tag)
	if !ok {
		return nil, &domain.UnknownClassTagError{Tag: tag}
	}
	w, err := fn(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("factory %q failed for %q: %w", tag, name, err)
	}
	if w == nil {
		return nil, fmt.Errorf("factory %q returned no widget for %q", tag, name)
	}
	return w, nil
}

// Tags lists the registered class tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// RegisterWidget registers a factory returning a new zero-valued *T under the
// tag reported by that value.
func RegisterWidget[T any, PT interface {
	*T
	tree.Widget
}](r *Registry) string {
	tag := PT(new(T)).ClassTag()
	r.Register(tag, func(context.Context, string) (tree.Widget, error) {
		return PT(new(T)), nil
	})
	return tag
}
