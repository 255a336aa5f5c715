package frost

import (
	"context"
	"log/slog"

	"github.com/aretw0/frost/internal/logging"
	"github.com/aretw0/frost/internal/runtime"
	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
	"github.com/aretw0/frost/pkg/registry"
	"github.com/aretw0/frost/pkg/tree"
)

// Version is the library version reported by the CLI.
var Version = "0.1.0"

// Engine is the high-level entry point for the frost library.
// It wraps the internal runtime and owns the class registry.
type Engine struct {
	runtime  *runtime.Engine
	registry *registry.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry uses an existing class registry instead of an empty one.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.registry == nil {
		eng.registry = registry.NewRegistry()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(eng.registry,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng
}

// Register binds a class tag to a widget factory.
func (e *Engine) Register(tag string, fn registry.Factory) {
	e.registry.Register(tag, fn)
}

// Registry returns the class registry used during thaw.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Branches returns the branch roots reachable from root.
func (e *Engine) Branches(t *tree.Tree, root tree.ID) []tree.ID {
	return runtime.Branches(t, root)
}

// Freeze records the stateful branches under root into storage.
func (e *Engine) Freeze(ctx context.Context, storage ports.Storage, t *tree.Tree, root tree.ID) (*domain.Payload, error) {
	return e.runtime.Freeze(ctx, storage, t, root)
}

// Thaw grafts a stored payload onto newRoot and deletes it from storage.
// Without a payload it returns newRoot unchanged.
func (e *Engine) Thaw(ctx context.Context, storage ports.Storage, t *tree.Tree, newRoot tree.ID) (tree.ID, error) {
	return e.runtime.Thaw(ctx, storage, t, newRoot)
}

// Flush deletes any stored payload.
func (e *Engine) Flush(ctx context.Context, storage ports.Storage) error {
	return e.runtime.Flush(ctx, storage)
}

// HasPending reports whether storage holds at least one branch to restore.
func (e *Engine) HasPending(ctx context.Context, storage ports.Storage) (bool, error) {
	return e.runtime.HasPending(ctx, storage)
}

// Inspect decodes the stored payload without touching it.
// It returns nil when nothing is stored.
func (e *Engine) Inspect(ctx context.Context, storage ports.Storage) (*domain.Payload, error) {
	return e.runtime.Load(ctx, storage)
}
