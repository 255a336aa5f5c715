package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/frost/internal/logging"
	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
)

// Engine runs the freeze/thaw protocol.
// It holds no per-request state; one Engine serves every request.
type Engine struct {
	registry ports.ClassRegistry
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	now      func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates a new engine resolving class tags through registry.
func NewEngine(registry ports.ClassRegistry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
