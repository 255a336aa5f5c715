package frost

import (
	"context"
	"fmt"

	"github.com/aretw0/frost/pkg/ports"
	"github.com/aretw0/frost/pkg/session"
	"github.com/aretw0/frost/pkg/tree"
)

// BuildFunc creates the stateless skeleton of a request and returns its root.
type BuildFunc func(ctx context.Context) (*tree.Tree, tree.ID, error)

// HandleFunc processes a request against the thawed tree.
type HandleFunc func(ctx context.Context, t *tree.Tree, root tree.ID) error

// Cycle runs one request for a session: build the skeleton, thaw, handle and
// freeze, all while holding the session lock.
// When handle fails the tree is not frozen and the payload consumed by thaw
// is gone; the next request starts from the skeleton.
func (e *Engine) Cycle(ctx context.Context, sessions *session.Manager, sessionID string, build BuildFunc, handle HandleFunc) error {
	return sessions.Do(ctx, sessionID, func(ctx context.Context, storage ports.Storage) error {
		t, root, err := build(ctx)
		if err != nil {
			return fmt.Errorf("failed to build skeleton: %w", err)
		}

		if _, err := e.Thaw(ctx, storage, t, root); err != nil {
			return fmt.Errorf("failed to thaw session %q: %w", sessionID, err)
		}

		if err := handle(ctx, t, root); err != nil {
			return err
		}

		if _, err := e.Freeze(ctx, storage, t, root); err != nil {
			return fmt.Errorf("failed to freeze session %q: %w", sessionID, err)
		}
		return nil
	})
}
