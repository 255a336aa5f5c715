package ports

import (
	"context"

	"github.com/aretw0/frost/pkg/tree"
)

// ClassRegistry resolves a class tag into a fresh widget.
// Implementations return a *domain.UnknownClassTagError for unresolvable tags.
type ClassRegistry interface {
	New(ctx context.Context, tag, name string) (tree.Widget, error)
}
