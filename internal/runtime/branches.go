package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/tree"
)

// Branches returns the roots of the maximal stateful subtrees under root,
// in depth-first discovery order. Root itself is never a candidate, and no
// returned node has a stateful ancestor that is also returned.
func Branches(t *tree.Tree, root tree.ID) []tree.ID {
	var out []tree.ID
	var visit func(id tree.ID)
	visit = func(id tree.ID) {
		for _, c := range t.Children(id) {
			if t.Kind(c) == tree.Stateful {
				out = append(out, c)
				continue
			}
			visit(c)
		}
	}
	visit(root)
	return out
}

// BranchNodes returns the stateful nodes of the branch rooted at id in
// pre-order. Stateless children end the branch.
func BranchNodes(t *tree.Tree, id tree.ID) []tree.ID {
	out := []tree.ID{id}
	for _, c := range t.Children(id) {
		if t.Kind(c) == tree.Stateful {
			out = append(out, BranchNodes(t, c)...)
		}
	}
	return out
}

// DumpBranch builds the branch-descriptor of the branch rooted at id.
// The root entry names its parent, or no parent when the parent is frozenRoot
// (or absent), which thaw reads as "attach to the new root".
func DumpBranch(t *tree.Tree, id, frozenRoot tree.ID) domain.Branch {
	nodes := BranchNodes(t, id)
	branch := make(domain.Branch, 0, len(nodes))
	for i, n := range nodes {
		entry := domain.BranchEntry{
			Class: t.ClassTag(n),
			Name:  t.Name(n),
		}
		p := t.Parent(n)
		if i > 0 || (p != tree.None && p != frozenRoot) {
			entry.Parent = t.Name(p)
		}
		branch = append(branch, entry)
	}
	return branch
}

// LoadBranch reconstructs a detached branch from its descriptor.
// Entries attach to the deepest ancestor on the current pre-order path
// carrying their recorded parent name; the returned handle is the branch root.
func (e *Engine) LoadBranch(ctx context.Context, t *tree.Tree, branch domain.Branch) (tree.ID, error) {
	if len(branch) == 0 {
		return tree.None, fmt.Errorf("%w: empty branch", domain.ErrCorruptPayload)
	}
	parents, err := branch.Parents()
	if err != nil {
		return tree.None, err
	}

	ids := make([]tree.ID, len(branch))
	for i, entry := range branch {
		w, err := e.registry.New(ctx, entry.Class, entry.Name)
		if err != nil {
			return tree.None, err
		}
		if tree.KindOf(w) != tree.Stateful {
			e.logger.Warn("Class tag resolved to a stateless widget; its fields will not be restored",
				"class", entry.Class,
				"name", entry.Name,
			)
		}
		ids[i] = t.NewNode(entry.Name, w)

		if parents[i] < 0 {
			continue
		}
		if err := t.Append(ids[parents[i]], ids[i]); err != nil {
			return tree.None, fmt.Errorf("failed to rebuild %q under %q: %w", entry.Name, entry.Parent, err)
		}
	}
	return ids[0], nil
}
