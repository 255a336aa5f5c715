package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
	"github.com/aretw0/frost/pkg/tree"
)

// plannedBranch is a branch rebuilt off-tree, waiting to be attached.
type plannedBranch struct {
	root   tree.ID
	parent tree.ID
}

// Thaw restores the payload in storage onto the skeleton under newRoot and
// consumes it.
//
// Thaw is atomic per call: every branch is rebuilt detached and every parent
// is resolved before the first branch is attached, and every field-set is
// decoded before the first node changes. Any error, including one raised by
// an after-attach hook, rolls the tree back to the skeleton it was given and
// leaves the payload in storage.
func (e *Engine) Thaw(ctx context.Context, storage ports.Storage, t *tree.Tree, newRoot tree.ID) (tree.ID, error) {
	start := e.now()
	event := &domain.PersistEvent{
		Timestamp: start,
		Type:      domain.EventThaw,
	}
	err := e.thaw(ctx, storage, t, newRoot, event)
	event.Duration = e.now().Sub(start)
	event.Err = err
	e.hooks.Emit(ctx, event)
	return newRoot, err
}

func (e *Engine) thaw(ctx context.Context, storage ports.Storage, t *tree.Tree, newRoot tree.ID, event *domain.PersistEvent) error {
	if !t.Has(newRoot) {
		return fmt.Errorf("%w: %d", tree.ErrNotFound, newRoot)
	}

	payload, err := e.Load(ctx, storage)
	if err != nil {
		return err
	}
	if payload == nil {
		e.logger.Debug("Nothing to thaw", "root", t.Name(newRoot))
		return nil
	}

	mark := t.Mark()

	planned, err := e.plan(ctx, t, newRoot, payload.Branches)
	if err != nil {
		t.Rollback(mark)
		return err
	}

	for _, p := range planned {
		if err := t.Append(p.parent, p.root); err != nil {
			name := t.Name(p.root)
			t.Rollback(mark)
			return fmt.Errorf("failed to attach branch %q: %w", name, err)
		}
	}

	staged, err := stageFields(t, newRoot, payload.Fields)
	if err != nil {
		t.Rollback(mark)
		return err
	}
	if err := staged.apply(t); err != nil {
		t.Rollback(mark)
		return err
	}

	if err := e.flush(ctx, storage); err != nil {
		staged.revert(t)
		t.Rollback(mark)
		return err
	}

	event.Branches = len(planned)
	event.Nodes = len(staged)
	e.logger.Debug("Thawed component tree",
		"root", t.Name(newRoot),
		"branches", len(planned),
		"restored", len(staged),
		"stale", len(payload.Fields)-len(staged),
	)
	return nil
}

// plan rebuilds every branch detached and resolves where it will attach.
// Parents are searched in the skeleton as it was before this thaw.
func (e *Engine) plan(ctx context.Context, t *tree.Tree, newRoot tree.ID, branches []domain.Branch) ([]plannedBranch, error) {
	planned := make([]plannedBranch, 0, len(branches))
	claimed := map[tree.ID]map[string]bool{}

	for i, branch := range branches {
		head, ok := branch.Root()
		if !ok {
			return nil, fmt.Errorf("%w: branch %d is empty", domain.ErrCorruptPayload, i)
		}

		parent := newRoot
		if head.HasParent() {
			found, ok := t.Find(newRoot, head.Parent)
			if !ok {
				return nil, &domain.StructuralMismatchError{
					Branch: i,
					Node:   head.Name,
					Parent: head.Parent,
					Root:   t.Name(newRoot),
					Reason: "parent not found",
				}
			}
			parent = found
		}

		if _, taken := t.Child(parent, head.Name); taken || claimed[parent][head.Name] {
			return nil, &domain.StructuralMismatchError{
				Branch: i,
				Node:   head.Name,
				Parent: t.Name(parent),
				Root:   t.Name(newRoot),
				Reason: "name already taken",
			}
		}
		if claimed[parent] == nil {
			claimed[parent] = map[string]bool{}
		}
		claimed[parent][head.Name] = true

		root, err := e.LoadBranch(ctx, t, branch)
		if err != nil {
			return nil, err
		}
		planned = append(planned, plannedBranch{root: root, parent: parent})
	}
	return planned, nil
}

// Reconcile restores fields over the subtree at id and returns the number of
// stateful nodes it updated. Keys in fields are paths starting at id's name.
// Every field-set is decoded before the first node changes; on error the
// subtree is left as it was.
func Reconcile(t *tree.Tree, id tree.ID, fields map[string]domain.Fields) (int, error) {
	staged, err := stageFields(t, id, fields)
	if err != nil {
		return 0, err
	}
	if err := staged.apply(t); err != nil {
		return 0, err
	}
	return len(staged), nil
}

// restoration is a field-set matched to a node and decoded, not yet applied.
type restoration struct {
	id     tree.ID
	key    string
	from   string
	to     string
	record *domain.StagedRecord
}

type restorations []restoration

// stageFields matches fields to the stateful nodes of the subtree at id.
// A node's key is its reconciled ancestors' names plus its own current name;
// its children are keyed with the name it will carry once restored, so a
// node renamed since the freeze is still found and its descendants follow
// the frozen name.
func stageFields(t *tree.Tree, id tree.ID, fields map[string]domain.Fields) (restorations, error) {
	var out restorations
	var visit func(id tree.ID, prefix string) error
	visit = func(id tree.ID, prefix string) error {
		name := t.Name(id)
		key := prefix + name

		if f, ok := fields[key]; ok {
			if sw, ok := t.Widget(id).(tree.StatefulWidget); ok {
				record, err := domain.StageRecord(f, sw.StateRecord())
				if err != nil {
					return fmt.Errorf("%w: %q: %w", domain.ErrCorruptPayload, key, err)
				}
				r := restoration{id: id, key: key, from: name, to: name, record: record}
				if restored, ok := f.Name(); ok {
					r.to = restored
				}
				out = append(out, r)
				name = r.to
			}
		}

		next := prefix + name + domain.PathSeparator
		for _, c := range t.Children(id) {
			if err := visit(c, next); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(id, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// apply commits every staged record and name. A name that cannot be
// restored undoes everything applied so far.
func (rs restorations) apply(t *tree.Tree) error {
	for i, r := range rs {
		r.record.Commit()
		if r.to == r.from {
			continue
		}
		if err := t.SetName(r.id, r.to); err != nil {
			rs[:i+1].revert(t)
			return fmt.Errorf("failed to restore name of %q: %w", r.key, err)
		}
	}
	return nil
}

// revert undoes apply in reverse order.
func (rs restorations) revert(t *tree.Tree) {
	for i := len(rs) - 1; i >= 0; i-- {
		r := rs[i]
		r.record.Revert()
		if t.Name(r.id) != r.from {
			_ = t.SetName(r.id, r.from)
		}
	}
}
