package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/frost/pkg/domain"
	"github.com/aretw0/frost/pkg/ports"
	"github.com/aretw0/frost/pkg/tree"
)

// Snapshot computes the payload for the tree under root without touching storage.
func Snapshot(t *tree.Tree, root tree.ID) (*domain.Payload, error) {
	if !t.Has(root) {
		return nil, fmt.Errorf("%w: %d", tree.ErrNotFound, root)
	}
	payload := &domain.Payload{
		Branches: []domain.Branch{},
		Fields:   map[string]domain.Fields{},
	}
	for _, b := range Branches(t, root) {
		payload.Branches = append(payload.Branches, DumpBranch(t, b, root))
	}

	// Fields cover every stateful descendant of root, including those a
	// stateless node separates from their branch.
	var walkErr error
	t.Walk(root, func(n tree.ID) bool {
		if n == root || t.Kind(n) != tree.Stateful {
			return true
		}
		path, err := t.Path(root, n, domain.PathSeparator)
		if err != nil {
			walkErr = err
			return false
		}
		fields, err := FieldsOf(t, n)
		if err != nil {
			walkErr = fmt.Errorf("failed to freeze %q: %w", path, err)
			return false
		}
		payload.Fields[path] = fields
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return payload, nil
}

// FieldsOf returns the field-set of a stateful node: its encoded state record
// plus its current name. Structural attributes never appear.
func FieldsOf(t *tree.Tree, id tree.ID) (domain.Fields, error) {
	sw, ok := t.Widget(id).(tree.StatefulWidget)
	if !ok {
		return nil, fmt.Errorf("node %q is not stateful", t.Name(id))
	}
	return domain.EncodeRecord(t.Name(id), sw.StateRecord())
}

// Freeze writes the payload of the tree under root into storage, replacing
// any previous payload. The tree is not modified.
func (e *Engine) Freeze(ctx context.Context, storage ports.Storage, t *tree.Tree, root tree.ID) (*domain.Payload, error) {
	start := e.now()
	payload, err := e.freeze(ctx, storage, t, root)

	event := &domain.PersistEvent{
		Timestamp: start,
		Type:      domain.EventFreeze,
		Duration:  e.now().Sub(start),
		Err:       err,
	}
	if payload != nil {
		event.Branches = len(payload.Branches)
		event.Nodes = len(payload.Fields)
	}
	e.hooks.Emit(ctx, event)
	return payload, err
}

func (e *Engine) freeze(ctx context.Context, storage ports.Storage, t *tree.Tree, root tree.ID) (*domain.Payload, error) {
	payload, err := Snapshot(t, root)
	if err != nil {
		return nil, err
	}
	if err := e.Store(ctx, storage, payload); err != nil {
		return nil, err
	}

	e.logger.Debug("Froze component tree",
		"root", t.Name(root),
		"branches", len(payload.Branches),
		"nodes", len(payload.Fields),
	)
	return payload, nil
}

// Store writes a payload under the two fixed keys.
func (e *Engine) Store(ctx context.Context, storage ports.Storage, payload *domain.Payload) error {
	branches, err := json.Marshal(payload.Branches)
	if err != nil {
		return fmt.Errorf("failed to marshal branches: %w", err)
	}
	fields, err := json.Marshal(payload.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	if err := storage.Set(ctx, domain.BranchesKey, branches); err != nil {
		return fmt.Errorf("failed to store branches: %w", err)
	}
	if err := storage.Set(ctx, domain.FieldsKey, fields); err != nil {
		return fmt.Errorf("failed to store fields: %w", err)
	}
	return nil
}

// Load reads the payload without consuming it.
// It returns nil, nil when no branches are recorded.
func (e *Engine) Load(ctx context.Context, storage ports.Storage) (*domain.Payload, error) {
	raw, err := storage.Get(ctx, domain.BranchesKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read branches: %w", err)
	}

	branches, err := decodeBranches(raw)
	if err != nil {
		return nil, err
	}
	payload := &domain.Payload{Branches: branches, Fields: map[string]domain.Fields{}}

	raw, err = storage.Get(ctx, domain.FieldsKey)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		return payload, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read fields: %w", err)
	}
	if err := json.Unmarshal(raw, &payload.Fields); err != nil {
		return nil, fmt.Errorf("%w: fields: %w", domain.ErrCorruptPayload, err)
	}
	if payload.Fields == nil {
		payload.Fields = map[string]domain.Fields{}
	}
	return payload, nil
}

// Flush deletes the payload. Missing keys are not an error.
func (e *Engine) Flush(ctx context.Context, storage ports.Storage) error {
	start := e.now()
	err := e.flush(ctx, storage)
	e.hooks.Emit(ctx, &domain.PersistEvent{
		Timestamp: start,
		Type:      domain.EventFlush,
		Duration:  e.now().Sub(start),
		Err:       err,
	})
	return err
}

func (e *Engine) flush(ctx context.Context, storage ports.Storage) error {
	if err := storage.Delete(ctx, domain.BranchesKey); err != nil {
		return fmt.Errorf("failed to delete branches: %w", err)
	}
	if err := storage.Delete(ctx, domain.FieldsKey); err != nil {
		return fmt.Errorf("failed to delete fields: %w", err)
	}
	return nil
}

// HasPending reports whether storage holds a non-empty branch list.
func (e *Engine) HasPending(ctx context.Context, storage ports.Storage) (bool, error) {
	raw, err := storage.Get(ctx, domain.BranchesKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read branches: %w", err)
	}
	branches, err := decodeBranches(raw)
	if err != nil {
		return false, err
	}
	return len(branches) > 0, nil
}

// decodeBranches parses the branches key. A branch without entries cannot
// have been written by Freeze and marks the payload as corrupt.
func decodeBranches(raw []byte) ([]domain.Branch, error) {
	var branches []domain.Branch
	if err := json.Unmarshal(raw, &branches); err != nil {
		return nil, fmt.Errorf("%w: branches: %w", domain.ErrCorruptPayload, err)
	}
	for i, b := range branches {
		if len(b) == 0 {
			return nil, fmt.Errorf("%w: branch %d is empty", domain.ErrCorruptPayload, i)
		}
	}
	return branches, nil
}
