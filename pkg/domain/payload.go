package domain

import (
	"encoding/json"
	"fmt"
)

// BranchEntry is one node of a branch-descriptor.
// It serializes as the ordered triple ["class", "name", "parent"|null].
type BranchEntry struct {
	Class  string
	Name   string
	Parent string // empty for a branch root attached directly to the frozen root
}

// HasParent reports whether the entry records a named parent.
func (e BranchEntry) HasParent() bool {
	return e.Parent != ""
}

// MarshalJSON implements json.Marshaler.
func (e BranchEntry) MarshalJSON() ([]byte, error) {
	var parent any
	if e.HasParent() {
		parent = e.Parent
	}
	return json.Marshal([]any{e.Class, e.Name, parent})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *BranchEntry) UnmarshalJSON(data []byte) error {
	var triple []*string
	if err := json.Unmarshal(data, &triple); err != nil {
		return fmt.Errorf("%w: branch entry: %v", ErrCorruptPayload, err)
	}
	if len(triple) != 3 || triple[0] == nil || triple[1] == nil {
		return fmt.Errorf("%w: branch entry must be [class, name, parent], got %s", ErrCorruptPayload, data)
	}
	e.Class = *triple[0]
	e.Name = *triple[1]
	e.Parent = ""
	if triple[2] != nil {
		e.Parent = *triple[2]
	}
	return nil
}

// Branch is a branch-descriptor: entries in pre-order, parents before children.
type Branch []BranchEntry

// Root returns the first entry of the branch; ok is false for an empty branch.
func (b Branch) Root() (entry BranchEntry, ok bool) {
	if len(b) == 0 {
		return BranchEntry{}, false
	}
	return b[0], true
}

// Parents resolves, for every entry, the index of its parent within the
// branch; the root maps to -1. A parent is the deepest entry on the current
// pre-order path whose name matches the recorded one.
func (b Branch) Parents() ([]int, error) {
	parents := make([]int, len(b))
	var stack []int
	for i, entry := range b {
		if i == 0 {
			parents[i] = -1
			stack = append(stack, i)
			continue
		}
		for len(stack) > 0 && b[stack[len(stack)-1]].Name != entry.Parent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			return nil, fmt.Errorf("%w: entry %q names parent %q not found earlier in its branch",
				ErrCorruptPayload, entry.Name, entry.Parent)
		}
		parents[i] = stack[len(stack)-1]
		stack = append(stack, i)
	}
	return parents, nil
}

// Payload is the frozen state of a component tree.
type Payload struct {
	Branches []Branch         `json:"branches"`
	Fields   map[string]Fields `json:"fields"`
}

// Empty reports whether the payload carries no branch to restore.
func (p *Payload) Empty() bool {
	return p == nil || len(p.Branches) == 0
}

// Nodes returns the number of stateful nodes described by the payload.
func (p *Payload) Nodes() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, b := range p.Branches {
		n += len(b)
	}
	return n
}
