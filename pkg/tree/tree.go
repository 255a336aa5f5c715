package tree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned for handles that do not belong to the tree.
	ErrNotFound = errors.New("node not found")
	// ErrDuplicateName is returned when a name collides with a current sibling.
	ErrDuplicateName = errors.New("duplicate sibling name")
	// ErrAttached is returned when appending a node that already has a parent.
	ErrAttached = errors.New("node already attached")
	// ErrEmptyName is returned when appending or renaming to an empty name.
	ErrEmptyName = errors.New("empty node name")
	// ErrCycle is returned when appending a node beneath itself.
	ErrCycle = errors.New("node cannot be its own descendant")
)

// ID is an opaque handle to a node inside a Tree.
type ID int

// None is the zero handle: no node.
const None ID = -1

type node struct {
	name     string
	parent   ID
	children []ID
	visible  bool
	widget   Widget
}

// Tree is an arena of nodes.
// It is not safe for concurrent use; a tree belongs to one request.
type Tree struct {
	nodes []node
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{}
}

// NewNode allocates a detached, visible node.
func (t *Tree) NewNode(name string, w Widget) ID {
	t.nodes = append(t.nodes, node{
		name:    name,
		parent:  None,
		visible: true,
		widget:  w,
	})
	return ID(len(t.nodes) - 1)
}

func (t *Tree) get(id ID) (*node, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return &t.nodes[id], nil
}

func (t *Tree) must(id ID) *node {
	n, err := t.get(id)
	if err != nil {
		panic(err)
	}
	return n
}

// Has reports whether id is a node of this tree.
func (t *Tree) Has(id ID) bool {
	_, err := t.get(id)
	return err == nil
}

// Append attaches child as the last child of parent.
// If the child's widget implements AfterAttacher, the hook runs before Append
// returns. When the hook fails the child is detached again; nodes the hook
// attached elsewhere stay, so callers needing a full undo take a Mark first.
func (t *Tree) Append(parent, child ID) error {
	p, err := t.get(parent)
	if err != nil {
		return err
	}
	c, err := t.get(child)
	if err != nil {
		return err
	}
	if c.parent != None {
		return fmt.Errorf("%w: %q", ErrAttached, c.name)
	}
	if c.name == "" {
		return ErrEmptyName
	}
	for a := parent; a != None; a = t.nodes[a].parent {
		if a == child {
			return fmt.Errorf("%w: %q", ErrCycle, c.name)
		}
	}
	if t.childNamed(parent, c.name) != None {
		return fmt.Errorf("%w: %q under %q", ErrDuplicateName, c.name, p.name)
	}

	c.parent = parent
	p.children = append(p.children, child)

	if hook, ok := c.widget.(AfterAttacher); ok {
		if err := hook.AfterAttach(t, child, parent); err != nil {
			_ = t.Detach(child)
			return fmt.Errorf("after-attach of %q failed: %w", c.name, err)
		}
	}
	return nil
}

// Mark is a saved copy of every node's links, name and visibility.
type Mark struct {
	nodes []node
}

// Mark records the current state of the tree for Rollback.
func (t *Tree) Mark() Mark {
	return Mark{nodes: cloneNodes(t.nodes)}
}

// Rollback returns the tree to m. Nodes allocated after the mark are
// discarded and their handles stop resolving. Widgets are not touched.
func (t *Tree) Rollback(m Mark) {
	t.nodes = cloneNodes(m.nodes)
}

func cloneNodes(nodes []node) []node {
	out := make([]node, len(nodes))
	for i, n := range nodes {
		n.children = append([]ID(nil), n.children...)
		out[i] = n
	}
	return out
}

// AppendNew allocates a node and appends it to parent in one step.
func (t *Tree) AppendNew(parent ID, name string, w Widget) (ID, error) {
	id := t.NewNode(name, w)
	if err := t.Append(parent, id); err != nil {
		return None, err
	}
	return id, nil
}

// Detach removes id from its parent's children, leaving the subtree intact.
// Detaching a node without parent is a no-op.
func (t *Tree) Detach(id ID) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if n.parent == None {
		return nil
	}
	p := &t.nodes[n.parent]
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = None
	return nil
}

func (t *Tree) childNamed(parent ID, name string) ID {
	for _, c := range t.nodes[parent].children {
		if t.nodes[c].name == name {
			return c
		}
	}
	return None
}

// Child returns the direct child of parent with the given name.
func (t *Tree) Child(parent ID, name string) (ID, bool) {
	if !t.Has(parent) {
		return None, false
	}
	c := t.childNamed(parent, name)
	return c, c != None
}

// Find searches depth-first, pre-order, starting at from itself,
// and returns the first node whose current name matches.
func (t *Tree) Find(from ID, name string) (ID, bool) {
	if !t.Has(from) {
		return None, false
	}
	found := None
	t.Walk(from, func(id ID) bool {
		if t.nodes[id].name == name {
			found = id
			return false
		}
		return true
	})
	return found, found != None
}

// Walk visits id and its descendants in pre-order.
// Returning false from fn stops the walk.
func (t *Tree) Walk(id ID, fn func(ID) bool) {
	t.walk(id, fn)
}

func (t *Tree) walk(id ID, fn func(ID) bool) bool {
	if !fn(id) {
		return false
	}
	// Index loop: children appended during the walk are visited too.
	for i := 0; i < len(t.nodes[id].children); i++ {
		if !t.walk(t.nodes[id].children[i], fn) {
			return false
		}
	}
	return true
}

// Children returns a copy of the ordered child handles.
func (t *Tree) Children(id ID) []ID {
	n := t.must(id)
	out := make([]ID, len(n.children))
	copy(out, n.children)
	return out
}

// VisibleChildren returns the children whose visibility flag is set.
func (t *Tree) VisibleChildren(id ID) []ID {
	n := t.must(id)
	out := make([]ID, 0, len(n.children))
	for _, c := range n.children {
		if t.nodes[c].visible {
			out = append(out, c)
		}
	}
	return out
}

// Visible reports the visibility flag of a node.
func (t *Tree) Visible(id ID) bool {
	return t.must(id).visible
}

// SetVisible sets the visibility flag of a node.
func (t *Tree) SetVisible(id ID, visible bool) {
	t.must(id).visible = visible
}

// Size returns the number of nodes in the subtree rooted at id, including id.
func (t *Tree) Size(id ID) int {
	n := 0
	t.Walk(id, func(ID) bool {
		n++
		return true
	})
	return n
}

// Name returns the current name of a node.
func (t *Tree) Name(id ID) string {
	return t.must(id).name
}

// SetName renames a node, keeping names unique among its siblings.
func (t *Tree) SetName(id ID, name string) error {
	n, err := t.get(id)
	if err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	if name == n.name {
		return nil
	}
	if n.parent != None && t.childNamed(n.parent, name) != None {
		return fmt.Errorf("%w: %q under %q", ErrDuplicateName, name, t.nodes[n.parent].name)
	}
	n.name = name
	return nil
}

// Parent returns the parent handle, or None for a detached node.
func (t *Tree) Parent(id ID) ID {
	return t.must(id).parent
}

// Widget returns the widget attached to a node.
func (t *Tree) Widget(id ID) Widget {
	return t.must(id).widget
}

// Kind classifies a node.
func (t *Tree) Kind(id ID) Kind {
	return KindOf(t.must(id).widget)
}

// ClassTag returns the class tag of the node's widget.
func (t *Tree) ClassTag(id ID) string {
	w := t.must(id).widget
	if w == nil {
		return ""
	}
	return w.ClassTag()
}

// Path joins current names from root down to id with sep.
// It fails if id is not root or one of its descendants.
func (t *Tree) Path(root, id ID, sep string) (string, error) {
	if !t.Has(root) {
		return "", fmt.Errorf("%w: root %d", ErrNotFound, root)
	}
	if !t.Has(id) {
		return "", fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	var names []string
	for cur := id; ; cur = t.nodes[cur].parent {
		if cur == None {
			return "", fmt.Errorf("%w: %q is not under %q", ErrNotFound, t.nodes[id].name, t.nodes[root].name)
		}
		names = append(names, t.nodes[cur].name)
		if cur == root {
			break
		}
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, sep), nil
}
