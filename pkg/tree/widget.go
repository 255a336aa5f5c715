package tree

// Kind classifies a node for persistence.
type Kind int

const (
	Stateless Kind = iota
	Stateful
)

func (k Kind) String() string {
	if k == Stateful {
		return "stateful"
	}
	return "stateless"
}

// Widget is the behaviour attached to a node.
// ClassTag identifies the concrete type for reconstruction through a registry.
type Widget interface {
	ClassTag() string
}

// StatefulWidget is a Widget whose state must survive across requests.
// StateRecord returns a pointer to the widget's serializable-state record: a
// struct whose exported fields (mapstructure tags) are copied on freeze and
// overwritten on thaw. Nothing outside the record is persisted.
type StatefulWidget interface {
	Widget
	StateRecord() any
}

// AfterAttacher is implemented by widgets that extend the tree when attached.
// AfterAttach runs inside Append, before it returns; nodes it appends to the
// parent become visible to subsequent sibling iteration.
type AfterAttacher interface {
	AfterAttach(t *Tree, self, parent ID) error
}

// KindOf classifies a widget.
func KindOf(w Widget) Kind {
	if _, ok := w.(StatefulWidget); ok {
		return Stateful
	}
	return Stateless
}
