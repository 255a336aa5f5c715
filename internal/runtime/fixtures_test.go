package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/frost/internal/runtime"
	"github.com/aretw0/frost/pkg/registry"
	"github.com/aretw0/frost/pkg/tree"
	"github.com/stretchr/testify/require"
)

type mouseState struct {
	StartState string `mapstructure:"start_state"`
	Who        string `mapstructure:"who"`
	What       string `mapstructure:"what"`
	Squeaks    int    `mapstructure:"squeaks"`
}

// mouse is a stateful widget; the class tag is carried per instance so one
// Go type can stand in for several registered classes.
type mouse struct {
	tag   string
	State mouseState
}

func (m *mouse) ClassTag() string  { return m.tag }
func (m *mouse) StateRecord() any { return &m.State }

type cell struct{}

func (cell) ClassTag() string { return "Cell" }

func newRegistry(tags ...string) *registry.Registry {
	r := registry.NewRegistry()
	for _, tag := range tags {
		r.Register(tag, func(context.Context, string) (tree.Widget, error) {
			return &mouse{tag: tag}, nil
		})
	}
	r.Register("Cell", func(context.Context, string) (tree.Widget, error) {
		return cell{}, nil
	})
	return r
}

func newEngine(opts ...runtime.EngineOption) *runtime.Engine {
	return runtime.NewEngine(newRegistry("Mum", "Kid", "Jerry", "Pet"), opts...)
}

type fixture struct {
	tr  *tree.Tree
	ids map[string]tree.ID
}

func (f *fixture) add(t *testing.T, parent, name string, w tree.Widget) {
	t.Helper()
	id, err := f.tr.AppendNew(f.ids[parent], name, w)
	require.NoError(t, err)
	f.ids[name] = id
}

func (f *fixture) mouse(name string) *mouse {
	return f.tr.Widget(f.ids[name]).(*mouse)
}

// exampleA builds:
//
//	root -> mum(Mum) -> kid(Kid)
//	root -> berry -> jerry(Jerry)
//	root -> tom
func exampleA(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{tr: tree.New(), ids: map[string]tree.ID{}}
	f.ids["root"] = f.tr.NewNode("root", cell{})
	f.add(t, "root", "mum", &mouse{tag: "Mum", State: mouseState{StartState: "answer_squeak", Squeaks: 3}})
	f.add(t, "mum", "kid", &mouse{tag: "Kid", State: mouseState{StartState: "peek", Who: "the cat", What: "run away"}})
	f.add(t, "root", "berry", cell{})
	f.add(t, "berry", "jerry", &mouse{tag: "Jerry", State: mouseState{StartState: "eat"}})
	f.add(t, "root", "tom", cell{})
	return f
}

// skeleton builds the next request's tree: root -> berry.
func skeleton(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{tr: tree.New(), ids: map[string]tree.ID{}}
	f.ids["root"] = f.tr.NewNode("root", cell{})
	f.add(t, "root", "berry", cell{})
	return f
}

// shape is a comparable rendering of a subtree.
type shape struct {
	Tag      string
	Name     string
	State    mouseState
	Children []shape
}

func describe(tr *tree.Tree, id tree.ID) shape {
	s := shape{Tag: tr.ClassTag(id), Name: tr.Name(id)}
	if m, ok := tr.Widget(id).(*mouse); ok {
		s.State = m.State
	}
	for _, c := range tr.Children(id) {
		s.Children = append(s.Children, describe(tr, c))
	}
	return s
}

func names(tr *tree.Tree, ids []tree.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, tr.Name(id))
	}
	return out
}
