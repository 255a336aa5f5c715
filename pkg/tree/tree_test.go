package tree_test

import (
	"errors"
	"testing"

	"github.com/aretw0/frost/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plain struct{}

func (plain) ClassTag() string { return "plain" }

type mouse struct {
	State struct {
		Mood string `mapstructure:"mood"`
	}
}

func (*mouse) ClassTag() string  { return "mouse" }
func (m *mouse) StateRecord() any { return &m.State }

// litter appends a sibling "kid" next to itself when attached.
type litter struct{}

func (litter) ClassTag() string { return "litter" }

func (litter) AfterAttach(t *tree.Tree, self, parent tree.ID) error {
	_, err := t.AppendNew(parent, "kid", &mouse{})
	return err
}

// sulky refuses to be attached after first appending a sibling "kid".
type sulky struct{}

func (sulky) ClassTag() string { return "sulky" }

func (sulky) AfterAttach(t *tree.Tree, self, parent tree.ID) error {
	if _, err := t.AppendNew(parent, "kid", &mouse{}); err != nil {
		return err
	}
	return errors.New("refused")
}

func family(t *testing.T) (*tree.Tree, map[string]tree.ID) {
	t.Helper()
	tr := tree.New()
	ids := map[string]tree.ID{}
	ids["mum"] = tr.NewNode("mum", &mouse{})
	var err error
	ids["kid"], err = tr.AppendNew(ids["mum"], "kid", &mouse{})
	require.NoError(t, err)
	ids["jerry"], err = tr.AppendNew(ids["mum"], "jerry", plain{})
	require.NoError(t, err)
	ids["berry"], err = tr.AppendNew(ids["mum"], "berry", plain{})
	require.NoError(t, err)
	return tr, ids
}

func TestTree_AppendSetsParent(t *testing.T) {
	tr, ids := family(t)

	assert.Equal(t, tree.None, tr.Parent(ids["mum"]))
	assert.Equal(t, ids["mum"], tr.Parent(ids["kid"]))
	assert.Equal(t, []tree.ID{ids["kid"], ids["jerry"], ids["berry"]}, tr.Children(ids["mum"]))
}

func TestTree_AppendRejectsDuplicateSibling(t *testing.T) {
	tr, ids := family(t)

	_, err := tr.AppendNew(ids["mum"], "kid", plain{})
	assert.ErrorIs(t, err, tree.ErrDuplicateName)

	// Same name under a different parent is fine.
	_, err = tr.AppendNew(ids["kid"], "kid", plain{})
	assert.NoError(t, err)
}

func TestTree_AppendRejectsReattachAndCycles(t *testing.T) {
	tr, ids := family(t)

	assert.ErrorIs(t, tr.Append(ids["berry"], ids["kid"]), tree.ErrAttached)
	assert.ErrorIs(t, tr.Append(ids["kid"], ids["mum"]), tree.ErrCycle)
	assert.ErrorIs(t, tr.Append(ids["mum"], tree.ID(99)), tree.ErrNotFound)
}

func TestTree_AfterAttachRunsBeforeAppendReturns(t *testing.T) {
	tr := tree.New()
	root := tr.NewNode("root", plain{})

	_, err := tr.AppendNew(root, "mum", litter{})
	require.NoError(t, err)

	var names []string
	for _, c := range tr.Children(root) {
		names = append(names, tr.Name(c))
	}
	assert.Equal(t, []string{"mum", "kid"}, names)
}

func TestTree_VisibleChildren(t *testing.T) {
	tr, ids := family(t)

	assert.True(t, tr.Visible(ids["berry"]))
	assert.Equal(t, []tree.ID{ids["kid"], ids["jerry"], ids["berry"]}, tr.VisibleChildren(ids["mum"]))
	assert.Empty(t, tr.VisibleChildren(ids["jerry"]))

	tr.SetVisible(ids["berry"], false)
	assert.Equal(t, []tree.ID{ids["kid"], ids["jerry"]}, tr.VisibleChildren(ids["mum"]))
}

func TestTree_Find(t *testing.T) {
	tr, ids := family(t)

	got, ok := tr.Find(ids["mum"], "kid")
	assert.True(t, ok)
	assert.Equal(t, ids["kid"], got)

	got, ok = tr.Find(ids["mum"], "mum")
	assert.True(t, ok)
	assert.Equal(t, ids["mum"], got)

	_, ok = tr.Find(ids["mum"], "pet")
	assert.False(t, ok)
}

func TestTree_FindReturnsFirstDepthFirst(t *testing.T) {
	tr, ids := family(t)
	deep, err := tr.AppendNew(ids["kid"], "berry", plain{})
	require.NoError(t, err)

	got, ok := tr.Find(ids["mum"], "berry")
	assert.True(t, ok)
	assert.Equal(t, deep, got)
}

func TestTree_Size(t *testing.T) {
	tr, ids := family(t)
	assert.Equal(t, 4, tr.Size(ids["mum"]))
	assert.Equal(t, 1, tr.Size(ids["kid"]))
}

func TestTree_PathFollowsRenames(t *testing.T) {
	tr, ids := family(t)
	pet, err := tr.AppendNew(ids["kid"], "pet", &mouse{})
	require.NoError(t, err)

	p, err := tr.Path(ids["mum"], pet, "/")
	require.NoError(t, err)
	assert.Equal(t, "mum/kid/pet", p)

	require.NoError(t, tr.SetName(ids["kid"], "paranoid kid"))
	p, err = tr.Path(ids["mum"], pet, "/")
	require.NoError(t, err)
	assert.Equal(t, "mum/paranoid kid/pet", p)

	p, err = tr.Path(ids["kid"], pet, "/")
	require.NoError(t, err)
	assert.Equal(t, "paranoid kid/pet", p)

	_, err = tr.Path(ids["kid"], ids["berry"], "/")
	assert.ErrorIs(t, err, tree.ErrNotFound)
}

func TestTree_SetNameKeepsSiblingsUnique(t *testing.T) {
	tr, ids := family(t)

	assert.ErrorIs(t, tr.SetName(ids["kid"], "berry"), tree.ErrDuplicateName)
	assert.ErrorIs(t, tr.SetName(ids["kid"], ""), tree.ErrEmptyName)
	assert.NoError(t, tr.SetName(ids["kid"], "kid"))
	assert.NoError(t, tr.SetName(ids["mum"], "berry"))
}

func TestTree_Kind(t *testing.T) {
	tr, ids := family(t)

	assert.Equal(t, tree.Stateful, tr.Kind(ids["mum"]))
	assert.Equal(t, tree.Stateless, tr.Kind(ids["jerry"]))
	assert.Equal(t, "mouse", tr.ClassTag(ids["kid"]))
	assert.Equal(t, "stateful", tree.Stateful.String())
}

func TestTree_Detach(t *testing.T) {
	tr, ids := family(t)

	require.NoError(t, tr.Detach(ids["jerry"]))
	assert.Equal(t, []tree.ID{ids["kid"], ids["berry"]}, tr.Children(ids["mum"]))
	assert.Equal(t, tree.None, tr.Parent(ids["jerry"]))

	// Detached nodes can be attached again.
	assert.NoError(t, tr.Append(ids["kid"], ids["jerry"]))
	assert.NoError(t, tr.Detach(ids["mum"]))
}

func TestTree_AfterAttachFailureDetachesChild(t *testing.T) {
	tr := tree.New()
	root := tr.NewNode("root", plain{})
	mum := tr.NewNode("mum", sulky{})

	err := tr.Append(root, mum)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
	assert.Equal(t, tree.None, tr.Parent(mum))

	// The sibling the hook added is not undone by Append itself.
	kid, ok := tr.Child(root, "kid")
	require.True(t, ok)
	assert.Equal(t, []tree.ID{kid}, tr.Children(root))
}

func TestTree_RollbackUndoesEverythingSinceMark(t *testing.T) {
	tr, ids := family(t)
	mark := tr.Mark()

	require.NoError(t, tr.SetName(ids["kid"], "paranoid kid"))
	tr.SetVisible(ids["berry"], false)
	require.NoError(t, tr.Detach(ids["jerry"]))
	pet, err := tr.AppendNew(ids["kid"], "pet", &mouse{})
	require.NoError(t, err)
	_ = tr.Append(ids["mum"], tr.NewNode("tom", sulky{}))

	tr.Rollback(mark)

	assert.Equal(t, "kid", tr.Name(ids["kid"]))
	assert.True(t, tr.Visible(ids["berry"]))
	assert.Equal(t, []tree.ID{ids["kid"], ids["jerry"], ids["berry"]}, tr.Children(ids["mum"]))
	assert.Empty(t, tr.Children(ids["kid"]))
	assert.False(t, tr.Has(pet))
	assert.Equal(t, 4, tr.Size(ids["mum"]))

	// A mark can be rolled back to more than once.
	require.NoError(t, tr.Detach(ids["kid"]))
	tr.Rollback(mark)
	assert.Equal(t, ids["mum"], tr.Parent(ids["kid"]))
}
