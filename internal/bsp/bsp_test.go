package bsp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cwcgo.dev/cwcgo/internal/bsp"
	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/geometry"
)

func newOutput() *container.Output {
	return &container.Output{
		Name:       "test",
		UsableArea: geometry.Box{X: 0, Y: 0, W: 1000, H: 1000},
		FullArea:   geometry.Box{X: 0, Y: 0, W: 1000, H: 1000},
		State:      container.NewOutputState(),
	}
}

func TestInsertSingleContainerBecomesRoot(t *testing.T) {
	out := newOutput()
	c := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}

	leaf := tree.InsertContainer(c, view)
	require.True(t, leaf.IsLeaf())
	require.Equal(t, c, leaf.Container)
	require.Same(t, leaf, tree.Root)
	require.Equal(t, c, view.LastFocused)
}

func TestInsertSecondContainerSplitsLeaf(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	b := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}

	leafA := tree.InsertContainer(a, view)
	leafB := tree.InsertContainer(b, view)

	require.False(t, tree.Root.IsLeaf())
	require.Len(t, tree.Leaves(), 2)
	require.Same(t, leafA.Parent, leafB.Parent)
	require.Equal(t, bsp.SplitVertical, leafA.Parent.Split)
	require.Equal(t, b, view.LastFocused)
}

func TestInsertSplitDirectionFollowsTargetAspect(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	b := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}

	leafA := tree.InsertContainer(a, view)
	leafA.Box = geometry.Box{X: 0, Y: 0, W: 1080, H: 1920}
	leafB := tree.InsertContainer(b, view)

	require.Equal(t, bsp.SplitHorizontal, leafB.Parent.Split)
}

func TestInsertSplitsLastFocusedLeafNotMostRecent(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	b := container.New(nil, out, nil, nil)
	c := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}

	leafA := tree.InsertContainer(a, view)
	tree.InsertContainer(b, view)
	view.LastFocused = a

	leafC := tree.InsertContainer(c, view)

	require.Same(t, leafA.Parent, leafC.Parent)
}

func TestUpdateRootAssignsNonOverlappingGeometry(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	b := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}
	tree.InsertContainer(a, view)
	tree.InsertContainer(b, view)

	tree.UpdateRoot(geometry.Box{X: 0, Y: 0, W: 1000, H: 800}, 0)

	require.Equal(t, 1000, a.Geometry.W+b.Geometry.W)
	require.Equal(t, 0, a.Geometry.X)
	require.Equal(t, a.Geometry.W, b.Geometry.X)
}

func TestUpdateRootSkipsDisabledSiblingAndAbsorbsRectangle(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	b := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}
	tree.InsertContainer(a, view)
	tree.InsertContainer(b, view)

	b.SetFloating(true)

	tree.UpdateRoot(geometry.Box{X: 0, Y: 0, W: 1000, H: 800}, 0)

	require.Equal(t, 1000, a.Geometry.W)
}

func TestRemoveContainerCollapsesSibling(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	b := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}
	tree.InsertContainer(a, view)
	tree.InsertContainer(b, view)

	tree.RemoveContainer(a, view)

	require.Len(t, tree.Leaves(), 1)
	require.Same(t, tree.Root, tree.Leaves()[0])
	require.Equal(t, b, tree.Root.Container)
	require.Nil(t, a.BSPNode())
}

func TestRemoveResetsLastFocusedToSiblingLeaf(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	b := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}
	tree.InsertContainer(a, view)
	tree.InsertContainer(b, view)
	view.LastFocused = b

	tree.RemoveContainer(b, view)

	require.Equal(t, a, view.LastFocused)
}

func TestRemoveLastContainerEmptiesTree(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}
	tree.InsertContainer(a, view)

	tree.RemoveContainer(a, view)
	require.Nil(t, tree.Root)
	require.Nil(t, view.LastFocused)
}

func TestToggleSplitFlipsOrientation(t *testing.T) {
	out := newOutput()
	a := container.New(nil, out, nil, nil)
	b := container.New(nil, out, nil, nil)
	tree := bsp.New()
	view := &container.BspRootEntry{}
	tree.InsertContainer(a, view)
	leafB := tree.InsertContainer(b, view)

	orig := leafB.Parent.Split
	tree.ToggleSplit(leafB)
	require.NotEqual(t, orig, leafB.Parent.Split)
}
