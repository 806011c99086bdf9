// Package bsp implements the binary space partitioning layout tree of
// spec.md §4.2: each leaf wraps exactly one Container, each internal node
// carries a split orientation and weight, and an update pass recomputes
// every leaf's Geometry top-down from its root. Grounded on
// original_source/src/layout/bsp.c and
// original_source/include/cwc/layout/bsp.h.
package bsp

import (
	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/geometry"
)

// SplitType selects how an internal node divides its rectangle between its
// two children, mirroring bsp_node.h's BSP_SPLIT_VERTICAL/HORIZONTAL.
type SplitType int

const (
	// SplitVertical divides left/right.
	SplitVertical SplitType = iota
	// SplitHorizontal divides top/bottom.
	SplitHorizontal
)

// NodeType distinguishes an internal split node from a leaf bound to a
// container, per bsp_node.h's bsp_node_type.
type NodeType int

const (
	NodeRoot NodeType = iota
	NodeInternal
	NodeLeaf
)

// Node is one node of a BSP tree. Internal nodes have exactly two children
// (First, Second); leaves have none and instead carry Container. Grounded
// on original_source/include/cwc/layout/bsp.h's bsp_node struct.
type Node struct {
	Type      NodeType
	Parent    *Node
	First     *Node
	Second    *Node
	Split     SplitType
	WeightFact float64 // fraction of the rectangle First receives, (0, 1)

	Box       geometry.Box
	Container *container.Container

	enabled bool
}

// Enable and Disable and Enabled implement container.BSPNode, letting a
// Container hold a weak reference back to the leaf without bsp importing
// itself into container's import graph (see container.BSPNode doc).
// Enable/Disable propagate toward the root, grounded on the BspTree
// contract: "disable(node) walks up while both siblings are disabled;
// enable(node) walks up to root" (spec.md §4.2).
func (n *Node) Enable() {
	if n.enabled {
		return
	}
	n.enabled = true
	for p := n.Parent; p != nil; p = p.Parent {
		if p.enabled {
			break
		}
		p.enabled = true
	}
}

func (n *Node) Disable() {
	if !n.enabled {
		return
	}
	n.enabled = false
	for p := n.Parent; p != nil; p = p.Parent {
		if p.First.enabled || p.Second.enabled {
			break
		}
		p.enabled = false
	}
}

func (n *Node) Enabled() bool { return n.enabled }

// IsLeaf reports whether n wraps a container.
func (n *Node) IsLeaf() bool {
	return n.Type == NodeLeaf || (n.Type == NodeRoot && n.First == nil)
}

// Sibling returns the other child of n's parent, or nil at the root.
func (n *Node) Sibling() *Node {
	if n.Parent == nil {
		return nil
	}
	if n.Parent.First == n {
		return n.Parent.Second
	}
	return n.Parent.First
}

// newLeaf builds a leaf node bound to c, grounded on bsp_node_leaf_create.
func newLeaf(parent *Node, c *container.Container) *Node {
	n := &Node{Type: NodeLeaf, Parent: parent, Container: c, enabled: true}
	c.SetBSPNode(n)
	return n
}

// newInternal builds a two-child split node, grounded on
// bsp_node_internal_create.
func newInternal(parent *Node, split SplitType, weight float64) *Node {
	return &Node{Type: NodeInternal, Parent: parent, Split: split, WeightFact: weight, enabled: true}
}

// Tree is one output-workspace's BSP tree. A nil Root means the workspace
// has no tiled containers.
type Tree struct {
	Root *Node
}

// New returns an empty BSP tree.
func New() *Tree { return &Tree{} }

// InsertContainer places c into the tree, grounded on _bsp_insert_toplevel
// / bsp_insert_container and spec.md §4.2's insertion algorithm: the first
// container becomes the sole leaf at the root; every subsequent container
// splits view.LastFocused's leaf (or, absent one, the tree's right-most
// leaf), choosing VERTICAL when the target's own rectangle is at least as
// wide as tall and HORIZONTAL otherwise (auto-split by aspect, not tree
// depth). view.LastFocused is updated to c on return, matching step 6 of
// the algorithm ("root_entry.last_focused := incoming container").
func (t *Tree) InsertContainer(c *container.Container, view *container.BspRootEntry) *Node {
	if t.Root == nil {
		leaf := newLeaf(nil, c)
		leaf.Type = NodeRoot
		t.Root = leaf
		view.Root = leaf
		view.LastFocused = c
		return leaf
	}
	target := leafOf(view.LastFocused)
	if target == nil {
		target = t.rightmostLeaf(t.Root)
	}
	split := SplitVertical
	if target.Box.H > target.Box.W {
		split = SplitHorizontal
	}
	internal := newInternal(target.Parent, split, 0.5)
	internal.Box = target.Box
	if target.Parent != nil {
		if target.Parent.First == target {
			target.Parent.First = internal
		} else {
			target.Parent.Second = internal
		}
	} else {
		t.Root = internal
		internal.Type = NodeRoot
	}
	target.Parent = internal
	target.Type = NodeLeaf
	internal.First = target
	internal.Second = newLeaf(internal, c)
	view.Root = t.Root
	view.LastFocused = c
	return internal.Second
}

// leafOf returns c's bound leaf, or nil if c is nil or unbound.
func leafOf(c *container.Container) *Node {
	if c == nil {
		return nil
	}
	n, _ := c.BSPNode().(*Node)
	if n == nil || !n.IsLeaf() {
		return nil
	}
	return n
}

// RemoveContainer removes the leaf bound to c, collapsing its parent
// internal node by promoting the sibling into the parent's slot, grounded
// on bsp_remove_container and spec.md §4.2's removal algorithm. If c was
// view.LastFocused, it is reset to the closest leaf of the promoted
// sibling, per step 1 of that algorithm.
func (t *Tree) RemoveContainer(c *container.Container, view *container.BspRootEntry) {
	leaf, _ := c.BSPNode().(*Node)
	if leaf == nil {
		return
	}
	c.SetBSPNode(nil)
	parent := leaf.Parent
	if parent == nil {
		t.Root = nil
		view.Root = nil
		view.LastFocused = nil
		return
	}
	sibling := leaf.Sibling()
	if view.LastFocused == c {
		view.LastFocused = t.rightmostLeaf(sibling).Container
	}
	sibling.Parent = parent.Parent
	if parent.Parent == nil {
		t.Root = sibling
		sibling.Type = NodeRoot
	} else if parent.Parent.First == parent {
		parent.Parent.First = sibling
	} else {
		parent.Parent.Second = sibling
	}
	view.Root = t.Root
}

// ToggleSplit flips a leaf's parent split orientation in place without
// otherwise reordering the tree, grounded on bsp_toggle_split. Toggling
// the root leaf (no parent) is a no-op: there is nothing to reorient yet.
func (t *Tree) ToggleSplit(leaf *Node) {
	if leaf == nil || leaf.Parent == nil {
		return
	}
	if leaf.Parent.Split == SplitVertical {
		leaf.Parent.Split = SplitHorizontal
	} else {
		leaf.Parent.Split = SplitVertical
	}
}

// UpdateRoot recomputes every leaf's Geometry from scratch given the
// rectangle available for tiling, grounded on bsp_update_root.
func (t *Tree) UpdateRoot(area geometry.Box, gap int) {
	if t.Root == nil {
		return
	}
	t.updateNode(t.Root, area.Inset(gap), gap)
}

// updateNode recursively assigns Box to n and its descendants, splitting
// the rectangle at each internal node per its Split/WeightFact, grounded
// on bsp_update_node. A disabled child (its container maximized, fullscreen,
// minimized or floating, per container.Container.disableBSP) is skipped
// entirely and its sibling absorbs the full rectangle, per spec.md §4.2's
// update contract ("if R is disabled, L absorbs the full rectangle").
func (t *Tree) updateNode(n *Node, box geometry.Box, gap int) {
	n.Box = box
	if n.IsLeaf() {
		if n.Container != nil && n.enabled {
			n.Container.SetSize(box.W, box.H)
			n.Container.SetPosition(box.X, box.Y)
		}
		return
	}
	if !n.First.enabled && !n.Second.enabled {
		return
	}
	if !n.Second.enabled {
		t.updateNode(n.First, box, gap)
		return
	}
	if !n.First.enabled {
		t.updateNode(n.Second, box, gap)
		return
	}
	var a, b geometry.Box
	if n.Split == SplitVertical {
		a, b = box.SplitVertical(n.WeightFact)
	} else {
		a, b = box.SplitHorizontal(n.WeightFact)
	}
	t.updateNode(n.First, a.Inset(gap/2), gap)
	t.updateNode(n.Second, b.Inset(gap/2), gap)
}

// Leaves returns every leaf in the tree, left-to-right depth-first order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			out = append(out, n)
			return
		}
		walk(n.First)
		walk(n.Second)
	}
	walk(t.Root)
	return out
}

func (t *Tree) rightmostLeaf(n *Node) *Node {
	for !n.IsLeaf() {
		n = n.Second
	}
	return n
}
