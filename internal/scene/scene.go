// Package scene declares the boundary to the Scene Service (spec.md §6): a
// z-ordered tree of nodes with position/size/enable/reparent primitives
// that the Scene Service (display-server-library-backed, out of scope per
// spec.md §1) implements and the core only ever calls through.
package scene

import "image"

// Node is an opaque handle to a scene-tree node. Concrete implementations
// (a real compositor's wlr_scene_node wrapper) carry no exported fields;
// core code never dereferences one, only passes it back to a Service.
type Node interface {
	// isNode is unexported so only this package's implementations (and
	// test doubles that embed Base) satisfy the interface, preventing core
	// packages from fabricating nodes.
	isNode()
}

// Base is embedded by Service implementations' node types to satisfy Node.
type Base struct{}

func (Base) isNode() {}

// Service is the subset of Scene Service operations the core consumes.
// Opacity composes multiplicatively along the ancestor chain (spec.md §6).
// The test doubles in this repository ignore opacity.
type Service interface {
	// NewTree creates a child tree node under parent (nil for a root tree).
	NewTree(parent Node) Node
	// NewBufferNode creates a node displaying a pixel buffer under parent.
	NewBufferNode(parent Node, pixels *image.NRGBA) Node
	// UpdateBuffer replaces a buffer node's pixel contents.
	UpdateBuffer(n Node, pixels *image.NRGBA)
	// SetPosition moves n to (x, y) in its parent's coordinate space.
	SetPosition(n Node, x, y int)
	// SetEnabled shows or hides n and its subtree.
	SetEnabled(n Node, enabled bool)
	// SetOpacity sets n's own opacity contribution, composed multiplicatively
	// with its ancestors and any surface-level alpha.
	SetOpacity(n Node, opacity float64)
	// Reparent moves n (with its subtree) under a new parent, preserving
	// z-order position within the new parent unless raised/lowered.
	Reparent(n Node, parent Node)
	// RaiseToTop moves n to the top of its parent's z-order.
	RaiseToTop(n Node)
	// LowerToBottom moves n to the bottom of its parent's z-order.
	LowerToBottom(n Node)
	// Destroy removes n and its subtree.
	Destroy(n Node)
	// HitTest returns the topmost node at (lx, ly) and its local offset
	// within that node, or ok=false if nothing is hit.
	HitTest(lx, ly float64) (n Node, sx, sy float64, ok bool)
}
