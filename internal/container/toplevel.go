package container

import (
	"cwcgo.dev/cwcgo/internal/scene"
	"cwcgo.dev/cwcgo/internal/surface"
)

// Toplevel wraps a single client surface inside a Container. A container
// groups one or more toplevels (e.g. a main window and its dialogs sharing
// tiled geometry); spec.md §3 Toplevel, grounded on
// original_source/include/cwc/layout/container.h's wl_list toplevels
// membership.
type Toplevel struct {
	Surface surface.Surface
	Variant surface.Variant

	// Parent is the toplevel this one is a dialog/transient for, or nil
	// for a top-level window (spec.md §3 "the parent of a Toplevel is
	// another Toplevel or none").
	Parent *Toplevel

	// Mapped tracks whether the surface is currently mapped; InsertToplevel/
	// RemoveToplevel keep it in sync with container membership.
	Mapped bool

	// Decoration is an optional server-side decoration subtree (titlebar,
	// resize handles) the Scene Service renders alongside the surface's
	// own content; nil when the client draws its own decorations.
	Decoration scene.Node

	container *Container
}

// NewToplevel wraps s, unattached to any container until InsertToplevel is
// called.
func NewToplevel(s surface.Surface) *Toplevel {
	return &Toplevel{Surface: s, Variant: s.Variant()}
}

// Container returns the owning container, or nil if not yet inserted.
func (t *Toplevel) Container() *Container { return t.container }

// IsFront reports whether t is the front-most toplevel of its container.
func (t *Toplevel) IsFront() bool {
	if t.container == nil {
		return false
	}
	return t.container.FrontToplevel() == t
}
