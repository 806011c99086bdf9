package container

import (
	"golang.org/x/exp/slices"

	"cwcgo.dev/cwcgo/internal/bus"
	"cwcgo.dev/cwcgo/internal/geometry"
	"cwcgo.dev/cwcgo/internal/scene"
	"cwcgo.dev/cwcgo/internal/surface"
)

// StateFlag is a bit in Container.State. A container may be floating,
// maximized, fullscreen, minimized and sticky simultaneously; set_floating,
// set_maximized etc. toggle exactly one bit each and never touch the
// others directly (spec.md §4.1 "each property is independent").
type StateFlag uint32

const (
	StateUnmanaged StateFlag = 1 << iota
	StateFloating
	StateMaximized
	StateFullscreen
	StateMinimized
	StateSticky
)

// Container is the unit of tiled placement: spec.md §3's Container, one per
// mapped toplevel group, holding the geometry the layout engine assigns it
// and the floating geometry to restore to when untiled. Grounded on
// original_source/include/cwc/layout/container.h's cwc_container struct.
type Container struct {
	Output    *Output
	Tag       uint32
	Workspace int
	State     StateFlag

	// Geometry is the box the active layout engine (BSP, master or none)
	// last assigned. FloatingBox is the last user-chosen geometry kept
	// around for when the container stops being tiled (spec.md §4.1
	// "set_floating(true) restores the remembered floating geometry").
	Geometry    geometry.Box
	FloatingBox geometry.Box

	Opacity float64
	Border  *geometry.Border

	bspNode BSPNode

	toplevels []*Toplevel
	front     int // index into toplevels of the currently front toplevel

	tree scene.Node

	bus *bus.Bus
}

// New creates an empty container on output, grounded on
// cwc_container_init's allocation contract (spec.md §4.1 init).
func New(b *bus.Bus, output *Output, svc scene.Service, parentTree scene.Node) *Container {
	return Recycle(&Container{}, b, output, svc, parentTree)
}

// Recycle reinitializes c (freshly allocated or borrowed from a pool) as
// an empty container on output, in place. This is what lets
// internal/compositor recycle Container structs through a
// go-commons-pool object pool instead of allocating one per map/unmap
// cycle (SPEC_FULL.md §2's arena-allocation idiom): New is simply Recycle
// applied to a fresh zero value.
func Recycle(c *Container, b *bus.Bus, output *Output, svc scene.Service, parentTree scene.Node) *Container {
	*c = Container{
		Output:    output,
		Tag:       output.State.ActiveTag,
		Workspace: output.State.ActiveWorkspace,
		Opacity:   1,
		bus:       b,
	}
	if svc != nil {
		c.tree = svc.NewTree(parentTree)
	}
	output.State.addContainer(c)
	if b != nil {
		b.Emit(bus.ContainerNew, c)
	}
	return c
}

// NewUnmanaged wraps a FOREIGN override-redirect toplevel in a container
// carrying the UNMANAGED flag (spec.md §3, Scenario F): it bypasses the
// output's container list, focus-stack and tag filtering entirely, so it
// is never added to output.State's lists the way Recycle's containers are.
func NewUnmanaged(b *bus.Bus, output *Output, svc scene.Service, parentTree scene.Node) *Container {
	return RecycleUnmanaged(&Container{}, b, output, svc, parentTree)
}

// RecycleUnmanaged is NewUnmanaged's pool-friendly counterpart, mirroring
// Recycle/New (SPEC_FULL.md §2's arena-allocation idiom).
func RecycleUnmanaged(c *Container, b *bus.Bus, output *Output, svc scene.Service, parentTree scene.Node) *Container {
	*c = Container{
		Output:  output,
		State:   StateUnmanaged,
		Opacity: 1,
		bus:     b,
	}
	if svc != nil {
		c.tree = svc.NewTree(parentTree)
	}
	if b != nil {
		b.Emit(bus.ContainerNew, c)
	}
	return c
}

// SceneTree returns the scene subtree this container's toplevels are
// reparented under.
func (c *Container) SceneTree() scene.Node { return c.tree }

// BSPNode returns the bound BSP leaf, or nil if the container is not
// currently part of a BSP tree.
func (c *Container) BSPNode() BSPNode { return c.bspNode }

// SetBSPNode binds or clears the BSP leaf backing this container. Called
// only by internal/bsp.
func (c *Container) SetBSPNode(n BSPNode) { c.bspNode = n }

// IsFloating, IsMaximized, IsFullscreen, IsMinimized, IsSticky, IsUnmanaged
// test State.
func (c *Container) IsFloating() bool   { return c.State&StateFloating != 0 }
func (c *Container) IsMaximized() bool  { return c.State&StateMaximized != 0 }
func (c *Container) IsFullscreen() bool { return c.State&StateFullscreen != 0 }
func (c *Container) IsMinimized() bool  { return c.State&StateMinimized != 0 }
func (c *Container) IsSticky() bool     { return c.State&StateSticky != 0 }
func (c *Container) IsUnmanaged() bool  { return c.State&StateUnmanaged != 0 }

// disableBSP and enableBSP toggle the bound BSP leaf (if any) in step with
// a state transition that takes the container out of, or back into, plain
// tiled status (spec.md §8 invariant 3: "if a LEAF is disabled, its
// Container is maximized/fullscreen/minimized/floating").
func (c *Container) disableBSP() {
	if c.bspNode != nil {
		c.bspNode.Disable()
	}
}

func (c *Container) enableBSP() {
	if c.bspNode != nil {
		c.bspNode.Enable()
	}
}

// IsTiled reports whether the active layout engine, rather than the user,
// currently owns this container's geometry (spec.md §4.1 "tiled means
// neither floating, maximized nor fullscreen").
func (c *Container) IsTiled() bool {
	return c.State&(StateFloating|StateMaximized|StateFullscreen) == 0
}

// Toplevels returns the stack of toplevels grouped under this container,
// front-most last removed, insertion order otherwise.
func (c *Container) Toplevels() []*Toplevel { return c.toplevels }

// FrontToplevel returns the toplevel currently presented on top, or nil if
// the container is empty (spec.md §4.1 "front toplevel is the one rendered
// and receiving input").
func (c *Container) FrontToplevel() *Toplevel {
	if c.front < 0 || c.front >= len(c.toplevels) {
		return nil
	}
	return c.toplevels[c.front]
}

// InsertToplevel appends t to the container and makes it the front
// toplevel, grounded on cwc_container_insert_toplevel (spec.md §4.1).
func (c *Container) InsertToplevel(t *Toplevel, svc surface.Service) {
	t.container = c
	t.Mapped = true
	c.toplevels = append(c.toplevels, t)
	c.front = len(c.toplevels) - 1
	if !c.IsUnmanaged() {
		c.Output.State.addToplevel(t)
	}
	if svc != nil && c.tree != nil {
		svc.Configure(t.Surface, c.Geometry.X, c.Geometry.Y, c.Geometry.W, c.Geometry.H)
	}
	if c.bus != nil {
		c.bus.Emit(bus.ContainerInsert, ContainerToplevelEvent{Container: c, Toplevel: t})
	}
}

// RemoveToplevel detaches t from the container. If t was the front
// toplevel, the toplevel inserted right after it becomes front, or the one
// before it if t was the last inserted; removing any other toplevel keeps
// the current front. Returns true if the container is now empty.
func (c *Container) RemoveToplevel(t *Toplevel) (empty bool) {
	idx := slices.Index(c.toplevels, t)
	if idx < 0 {
		return len(c.toplevels) == 0
	}
	c.toplevels = slices.Delete(c.toplevels, idx, idx+1)
	t.container = nil
	t.Mapped = false
	if !c.IsUnmanaged() {
		c.Output.State.removeToplevel(t)
	}
	switch {
	case idx < c.front:
		c.front--
	case c.front >= len(c.toplevels):
		c.front = len(c.toplevels) - 1
	}
	if c.bus != nil {
		c.bus.Emit(bus.ContainerRemove, ContainerToplevelEvent{Container: c, Toplevel: t})
	}
	return len(c.toplevels) == 0
}

// FocusIdx cycles the front toplevel by delta positions (wrapping),
// grounded on cwc_container_focusidx (spec.md §4.1 "focusidx(+1) selects
// the next toplevel in insertion order, wrapping").
func (c *Container) FocusIdx(delta int) *Toplevel {
	n := len(c.toplevels)
	if n == 0 {
		return nil
	}
	c.front = ((c.front+delta)%n + n) % n
	return c.toplevels[c.front]
}

// Swap exchanges the tiled geometry and BSP/master slot of c and other,
// without touching either's toplevel stack (spec.md §4.1 swap:
// "only positions exchange, identities do not").
func (c *Container) Swap(other *Container) {
	if c == other || other == nil {
		return
	}
	c.Geometry, other.Geometry = other.Geometry, c.Geometry
	c.bspNode, other.bspNode = other.bspNode, c.bspNode
	if c.bus != nil {
		c.bus.Emit(bus.ContainerSwap, [2]*Container{c, other})
	}
}

// SetFloating toggles StateFloating. Turning it on restores FloatingBox into
// Geometry (when FloatingBox is non-empty); turning it off saves the
// current Geometry into FloatingBox so it can be restored the next time the
// container floats (spec.md §4.1 set_floating). Turning
// it on disables any bound BSP leaf; turning it off re-enables one if the
// container still has one bound. A container that became floating without
// ever having joined the BSP tree (e.g. should-float at map time) has no
// leaf to re-enable here; inserting it into the workspace's tree on clear
// is the caller's job, mirrored on MoveToTag's BSP-migration split (see
// compositor.Server.MoveContainerToTag).
func (c *Container) SetFloating(floating bool) {
	was := c.IsFloating()
	if floating == was {
		return
	}
	if floating {
		c.State |= StateFloating
		if !c.FloatingBox.Empty() {
			c.Geometry = c.FloatingBox
		}
		c.disableBSP()
	} else {
		c.FloatingBox = c.Geometry
		c.State &^= StateFloating
		c.enableBSP()
	}
	if c.bus != nil {
		c.bus.Emit(bus.PropertyFloat, c)
	}
}

// SetMaximized toggles StateMaximized, filling the output's usable area
// while set and restoring FloatingBox (or the last tiled Geometry) when
// cleared (spec.md §4.1 set_maximized).
func (c *Container) SetMaximized(maximized bool) {
	if maximized == c.IsMaximized() {
		return
	}
	if maximized {
		if !c.IsFloating() {
			c.FloatingBox = c.Geometry
		}
		c.State |= StateMaximized
		c.Geometry = c.Output.UsableArea
		c.disableBSP()
	} else {
		c.State &^= StateMaximized
		if !c.FloatingBox.Empty() {
			c.Geometry = c.FloatingBox
		}
		c.enableBSP()
	}
	if c.bus != nil {
		c.bus.Emit(bus.PropertyMax, c)
	}
}

// SetFullscreen toggles StateFullscreen, filling the output's full area
// (border-to-border, ignoring usable-area insets) and disabling the
// border while set (spec.md §4.1 set_fullscreen). svc may be nil in tests
// that do not exercise the border.
func (c *Container) SetFullscreen(fullscreen bool, svc scene.Service) {
	if fullscreen == c.IsFullscreen() {
		return
	}
	if fullscreen {
		if !c.IsFloating() && !c.IsMaximized() {
			c.FloatingBox = c.Geometry
		}
		c.State |= StateFullscreen
		c.Geometry = c.Output.FullArea
		c.disableBSP()
		if c.Border != nil && svc != nil {
			c.Border.SetEnabled(svc, false)
		}
	} else {
		c.State &^= StateFullscreen
		if !c.FloatingBox.Empty() {
			c.Geometry = c.FloatingBox
		}
		c.enableBSP()
		if c.Border != nil && svc != nil {
			c.Border.SetEnabled(svc, true)
		}
	}
	if c.bus != nil {
		c.bus.Emit(bus.PropertyFull, c)
	}
}

// SetMinimized toggles StateMinimized, hiding the container's scene subtree
// and moving it on or off the owning Output's minimized list (spec.md
// §4.1 set_minimized).
func (c *Container) SetMinimized(minimized bool, svc scene.Service) {
	if minimized == c.IsMinimized() {
		return
	}
	if minimized {
		c.State |= StateMinimized
		c.Output.State.addMinimized(c)
		c.disableBSP()
	} else {
		c.State &^= StateMinimized
		c.Output.State.removeMinimized(c)
		c.enableBSP()
		c.Tag = c.Output.State.ActiveTag
		c.Workspace = c.Output.State.ActiveWorkspace
	}
	if svc != nil && c.tree != nil {
		svc.SetEnabled(c.tree, !minimized)
	}
	if c.bus != nil {
		c.bus.Emit(bus.PropertyMin, c)
	}
}

// SetSticky toggles StateSticky: a sticky container is visible regardless
// of which tag bits are currently active (spec.md §4.1 set_sticky).
func (c *Container) SetSticky(sticky bool) {
	if sticky {
		c.State |= StateSticky
	} else {
		c.State &^= StateSticky
	}
}

// SetSize resizes Geometry in place, clamping both dimensions to MinWidth
// (spec.md §4.1 set_size, §8 "width and height never drop below 20").
func (c *Container) SetSize(w, h int) {
	if w < MinWidth {
		w = MinWidth
	}
	if h < MinWidth {
		h = MinWidth
	}
	c.Geometry = c.Geometry.WithSize(w, h)
	if c.IsFloating() {
		c.FloatingBox = c.Geometry
	}
}

// SetPosition moves Geometry's origin (spec.md §4.1 set_position). Only
// meaningful while the container is not tiled; callers are expected to
// check IsTiled first as the layout engine overwrites Geometry on its next
// arrange pass regardless.
func (c *Container) SetPosition(x, y int) {
	c.Geometry = c.Geometry.WithPosition(x, y)
	if c.IsFloating() {
		c.FloatingBox = c.Geometry
	}
}

// Visible reports whether the container should be shown given the
// output's active tag bitfield and active workspace, per spec.md §4.1's
// visibility predicate: sticky, OR the active workspace matches the
// container's own workspace, OR at least one tag bit overlaps; a minimized
// container is never visible regardless.
func (c *Container) Visible() bool {
	if c.IsMinimized() {
		return false
	}
	if c.IsSticky() {
		return true
	}
	if c.Output.State.ActiveWorkspace == c.Workspace {
		return true
	}
	return c.Tag&c.Output.State.ActiveTag != 0
}

// MoveToTag reassigns the container to workspace idx, setting both the tag
// bit and the workspace index together (spec.md §4.1 move_to_tag: "set tag
// = 1<<(idx-1), workspace = idx"). BSP-tree migration — removing c from its
// old workspace's tree and inserting it into the new one if that workspace
// is itself BSP-tiled — is the caller's job, since internal/container
// cannot import internal/bsp (see the BSPNode doc comment); see
// compositor.Server.MoveContainerToTag for that half.
func (c *Container) MoveToTag(idx int) {
	c.Tag = 1 << uint(idx-1)
	c.Workspace = idx
}

// Focus pushes c to the head of its output's focus stack and, if c is
// bound to a BSP leaf, records it as that workspace's last-focused
// container so the next insertion splits this leaf rather than whichever
// one was most recently mapped (spec.md §4.5 "on BSP containers, also
// update BspRootEntry.last_focused").
func (c *Container) Focus() {
	c.Output.State.pushFocus(c)
	if c.bspNode != nil {
		c.Output.State.View(c.Workspace).BSP.LastFocused = c
	}
	if c.bus != nil {
		c.bus.Emit(bus.ClientFocus, c)
	}
}

// Unfocus only emits the unfocus notification; c keeps its place in the
// focus stack until another container is focused ahead of it.
func (c *Container) Unfocus() {
	if c.bus != nil {
		c.bus.Emit(bus.ClientUnfocus, c)
	}
}

// Destroy detaches c from its output and emits container::destroy. Callers
// must have already removed every toplevel.
func (c *Container) Destroy(svc scene.Service) {
	c.Output.State.removeContainer(c)
	c.Output.State.removeFocus(c)
	c.Output.State.removeMinimized(c)
	if svc != nil && c.tree != nil {
		svc.Destroy(c.tree)
	}
	if c.bus != nil {
		c.bus.Emit(bus.ContainerDestroy, c)
	}
}

// ContainerToplevelEvent is the payload for container::insert/remove.
type ContainerToplevelEvent struct {
	Container *Container
	Toplevel  *Toplevel
}

// ShouldFloat reports the should-float heuristic applied to a newly mapped
// toplevel before any user rule runs: a toplevel is floated by default if
// it has a parent (dialog ownership), declares a fixed size, or is a
// FOREIGN modal (spec.md §4.1 "should-float heuristic", grounded on
// original_source/include/cwc/layout/container.h's view_should_float
// declaration and spec.md's prose description of the same check).
// Override-redirect is deliberately NOT one of these triggers: it instead
// selects the UNMANAGED bypass (see IsUnmanagedSurface), a distinct path
// from floating.
func ShouldFloat(s surface.Surface) bool {
	if s.Parent() != nil {
		return true
	}
	if s.Modal() {
		return true
	}
	if s.FixedSize() {
		return true
	}
	return false
}

// IsUnmanagedSurface reports whether s must be wrapped UNMANAGED rather
// than participating in normal container layout: it is FOREIGN and has
// requested override-redirect placement (spec.md §3 "a Toplevel is
// unmanaged iff it is FOREIGN and its surface is marked override-redirect").
func IsUnmanagedSurface(s surface.Surface) bool {
	return s.Variant() == surface.Foreign && s.OverrideRedirect()
}
