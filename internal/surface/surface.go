// Package surface declares the boundary to the Surface Service (spec.md
// §6): the two client-surface protocol variants (NATIVE, FOREIGN) the core
// maps into Toplevels.
package surface

import "cwcgo.dev/cwcgo/internal/scene"

// Variant distinguishes the compositor's native shell protocol from the
// compatibility/legacy shell protocol, per spec.md §3 Toplevel.
type Variant int

const (
	// Native is the compositor's own native surface protocol.
	Native Variant = iota
	// Foreign is the compatibility-shell protocol variant.
	Foreign
)

// Surface is an opaque handle to one client surface.
type Surface interface {
	Variant() Variant
	// OverrideRedirect reports whether a FOREIGN surface requested to
	// bypass window management entirely (spec.md §3 "unmanaged").
	OverrideRedirect() bool
	// Modal reports whether a FOREIGN surface advertises itself as modal,
	// one input to the "should-float" heuristic (spec.md §4.1).
	Modal() bool
	// FixedSize reports whether the surface declares identical min/max
	// width or min/max height (a fixed-size dialog), the other input to
	// the "should-float" heuristic.
	FixedSize() bool
	// Geometry returns the surface's currently committed content size.
	Geometry() (w, h int)
	// Parent returns the surface this one is a dialog/transient for, or
	// nil for a top-level window. A non-nil parent is itself a
	// should-float trigger (spec.md §3 "the parent of a Toplevel is
	// another Toplevel or none"; §4.1 "float iff the toplevel has a
	// parent...").
	Parent() Surface
	// RequestedPosition returns the client-requested origin. Honored
	// as-is for UNMANAGED (override-redirect) surfaces, which are
	// positioned outside the layout engine entirely (spec.md Scenario F).
	RequestedPosition() (x, y int)
}

// Service is the subset of Surface Service operations the core calls.
// Lifecycle signals (new_toplevel, map, unmap, destroy, request_*) are
// delivered to the core via the Event Bus (spec.md §6); this interface only
// covers the calls the core makes back into the Surface Service.
type Service interface {
	// Configure mirrors a toplevel's position/size into the surface's own
	// coordinate space. The core calls it when a toplevel is inserted into a
	// container and when an UNMANAGED surface is mapped; later placement
	// changes (layout arrange, move, resize) do not call it.
	Configure(s Surface, x, y, w, h int)
	// SetActivated toggles a surface's activated (focused) decoration state.
	SetActivated(s Surface, activated bool)
	// SceneSubtree returns the scene node tree backing s's content, for
	// reparenting under a Container (spec.md §4.1 insert_toplevel).
	SceneSubtree(s Surface) scene.Node
	// RequestClose asks the client to close the surface.
	RequestClose(s Surface)
}
