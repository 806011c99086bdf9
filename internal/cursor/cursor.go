// Package cursor implements the interactive pointer state machine of
// spec.md §4.4: NORMAL/MOVE/RESIZE modes, resize-edge-from-click, and
// throttled resize scheduling so a fast-moving pointer does not flood the
// Surface Service with a configure per motion event. Grounded on
// original_source/include/cwc/input/cursor.h's cwc_cursor struct and the
// pointer/motion dispatch idiom of gioui's
// app/internal/window/os_wayland.go (TEACHER.txt).
package cursor

import (
	"time"

	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/geometry"
	"cwcgo.dev/cwcgo/internal/seat"
)

// Mode is the cursor's current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove
	ModeResize
)

// ResizeEdge is a bitmask of which edges an interactive resize affects,
// chosen from the click position inside the container at grab time.
type ResizeEdge int

const (
	EdgeTop ResizeEdge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// Interactive is the compositor's single pointer/cursor state machine,
// grounded on cwc_cursor's move/resize fields (state, grabbed view,
// grab_x/y, grab_box, resize_edges).
type Interactive struct {
	Mode Mode

	Position geometry.Point

	grabbed   *container.Container
	grabStart geometry.Point
	grabBox   geometry.Box
	edges     ResizeEdge

	// resize scheduling throttle: a resize is applied at most once per
	// refresh interval, grounded on cwc_cursor's schedule_resize/
	// resize_wait_ms fields (spec.md §4.4 "throttled to the output's
	// refresh interval").
	refreshInterval time.Duration
	lastResizeAt    time.Time
	pendingResize   *geometry.Box
}

// New returns a cursor in NORMAL mode. refreshInterval is the owning
// output's monitor refresh interval, used to throttle resize scheduling.
func New(refreshInterval time.Duration) *Interactive {
	return &Interactive{refreshInterval: refreshInterval}
}

// interactiveAllowed reports whether c may enter MOVE or RESIZE mode: it
// must be floating and neither maximized, fullscreen nor unmanaged (spec.md
// §4.4 "NORMAL transitions to MOVE/RESIZE only if the target is floating,
// not maximized/fullscreen/unmanaged"). A tiled container's geometry is
// owned by the active layout engine, so grabbing it here would fight the
// next arrange pass.
func interactiveAllowed(c *container.Container) bool {
	return c.IsFloating() && !c.IsMaximized() && !c.IsFullscreen() && !c.IsUnmanaged()
}

// BeginMove enters MOVE mode, grabbing c at the pointer's current
// position (spec.md §4.4 "begin_move records the grab offset within the
// container"). Returns false without changing Mode if c does not satisfy
// the interactive-allowed precondition.
func (i *Interactive) BeginMove(c *container.Container) bool {
	if !interactiveAllowed(c) {
		return false
	}
	i.Mode = ModeMove
	i.grabbed = c
	i.grabStart = i.Position
	i.grabBox = c.Geometry
	return true
}

// BeginResize enters RESIZE mode, deriving the affected edges from where
// inside c's geometry the pointer currently sits, grounded on cwc_cursor's
// resize-edge-from-click heuristic: a click in an outer third of the
// container's width/height selects that side; a click in the middle third
// of an axis selects no edge on that axis, and a click in the middle third
// of both axes selects the bottom-right pair. Returns false without changing
// Mode if c does not satisfy the interactive-allowed precondition.
func (i *Interactive) BeginResize(c *container.Container) bool {
	if !interactiveAllowed(c) {
		return false
	}
	i.Mode = ModeResize
	i.grabbed = c
	i.grabStart = i.Position
	i.grabBox = c.Geometry
	i.edges = edgesFromClick(i.Position, c.Geometry)
	return true
}

// edgesFromClick maps a click position within box to the edge pair it
// selects. A click exactly on the centre third on both axes has no edge
// preference and defaults toward bottom-right (spec.md §4.4 "the four
// corner quadrants map to the edge pair toward the cursor; tie at centre
// defaults toward bottom-right").
func edgesFromClick(p geometry.Point, box geometry.Box) ResizeEdge {
	fx, fy := p.Normalized(box)
	var e ResizeEdge
	switch {
	case fx < 1.0/3:
		e |= EdgeLeft
	case fx > 2.0/3:
		e |= EdgeRight
	}
	switch {
	case fy < 1.0/3:
		e |= EdgeTop
	case fy > 2.0/3:
		e |= EdgeBottom
	}
	if e == 0 {
		e = EdgeBottom | EdgeRight
	}
	return e
}

// End returns the cursor to NORMAL mode, releasing whatever was grabbed
// and applying any pending throttled resize immediately (spec.md §4.4
// "releasing the grab always flushes a pending resize").
func (i *Interactive) End() {
	i.flushPendingResize()
	i.Mode = ModeNormal
	i.grabbed = nil
	i.pendingResize = nil
}

// Grabbed returns the container currently being moved or resized, or nil.
func (i *Interactive) Grabbed() *container.Container { return i.grabbed }

// Motion updates the pointer position and, depending on Mode, moves or
// schedules a resize of the grabbed container (spec.md §4.4).
func (i *Interactive) Motion(p geometry.Point, now time.Time) {
	i.Position = p
	switch i.Mode {
	case ModeMove:
		i.applyMove()
	case ModeResize:
		i.scheduleResize(now)
	}
}

func (i *Interactive) applyMove() {
	if i.grabbed == nil {
		return
	}
	dx := int(i.Position.X - i.grabStart.X)
	dy := int(i.Position.Y - i.grabStart.Y)
	i.grabbed.SetPosition(i.grabBox.X+dx, i.grabBox.Y+dy)
}

// scheduleResize computes the candidate geometry for the current pointer
// position and either applies it immediately (if refreshInterval has
// elapsed since the last applied resize) or stashes it as pending,
// grounded on cwc_cursor's schedule_resize throttle.
func (i *Interactive) scheduleResize(now time.Time) {
	if i.grabbed == nil {
		return
	}
	box := i.computeResizeBox()
	if i.refreshInterval <= 0 || now.Sub(i.lastResizeAt) >= i.refreshInterval {
		i.grabbed.SetSize(box.W, box.H)
		if i.edges&(EdgeLeft|EdgeTop) != 0 {
			i.grabbed.SetPosition(box.X, box.Y)
		}
		i.lastResizeAt = now
		i.pendingResize = nil
		return
	}
	b := box
	i.pendingResize = &b
}

func (i *Interactive) computeResizeBox() geometry.Box {
	dx := int(i.Position.X - i.grabStart.X)
	dy := int(i.Position.Y - i.grabStart.Y)
	box := i.grabBox
	if i.edges&EdgeRight != 0 {
		box.W = i.grabBox.W + dx
	}
	if i.edges&EdgeBottom != 0 {
		box.H = i.grabBox.H + dy
	}
	if i.edges&EdgeLeft != 0 {
		box.X = i.grabBox.X + dx
		box.W = i.grabBox.W - dx
	}
	if i.edges&EdgeTop != 0 {
		box.Y = i.grabBox.Y + dy
		box.H = i.grabBox.H - dy
	}
	if box.W < container.MinWidth {
		box.W = container.MinWidth
	}
	if box.H < container.MinWidth {
		box.H = container.MinWidth
	}
	return box
}

func (i *Interactive) flushPendingResize() {
	if i.pendingResize == nil || i.grabbed == nil {
		return
	}
	box := *i.pendingResize
	i.grabbed.SetSize(box.W, box.H)
	if i.edges&(EdgeLeft|EdgeTop) != 0 {
		i.grabbed.SetPosition(box.X, box.Y)
	}
	i.pendingResize = nil
}

// HandlePointerEvent folds a raw seat.PointerEvent into Motion and
// mode-transition calls. Button release in MOVE/RESIZE mode ends the
// interaction (spec.md §4.4 "releasing the held button always returns to
// NORMAL").
func (i *Interactive) HandlePointerEvent(ev seat.PointerEvent, now time.Time) {
	switch ev.Type {
	case seat.PointerMotion:
		i.Motion(i.Position.Add(geometry.Point{X: ev.Dx, Y: ev.Dy}), now)
	case seat.PointerMotionAbsolute:
		i.Motion(geometry.Point{X: ev.X, Y: ev.Y}, now)
	case seat.PointerButton:
		if ev.ButtonState == seat.KeyReleased && i.Mode != ModeNormal {
			i.End()
		}
	}
}
