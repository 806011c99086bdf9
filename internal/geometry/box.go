// Package geometry implements the box math shared by every placement
// component (Container, BspNode, MasterEngine) and the 4-strip decorative
// border attached to a container's scene subtree.
//
// Box mirrors f32.Rectangle's role in gioui.org/f32 (see TEACHER.txt) but
// works in integer device pixels and is expressed as (X, Y, W, H) rather
// than (Min, Max) corners, matching the wlr_box convention the original
// cwcwm sources (original_source/include/cwc/layout/container.h) use
// throughout the layout code this package stands in for.
package geometry

// Box is an axis-aligned rectangle in layout coordinates.
type Box struct {
	X, Y, W, H int
}

// Point is a two-dimensional point in layout coordinates, used for cursor
// positions which arrive from the Seat Service as sub-pixel doubles.
type Point struct {
	X, Y float64
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// In reports whether p lies within b.
func (p Point) In(b Box) bool {
	return p.X >= float64(b.X) && p.X < float64(b.X+b.W) &&
		p.Y >= float64(b.Y) && p.Y < float64(b.Y+b.H)
}

// Normalized returns p expressed as a fraction of b's width/height, with
// (0,0) at b's top-left corner. Used by Interactive's resize-edge-from-click
// heuristic (spec.md §4.4).
func (p Point) Normalized(b Box) (fx, fy float64) {
	if b.W == 0 || b.H == 0 {
		return 0, 0
	}
	return (p.X - float64(b.X)) / float64(b.W), (p.Y - float64(b.Y)) / float64(b.H)
}

// Inset shrinks b by n on every side. A negative n grows it.
func (b Box) Inset(n int) Box {
	return Box{X: b.X + n, Y: b.Y + n, W: b.W - 2*n, H: b.H - 2*n}
}

// Translate returns b moved by (dx, dy).
func (b Box) Translate(dx, dy int) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}

// WithSize returns b with its width/height replaced.
func (b Box) WithSize(w, h int) Box {
	return Box{X: b.X, Y: b.Y, W: w, H: h}
}

// WithPosition returns b with its origin replaced.
func (b Box) WithPosition(x, y int) Box {
	return Box{X: x, Y: y, W: b.W, H: b.H}
}

// Empty reports whether b covers no area.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Equal reports whether b and o describe the same rectangle.
func (b Box) Equal(o Box) bool {
	return b == o
}

// Clamp constrains w and h to be at least min, preserving x/y.
func (b Box) Clamp(min int) Box {
	w, h := b.W, b.H
	if w < min {
		w = min
	}
	if h < min {
		h = min
	}
	return Box{X: b.X, Y: b.Y, W: w, H: h}
}

// SplitVertical splits b into a left part occupying wfact of the width and
// a right part occupying the remainder, per the BSP VERTICAL split rule
// (spec.md §4.2).
func (b Box) SplitVertical(wfact float64) (left, right Box) {
	lw := int(float64(b.W) * wfact)
	left = Box{X: b.X, Y: b.Y, W: lw, H: b.H}
	right = Box{X: b.X + lw, Y: b.Y, W: b.W - lw, H: b.H}
	return left, right
}

// SplitHorizontal splits b into a top part occupying wfact of the height
// and a bottom part occupying the remainder, per the BSP HORIZONTAL split
// rule (spec.md §4.2).
func (b Box) SplitHorizontal(wfact float64) (top, bottom Box) {
	th := int(float64(b.H) * wfact)
	top = Box{X: b.X, Y: b.Y, W: b.W, H: th}
	bottom = Box{X: b.X, Y: b.Y + th, W: b.W, H: b.H - th}
	return top, bottom
}
