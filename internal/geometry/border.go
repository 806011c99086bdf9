package geometry

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"cwcgo.dev/cwcgo/internal/scene"
)

// StripSide names one of a Border's four clockwise strips, mirroring
// original_source/include/cwc/layout/container.h's
// "buffer[4]; // clockwise top to left".
type StripSide int

const (
	StripTop StripSide = iota
	StripRight
	StripBottom
	StripLeft
)

// Pattern describes the two-stop gradient a border is painted with.
type Pattern struct {
	From, To color.NRGBA
}

// Strip is one decorative border edge: a pixel buffer and the scene node it
// is attached to.
type Strip struct {
	Pixels *image.NRGBA
	Node   scene.Node
}

// Border is the 4-strip decorative frame attached to a Container's scene
// subtree (spec.md §2 component 2). Resource-exhaustion during buffer
// creation (spec.md §7) leaves the border disabled until the next resize
// rather than failing the caller.
type Border struct {
	Thickness     int
	W, H          int
	Pattern       Pattern
	Enabled       bool
	AttachedTree  scene.Node
	Strips        [4]*Strip
}

// NewBorder creates a border of the given rectangle and strip thickness,
// painting it with pattern. A zero thickness produces a border with no
// visible strips. UNMANAGED containers get no Border at all.
func NewBorder(pattern Pattern, w, h, thickness int) *Border {
	b := &Border{Pattern: pattern, W: w, H: h, Thickness: thickness, Enabled: thickness > 0}
	b.repaint()
	return b
}

// AttachToScene parents every strip node under tree, offset so the strips
// frame a content rectangle starting at (thickness, thickness).
func (b *Border) AttachToScene(svc scene.Service, tree scene.Node) {
	b.AttachedTree = tree
	for side := StripTop; side <= StripLeft; side++ {
		s := b.Strips[side]
		if s == nil {
			continue
		}
		s.Node = svc.NewBufferNode(tree, s.Pixels)
		svc.SetPosition(s.Node, b.stripOrigin(side))
		svc.SetEnabled(s.Node, b.Enabled)
	}
}

// SetEnabled shows or hides every strip without destroying the buffers.
func (b *Border) SetEnabled(svc scene.Service, enabled bool) {
	b.Enabled = enabled
	for _, s := range b.Strips {
		if s != nil && s.Node != nil {
			svc.SetEnabled(s.Node, enabled)
		}
	}
}

// SetPattern changes the gradient colors and repaints every strip buffer.
func (b *Border) SetPattern(svc scene.Service, pattern Pattern) {
	b.Pattern = pattern
	b.repaint()
	b.redrawNodes(svc)
}

// Resize repaints the border for a new content rectangle. It is a no-op
// if the outer rectangle is unchanged, matching the original's
// "noop if the surface width unchanged" contract for cwc_border_resize.
func (b *Border) Resize(svc scene.Service, w, h int) {
	outerW, outerH := w+2*b.Thickness, h+2*b.Thickness
	if outerW == b.W && outerH == b.H {
		return
	}
	b.W, b.H = outerW, outerH
	b.repaint()
	b.redrawNodes(svc)
}

func (b *Border) redrawNodes(svc scene.Service) {
	if b.AttachedTree == nil {
		return
	}
	for side := StripTop; side <= StripLeft; side++ {
		s := b.Strips[side]
		if s == nil || s.Node == nil {
			continue
		}
		svc.UpdateBuffer(s.Node, s.Pixels)
		svc.SetPosition(s.Node, b.stripOrigin(side))
	}
}

// stripOrigin returns the local position of the given strip relative to
// the border's outer top-left corner.
func (b *Border) stripOrigin(side StripSide) (x, y int) {
	t := b.Thickness
	switch side {
	case StripTop:
		return 0, 0
	case StripRight:
		return b.W - t, 0
	case StripBottom:
		return 0, b.H - t
	case StripLeft:
		return 0, 0
	}
	return 0, 0
}

// repaint regenerates the four strip buffers from the current pattern and
// rectangle, blending each strip's gradient with golang.org/x/image/draw
// (SPEC_FULL.md §2). If thickness or rectangle make a strip empty the
// buffer is dropped (a zero-area buffer is a resource-exhaustion-equivalent
// no-op per spec.md §7).
func (b *Border) repaint() {
	t := b.Thickness
	if t <= 0 || b.W <= 0 || b.H <= 0 {
		for i := range b.Strips {
			b.Strips[i] = nil
		}
		return
	}
	b.Strips[StripTop] = paintStrip(b.W, t, b.Pattern, true)
	b.Strips[StripBottom] = paintStrip(b.W, t, b.Pattern, true)
	b.Strips[StripLeft] = paintStrip(t, b.H, b.Pattern, false)
	b.Strips[StripRight] = paintStrip(t, b.H, b.Pattern, false)
}

func paintStrip(w, h int, p Pattern, horizontal bool) *Strip {
	if w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := &gradient{from: p.From, to: p.To, w: w, h: h, horizontal: horizontal}
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	return &Strip{Pixels: dst}
}

// gradient implements image.Image as a two-stop linear gradient, used as
// draw.Draw's source image when painting a border strip.
type gradient struct {
	from, to   color.NRGBA
	w, h       int
	horizontal bool
}

func (g *gradient) ColorModel() color.Model { return color.NRGBAModel }
func (g *gradient) Bounds() image.Rectangle { return image.Rect(0, 0, g.w, g.h) }

func (g *gradient) At(x, y int) color.Color {
	var t float64
	if g.horizontal {
		if g.w > 1 {
			t = float64(x) / float64(g.w-1)
		}
	} else {
		if g.h > 1 {
			t = float64(y) / float64(g.h-1)
		}
	}
	return lerp(g.from, g.to, t)
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}
