// Package seat declares the boundary to the Seat Service (spec.md §6):
// pointer and keyboard input delivery, independent of any specific input
// device driver.
package seat

import "cwcgo.dev/cwcgo/internal/surface"

// Modifier is a bitmask of active keyboard modifiers.
type Modifier uint32

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Button identifies a pointer button.
type Button uint32

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// KeyState distinguishes press from release, mirroring gioui.org/io/key's
// key.State (io/key/key.go) but over a raw keysym rather than a shaped Name.
type KeyState int

const (
	KeyPressed KeyState = iota
	KeyReleased
)

// KeyEvent is a single keyboard event delivered by the Seat Service.
type KeyEvent struct {
	// Keysym is the "untransformed" keysym derived from a fresh keyboard
	// state, per spec.md §4.5 ("keybinds are stable across modifier
	// changes").
	Keysym    uint32
	Modifiers Modifier
	State     KeyState
}

// PointerEventType enumerates the pointer events the Seat Service delivers.
type PointerEventType int

const (
	PointerMotion PointerEventType = iota
	PointerMotionAbsolute
	PointerButton
	PointerAxis
)

// PointerEvent is a single pointer event.
type PointerEvent struct {
	Type PointerEventType
	// Dx, Dy are relative motion deltas (accelerated).
	Dx, Dy float64
	// DxUnaccel, DyUnaccel are the same motion before pointer acceleration,
	// used by pointer-constraint confinement math (spec.md §4.4).
	DxUnaccel, DyUnaccel float64
	// X, Y are absolute layout coordinates, valid for PointerMotionAbsolute.
	X, Y float64
	Button
	ButtonState KeyState
	// AxisValue is the scroll delta for PointerAxis.
	AxisValue float64
}

// Service is the subset of Seat Service operations the core calls back
// into: pointer and keyboard focus delivery and key forwarding.
type Service interface {
	// EnterSurface delivers pointer enter+motion to s at local (sx, sy).
	EnterSurface(s surface.Surface, sx, sy float64)
	// ClearPointerFocus is called when no surface is under the cursor.
	ClearPointerFocus()
	// SetKeyboardFocus delivers keyboard focus to s, or clears it if s is nil.
	SetKeyboardFocus(s surface.Surface)
	// ForwardKey delivers a key event to whichever surface currently holds
	// keyboard focus.
	ForwardKey(e KeyEvent)
}
