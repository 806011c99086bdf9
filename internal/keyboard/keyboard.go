// Package keyboard implements the KeyboardFocusRouter of spec.md §4.5: a
// single owner of keyboard focus chosen from application policy unless an
// exclusive override is in effect. Grounded on
// original_source/src/desktop/session_lock.c's input-inhibiting contract
// and gioui's keyQueue focus-handler pattern
// (app/internal/window/os_wayland.go, io/router/key.go — TEACHER.txt).
package keyboard

import (
	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/seat"
	"cwcgo.dev/cwcgo/internal/session"
	"cwcgo.dev/cwcgo/internal/surface"
)

// ExclusiveSource names what is currently forcing keyboard focus away
// from the normal application policy, listed in ascending priority order
// (spec.md §4.5 "session-lock beats layer-shell exclusive keyboard beats
// application policy").
type ExclusiveSource int

const (
	ExclusiveNone ExclusiveSource = iota
	ExclusiveLayerShell
	ExclusiveSessionLock
)

// Router owns keyboard focus for one seat. Application policy is
// whatever the caller last asked for via SetApplicationFocus; an
// exclusive override always wins regardless of when it was set.
type Router struct {
	seat seat.Service

	applicationFocus surface.Surface
	exclusiveSurface surface.Surface
	exclusiveSource  ExclusiveSource

	lock *session.Lock
}

// New returns a Router with no focus and no override.
func New(svc seat.Service, lock *session.Lock) *Router {
	return &Router{seat: svc, lock: lock}
}

// SetApplicationFocus records s as the surface application policy wants
// focused (e.g. the front toplevel of the currently-focused Container).
// It takes effect immediately unless an exclusive override is active.
func (r *Router) SetApplicationFocus(s surface.Surface) {
	r.applicationFocus = s
	if r.exclusiveSource == ExclusiveNone {
		r.deliver(s)
	}
}

// SetLayerShellExclusive installs s as a layer-shell-exclusive-keyboard
// override, beating application policy but losing to a session lock
// already in effect (spec.md §4.5). Passing nil clears the override.
func (r *Router) SetLayerShellExclusive(s surface.Surface) {
	if s == nil {
		if r.exclusiveSource == ExclusiveLayerShell {
			r.clearExclusive()
		}
		return
	}
	if r.exclusiveSource == ExclusiveSessionLock {
		return
	}
	r.exclusiveSource = ExclusiveLayerShell
	r.exclusiveSurface = s
	r.deliver(s)
}

// NotifySessionLock installs or clears the session-lock override,
// matching session.Lock's state: locking always wins over anything else;
// unlocking restores whatever focus policy would otherwise apply.
func (r *Router) NotifySessionLock(locked bool, lockSurface surface.Surface) {
	if locked {
		r.exclusiveSource = ExclusiveSessionLock
		r.exclusiveSurface = lockSurface
		r.deliver(lockSurface)
		return
	}
	if r.exclusiveSource == ExclusiveSessionLock {
		r.clearExclusive()
	}
}

func (r *Router) clearExclusive() {
	r.exclusiveSource = ExclusiveNone
	r.exclusiveSurface = nil
	r.deliver(r.applicationFocus)
}

func (r *Router) deliver(s surface.Surface) {
	if r.seat != nil {
		r.seat.SetKeyboardFocus(s)
	}
}

// Focused returns the surface currently holding keyboard focus.
func (r *Router) Focused() surface.Surface {
	if r.exclusiveSource != ExclusiveNone {
		return r.exclusiveSurface
	}
	return r.applicationFocus
}

// FocusContainer is a convenience for application policy: focuses c's
// front toplevel and moves c to the head of its output's focus stack
// (spec.md §4.5 "focusing a container focuses its front toplevel").
func (r *Router) FocusContainer(c *container.Container) {
	if c == nil {
		r.SetApplicationFocus(nil)
		return
	}
	c.Focus()
	if t := c.FrontToplevel(); t != nil {
		r.SetApplicationFocus(t.Surface)
	} else {
		r.SetApplicationFocus(nil)
	}
}

// HandleKey forwards e to the Seat Service for delivery to whoever holds
// focus. The router does not interpret key semantics itself; keybind
// matching happens upstream in internal/keybind before routing reaches
// here (spec.md §4.5/§4.6 boundary).
func (r *Router) HandleKey(e seat.KeyEvent) {
	if r.seat != nil {
		r.seat.ForwardKey(e)
	}
}
