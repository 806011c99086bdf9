// Package keybind implements the KeybindTable of spec.md §4.6: a flat map
// from a 64-bit composite key (modifier mask in the high 32 bits, keysym or
// button in the low 32 bits) to a handler record, with no trie or
// per-modifier fallback matching. Grounded on
// original_source/src/input/keybinding.c's composite-key hash table.
package keybind

import "cwcgo.dev/cwcgo/internal/seat"

// keysymF1 is the real XKB keysym for F1; F2..F12 are the following 11
// sequential values, used to re-register the "change virtual terminal"
// common keys on Clear (spec.md §4.6).
const keysymF1 uint32 = 0xffbe

// Handler is a registered keybind: kind labels it for introspection (e.g.
// a config-reload UI listing bound keys), on_press runs on KeyPressed,
// on_release on KeyReleased. Either may be nil; a binding with only
// OnRelease set is a release-only keybind (spec.md §4.6, §8 boundary
// behavior: "a release-only keybind forwards the press to the focused
// client but runs the release handler and still forwards the release").
type Handler struct {
	Kind        string
	OnPress     func()
	OnRelease   func()
	Description string
	Group       string
}

// Key packs a modifier mask and keysym (or button) into the table's lookup
// key, grounded on keybinding.c's "(uint64_t)mods << 32 | keysym" composite
// key.
func Key(mods seat.Modifier, keysym uint32) uint64 {
	return uint64(mods)<<32 | uint64(keysym)
}

// Table is a flat composite-key to Handler map. The zero value is usable
// for a keyboard table; use NewButtonTable for a pointer-button table,
// which never re-registers common keys on Clear.
type Table struct {
	binds     map[uint64]Handler
	isButtons bool
}

// NewTable returns an empty keyboard keybind table. commonKeys, if
// non-nil, is invoked to populate the common Ctrl+Alt+F1..F12 bindings
// both at construction and on every Clear(false); pass nil to use the
// default change-virtual-terminal handlers, which are no-ops (a real
// compositor wires a session-switch callback here).
func NewTable(commonKeys func(vt int)) *Table {
	t := &Table{binds: make(map[uint64]Handler)}
	t.registerCommon(commonKeys)
	return t
}

// NewButtonTable returns an empty pointer-button keybind table. Clear on a
// button table never re-registers common keys, since the common-keys set
// is keyboard-only (spec.md §4.6).
func NewButtonTable() *Table {
	return &Table{binds: make(map[uint64]Handler), isButtons: true}
}

func (t *Table) registerCommon(commonKeys func(vt int)) {
	if t.isButtons {
		return
	}
	if commonKeys == nil {
		commonKeys = func(int) {}
	}
	for vt := 1; vt <= 12; vt++ {
		v := vt
		t.binds[Key(seat.ModCtrl|seat.ModAlt, keysymF1+uint32(v-1))] = Handler{
			Kind:        "change-vt",
			OnPress:     func() { commonKeys(v) },
			Description: "switch to virtual terminal",
		}
	}
}

// Bind registers handler for mods+keysym, replacing any existing binding
// silently (spec.md §4.6 "re-binding a key overwrites the previous
// handler without warning").
func (t *Table) Bind(mods seat.Modifier, keysym uint32, handler Handler) {
	if t.binds == nil {
		t.binds = make(map[uint64]Handler)
	}
	t.binds[Key(mods, keysym)] = handler
}

// BindButton registers handler for mods+button on a pointer-button table.
func (t *Table) BindButton(mods seat.Modifier, button seat.Button, handler Handler) {
	t.Bind(mods, uint32(button), handler)
}

// Unbind removes any handler registered for mods+keysym.
func (t *Table) Unbind(mods seat.Modifier, keysym uint32) {
	delete(t.binds, Key(mods, keysym))
}

// UnbindButton removes any handler registered for mods+button.
func (t *Table) UnbindButton(mods seat.Modifier, button seat.Button) {
	t.Unbind(mods, uint32(button))
}

// Clear removes every binding, grounded on keybinding.c's
// cwc_keybind_clear used on config reload before re-registering the
// user's keybind file (spec.md §4.6 "config reload clears and
// re-registers the whole table"). Unless clearCommon is true, the common
// Ctrl+Alt+F1..F12 virtual-terminal bindings are re-registered immediately
// after clearing (spec.md §4.6); a pointer-button table ignores
// clearCommon, since it never carries common keys.
func (t *Table) Clear(clearCommon bool) {
	t.binds = make(map[uint64]Handler)
	if !clearCommon {
		t.registerCommon(nil)
	}
}

// Len returns the number of registered bindings.
func (t *Table) Len() int { return len(t.binds) }

// Dispatch looks up the handler for e and runs the side matching its
// State, reporting whether the event was consumed (true) or should still
// be forwarded to the focused client (false). A KeyPressed event is
// consumed only if a binding exists and its OnPress is non-nil. Every
// KeyReleased event returns false and is always forwarded, after running
// OnRelease if present (spec.md §8 boundary: "a release-only keybind
// forwards the press... but runs the release handler and still forwards
// the release").
func (t *Table) Dispatch(e seat.KeyEvent) bool {
	h, ok := t.binds[Key(e.Modifiers, e.Keysym)]
	if e.State == seat.KeyReleased {
		if ok && h.OnRelease != nil {
			h.OnRelease()
		}
		return false
	}
	if !ok || h.OnPress == nil {
		return false
	}
	h.OnPress()
	return true
}

// DispatchButton is Dispatch's pointer-event counterpart, consulted
// by compositor.Server.HandlePointerEvent before the event is passed on to
// Interactive for move/resize handling.
func (t *Table) DispatchButton(mods seat.Modifier, button seat.Button, state seat.KeyState) bool {
	h, ok := t.binds[Key(mods, uint32(button))]
	if state == seat.KeyReleased {
		if ok && h.OnRelease != nil {
			h.OnRelease()
		}
		return false
	}
	if !ok || h.OnPress == nil {
		return false
	}
	h.OnPress()
	return true
}
