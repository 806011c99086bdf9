package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cwcgo.dev/cwcgo/internal/keyboard"
	"cwcgo.dev/cwcgo/internal/seat"
	"cwcgo.dev/cwcgo/internal/session"
	"cwcgo.dev/cwcgo/internal/surface"
)

type fakeSurface struct{ id string }

func (f *fakeSurface) Variant() surface.Variant      { return surface.Native }
func (f *fakeSurface) OverrideRedirect() bool        { return false }
func (f *fakeSurface) Modal() bool                   { return false }
func (f *fakeSurface) FixedSize() bool               { return false }
func (f *fakeSurface) Geometry() (int, int)          { return 0, 0 }
func (f *fakeSurface) Parent() surface.Surface       { return nil }
func (f *fakeSurface) RequestedPosition() (int, int) { return 0, 0 }

type fakeSeat struct{ focused surface.Surface }

func (s *fakeSeat) EnterSurface(surface.Surface, float64, float64) {}
func (s *fakeSeat) ClearPointerFocus()                             {}
func (s *fakeSeat) SetKeyboardFocus(sf surface.Surface)            { s.focused = sf }
func (s *fakeSeat) ForwardKey(e seat.KeyEvent)                     {}

func TestApplicationFocusDeliversDirectly(t *testing.T) {
	sv := &fakeSeat{}
	r := keyboard.New(sv, &session.Lock{})
	app := &fakeSurface{id: "app"}

	r.SetApplicationFocus(app)
	require.Equal(t, app, sv.focused)
	require.Equal(t, app, r.Focused())
}

func TestSessionLockOverridesApplicationFocus(t *testing.T) {
	sv := &fakeSeat{}
	r := keyboard.New(sv, &session.Lock{})
	app := &fakeSurface{id: "app"}
	lockSurf := &fakeSurface{id: "lock"}

	r.SetApplicationFocus(app)
	r.NotifySessionLock(true, lockSurf)
	require.Equal(t, lockSurf, sv.focused)

	r.SetApplicationFocus(&fakeSurface{id: "other"})
	require.Equal(t, lockSurf, sv.focused, "session lock still wins while active")

	r.NotifySessionLock(false, nil)
	require.Equal(t, "other", sv.focused.(*fakeSurface).id)
}

func TestSessionLockBeatsLayerShellExclusive(t *testing.T) {
	sv := &fakeSeat{}
	r := keyboard.New(sv, &session.Lock{})
	layer := &fakeSurface{id: "layer"}
	lockSurf := &fakeSurface{id: "lock"}

	r.SetLayerShellExclusive(layer)
	require.Equal(t, layer, sv.focused)

	r.NotifySessionLock(true, lockSurf)
	require.Equal(t, lockSurf, sv.focused)

	r.SetLayerShellExclusive(&fakeSurface{id: "layer2"})
	require.Equal(t, lockSurf, sv.focused, "session lock outranks a new layer-shell exclusive request")
}

var _ = session.Unlocked
