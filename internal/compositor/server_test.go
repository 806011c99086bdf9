package compositor_test

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cwcgo.dev/cwcgo/internal/bus"
	"cwcgo.dev/cwcgo/internal/compositor"
	"cwcgo.dev/cwcgo/internal/config"
	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/geometry"
	"cwcgo.dev/cwcgo/internal/scene"
	"cwcgo.dev/cwcgo/internal/seat"
	"cwcgo.dev/cwcgo/internal/surface"
)

type fakeScene struct{}

type fakeNode struct{ scene.Base }

func (fakeScene) NewTree(parent scene.Node) scene.Node                        { return &fakeNode{} }
func (fakeScene) NewBufferNode(parent scene.Node, px *image.NRGBA) scene.Node { return &fakeNode{} }
func (fakeScene) UpdateBuffer(n scene.Node, px *image.NRGBA)                  {}
func (fakeScene) SetPosition(n scene.Node, x, y int)                         {}
func (fakeScene) SetEnabled(n scene.Node, enabled bool)                      {}
func (fakeScene) SetOpacity(n scene.Node, opacity float64)                   {}
func (fakeScene) Reparent(n scene.Node, parent scene.Node)                   {}
func (fakeScene) RaiseToTop(n scene.Node)                                    {}
func (fakeScene) LowerToBottom(n scene.Node)                                 {}
func (fakeScene) Destroy(n scene.Node)                                       {}
func (fakeScene) HitTest(lx, ly float64) (scene.Node, float64, float64, bool) {
	return nil, 0, 0, false
}

type fakeSurface struct {
	variant          surface.Variant
	overrideRedirect bool
	modal            bool
	fixedSize        bool
	parent           surface.Surface
	w, h             int
	x, y             int
}

func (s *fakeSurface) Variant() surface.Variant      { return s.variant }
func (s *fakeSurface) OverrideRedirect() bool        { return s.overrideRedirect }
func (s *fakeSurface) Modal() bool                   { return s.modal }
func (s *fakeSurface) FixedSize() bool               { return s.fixedSize }
func (s *fakeSurface) Geometry() (int, int)          { return s.w, s.h }
func (s *fakeSurface) Parent() surface.Surface       { return s.parent }
func (s *fakeSurface) RequestedPosition() (int, int) { return s.x, s.y }

type fakeSurfaceService struct{}

func (fakeSurfaceService) Configure(s surface.Surface, x, y, w, h int)      {}
func (fakeSurfaceService) SetActivated(s surface.Surface, activated bool)  {}
func (fakeSurfaceService) SceneSubtree(s surface.Surface) scene.Node       { return &fakeNode{} }
func (fakeSurfaceService) RequestClose(s surface.Surface)                  {}

type fakeSeat struct {
	focused surface.Surface
}

func (s *fakeSeat) EnterSurface(sf surface.Surface, sx, sy float64) {}
func (s *fakeSeat) ClearPointerFocus()                              {}
func (s *fakeSeat) SetKeyboardFocus(sf surface.Surface)             { s.focused = sf }
func (s *fakeSeat) ForwardKey(e seat.KeyEvent)                      {}

func newTestServer(t *testing.T) *compositor.Server {
	t.Helper()
	s, err := compositor.NewServer(compositor.Options{
		Scene:           fakeScene{},
		Surface:         fakeSurfaceService{},
		Seat:            &fakeSeat{},
		RefreshInterval: 16 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Shutdown() })
	return s
}

func TestNewOutputRegistersAndEmits(t *testing.T) {
	s := newTestServer(t)

	var got *container.Output
	s.Bus.On(bus.ScreenNew, func(payload any) {
		got, _ = payload.(*container.Output)
	})

	out := s.NewOutput("eDP-1", geometry.Box{X: 0, Y: 0, W: 1920, H: 1080}, geometry.Box{X: 0, Y: 0, W: 1920, H: 1080})

	require.Same(t, out, s.Outputs["eDP-1"])
	require.Same(t, out, got)
	require.False(t, out.Restored)
}

func TestDisconnectOutputStoresInRestoreCache(t *testing.T) {
	s := newTestServer(t)
	out := s.NewOutput("eDP-1", geometry.Box{X: 0, Y: 0, W: 1920, H: 1080}, geometry.Box{X: 0, Y: 0, W: 1920, H: 1080})

	s.DisconnectOutput(out)

	require.Empty(t, s.Outputs)
	require.Equal(t, 1, s.RestoreCache.Len())

	restored := s.NewOutput("eDP-1", geometry.Box{X: 0, Y: 0, W: 1920, H: 1080}, geometry.Box{X: 0, Y: 0, W: 1920, H: 1080})
	require.True(t, restored.Restored)
	require.Equal(t, 0, s.RestoreCache.Len())
}

func TestMapToplevelTilesIntoBSPByDefault(t *testing.T) {
	s := newTestServer(t)
	out := s.NewOutput("eDP-1", geometry.Box{X: 0, Y: 0, W: 1920, H: 1080}, geometry.Box{X: 0, Y: 0, W: 1920, H: 1080})
	out.State.CurrentView().LayoutMode = container.LayoutBSP

	t1 := s.MapToplevel(out, &fakeSurface{w: 800, h: 600})
	require.NotNil(t, t1.Container())
	require.False(t, t1.Container().IsFloating())

	t2 := s.MapToplevel(out, &fakeSurface{w: 800, h: 600})
	require.NotSame(t, t1.Container(), t2.Container())
	require.NotZero(t, t1.Container().Geometry.W)
	require.NotZero(t, t2.Container().Geometry.W)
}

func TestMapToplevelTilesPlainXDGToplevel(t *testing.T) {
	s := newTestServer(t)
	out := s.NewOutput("eDP-1", geometry.Box{X: 0, Y: 0, W: 1920, H: 1080}, geometry.Box{X: 0, Y: 0, W: 1920, H: 1080})

	sf := &fakeSurface{w: 300, h: 200}
	tl := s.MapToplevel(out, sf)
	// An XDG toplevel that isn't modal/fixed-size/override-redirect tiles
	// by default; floating is exercised through container.ShouldFloat's own
	// tests, so here we only assert MapToplevel wired the result through.
	require.NotNil(t, tl.Container())
}

func TestMapToplevelWrapsOverrideRedirectUnmanaged(t *testing.T) {
	s := newTestServer(t)
	out := s.NewOutput("eDP-1", geometry.Box{X: 0, Y: 0, W: 1920, H: 1080}, geometry.Box{X: 0, Y: 0, W: 1920, H: 1080})

	sf := &fakeSurface{variant: surface.Foreign, overrideRedirect: true, w: 300, h: 200, x: 40, y: 70}
	tl := s.MapToplevel(out, sf)

	c := tl.Container()
	require.NotNil(t, c)
	require.True(t, c.IsUnmanaged())
	require.NotContains(t, out.State.Containers(), c)
	require.Nil(t, c.Border)
	require.Equal(t, geometry.Box{X: 40, Y: 70, W: 300, H: 200}, c.Geometry)
}

func TestUnmapToplevelRemovesFromBSPTree(t *testing.T) {
	s := newTestServer(t)
	out := s.NewOutput("eDP-1", geometry.Box{X: 0, Y: 0, W: 1920, H: 1080}, geometry.Box{X: 0, Y: 0, W: 1920, H: 1080})
	out.State.CurrentView().LayoutMode = container.LayoutBSP

	t1 := s.MapToplevel(out, &fakeSurface{w: 800, h: 600})
	t2 := s.MapToplevel(out, &fakeSurface{w: 800, h: 600})

	s.UnmapToplevel(t2)
	require.Len(t, out.State.Containers(), 1)

	s.UnmapToplevel(t1)
	require.Empty(t, out.State.Containers())
	require.Nil(t, out.State.CurrentView().BSP.Root)
}

func TestApplyConfigPropagatesToEveryWorkspace(t *testing.T) {
	s := newTestServer(t)
	out := s.NewOutput("eDP-1", geometry.Box{X: 0, Y: 0, W: 1920, H: 1080}, geometry.Box{X: 0, Y: 0, W: 1920, H: 1080})

	cfg := config.Default()
	cfg.UselessGaps = 12
	cfg.MasterWFact = 0.6
	s.Bus.Emit(bus.ConfigReload, config.ChangeEvent{Old: config.Default(), New: cfg})

	require.Equal(t, 12, out.State.CurrentView().UselessGaps)
	require.Equal(t, 0.6, out.State.CurrentView().Master.MWFact)
	last := out.State.View(container.MaxWorkspace)
	require.Equal(t, 12, last.UselessGaps)
	require.Equal(t, 0.6, last.Master.MWFact)
}
