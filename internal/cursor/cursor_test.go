package cursor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/cursor"
	"cwcgo.dev/cwcgo/internal/geometry"
)

func newOutput() *container.Output {
	return &container.Output{
		Name:       "test",
		UsableArea: geometry.Box{X: 0, Y: 0, W: 1920, H: 1080},
		FullArea:   geometry.Box{X: 0, Y: 0, W: 1920, H: 1080},
		State:      container.NewOutputState(),
	}
}

func TestBeginMoveTranslatesGeometry(t *testing.T) {
	out := newOutput()
	c := container.New(nil, out, nil, nil)
	c.SetFloating(true)
	c.Geometry = geometry.Box{X: 100, Y: 100, W: 300, H: 200}

	ic := cursor.New(0)
	ic.Position = geometry.Point{X: 150, Y: 150}
	ic.BeginMove(c)

	ic.Motion(geometry.Point{X: 160, Y: 170}, time.Time{})
	require.Equal(t, 110, c.Geometry.X)
	require.Equal(t, 120, c.Geometry.Y)

	ic.End()
	require.Equal(t, cursor.ModeNormal, ic.Mode)
	require.Nil(t, ic.Grabbed())
}

func TestBeginResizeFromBottomRightCorner(t *testing.T) {
	out := newOutput()
	c := container.New(nil, out, nil, nil)
	c.SetFloating(true)
	c.Geometry = geometry.Box{X: 0, Y: 0, W: 300, H: 300}

	ic := cursor.New(0) // no throttle: every motion applies immediately
	ic.Position = geometry.Point{X: 290, Y: 290}
	ic.BeginResize(c)

	ic.Motion(geometry.Point{X: 340, Y: 340}, time.Time{})
	require.Equal(t, 350, c.Geometry.W)
	require.Equal(t, 350, c.Geometry.H)
	require.Equal(t, 0, c.Geometry.X)
	require.Equal(t, 0, c.Geometry.Y)
}

func TestBeginResizeFromCentreDefaultsBottomRight(t *testing.T) {
	out := newOutput()
	c := container.New(nil, out, nil, nil)
	c.SetFloating(true)
	c.Geometry = geometry.Box{X: 0, Y: 0, W: 300, H: 300}

	ic := cursor.New(0)
	ic.Position = geometry.Point{X: 150, Y: 150}
	ic.BeginResize(c)

	ic.Motion(geometry.Point{X: 200, Y: 200}, time.Time{})
	require.Equal(t, 350, c.Geometry.W, "centre click defaults to the bottom-right edge pair")
	require.Equal(t, 350, c.Geometry.H)
	require.Equal(t, 0, c.Geometry.X)
	require.Equal(t, 0, c.Geometry.Y)
}

func TestResizeThrottledUntilRefreshInterval(t *testing.T) {
	out := newOutput()
	c := container.New(nil, out, nil, nil)
	c.SetFloating(true)
	c.Geometry = geometry.Box{X: 0, Y: 0, W: 300, H: 300}

	ic := cursor.New(16 * time.Millisecond)
	base := time.Now()
	ic.Position = geometry.Point{X: 290, Y: 290}
	ic.BeginResize(c)

	ic.Motion(geometry.Point{X: 340, Y: 340}, base)
	require.Equal(t, 350, c.Geometry.W, "first motion applies immediately, nothing to throttle against yet")

	ic.Motion(geometry.Point{X: 400, Y: 400}, base.Add(5*time.Millisecond))
	require.Equal(t, 350, c.Geometry.W, "motion inside the throttle window is deferred")

	ic.End()
	require.Equal(t, 410, c.Geometry.W, "releasing the grab flushes the pending resize")
}

func TestBeginMoveRejectsNonFloatingContainer(t *testing.T) {
	out := newOutput()
	c := container.New(nil, out, nil, nil)
	c.Geometry = geometry.Box{X: 0, Y: 0, W: 300, H: 300}

	ic := cursor.New(0)
	ok := ic.BeginMove(c)

	require.False(t, ok)
	require.Equal(t, cursor.ModeNormal, ic.Mode)
	require.Nil(t, ic.Grabbed())
}

func TestBeginResizeRejectsMaximizedContainer(t *testing.T) {
	out := newOutput()
	c := container.New(nil, out, nil, nil)
	c.SetFloating(true)
	c.SetMaximized(true)

	ic := cursor.New(0)
	ok := ic.BeginResize(c)

	require.False(t, ok)
	require.Equal(t, cursor.ModeNormal, ic.Mode)
}

func TestMinWidthFloor(t *testing.T) {
	out := newOutput()
	c := container.New(nil, out, nil, nil)
	c.SetFloating(true)
	c.Geometry = geometry.Box{X: 0, Y: 0, W: 50, H: 50}

	ic := cursor.New(0)
	ic.Position = geometry.Point{X: 40, Y: 40}
	ic.BeginResize(c)
	ic.Motion(geometry.Point{X: -100, Y: -100}, time.Time{})

	require.GreaterOrEqual(t, c.Geometry.W, container.MinWidth)
	require.GreaterOrEqual(t, c.Geometry.H, container.MinWidth)
}
