package master

import (
	"math"

	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/geometry"
)

// Tile is the default layout: a master column on the left holding
// state.MasterCount containers, and the rest stacked vertically in a
// second column. Grounded on arrange_tile's master/stack width split using
// MWFact.
type Tile struct{}

func (Tile) Name() string { return "tile" }

func (Tile) Arrange(visible []*container.Container, area geometry.Box, gaps int, state *container.MasterState) {
	n := len(visible)
	if n == 0 {
		return
	}
	masterCount := state.MasterCount
	if masterCount < 1 {
		masterCount = 1
	}
	if masterCount > n {
		masterCount = n
	}
	if n <= masterCount {
		stackOne(visible, area, gaps)
		return
	}

	masterArea, stackArea := area.SplitVertical(state.MWFact)
	stackOne(visible[:masterCount], masterArea, gaps)
	stackOne(visible[masterCount:], stackArea, gaps)
}

// stackOne arranges containers as equal-height horizontal rows filling
// area, used for both the master and stack columns.
func stackOne(containers []*container.Container, area geometry.Box, gaps int) {
	n := len(containers)
	if n == 0 {
		return
	}
	h := area.H / n
	for i, c := range containers {
		box := geometry.Box{X: area.X, Y: area.Y + i*h, W: area.W, H: h}
		if i == n-1 {
			box.H = area.H - i*h // absorb integer-division remainder into the last row
		}
		c.Geometry = box.Inset(gaps / 2).Clamp(container.MinWidth)
	}
}

// Monocle stacks every visible container at the same full-area geometry,
// only the front one of the output's focus order is actually visible to
// the user; grounded on arrange_monocle.
type Monocle struct{}

func (Monocle) Name() string { return "monocle" }

func (Monocle) Arrange(visible []*container.Container, area geometry.Box, gaps int, state *container.MasterState) {
	for _, c := range visible {
		c.Geometry = area.Inset(gaps).Clamp(container.MinWidth)
	}
}

// Fullscreen gives every visible container the whole area with no gap
// inset at all, used for workspaces configured to behave like a single
// always-maximized window regardless of per-container fullscreen state.
type Fullscreen struct{}

func (Fullscreen) Name() string { return "fullscreen" }

func (Fullscreen) Arrange(visible []*container.Container, area geometry.Box, gaps int, state *container.MasterState) {
	for _, c := range visible {
		c.Geometry = area.Clamp(container.MinWidth)
	}
}

// Grid arranges containers in a roughly-square grid of cells, grounded on
// the community flayout plugin (original_source/plugins/flayout.c): the
// column count is ceil(sqrt(n)) unless ColumnCount overrides it. The last
// cell of each row takes the width left over from integer division, and the
// last cell of a short final row widens to fill the rest of that row.
type Grid struct{}

func (Grid) Name() string { return "grid" }

func (Grid) Arrange(visible []*container.Container, area geometry.Box, gaps int, state *container.MasterState) {
	n := len(visible)
	if n == 0 {
		return
	}
	cols := state.ColumnCount
	if cols < 1 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	if cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols

	cellW := area.W / cols
	cellH := area.H / rows

	for i, c := range visible {
		row := i / cols
		col := i % cols

		w := cellW
		isLastInRow := col == cols-1 || i == n-1
		if isLastInRow {
			w = area.W - col*cellW
		}
		h := cellH
		if row == rows-1 {
			h = area.H - row*cellH
		}
		box := geometry.Box{X: area.X + col*cellW, Y: area.Y + row*cellH, W: w, H: h}
		c.Geometry = box.Inset(gaps / 2).Clamp(container.MinWidth)
	}
}
