// Package container implements the container/toplevel/output data graph of
// spec.md §3-§4.1: the unit of tiled placement (Container), the client
// window it wraps (Toplevel), and the per-output state that owns them
// (Output, OutputState, ViewInfo). Grounded on
// original_source/include/cwc/layout/container.h,
// original_source/include/cwc/desktop/output.h and
// original_source/include/cwc/types.h.
//
// These three concepts are specified together, as spec.md §1 requires,
// because Container carries an owning-Output back-reference and every
// Output carries Container lists; splitting them into separate packages
// would force an import cycle the C original avoids only because it has no
// package boundaries.
package container

import (
	"golang.org/x/exp/slices"

	"cwcgo.dev/cwcgo/internal/geometry"
)

// MaxWorkspace is the hard limit on addressable workspaces: the active-tag
// bitfield is 32 bits wide and spec.md reserves one bit per tag (spec.md
// §3, §6 "Tag encoding").
const MaxWorkspace = 30

// MinWidth is the hard floor on a container's width and height (spec.md §8).
const MinWidth = 20

// LayoutMode selects the tiling engine active for a workspace.
type LayoutMode int

const (
	LayoutFloating LayoutMode = iota
	LayoutMaster
	LayoutBSP
)

// BSPNode is the narrow view container needs of a bound BspNode leaf: the
// internal/bsp package's Node type implements this, letting container stay
// free of an import on internal/bsp while bsp freely imports container
// (spec.md §3 BspNode "LEAF→Container is a weak cross-reference").
type BSPNode interface {
	Enable()
	Disable()
	Enabled() bool
}

// MasterState holds the per-workspace master/stack tuning parameters
// (spec.md §3 ViewInfo). CurrentLayout is an opaque name resolved through
// the internal/master registry; container does not import master to avoid
// a cycle (master arranges containers, so the dependency must run that way).
type MasterState struct {
	MasterCount int
	ColumnCount int
	MWFact      float64 // clamped to [0.1, 0.9]
	CurrentLayout string
}

// BspRootEntry is the per-workspace BSP tree handle (spec.md §3 ViewInfo).
type BspRootEntry struct {
	Root         BSPNode
	LastFocused  *Container
}

// ViewInfo carries per-workspace layout configuration (spec.md §3).
type ViewInfo struct {
	LayoutMode  LayoutMode
	UselessGaps int
	Master      MasterState
	BSP         BspRootEntry
}

// Output represents a physical or emulated display (spec.md §3 Output).
type Output struct {
	Name       string
	UsableArea geometry.Box
	FullArea   geometry.Box
	State      *OutputState
	Restored   bool
}

// OutputState is the persistent, per-output view of the compositor's
// tiling world (spec.md §3 OutputState).
type OutputState struct {
	ActiveTag           uint32
	ActiveWorkspace      int
	MaxGeneralWorkspace  int

	ViewInfo [MaxWorkspace + 1]ViewInfo // index 0 unused, workspaces are 1..30

	containers  []*Container // arrival order
	focusStack  []*Container // most-recently-focused first
	minimized   []*Container
	toplevels   []*Toplevel // arrival order

	OldOutput *Output
}

// NewOutputState returns a freshly initialized OutputState with workspace 1
// selected and tag bit 1 active, per spec.md §6 ("initial tag defaults to
// 1") and §3 ("active_workspace clamped to 1 if zero").
func NewOutputState() *OutputState {
	s := &OutputState{
		ActiveTag:           1,
		ActiveWorkspace:     1,
		MaxGeneralWorkspace: 9,
	}
	for i := range s.ViewInfo {
		s.ViewInfo[i].Master.MWFact = 0.5
		s.ViewInfo[i].Master.MasterCount = 1
		s.ViewInfo[i].Master.CurrentLayout = "tile"
	}
	return s
}

// CurrentView returns the ViewInfo for the active workspace.
func (s *OutputState) CurrentView() *ViewInfo {
	return &s.ViewInfo[s.ActiveWorkspace]
}

// View returns the ViewInfo for the given workspace (1..30).
func (s *OutputState) View(workspace int) *ViewInfo {
	return &s.ViewInfo[workspace]
}

// Containers returns the container list in arrival order.
func (s *OutputState) Containers() []*Container { return s.containers }

// FocusStack returns the focus stack, most-recently-focused first.
func (s *OutputState) FocusStack() []*Container { return s.focusStack }

// Minimized returns the minimized-container list.
func (s *OutputState) Minimized() []*Container { return s.minimized }

// Toplevels returns the toplevel list in arrival order.
func (s *OutputState) Toplevels() []*Toplevel { return s.toplevels }

func (s *OutputState) addContainer(c *Container) {
	if !slices.Contains(s.containers, c) {
		s.containers = append(s.containers, c)
	}
}

func (s *OutputState) removeContainer(c *Container) {
	s.containers = removePtr(s.containers, c)
}

func (s *OutputState) addToplevel(t *Toplevel) {
	if !slices.Contains(s.toplevels, t) {
		s.toplevels = append(s.toplevels, t)
	}
}

func (s *OutputState) removeToplevel(t *Toplevel) {
	s.toplevels = removePtr(s.toplevels, t)
}

// pushFocus moves c to the front of the focus stack, inserting it if absent
// (spec.md §4.5 "move its container to the head of the Output's focus-stack").
func (s *OutputState) pushFocus(c *Container) {
	s.focusStack = removePtr(s.focusStack, c)
	s.focusStack = append([]*Container{c}, s.focusStack...)
}

func (s *OutputState) removeFocus(c *Container) {
	s.focusStack = removePtr(s.focusStack, c)
}

func (s *OutputState) addMinimized(c *Container) {
	if !slices.Contains(s.minimized, c) {
		s.minimized = append(s.minimized, c)
	}
}

func (s *OutputState) removeMinimized(c *Container) {
	s.minimized = removePtr(s.minimized, c)
}

func removePtr[T comparable](list []T, v T) []T {
	idx := slices.Index(list, v)
	if idx < 0 {
		return list
	}
	return slices.Delete(list, idx, idx+1)
}
