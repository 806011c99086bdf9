// Package master implements the master/stack layout engine of spec.md
// §4.3: a registry of pluggable LayoutStrategy entries arranged as a
// circular ring (no sentinel head, matching the original's intrusive
// wl_list), and an arrange pass that splits an output's usable area
// between a master column and a stack. Grounded on
// original_source/src/layout/master.c and
// original_source/include/cwc/layout/master.h.
package master

import (
	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/geometry"
)

// MaxArrangeClients bounds how many visible containers a single arrange
// pass will lay out. The original caps its tiled_visible scratch array at
// 50 (src/layout/master.c); spec.md's Open Question on raising this is
// resolved in DESIGN.md to 256, since Go has no fixed-size stack array to
// economize on.
const MaxArrangeClients = 256

// Strategy is one pluggable arrangement algorithm, registered into the
// ring by name and selected per-workspace via ViewInfo.Master.CurrentLayout.
// Grounded on layout_interface's arrange function pointer.
type Strategy interface {
	Name() string
	// Arrange assigns Geometry to every visible, tiled container in
	// visible, given the usable area and the workspace's master tuning.
	Arrange(visible []*container.Container, area geometry.Box, gaps int, state *container.MasterState)
}

// ring node wrapping a Strategy, forming the circular intrusive list
// layout_interface.h describes (next/prev, no sentinel head).
type ringEntry struct {
	strategy   Strategy
	next, prev *ringEntry
}

// Registry is the circular ring of registered layout strategies, grounded
// on master_register_layout/master_unregister_layout's splice-into-
// circular-list behavior.
type Registry struct {
	head *ringEntry // arbitrary entry point; nil when empty
	byName map[string]*ringEntry
}

// NewRegistry returns a registry pre-populated with the four built-in
// strategies (spec.md §4.3 "ships with tile, monocle, fullscreen and a
// grid layout").
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*ringEntry)}
	r.Register(Tile{})
	r.Register(Monocle{})
	r.Register(Fullscreen{})
	r.Register(Grid{})
	return r
}

// Register splices s into the ring, grounded on insert_impl: new entries
// are spliced in just before head, matching the original's "insert before
// head" convention so the most-recently-registered plugin does not
// silently become the new default.
func (r *Registry) Register(s Strategy) {
	e := &ringEntry{strategy: s}
	if r.head == nil {
		e.next, e.prev = e, e
		r.head = e
	} else {
		tail := r.head.prev
		e.next = r.head
		e.prev = tail
		tail.next = e
		r.head.prev = e
	}
	r.byName[s.Name()] = e
}

// Unregister removes the strategy named name from the ring, grounded on
// remove_impl's circular-list splice.
func (r *Registry) Unregister(name string) {
	e, ok := r.byName[name]
	if !ok {
		return
	}
	delete(r.byName, name)
	if e.next == e {
		r.head = nil
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	if r.head == e {
		r.head = e.next
	}
}

// Get returns the strategy named name, or the ring's default if name is
// unregistered or empty, grounded on get_default_master_layout (the head
// of the ring is the default).
func (r *Registry) Get(name string) Strategy {
	if e, ok := r.byName[name]; ok {
		return e.strategy
	}
	if r.head == nil {
		return Tile{}
	}
	return r.head.strategy
}

// ArrangeUpdate arranges every visible, tiled container of output's
// current workspace using its configured strategy, grounded on
// master_arrange_update. Containers beyond MaxArrangeClients are left at
// their last assigned Geometry and are not otherwise touched (spec.md §7
// "a layout pass that would exceed its capacity arranges a prefix and
// leaves the remainder untouched rather than failing").
func (r *Registry) ArrangeUpdate(output *container.Output) {
	view := output.State.CurrentView()
	var visible []*container.Container
	for _, c := range output.State.Containers() {
		if !c.Visible() || !c.IsTiled() {
			continue
		}
		visible = append(visible, c)
		if len(visible) == MaxArrangeClients {
			break
		}
	}
	if len(visible) == 0 {
		return
	}
	strategy := r.Get(view.Master.CurrentLayout)
	strategy.Arrange(visible, output.UsableArea, view.UselessGaps, &view.Master)
}

// GetMaster returns the container currently occupying the master slot
// (the first visible container), grounded on master_get_master.
func GetMaster(visible []*container.Container) *container.Container {
	if len(visible) == 0 {
		return nil
	}
	return visible[0]
}

// SetMaster moves c to the front of visible in place, grounded on
// master_set_master's "swap with whichever container currently occupies
// index 0".
func SetMaster(visible []*container.Container, c *container.Container) {
	idx := -1
	for i, v := range visible {
		if v == c {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return
	}
	visible[0], visible[idx] = visible[idx], visible[0]
}
