// Package compositor wires every internal/* package into the single
// Server spec.md §2 describes as one process: output/container data graph,
// BSP and master layout engines, cursor/keyboard input routing, the
// keybind table, the config store and the event loop. Grounded on
// original_source/src/server.c and src/main.c's subsystem
// initialization order, and structurally on gioui's app.Window
// (app/app.go — TEACHER.txt) as the "one struct owns every subsystem"
// precedent.
package compositor

import (
	"context"
	"time"

	pool "github.com/jolestar/go-commons-pool"

	"cwcgo.dev/cwcgo/internal/bsp"
	"cwcgo.dev/cwcgo/internal/bus"
	"cwcgo.dev/cwcgo/internal/clog"
	"cwcgo.dev/cwcgo/internal/config"
	"cwcgo.dev/cwcgo/internal/container"
	"cwcgo.dev/cwcgo/internal/cursor"
	"cwcgo.dev/cwcgo/internal/geometry"
	"cwcgo.dev/cwcgo/internal/idle"
	"cwcgo.dev/cwcgo/internal/keybind"
	"cwcgo.dev/cwcgo/internal/keyboard"
	"cwcgo.dev/cwcgo/internal/loop"
	"cwcgo.dev/cwcgo/internal/master"
	"cwcgo.dev/cwcgo/internal/scene"
	"cwcgo.dev/cwcgo/internal/seat"
	"cwcgo.dev/cwcgo/internal/session"
	"cwcgo.dev/cwcgo/internal/surface"
)

// Server owns every compositor subsystem for one running instance,
// grounded on cwc_server's role in src/server.c as the top-level struct
// every object hangs off of.
type Server struct {
	Bus     *bus.Bus
	Config  *config.Store
	Loop    *loop.Loop
	Idle    *idle.Service
	Session *session.Lock

	Scene   scene.Service
	Surface surface.Service
	Seat    seat.Service

	Outputs      map[string]*container.Output
	RestoreCache *container.RestoreCache
	Layouts      *master.Registry

	Keyboard     *keyboard.Router
	Keybinds     *keybind.Table
	PointerBinds *keybind.Table
	Cursor       *cursor.Interactive

	// lastModifiers is the most recently observed keyboard modifier mask,
	// kept here since seat.PointerEvent carries no modifier field of its
	// own; PointerBinds.DispatchButton needs a mask to match against
	// (spec.md §4.6).
	lastModifiers seat.Modifier

	containerPool *pool.ObjectPool

	// bspTrees holds the live *bsp.Tree for every (output, workspace) pair
	// that has ever gone BSP, keyed by output name. ViewInfo.BSP.Root only
	// stores the weak container.BSPNode view of the current root leaf
	// (spec.md §3); the Server is what actually owns tree-level operations
	// like InsertContainer/RemoveContainer; the map is the registry
	// wiring the two together.
	bspTrees map[string][container.MaxWorkspace + 1]*bsp.Tree
}

// Options carries the external-service implementations a real compositor
// binds at startup. Every field is an interface from the corresponding
// boundary package (spec.md §6); this package never depends on a concrete
// backend.
type Options struct {
	ConfigPath      string
	Scene           scene.Service
	Surface         surface.Service
	Seat            seat.Service
	RefreshInterval time.Duration
}

// NewServer constructs every subsystem and wires the config store into
// the Event Bus, but does not start the event loop (call Run for that).
// Grounded on server_init's subsystem construction order in src/server.c:
// bus, config, then services, then layout state.
func NewServer(opts Options) (*Server, error) {
	b := bus.New()
	cfgStore := config.NewStore(b, opts.ConfigPath)

	l, err := loop.New()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Bus:          b,
		Config:       cfgStore,
		Loop:         l,
		Idle:         idle.New(noopNotifier{}),
		Session:      &session.Lock{},
		Scene:        opts.Scene,
		Surface:      opts.Surface,
		Seat:         opts.Seat,
		Outputs:      make(map[string]*container.Output),
		RestoreCache: container.NewRestoreCache(),
		Layouts:      master.NewRegistry(),
		Keyboard:     keyboard.New(opts.Seat, &session.Lock{}),
		Keybinds:     keybind.NewTable(nil),
		PointerBinds: keybind.NewButtonTable(),
		Cursor:       cursor.New(opts.RefreshInterval),
		bspTrees:     make(map[string][container.MaxWorkspace + 1]*bsp.Tree),
	}

	factory := pool.NewPooledObjectFactorySimple(func(ctx context.Context) (interface{}, error) {
		return &container.Container{}, nil
	})
	s.containerPool = pool.NewObjectPool(context.Background(), factory, pool.NewDefaultPoolConfig())

	b.On(bus.ConfigReload, func(payload any) {
		ev, ok := payload.(config.ChangeEvent)
		if !ok {
			return
		}
		clog.Diagnostic("compositor", clog.Info, "config reloaded",
			"border_width", ev.New.BorderWidth, "mwfact", ev.New.MasterWFact)
		s.applyConfig(ev.New)
	})

	return s, nil
}

func (s *Server) applyConfig(cfg config.Config) {
	for _, out := range s.Outputs {
		for i := range out.State.ViewInfo {
			out.State.ViewInfo[i].UselessGaps = cfg.UselessGaps
			out.State.ViewInfo[i].Master.MWFact = cfg.MasterWFact
			out.State.ViewInfo[i].Master.MasterCount = cfg.MasterCount
			out.State.ViewInfo[i].Master.CurrentLayout = cfg.DefaultLayout
		}
		s.ArrangeOutput(out)
	}
}

// NewOutput registers a new Output named name, first checking
// RestoreCache for prior state under that name (spec.md §4.7).
func (s *Server) NewOutput(name string, usable, full geometry.Box) *container.Output {
	out := &container.Output{
		Name:       name,
		UsableArea: usable,
		FullArea:   full,
		State:      container.NewOutputState(),
	}
	if s.RestoreCache.Restore(name, out) {
		out.Restored = true
	}
	s.Outputs[name] = out
	s.Bus.Emit(bus.ScreenNew, out)
	return out
}

// DisconnectOutput stores out's state in RestoreCache and removes it from
// the active output set (spec.md §4.7 "on disconnect, stored in a
// name-keyed cache").
func (s *Server) DisconnectOutput(out *container.Output) {
	s.RestoreCache.Store(out)
	delete(s.Outputs, out.Name)
	delete(s.bspTrees, out.Name)
	s.Bus.Emit(bus.ScreenDestroy, out)
}

// bspTreeForWorkspace returns the BSP tree for the given output/workspace
// pair, creating it on first use.
func (s *Server) bspTreeForWorkspace(out *container.Output, ws int) *bsp.Tree {
	trees, ok := s.bspTrees[out.Name]
	if !ok {
		trees = [container.MaxWorkspace + 1]*bsp.Tree{}
	}
	if trees[ws] == nil {
		trees[ws] = bsp.New()
	}
	s.bspTrees[out.Name] = trees
	return trees[ws]
}

// bspTree returns the BSP tree for the given output's current workspace,
// creating it on first use.
func (s *Server) bspTree(out *container.Output) *bsp.Tree {
	return s.bspTreeForWorkspace(out, out.State.ActiveWorkspace)
}

// MapToplevel creates (borrowing from the container pool) or reuses a
// container for a newly mapped surface, applies the should-float
// heuristic, and inserts it into the active workspace's layout engine
// (spec.md §4.1 "a new toplevel either joins an existing container or
// creates one, tiled unless the should-float heuristic applies").
func (s *Server) MapToplevel(out *container.Output, sf surface.Surface) *container.Toplevel {
	if container.IsUnmanagedSurface(sf) {
		return s.mapUnmanagedToplevel(out, sf)
	}

	obj, err := s.containerPool.BorrowObject(context.Background())
	var c *container.Container
	if err != nil || obj == nil {
		c = &container.Container{}
	} else {
		c = obj.(*container.Container)
	}
	container.Recycle(c, s.Bus, out, s.Scene, nil)

	t := container.NewToplevel(sf)
	c.InsertToplevel(t, s.Surface)

	if container.ShouldFloat(sf) {
		w, h := sf.Geometry()
		c.Geometry = geometry.Box{X: 0, Y: 0, W: w, H: h}
		c.SetFloating(true)
	} else {
		view := out.State.CurrentView()
		if view.LayoutMode == container.LayoutBSP {
			tree := s.bspTree(out)
			tree.InsertContainer(c, &view.BSP)
		}
		// master/floating-default workspaces need no insertion step:
		// ArrangeUpdate recomputes geometry from the output's container
		// list directly on the next pass.
	}

	s.Bus.Emit(bus.ClientNew, c)
	s.Bus.Emit(bus.ClientMap, c)
	s.ArrangeOutput(out)
	return t
}

// mapUnmanagedToplevel wraps a FOREIGN override-redirect surface in an
// UNMANAGED container, bypassing the container list, focus stack, tag
// filtering and every layout engine entirely: it is positioned at its own
// requested origin and never arranged (spec.md §3, Scenario F).
func (s *Server) mapUnmanagedToplevel(out *container.Output, sf surface.Surface) *container.Toplevel {
	c := container.NewUnmanaged(s.Bus, out, s.Scene, nil)

	t := container.NewToplevel(sf)
	c.InsertToplevel(t, s.Surface)

	x, y := sf.RequestedPosition()
	w, h := sf.Geometry()
	c.Geometry = geometry.Box{X: x, Y: y, W: w, H: h}
	if s.Surface != nil {
		s.Surface.Configure(sf, x, y, w, h)
	}

	s.Bus.Emit(bus.ClientNew, c)
	s.Bus.Emit(bus.ClientMap, c)
	return t
}

// UnmapToplevel removes t from its container, destroying the container
// and removing it from its BSP tree (if any) once it becomes empty
// (spec.md §4.1).
func (s *Server) UnmapToplevel(t *container.Toplevel) {
	c := t.Container()
	if c == nil {
		return
	}
	s.Bus.Emit(bus.ClientUnmap, t)
	if empty := c.RemoveToplevel(t); empty {
		out := c.Output
		if c.IsUnmanaged() {
			return
		}
		view := out.State.View(c.Workspace)
		if _, isLeaf := c.BSPNode().(*bsp.Node); isLeaf {
			tree := s.bspTreeForWorkspace(out, c.Workspace)
			tree.RemoveContainer(c, &view.BSP)
		}
		c.Destroy(s.Scene)
		s.containerPool.ReturnObject(context.Background(), c)
		s.ArrangeOutput(out)
	}
}

// MoveContainerToTag reassigns c to workspace idx, migrating its BSP
// membership from its old workspace's tree to the new one if both are
// BSP-tiled (spec.md §4.1 move_to_tag). A container that is not currently
// a BSP leaf (floating, maximized, minimized, unmanaged...) is simply
// retagged; the next arrange pass picks it up from the output's container
// list directly.
func (s *Server) MoveContainerToTag(c *container.Container, idx int) {
	out := c.Output
	oldWorkspace := c.Workspace
	oldView := out.State.View(oldWorkspace)

	if _, isLeaf := c.BSPNode().(*bsp.Node); isLeaf {
		oldTree := s.bspTreeForWorkspace(out, oldWorkspace)
		oldTree.RemoveContainer(c, &oldView.BSP)
	}

	c.MoveToTag(idx)

	newView := out.State.View(idx)
	if newView.LayoutMode == container.LayoutBSP && c.IsTiled() {
		newTree := s.bspTreeForWorkspace(out, idx)
		newTree.InsertContainer(c, &newView.BSP)
	}

	s.ArrangeOutput(out)
}

// ArrangeOutput runs the active layout engine for output's current
// workspace: BSP workspaces recompute via their tree, master/stack
// workspaces via the layout registry (spec.md §5 "layout updates are
// coalesced per call").
func (s *Server) ArrangeOutput(out *container.Output) {
	view := out.State.CurrentView()
	switch view.LayoutMode {
	case container.LayoutBSP:
		tree := s.bspTree(out)
		tree.UpdateRoot(out.UsableArea, view.UselessGaps)
	case container.LayoutMaster:
		s.Layouts.ArrangeUpdate(out)
	}
}

// HandlePointerEvent routes a Seat pointer event through PointerBinds
// before the interactive cursor state machine, per spec.md §2 ("pointer
// events pass through Interactive to KeybindTable"), then notifies the
// Idle Service unless the event is purely passive (spec.md §6).
func (s *Server) HandlePointerEvent(ev seat.PointerEvent) {
	if ev.Type == seat.PointerButton && s.PointerBinds.DispatchButton(s.lastModifiers, ev.Button, ev.ButtonState) {
		s.Idle.NotifyActivity()
		return
	}
	s.Cursor.HandlePointerEvent(ev, time.Now())
	s.Idle.NotifyActivity()
}

// HandleKeyEvent gives the keybind table first refusal, per spec.md §4.6
// ("keybinds intercept before normal keyboard-focus delivery"); an
// unmatched press or any release falls through to the focused surface via
// the KeyboardFocusRouter. Every key event resets the idle timer.
func (s *Server) HandleKeyEvent(e seat.KeyEvent) {
	s.lastModifiers = e.Modifiers
	if !s.Keybinds.Dispatch(e) {
		s.Keyboard.HandleKey(e)
	}
	s.Idle.NotifyActivity()
}

// Run starts the event loop and blocks until Shutdown stops it.
func (s *Server) Run() error {
	return s.Loop.Run()
}

// Shutdown stops the event loop and releases its epoll/timerfd resources.
func (s *Server) Shutdown() {
	s.Loop.Stop()
	s.Loop.Close()
}

// noopNotifier is the default idle.Notifier until a real backend is wired;
// it simply drops activity notifications.
type noopNotifier struct{}

func (noopNotifier) NotifyActivity() {}
