// Package config implements the single mutable, atomically-committed
// g_config of spec.md §5 and §9: a Config struct read through an explicit
// reference, YAML-decoded, fsnotify-reloaded, and committed through a
// ConfigChanged(old_snapshot) signal on the Event Bus. See SPEC_FULL.md
// §1.3.
package config

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"cwcgo.dev/cwcgo/internal/bus"
	"cwcgo.dev/cwcgo/internal/clog"
)

// Config holds every user-tunable value the core reads. Numeric values are
// clamped to their valid range on decode (spec.md §7): mwfact to
// [0.1, 0.9], opacity to [0, 1], gaps to [0, inf), workspace indices to
// [1, 30].
type Config struct {
	BorderWidth   int     `yaml:"border_width"`
	UselessGaps   int     `yaml:"useless_gaps"`
	MasterWFact   float64 `yaml:"mwfact"`
	MasterCount   int     `yaml:"master_count"`
	MaxWorkspace  int     `yaml:"max_workspace"`
	DefaultLayout string  `yaml:"default_layout"`
	Opacity       float64 `yaml:"opacity"`
}

// Default returns the built-in configuration used before any file is
// loaded.
func Default() Config {
	return Config{
		BorderWidth:   2,
		UselessGaps:   0,
		MasterWFact:   0.5,
		MasterCount:   1,
		MaxWorkspace:  9,
		DefaultLayout: "tile",
		Opacity:       1,
	}
}

// clamp applies spec.md §7's configuration-error rules in place.
func (c *Config) clamp() {
	c.MasterWFact = clampFloat(c.MasterWFact, 0.1, 0.9)
	c.Opacity = clampFloat(c.Opacity, 0, 1)
	if c.UselessGaps < 0 {
		c.UselessGaps = 0
	}
	if c.MaxWorkspace < 1 {
		c.MaxWorkspace = 1
	}
	if c.MaxWorkspace > 30 {
		c.MaxWorkspace = 30
	}
	if c.MasterCount < 1 {
		c.MasterCount = 1
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Store is the live, fsnotify-backed configuration holder. Callers read the
// current value through Current(); subscribers to bus.ConfigReload receive
// a ChangeEvent value with both the old and new snapshots, compared for exactly
// one cycle per spec.md §5 ("An old-config snapshot is kept for exactly
// one compare cycle").
type Store struct {
	bus  *bus.Bus
	path string

	mu      sync.RWMutex
	current Config

	watcher *fsnotify.Watcher
}

// ChangeEvent is the payload of a bus.ConfigReload emission.
type ChangeEvent struct {
	Old, New Config
}

// NewStore loads path (falling back to Default on any read/parse error,
// which is logged at Error severity per spec.md §7) and returns a Store not
// yet watching for changes.
func NewStore(b *bus.Bus, path string) *Store {
	s := &Store{bus: b, path: path, current: Default()}
	if err := s.load(); err != nil {
		clog.Diagnostic("config", clog.Error, "failed to load config, using defaults", "path", path, "err", err)
	}
	return s
}

// Current returns the current configuration snapshot.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	// Some fragments (e.g. generated by templating tools upstream) encode
	// numeric fields as YAML strings; decode into a loosely-typed map first
	// and coerce with spf13/cast before the strict struct decode so that
	// "0.5" and 0.5 both land the same way (SPEC_FULL.md §1.3).
	var loose map[string]any
	if err := yaml.Unmarshal(raw, &loose); err != nil {
		return err
	}
	cfg := Default()
	if v, ok := loose["border_width"]; ok {
		cfg.BorderWidth = cast.ToInt(v)
	}
	if v, ok := loose["useless_gaps"]; ok {
		cfg.UselessGaps = cast.ToInt(v)
	}
	if v, ok := loose["mwfact"]; ok {
		cfg.MasterWFact = cast.ToFloat64(v)
	}
	if v, ok := loose["master_count"]; ok {
		cfg.MasterCount = cast.ToInt(v)
	}
	if v, ok := loose["max_workspace"]; ok {
		cfg.MaxWorkspace = cast.ToInt(v)
	}
	if v, ok := loose["default_layout"]; ok {
		cfg.DefaultLayout = cast.ToString(v)
	}
	if v, ok := loose["opacity"]; ok {
		cfg.Opacity = cast.ToFloat64(v)
	}
	cfg.clamp()

	s.mu.Lock()
	old := s.current
	s.current = cfg
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Emit(bus.ConfigReload, ChangeEvent{Old: old, New: cfg})
	}
	return nil
}

// Watch starts an fsnotify watch on the config file path itself, reloading
// and re-committing on every write event until ctx-independent Close is
// called. Errors watching are logged, not fatal: a missing config directory
// means the process simply runs with whatever was last loaded.
func (s *Store) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = w
	if err := w.Add(s.path); err != nil {
		clog.Diagnostic("config", clog.Error, "failed to watch config path", "path", s.path, "err", err)
		return err
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := s.load(); err != nil {
						clog.Diagnostic("config", clog.Error, "failed to reload config", "err", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				clog.Diagnostic("config", clog.Error, "config watcher error", "err", err)
			}
		}
	}()
	return nil
}

// Close stops watching the config file.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
