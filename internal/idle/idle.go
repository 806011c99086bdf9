// Package idle implements the boundary to the Idle/Inhibitor Service
// (spec.md §6), supplemented from original_source/src/desktop/idle.c: a
// refcounted inhibitor and an activity-notify call invoked by
// compositor.Server on every pointer and key event it handles.
package idle

import "sync"

// Notifier is the subset of the Idle/Inhibitor Service the core calls into.
type Notifier interface {
	// NotifyActivity resets the idle timer. Called on every pointer/keyboard
	// event that is not purely passive (spec.md §6).
	NotifyActivity()
}

// Service is a refcounted inhibitor tracker backed by a Notifier. While the
// inhibitor count is positive, idle notification is suppressed for the
// inhibitors' lifetime, mirroring cwc_idle's refcount in idle.c.
type Service struct {
	notifier Notifier

	mu    sync.Mutex
	count int
}

// New returns a Service that forwards activity notifications to notifier
// unless inhibited.
func New(notifier Notifier) *Service {
	return &Service{notifier: notifier}
}

// NotifyActivity forwards to the underlying Notifier unless an inhibitor is
// currently held.
func (s *Service) NotifyActivity() {
	s.mu.Lock()
	inhibited := s.count > 0
	s.mu.Unlock()
	if !inhibited {
		s.notifier.NotifyActivity()
	}
}

// Inhibit suppresses idle notification until the returned release func is
// called. Calling release more than once is a no-op.
func (s *Service) Inhibit() (release func()) {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.count--
			s.mu.Unlock()
		})
	}
}

// Inhibited reports whether any inhibitor is currently held.
func (s *Service) Inhibited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count > 0
}
