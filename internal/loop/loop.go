// Package loop implements the single-threaded cooperative event loop of
// spec.md §5: one epoll instance multiplexing file-descriptor sources,
// timers and idle callbacks, with no blocking call anywhere else in the
// process. Grounded on golang.org/x/sys/unix's epoll/timerfd wrappers
// (SPEC_FULL.md §2) and gioui's single-threaded event pumping
// idiom in app/internal/window/os_wayland.go's dispatch loop
// (TEACHER.txt).
package loop

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"cwcgo.dev/cwcgo/internal/clog"
)

// FDHandler is called with the readiness bitmask (unix.EPOLLIN etc.) for a
// registered file descriptor.
type FDHandler func(events uint32)

// TimerHandler is called when a timer fires. A one-shot timer from AddTimer
// is removed after its handler runs; a recurring timer from AddTicker keeps
// firing until CancelTimer is called.
type TimerHandler func()

// IdleHandler runs once, after the current epoll_wait's ready fds and
// timers have all been processed, grounded on spec.md §5 "idle callbacks
// run once, after I/O and timers, before the loop blocks again".
type IdleHandler func()

// Loop is a single-threaded, epoll-backed event loop. All methods other
// than Run and Stop are expected to be called from the same goroutine
// Run executes on (spec.md §5 "single-threaded cooperative").
type Loop struct {
	epfd int

	mu      sync.Mutex
	fdByNum map[int32]FDHandler
	started bool // set once Run begins; guarded by mu

	idle *list.List // of IdleHandler

	timerMu sync.Mutex
	timers  map[int32]*timerEntry

	stop chan struct{}
	done chan struct{}
}

type timerEntry struct {
	fd        int
	handler   TimerHandler
	recurring bool
}

// New creates an epoll instance. Callers must call Close when done.
func New() (*Loop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &Loop{
		epfd:    epfd,
		fdByNum: make(map[int32]FDHandler),
		idle:    list.New(),
		timers:  make(map[int32]*timerEntry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// AddFD registers fd for the given epoll event mask, calling handler
// whenever it becomes ready.
func (l *Loop) AddFD(fd int, events uint32, handler FDHandler) error {
	l.mu.Lock()
	l.fdByNum[int32(fd)] = handler
	l.mu.Unlock()
	return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: events,
		Fd:     int32(fd),
	})
}

// RemoveFD deregisters fd.
func (l *Loop) RemoveFD(fd int) error {
	l.mu.Lock()
	delete(l.fdByNum, int32(fd))
	l.mu.Unlock()
	return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// AddTimer arms a one-shot timerfd to fire after d, grounded on
// CLOCK_MONOTONIC timerfd usage for the compositor's resize-throttle and
// idle-inhibitor timeout (spec.md §4.4, §4.9 boundary use).
func (l *Loop) AddTimer(d time.Duration, handler TimerHandler) (int, error) {
	return l.addTimer(d, false, handler)
}

// AddTicker arms a recurring timerfd firing every d.
func (l *Loop) AddTicker(d time.Duration, handler TimerHandler) (int, error) {
	return l.addTimer(d, true, handler)
}

func (l *Loop) addTimer(d time.Duration, recurring bool, handler TimerHandler) (int, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		return -1, err
	}
	spec := durationToItimerspec(d, recurring)
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		unix.Close(fd)
		return -1, err
	}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(fd),
	}); err != nil {
		unix.Close(fd)
		return -1, err
	}
	l.timerMu.Lock()
	l.timers[int32(fd)] = &timerEntry{fd: fd, handler: handler, recurring: recurring}
	l.timerMu.Unlock()
	return fd, nil
}

// CancelTimer disarms and removes a timer previously returned by AddTimer
// or AddTicker.
func (l *Loop) CancelTimer(fd int) {
	l.timerMu.Lock()
	delete(l.timers, int32(fd))
	l.timerMu.Unlock()
	unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	unix.Close(fd)
}

func durationToItimerspec(d time.Duration, recurring bool) unix.ItimerSpec {
	sec := int64(d / time.Second)
	nsec := int64(d % time.Second)
	val := unix.Timespec{Sec: sec, Nsec: nsec}
	interval := unix.Timespec{}
	if recurring {
		interval = val
	}
	return unix.ItimerSpec{Interval: interval, Value: val}
}

// AddIdle queues handler to run once, the next time the loop drains its
// idle queue (spec.md §5).
func (l *Loop) AddIdle(handler IdleHandler) {
	l.mu.Lock()
	l.idle.PushBack(handler)
	l.mu.Unlock()
}

// Run blocks the calling goroutine, dispatching ready fds, fired timers
// and idle callbacks until Stop is called.
func (l *Loop) Run() error {
	l.mu.Lock()
	l.started = true
	l.mu.Unlock()
	defer close(l.done)
	events := make([]unix.EpollEvent, 64)
	for {
		select {
		case <-l.stop:
			return nil
		default:
		}

		n, err := unix.EpollWait(l.epfd, events, 50)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		for i := 0; i < n; i++ {
			fd := events[i].Fd
			l.dispatch(fd, events[i].Events)
		}
		l.drainIdle()
	}
}

func (l *Loop) dispatch(fd int32, mask uint32) {
	l.timerMu.Lock()
	te, isTimer := l.timers[fd]
	l.timerMu.Unlock()
	if isTimer {
		var buf [8]byte
		unix.Read(int(te.fd), buf[:])
		te.handler()
		if !te.recurring {
			l.CancelTimer(int(te.fd))
		}
		return
	}

	l.mu.Lock()
	h, ok := l.fdByNum[fd]
	l.mu.Unlock()
	if !ok {
		clog.Diagnostic("loop", clog.Debug, "epoll event for unregistered fd", "fd", fd)
		return
	}
	h(mask)
}

func (l *Loop) drainIdle() {
	l.mu.Lock()
	pending := l.idle
	l.idle = list.New()
	l.mu.Unlock()

	for e := pending.Front(); e != nil; e = e.Next() {
		if h, ok := e.Value.(IdleHandler); ok {
			h()
		}
	}
}

// Stop requests the loop to return from Run after its current iteration
// and waits for it to do so. If Run was never started, Stop returns at once.
func (l *Loop) Stop() {
	close(l.stop)
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if started {
		<-l.done
	}
}

// Close releases the epoll fd. Call after Run has returned.
func (l *Loop) Close() error {
	return unix.Close(l.epfd)
}
