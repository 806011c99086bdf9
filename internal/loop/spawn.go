package loop

import (
	"os/exec"
	"syscall"

	"cwcgo.dev/cwcgo/internal/clog"
)

// Spawn launches argv0 with args in a new session (setsid), detaching it
// from the compositor's process group so it survives independently of
// whatever triggered it (spec.md §5's keybind-launched-program use case).
// Reaping happens on a dedicated goroutine rather than inline Wait, so the
// event loop's own goroutine never blocks on the child — the only
// suspension point spec.md §5 allows is epoll_wait itself; this keeps
// process-exit bookkeeping off of it entirely, the same property the
// original's double-fork achieves by handing the child to init instead of
// waiting on it at all.
func Spawn(argv0 string, args []string, env []string) error {
	path, err := exec.LookPath(argv0)
	if err != nil {
		return err
	}
	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			clog.Diagnostic("loop", clog.Debug, "spawned process exited", "argv0", argv0, "err", err)
		}
	}()
	return nil
}
