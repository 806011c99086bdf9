package loop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"cwcgo.dev/cwcgo/internal/loop"
)

func TestAddFDDispatchesOnReadiness(t *testing.T) {
	l, err := loop.New()
	require.NoError(t, err)
	defer l.Close()

	r, w, err := osPipe()
	require.NoError(t, err)
	defer unix.Close(r)
	defer unix.Close(w)

	done := make(chan struct{})
	err = l.AddFD(r, unix.EPOLLIN, func(events uint32) {
		var buf [1]byte
		unix.Read(r, buf[:])
		close(done)
	})
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		unix.Write(w, []byte{1})
	}()
	go l.Run()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fd readiness callback never ran")
	}
	l.Stop()
}

func TestAddTimerFiresOnce(t *testing.T) {
	l, err := loop.New()
	require.NoError(t, err)
	defer l.Close()

	fired := make(chan struct{}, 2)
	_, err = l.AddTimer(5*time.Millisecond, func() { fired <- struct{}{} })
	require.NoError(t, err)

	go l.Run()
	defer l.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	select {
	case <-fired:
		t.Fatal("one-shot timer fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAddIdleRunsAfterIO(t *testing.T) {
	l, err := loop.New()
	require.NoError(t, err)
	defer l.Close()

	ran := make(chan struct{})
	l.AddIdle(func() { close(ran) })

	go l.Run()
	defer l.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("idle callback never ran")
	}
}

func osPipe() (r, w int, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}
