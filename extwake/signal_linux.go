//go:build linux

package extwake

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// eventfdSignal backs Signal with a Linux eventfd in counter mode: Raise
// adds 1 to the kernel-held counter, coalescing concurrent raises, and a
// background goroutine blocks reading it, forwarding one notification
// per drain onto a buffered channel.
type eventfdSignal struct {
	fd int
	ch chan struct{}
}

// New returns a Signal backed by an eventfd, used purely as a
// cross-goroutine doorbell rather than a poller-registered fd (so no
// EFD_NONBLOCK: the reader goroutine is meant to block between raises).
func New() (Signal, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	s := &eventfdSignal{
		fd: fd,
		ch: make(chan struct{}, 1),
	}
	go s.readLoop()
	return s, nil
}

func (s *eventfdSignal) readLoop() {
	var buf [8]byte
	for {
		n, err := unix.Read(s.fd, buf[:])
		if err != nil || n != 8 {
			return // fd closed, or spurious short read on shutdown
		}
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}

func (s *eventfdSignal) Raise() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(s.fd, buf[:])
	return err
}

func (s *eventfdSignal) C() <-chan struct{} {
	return s.ch
}

func (s *eventfdSignal) Close() error {
	return unix.Close(s.fd)
}
