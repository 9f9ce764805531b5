//go:build linux

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// epollReadMask and epollWriteMask always carry EPOLLET: every fd is
// registered edge-triggered, so a readiness notification fires once per
// transition rather than once per epoll_wait while data remains
// available. RegisterRead/RegisterWrite's "fires once" contract and
// netio's retry-until-EAGAIN loops are exactly what edge-triggered
// delivery requires — a level-triggered fd would keep re-firing a
// continuation that already ran.
const (
	epollReadMask  uint32 = unix.EPOLLIN | unix.EPOLLET
	epollWriteMask uint32 = unix.EPOLLOUT | unix.EPOLLET
)

type readyEvent struct {
	fd       int
	readable bool
	writable bool
}

func epollCreate() (int, error) {
	return unix.EpollCreate1(0)
}

func (r *Reactor) epollAdd(fd int, mask uint32) error {
	ev := &unix.EpollEvent{Events: mask, Fd: int32(fd)}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, ev)
}

func (r *Reactor) epollModify(fd int, mask uint32) error {
	ev := &unix.EpollEvent{Events: mask, Fd: int32(fd)}
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, fd, ev)
}

func (r *Reactor) epollDel(fd int) error {
	err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT || err == unix.EBADF {
		return nil
	}
	return err
}

func (r *Reactor) epollClose() error {
	return unix.Close(r.epfd)
}

// epollWait blocks for up to timeout for readiness on any registered fd.
// A negative or zero timeout still polls once without blocking further;
// there is no wake-fd here, so the bound on how promptly Stop or a newly
// registered short timer is noticed is this call's timeout, per the
// Reactor's documented ~100ms worst case.
func (r *Reactor) epollWait(timeout time.Duration) ([]readyEvent, error) {
	ms := int(timeout / time.Millisecond)
	if ms < 0 {
		ms = 0
	}

	var raw [128]unix.EpollEvent
	n, err := unix.EpollWait(r.epfd, raw[:], ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	out := make([]readyEvent, 0, n)
	for i := 0; i < n; i++ {
		ev := raw[i]
		out = append(out, readyEvent{
			fd:       int(ev.Fd),
			readable: ev.Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0,
			writable: ev.Events&(unix.EPOLLOUT|unix.EPOLLHUP|unix.EPOLLERR) != 0,
		})
	}
	return out, nil
}
