//go:build linux

package netio

import (
	"fmt"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

func isEAGAIN(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}

func isEINPROGRESS(err error) bool {
	return err == unix.EINPROGRESS
}

func rawSocket() (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, unix.IPPROTO_TCP)
	if err != nil {
		return -1, fmt.Errorf("netio: socket: %w", err)
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	return fd, nil
}

func sockaddrFromAddr(addr string) (*unix.SockaddrInet4, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("netio: bad address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("netio: bad port %q: %w", portStr, err)
	}

	sa := &unix.SockaddrInet4{Port: port}
	if host == "" {
		// all-zero address, i.e. INADDR_ANY
	} else {
		ip := net.ParseIP(host)
		if ip == nil {
			ips, err := net.LookupIP(host)
			if err != nil || len(ips) == 0 {
				return nil, fmt.Errorf("netio: cannot resolve %q", host)
			}
			ip = ips[0]
		}
		ip4 := ip.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("netio: only IPv4 addresses are supported, got %q", host)
		}
		copy(sa.Addr[:], ip4)
	}
	return sa, nil
}

func rawBind(fd int, addr string) error {
	sa, err := sockaddrFromAddr(addr)
	if err != nil {
		return err
	}
	if err := unix.Bind(fd, sa); err != nil {
		return fmt.Errorf("netio: bind %s: %w", addr, err)
	}
	return nil
}

func rawListen(fd int, backlog int) error {
	if err := unix.Listen(fd, backlog); err != nil {
		return fmt.Errorf("netio: listen: %w", err)
	}
	return nil
}

func rawAccept(fd int) (int, error) {
	connFD, _, err := unix.Accept4(fd, unix.SOCK_NONBLOCK)
	if err != nil {
		return -1, err
	}
	return connFD, nil
}

func rawConnect(fd int, addr string) error {
	sa, err := sockaddrFromAddr(addr)
	if err != nil {
		return err
	}
	if err := unix.Connect(fd, sa); err != nil {
		return err
	}
	return nil
}

func rawRead(fd int, buf []byte) (int, error) {
	n, err := unix.Read(fd, buf)
	if err != nil {
		return 0, err
	}
	// A zero-byte read with no error means the peer closed its write side:
	// end of stream, not a failure. The caller observes this as an empty
	// result (n == 0, err == nil), not io.EOF.
	return n, nil
}

func rawWrite(fd int, buf []byte) (int, error) {
	n, err := unix.Write(fd, buf)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func rawClose(fd int) error {
	return unix.Close(fd)
}

func localPort(fd int) (int, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return 0, fmt.Errorf("netio: getsockname: %w", err)
	}
	in4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return 0, fmt.Errorf("netio: unexpected sockaddr type %T", sa)
	}
	return in4.Port, nil
}

func rawSockError(fd int) error {
	errno, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if errno != 0 {
		return unix.Errno(errno)
	}
	return nil
}
