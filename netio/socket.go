package netio

import (
	"github.com/driftloop/async/reactor"
	"github.com/driftloop/async/task"
)

// Socket is a nonblocking TCP socket whose I/O operations are exposed as
// Tasks, suspending on a Reactor rather than blocking the calling
// goroutine.
type Socket struct {
	fd int
	r  *reactor.Reactor
}

// NewTCP creates a nonblocking TCP socket registered against r.
func NewTCP(r *reactor.Reactor) (*Socket, error) {
	fd, err := rawSocket()
	if err != nil {
		return nil, err
	}
	return &Socket{fd: fd, r: r}, nil
}

// Fd returns the underlying file descriptor, for adapters that need it
// (logging, tests).
func (s *Socket) Fd() int { return s.fd }

// Bind binds the socket to addr ("host:port" or ":port").
func (s *Socket) Bind(addr string) error {
	return rawBind(s.fd, addr)
}

// Listen marks the socket as a passive listener with the given backlog.
func (s *Socket) Listen(backlog int) error {
	return rawListen(s.fd, backlog)
}

// Accept returns a Task that completes with a new connected Socket once
// one is available.
func (s *Socket) Accept() *task.Task[*Socket] {
	return task.New(func(c *task.Ctx) (*Socket, error) {
		for {
			connFD, err := rawAccept(s.fd)
			if err == nil {
				return &Socket{fd: connFD, r: s.r}, nil
			}
			if !isEAGAIN(err) {
				return nil, err
			}
			if werr := s.awaitReadable(c); werr != nil {
				return nil, werr
			}
		}
	})
}

// Connect returns a Task that completes once the socket has connected to
// addr, or with the connection error.
func (s *Socket) Connect(addr string) *task.Task[task.Unit] {
	return task.New(func(c *task.Ctx) (task.Unit, error) {
		err := rawConnect(s.fd, addr)
		if err == nil {
			return task.Unit{}, nil
		}
		if !isEINPROGRESS(err) {
			return task.Unit{}, err
		}
		if werr := s.awaitWritable(c); werr != nil {
			return task.Unit{}, werr
		}
		if serr := rawSockError(s.fd); serr != nil {
			return task.Unit{}, serr
		}
		return task.Unit{}, nil
	})
}

// Read returns a Task that completes with the number of bytes read into
// buf once the socket is readable and the read succeeds.
func (s *Socket) Read(buf []byte) *task.Task[int] {
	return task.New(func(c *task.Ctx) (int, error) {
		for {
			n, err := rawRead(s.fd, buf)
			if err == nil {
				return n, nil
			}
			if !isEAGAIN(err) {
				return 0, err
			}
			if werr := s.awaitReadable(c); werr != nil {
				return 0, werr
			}
		}
	})
}

// Write returns a Task that completes once every byte of buf has been
// written, looping over short writes and suspending on EAGAIN in
// between. It completes with len(buf) on success.
func (s *Socket) Write(buf []byte) *task.Task[int] {
	return task.New(func(c *task.Ctx) (int, error) {
		total := 0
		for total < len(buf) {
			n, err := rawWrite(s.fd, buf[total:])
			if err == nil {
				total += n
				continue
			}
			if !isEAGAIN(err) {
				return total, err
			}
			if werr := s.awaitWritable(c); werr != nil {
				return total, werr
			}
		}
		return total, nil
	})
}

// Close unregisters the socket from its Reactor and closes the
// underlying fd.
func (s *Socket) Close() error {
	_ = s.r.Unregister(s.fd)
	return rawClose(s.fd)
}

func (s *Socket) awaitReadable(c *task.Ctx) error {
	var regErr error
	c.Park(func(wake func()) {
		if err := s.r.RegisterRead(s.fd, wake); err != nil {
			regErr = err
			wake()
		}
	})
	return regErr
}

func (s *Socket) awaitWritable(c *task.Ctx) error {
	var regErr error
	c.Park(func(wake func()) {
		if err := s.r.RegisterWrite(s.fd, wake); err != nil {
			regErr = err
			wake()
		}
	})
	return regErr
}
