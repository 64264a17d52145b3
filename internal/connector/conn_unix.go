//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package connector

import (
	"io"
	"net"
	"net/netip"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"liuproxy_connector/internal/common/errors"
)

// Read reads from the socket, blocking until data, EOF or the read timeout.
func (c *Conn) Read(b []byte) (int, error) {
	fd := c.Fd()
	if fd < 0 {
		return 0, net.ErrClosed
	}
	for {
		n, err := unix.Read(fd, b)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, os.ErrDeadlineExceeded
		case err != nil:
			return 0, errors.NewError("read").Base(err)
		case n == 0 && len(b) > 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

// Write writes all of b, blocking as needed.
func (c *Conn) Write(b []byte) (int, error) {
	fd := c.Fd()
	if fd < 0 {
		return 0, net.ErrClosed
	}
	written := 0
	for written < len(b) {
		n, err := unix.Write(fd, b[written:])
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return written, os.ErrDeadlineExceeded
		}
		if err != nil {
			return written, errors.NewError("write").Base(err)
		}
		written += n
	}
	return written, nil
}

// SetReadTimeout bounds each blocking Read via SO_RCVTIMEO. Zero disables it.
func (c *Conn) SetReadTimeout(d time.Duration) error {
	fd := c.Fd()
	if fd < 0 {
		return net.ErrClosed
	}
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return errors.NewError("failed to set SO_RCVTIMEO").Base(err)
	}
	return nil
}

// NoDelay reads TCP_NODELAY back from the socket.
func (c *Conn) NoDelay() (bool, error) {
	fd := c.Fd()
	if fd < 0 {
		return false, net.ErrClosed
	}
	v, err := unix.GetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY)
	if err != nil {
		return false, errors.NewError("failed to get TCP_NODELAY").Base(err)
	}
	return v != 0, nil
}

// IsBlocking reports whether O_NONBLOCK is clear on the descriptor.
func (c *Conn) IsBlocking() (bool, error) {
	fd := c.Fd()
	if fd < 0 {
		return false, net.ErrClosed
	}
	nonblocking, err := isNonblock(fd)
	if err != nil {
		return false, errors.NewError("fcntl F_GETFL").Base(err)
	}
	return !nonblocking, nil
}

// LocalAddr returns the bound local address.
func (c *Conn) LocalAddr() (netip.AddrPort, error) {
	fd := c.Fd()
	if fd < 0 {
		return netip.AddrPort{}, net.ErrClosed
	}
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return netip.AddrPort{}, errors.NewError("getsockname").Base(err)
	}
	return addrPortOf(sa), nil
}

// RemoteAddr returns the peer address as reported by the kernel.
func (c *Conn) RemoteAddr() (netip.AddrPort, error) {
	fd := c.Fd()
	if fd < 0 {
		return netip.AddrPort{}, net.ErrClosed
	}
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return netip.AddrPort{}, errors.NewError("getpeername").Base(err)
	}
	return addrPortOf(sa), nil
}

// Close shuts the connection down in both directions and closes it. Only the
// first call does anything; later calls return net.ErrClosed.
func (c *Conn) Close() error {
	ok, err := c.release(func(fd int) error {
		return releaseSocket(c.stack, fd)
	})
	if !ok {
		return net.ErrClosed
	}
	return err
}

// NetConn hands the socket over to the Go runtime as a net.Conn. The Conn is
// closed afterwards and the returned net.Conn is the only owner of the socket.
func (c *Conn) NetConn() (net.Conn, error) {
	var nc net.Conn
	ok, err := c.release(func(fd int) error {
		f := os.NewFile(uintptr(fd), "tcp:"+c.remote.String())
		var ferr error
		nc, ferr = net.FileConn(f)
		// FileConn holds a dup; closing f drops only our descriptor.
		c.stack.Untrack(fd)
		f.Close()
		return ferr
	})
	if !ok {
		return nil, net.ErrClosed
	}
	if err != nil {
		return nil, errors.NewError("failed to convert socket to net.Conn").Base(err)
	}
	return nc, nil
}

func addrPortOf(sa unix.Sockaddr) netip.AddrPort {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(a.Addr), uint16(a.Port))
	case *unix.SockaddrInet6:
		return netip.AddrPortFrom(netip.AddrFrom16(a.Addr), uint16(a.Port))
	}
	return netip.AddrPort{}
}
