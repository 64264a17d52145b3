//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package connector

import (
	"context"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	cnet "liuproxy_connector/internal/common/net"
	"liuproxy_connector/internal/netstack"
)

// Syscall seams, replaced in tests to drive failure paths.
var (
	socketFunc    = unix.Socket
	closeFunc     = unix.Close
	connectFunc   = unix.Connect
	pollFunc      = unix.Poll
	setsockoptInt = unix.SetsockoptInt
	getsockoptInt = unix.GetsockoptInt
)

// pollSlice caps a single poll when ctx can be cancelled, so cancellation is
// noticed promptly.
const pollSlice = 50 * time.Millisecond

func (c *Connector) establish(ctx context.Context, log zerolog.Logger, ep cnet.Endpoint, opts ConnectionOptions) (*Conn, error) {
	domain := unix.AF_INET
	if ep.IsValid() && ep.Family() == cnet.FamilyIPv6 {
		domain = unix.AF_INET6
	}

	fd, err := openSocket(domain)
	if err != nil {
		return nil, &SocketCreateError{Err: err}
	}
	c.stack.Track(fd)
	log.Debug().Int("fd", fd).Msg("Client socket created")

	owned := true
	defer func() {
		if owned {
			releaseSocket(c.stack, fd)
			log.Debug().Int("fd", fd).Msg("Client socket released")
		}
	}()

	if err := c.applySocketOptions(log, fd, opts); err != nil {
		return nil, err
	}

	sa, err := sockaddr(ep)
	if err != nil {
		return nil, err
	}

	if err := setNonblock(fd, true); err != nil {
		return nil, &ConnectError{Op: "set non-blocking", Err: err}
	}

	switch err := connectFunc(fd, sa); err {
	case nil:
	case unix.EINPROGRESS, unix.EALREADY, unix.EINTR:
		log.Debug().Dur("timeout", opts.timeout()).Msg("Connection in progress, waiting for writability")
		if err := waitWritable(ctx, fd, ep, opts.timeout()); err != nil {
			return nil, err
		}
	default:
		return nil, &ConnectError{Err: err}
	}

	if err := setNonblock(fd, false); err != nil {
		return nil, &ConnectError{Op: "set blocking", Err: err}
	}

	owned = false
	return &Conn{fd: fd, stack: c.stack, remote: ep}, nil
}

// waitWritable polls fd for POLLOUT until the connection completes, the
// timeout expires, or ctx is done. A writable socket is only accepted once
// SO_ERROR confirms the handshake succeeded.
func waitWritable(ctx context.Context, fd int, ep cnet.Endpoint, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}

	for {
		if err := ctx.Err(); err != nil {
			return &ConnectError{Op: "wait", Err: err}
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &ConnectTimeoutError{Endpoint: ep.String(), After: timeout}
		}
		if ctx.Done() != nil && remaining > pollSlice {
			remaining = pollSlice
		}

		n, err := pollFunc(fds, pollMillis(remaining))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return &ConnectError{Op: "poll", Err: err}
		}
		if n == 0 {
			continue
		}

		soErr, err := getsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
		if err != nil {
			return &ConnectError{Op: "getsockopt SO_ERROR", Err: err}
		}
		if soErr != 0 {
			return &ConnectError{Err: syscall.Errno(soErr)}
		}
		return nil
	}
}

// pollMillis rounds d up to whole milliseconds so a short remainder does not
// turn into a busy zero-timeout poll.
func pollMillis(d time.Duration) int {
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	return int(ms)
}

func sockaddr(ep cnet.Endpoint) (unix.Sockaddr, error) {
	if !ep.IsValid() {
		return nil, &InvalidAddressError{Host: ep.Host()}
	}
	addr := ep.Addr()
	port := int(ep.Port().Value())

	if addr.Is4() {
		return &unix.SockaddrInet4{Port: port, Addr: addr.As4()}, nil
	}

	sa := &unix.SockaddrInet6{Port: port, Addr: addr.As16()}
	if zone := addr.Zone(); zone != "" {
		if ifi, err := net.InterfaceByName(zone); err == nil {
			sa.ZoneId = uint32(ifi.Index)
		} else if idx, err := strconv.ParseUint(zone, 10, 32); err == nil {
			sa.ZoneId = uint32(idx)
		} else {
			return nil, &InvalidAddressError{Host: ep.Host()}
		}
	}
	return sa, nil
}

// releaseSocket shuts fd down and closes it. fd is untracked before the close:
// once closed, a concurrent socket() may get the same number and track it.
func releaseSocket(stack *netstack.Stack, fd int) error {
	_ = unix.Shutdown(fd, unix.SHUT_RDWR)
	stack.Untrack(fd)
	return closeFunc(fd)
}
