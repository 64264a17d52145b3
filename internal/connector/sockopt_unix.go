//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package connector

import (
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"liuproxy_connector/internal/common/errors"
)

// applySocketOptions sets TCP_NODELAY (required) and the buffer size hints
// (best-effort), then runs the user controllers (required).
func (c *Connector) applySocketOptions(log zerolog.Logger, fd int, opts ConnectionOptions) error {
	if opts.NoDelay {
		if err := setsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
			return &OptionError{Option: "TCP_NODELAY", Err: errors.NewError("failed to set TCP_NODELAY").Base(err)}
		}
	}

	if opts.ReceiveBufferBytes > 0 {
		if err := setsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, int(opts.ReceiveBufferBytes)); err != nil {
			log.Debug().Err(err).Msg("SO_RCVBUF not applied, keeping OS default")
		}
	}
	if opts.SendBufferBytes > 0 {
		if err := setsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, int(opts.SendBufferBytes)); err != nil {
			log.Debug().Err(err).Msg("SO_SNDBUF not applied, keeping OS default")
		}
	}

	for _, ctl := range c.controllers {
		if err := ctl.fn(fd); err != nil {
			return &OptionError{Option: ctl.name, Err: errors.NewError("controller failed").AtPrefix(ctl.name).Base(err)}
		}
	}
	return nil
}

func setNonblock(fd int, nonblocking bool) error {
	if err := unix.SetNonblock(fd, nonblocking); err != nil {
		return errors.NewError("failed to set O_NONBLOCK=", nonblocking).Base(err)
	}
	return nil
}

func isNonblock(fd int) (bool, error) {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return false, err
	}
	return flags&unix.O_NONBLOCK != 0, nil
}
