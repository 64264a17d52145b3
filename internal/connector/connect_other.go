//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package connector

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog"

	cnet "liuproxy_connector/internal/common/net"
)

func (c *Connector) establish(ctx context.Context, log zerolog.Logger, ep cnet.Endpoint, opts ConnectionOptions) (*Conn, error) {
	return nil, &SubsystemInitError{Err: errors.ErrUnsupported}
}

// Close releases the stack handle. Conns are never created on this platform.
func (c *Conn) Close() error {
	if ok, _ := c.release(func(int) error { return nil }); !ok {
		return net.ErrClosed
	}
	return nil
}
