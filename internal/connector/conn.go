package connector

import (
	"sync"

	cnet "liuproxy_connector/internal/common/net"
	"liuproxy_connector/internal/netstack"
)

// Conn is a connected, blocking-mode TCP socket. It owns the descriptor and
// one network stack handle until Close or NetConn gives them up.
type Conn struct {
	fd     int
	stack  *netstack.Stack
	handle *netstack.Handle
	remote cnet.Endpoint

	mu     sync.Mutex
	closed bool
}

// Fd returns the raw descriptor, or -1 once the Conn is closed.
func (c *Conn) Fd() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return -1
	}
	return c.fd
}

// Endpoint returns the endpoint the connection was made to.
func (c *Conn) Endpoint() cnet.Endpoint {
	return c.remote
}

// release marks the Conn closed and runs fn with the descriptor. It reports
// false if the Conn was already closed.
func (c *Conn) release(fn func(fd int) error) (bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, nil
	}
	c.closed = true
	fd := c.fd
	c.mu.Unlock()

	err := fn(fd)
	if c.handle != nil {
		c.handle.Release()
	}
	return true, err
}
