// Package connector establishes TCP connections step by step on a raw socket:
// create, tune, connect without blocking, wait for writability within a
// timeout, then hand a blocking-mode socket to the caller. Every failure path
// closes what it allocated before returning.
package connector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	cnet "liuproxy_connector/internal/common/net"
	"liuproxy_connector/internal/netstack"
	"liuproxy_connector/internal/shared/logger"
)

// Connector produces connected sockets. It is safe for concurrent use; each
// Connect call is independent.
type Connector struct {
	stack       *netstack.Stack
	log         zerolog.Logger
	metrics     *Metrics
	controllers []namedControl
}

// New returns a Connector that draws its subsystem handles from stack.
func New(stack *netstack.Stack, opts ...Option) *Connector {
	c := &Connector{
		stack: stack,
		log:   logger.WithComponent("connector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes a TCP connection to ep. On success the returned Conn owns
// the socket and a subsystem handle, both released by Conn.Close. On failure
// nothing stays open.
//
// ctx cancels the wait for the handshake; the ConnectTimeout in opts still
// bounds it when ctx never fires.
func (c *Connector) Connect(ctx context.Context, ep cnet.Endpoint, opts ConnectionOptions) (*Conn, error) {
	start := time.Now()
	log := c.log.With().
		Str("attempt", uuid.NewString()).
		Str("endpoint", ep.String()).
		Logger()

	conn, err := c.connect(ctx, log, ep, opts)
	elapsed := time.Since(start)
	c.metrics.observe(kindOf(err), elapsed)

	if err != nil {
		log.Warn().Err(err).Str("kind", kindOf(err)).Dur("elapsed", elapsed).Msg("Connect failed")
		return nil, err
	}
	log.Info().Int("fd", conn.Fd()).Dur("elapsed", elapsed).Msg("Connected to server successfully")
	return conn, nil
}

func (c *Connector) connect(ctx context.Context, log zerolog.Logger, ep cnet.Endpoint, opts ConnectionOptions) (*Conn, error) {
	handle, err := c.stack.Acquire()
	if err != nil {
		return nil, err
	}
	// The handle travels with the Conn on success.
	transferred := false
	defer func() {
		if !transferred {
			handle.Release()
		}
	}()

	conn, err := c.establish(ctx, log, ep, opts)
	if err != nil {
		return nil, err
	}
	conn.handle = handle
	transferred = true
	return conn, nil
}
