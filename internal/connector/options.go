package connector

import (
	"time"

	"github.com/rs/zerolog"

	"liuproxy_connector/internal/shared/types"
)

// DefaultConnectTimeout bounds the wait for a non-blocking connect.
const DefaultConnectTimeout = 5 * time.Second

// ConnectionOptions tunes the socket created by Connect.
type ConnectionOptions struct {
	// NoDelay disables Nagle's algorithm. Failing to set it aborts the connect.
	NoDelay bool

	// ReceiveBufferBytes and SendBufferBytes are hints. Zero keeps the OS
	// default and a failure to apply them is ignored.
	ReceiveBufferBytes uint
	SendBufferBytes    uint

	// ConnectTimeout bounds the handshake. Zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration
}

// DefaultOptions returns no-delay on, OS default buffers and a 5s timeout.
func DefaultOptions() ConnectionOptions {
	return ConnectionOptions{
		NoDelay:        true,
		ConnectTimeout: DefaultConnectTimeout,
	}
}

// OptionsFromConfig builds ConnectionOptions from the [connect] ini section.
func OptionsFromConfig(c types.ConnectConf) ConnectionOptions {
	opts := ConnectionOptions{
		NoDelay:        c.NoDelay,
		ConnectTimeout: time.Duration(c.TimeoutMillis) * time.Millisecond,
	}
	if c.RecvBufBytes > 0 {
		opts.ReceiveBufferBytes = uint(c.RecvBufBytes)
	}
	if c.SendBufBytes > 0 {
		opts.SendBufferBytes = uint(c.SendBufBytes)
	}
	return opts
}

func (o ConnectionOptions) timeout() time.Duration {
	if o.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return o.ConnectTimeout
}

// ControlFunc runs against the raw socket after the built-in options are
// applied and before connecting. An error aborts the connect with an OptionError.
type ControlFunc func(fd int) error

// Option configures a Connector.
type Option func(*Connector)

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Connector) { c.log = l }
}

// WithMetrics records every Connect call in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Connector) { c.metrics = m }
}

// WithControl appends a socket control hook. name identifies it in errors.
func WithControl(name string, fn ControlFunc) Option {
	return func(c *Connector) {
		c.controllers = append(c.controllers, namedControl{name: name, fn: fn})
	}
}

type namedControl struct {
	name string
	fn   ControlFunc
}
