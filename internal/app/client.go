package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"

	cnet "liuproxy_connector/internal/common/net"
	"liuproxy_connector/internal/connector"
	"liuproxy_connector/internal/netstack"
	"liuproxy_connector/internal/shared/logger"
	"liuproxy_connector/internal/shared/types"
)

// Client is the connect program: it owns the process-wide network stack
// handle and runs one (optionally retried) connection attempt.
type Client struct {
	cfg       *types.Config
	stack     *netstack.Stack
	connector *connector.Connector
	out       io.Writer

	// initialRetryInterval seeds the exponential backoff between attempts.
	initialRetryInterval time.Duration
}

// NewClient builds a Client. Progress lines go to out; metrics are registered
// with reg when it is not nil.
func NewClient(cfg *types.Config, out io.Writer, reg prometheus.Registerer) *Client {
	stack := netstack.New()
	return &Client{
		cfg:                  cfg,
		stack:                stack,
		connector:            connector.New(stack, connector.WithMetrics(connector.NewMetrics(reg))),
		out:                  out,
		initialRetryInterval: 500 * time.Millisecond,
	}
}

// Run acquires the network stack, connects to the configured endpoint, reports
// readiness and cleans everything up before returning.
func (c *Client) Run(ctx context.Context) error {
	handle, err := c.stack.Acquire()
	if err != nil {
		return err
	}
	defer func() {
		handle.Release()
		c.stack.Shutdown()
	}()
	c.printf("Network stack initialized")

	port, err := cnet.PortFromInt(c.cfg.Port)
	if err != nil {
		return err
	}
	ep, err := cnet.NewEndpoint(c.cfg.Host, port)
	if err != nil {
		return err
	}

	conn, err := c.connect(ctx, ep)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.printf("Connected to server successfully")
	c.printf("Ready to send and receive data")
	return nil
}

func (c *Client) connect(ctx context.Context, ep cnet.Endpoint) (*connector.Conn, error) {
	opts := connector.OptionsFromConfig(c.cfg.ConnectConf)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialRetryInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.Retries)), ctx)

	attempt := 0
	return backoff.RetryNotifyWithData(func() (*connector.Conn, error) {
		attempt++
		conn, err := c.connector.Connect(ctx, ep, opts)
		if err != nil && connector.IsPermanent(err) {
			return nil, backoff.Permanent(err)
		}
		return conn, err
	}, policy, func(err error, next time.Duration) {
		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Str("endpoint", ep.String()).
			Msg("Connect attempt failed, retrying")
	})
}

func (c *Client) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
