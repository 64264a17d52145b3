//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package main

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"

	cnet "liuproxy_connector/internal/common/net"
	"liuproxy_connector/internal/connector"
	"liuproxy_connector/internal/netstack"
)

func TestServe_HoldsConnectionUntilShutdown(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		serve(ctx, ln)
		close(done)
	}()

	ap := ln.Addr().(*net.TCPAddr).AddrPort()
	ep, err := cnet.NewEndpoint(ap.Addr().Unmap().String(), cnet.Port(ap.Port()))
	require.NoError(t, err)

	stack := netstack.New()
	conn, err := connector.New(stack).Connect(context.Background(), ep, connector.DefaultOptions())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadTimeout(100*time.Millisecond))
	_, err = conn.Read(make([]byte, 1))
	assert.Error(t, err, "server must not send anything")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after shutdown")
	}
}

func TestHoldSet_RefusesAfterCloseAll(t *testing.T) {
	held := newHoldSet()

	kept, keptPeer := net.Pipe()
	defer keptPeer.Close()
	require.True(t, held.add(kept))

	held.closeAll()
	_, err := kept.Write([]byte("x"))
	assert.Error(t, err, "held connection must be closed by closeAll")

	late, latePeer := net.Pipe()
	defer latePeer.Close()
	assert.False(t, held.add(late))
	_, err = late.Write([]byte("x"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
