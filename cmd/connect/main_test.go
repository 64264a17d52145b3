package main

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

func TestRun_Success(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		if c, err := ln.Accept(); err == nil {
			defer c.Close()
			buf := make([]byte, 1)
			c.Read(buf)
		}
	}()

	tcp := ln.Addr().(*net.TCPAddr)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"-configdir", t.TempDir(), tcp.IP.String(), strconv.Itoa(tcp.Port)},
		&stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Connected to server successfully")
	assert.Contains(t, stdout.String(), "Program exiting")
}

func TestRun_InvalidHostExitsWithOne(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"-configdir", t.TempDir(), "999.999.999.999", "55555"},
		&stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: invalid IP address format")
	assert.Contains(t, stdout.String(), "Program exiting")
}

func TestRun_BadPort(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-configdir", t.TempDir(), "127.0.0.1", "http"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: invalid port")

	stderr.Reset()
	code = run(context.Background(), []string{"-configdir", t.TempDir(), "127.0.0.1", "70000"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error:")
}
