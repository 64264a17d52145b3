//go:build linux

package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestOpenSocket_CloseOnExecAtCreation(t *testing.T) {
	ln, _ := holdingListener(t)
	c, _ := newTestConnector(t)

	var socketTypes []int
	orig := socketFunc
	socketFunc = func(domain, typ, proto int) (int, error) {
		socketTypes = append(socketTypes, typ)
		return orig(domain, typ, proto)
	}
	t.Cleanup(func() { socketFunc = orig })

	conn, err := c.Connect(context.Background(), endpointOf(t, ln.Addr()), DefaultOptions())
	require.NoError(t, err)
	defer conn.Close()

	require.Len(t, socketTypes, 1)
	assert.NotZero(t, socketTypes[0]&unix.SOCK_CLOEXEC)

	flags, err := unix.FcntlInt(uintptr(conn.Fd()), unix.F_GETFD, 0)
	require.NoError(t, err)
	assert.NotZero(t, flags&unix.FD_CLOEXEC)
}
