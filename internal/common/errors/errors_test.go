package errors

import (
	stderrors "errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	err := NewError("failed to set ", "TCP_NODELAY").AtPrefix("fd=7")
	assert.Equal(t, "[fd=7] failed to set TCP_NODELAY", err.Error())

	err.Base(syscall.EBADF)
	assert.Equal(t, "[fd=7] failed to set TCP_NODELAY > "+syscall.EBADF.Error(), err.String())
}

func TestError_Unwrap(t *testing.T) {
	err := NewError("connect").Base(syscall.ECONNREFUSED)

	var errno syscall.Errno
	require.True(t, stderrors.As(err, &errno))
	assert.Equal(t, syscall.ECONNREFUSED, errno)
	assert.True(t, stderrors.Is(err, syscall.ECONNREFUSED))
}
