package connector

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	cnet "liuproxy_connector/internal/common/net"
	"liuproxy_connector/internal/netstack"
)

// SubsystemInitError reports that the network subsystem could not be acquired.
type SubsystemInitError = netstack.SubsystemInitError

// InvalidAddressError reports host text that is not a valid literal for its family.
type InvalidAddressError = cnet.InvalidAddressError

// SocketCreateError reports that the OS refused to allocate a socket.
type SocketCreateError struct {
	Err error
}

func (e *SocketCreateError) Error() string {
	return "failed to create socket: " + e.Err.Error()
}

func (e *SocketCreateError) Unwrap() error { return e.Err }

// Code returns the platform error number, or 0 if there is none.
func (e *SocketCreateError) Code() syscall.Errno { return errnoOf(e.Err) }

// OptionError reports a required socket option that could not be applied.
type OptionError struct {
	Option string
	Err    error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("failed to set socket option %s: %v", e.Option, e.Err)
}

func (e *OptionError) Unwrap() error { return e.Err }

func (e *OptionError) Code() syscall.Errno { return errnoOf(e.Err) }

// ConnectError reports a terminal failure while connecting. Op names the step
// that failed when it was not the connect call itself.
type ConnectError struct {
	Op  string
	Err error
}

func (e *ConnectError) Error() string {
	if e.Op == "" {
		return "failed to connect to server: " + e.Err.Error()
	}
	return "failed to connect to server (" + e.Op + "): " + e.Err.Error()
}

func (e *ConnectError) Unwrap() error { return e.Err }

func (e *ConnectError) Code() syscall.Errno { return errnoOf(e.Err) }

// ConnectTimeoutError reports that the endpoint did not accept the connection in time.
type ConnectTimeoutError struct {
	Endpoint string
	After    time.Duration
}

func (e *ConnectTimeoutError) Error() string {
	return fmt.Sprintf("connection to %s timed out after %s", e.Endpoint, e.After)
}

// Timeout makes the error satisfy net.Error style timeout checks.
func (e *ConnectTimeoutError) Timeout() bool { return true }

// IsTimeout reports whether err is a ConnectTimeoutError.
func IsTimeout(err error) bool {
	var te *ConnectTimeoutError
	return errors.As(err, &te)
}

// IsPermanent reports whether retrying the same Connect call cannot succeed.
func IsPermanent(err error) bool {
	var (
		addrErr *InvalidAddressError
		initErr *SubsystemInitError
		optErr  *OptionError
	)
	return errors.As(err, &addrErr) || errors.As(err, &initErr) || errors.As(err, &optErr)
}

// kindOf classifies err for metrics and logs.
func kindOf(err error) string {
	var (
		initErr    *SubsystemInitError
		createErr  *SocketCreateError
		optErr     *OptionError
		addrErr    *InvalidAddressError
		timeoutErr *ConnectTimeoutError
		connErr    *ConnectError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &initErr):
		return "subsystem_init"
	case errors.As(err, &createErr):
		return "socket_create"
	case errors.As(err, &optErr):
		return "option"
	case errors.As(err, &addrErr):
		return "invalid_address"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &connErr):
		return "connect"
	default:
		return "other"
	}
}

func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}
