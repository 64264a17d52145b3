//go:build linux

package connector

import "golang.org/x/sys/unix"

// openSocket creates the TCP socket with close-on-exec set atomically.
func openSocket(domain int) (int, error) {
	return socketFunc(domain, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
}
