//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package connector

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// openSocket creates the TCP socket and marks it close-on-exec. Darwin has no
// SOCK_CLOEXEC, so ForkLock keeps a concurrent fork from inheriting fd.
func openSocket(domain int) (int, error) {
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()
	fd, err := socketFunc(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(fd)
	return fd, nil
}
