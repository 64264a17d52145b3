// Package netstack models the process-wide network subsystem as an explicit,
// reference-counted handle. The first Acquire runs the platform startup hook and
// the last Release runs the cleanup hook; every socket created while a handle is
// held is accounted for so callers can verify nothing leaks.
package netstack

import (
	"errors"
	"sync"

	"liuproxy_connector/internal/shared/logger"
)

// ErrShutdown is returned by Acquire once the stack has been shut down.
var ErrShutdown = errors.New("network stack is shut down")

// SubsystemInitError reports that the network subsystem could not be started.
type SubsystemInitError struct {
	Err error
}

func (e *SubsystemInitError) Error() string {
	return "network subsystem cannot be initialized: " + e.Err.Error()
}

func (e *SubsystemInitError) Unwrap() error {
	return e.Err
}

// Option configures a Stack.
type Option func(*Stack)

// WithStartup sets the hook run when the reference count goes from 0 to 1.
func WithStartup(fn func() error) Option {
	return func(s *Stack) { s.startup = fn }
}

// WithCleanup sets the hook run when the reference count drops back to 0.
func WithCleanup(fn func()) Option {
	return func(s *Stack) { s.cleanup = fn }
}

// Stack is the network subsystem lifecycle service.
type Stack struct {
	mu      sync.Mutex
	refs    int
	closed  bool
	startup func() error
	cleanup func()
	sockets map[int]struct{}
}

// New creates a Stack. Without options startup and cleanup are no-ops, which is
// what unix platforms need.
func New(opts ...Option) *Stack {
	s := &Stack{
		startup: func() error { return nil },
		cleanup: func() {},
		sockets: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle is one acquisition of the stack. It must be released exactly once;
// extra Release calls are ignored.
type Handle struct {
	stack *Stack
	once  sync.Once
}

// Acquire takes a reference on the stack, starting it if needed.
func (s *Stack) Acquire() (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, &SubsystemInitError{Err: ErrShutdown}
	}
	if s.refs == 0 {
		if err := s.startup(); err != nil {
			return nil, &SubsystemInitError{Err: err}
		}
		logger.Debug().Msg("Network stack started")
	}
	s.refs++
	return &Handle{stack: s}, nil
}

// Release drops the reference held by h.
func (h *Handle) Release() {
	h.once.Do(h.stack.release)
}

func (s *Stack) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		if n := len(s.sockets); n > 0 {
			logger.Warn().Int("open_sockets", n).Msg("Network stack released with sockets still open")
		}
		s.cleanup()
		logger.Debug().Msg("Network stack cleaned up")
	}
}

// Refs returns the number of outstanding handles.
func (s *Stack) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}

// Shutdown refuses further acquisitions. Existing handles stay valid until released.
func (s *Stack) Shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Track records fd as an open socket owned by a user of this stack.
func (s *Stack) Track(fd int) {
	s.mu.Lock()
	s.sockets[fd] = struct{}{}
	s.mu.Unlock()
}

// Untrack forgets fd. It reports false if fd was not tracked, which means a
// double close was attempted.
func (s *Stack) Untrack(fd int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sockets[fd]; !ok {
		return false
	}
	delete(s.sockets, fd)
	return true
}

// Tracked reports whether fd is currently tracked.
func (s *Stack) Tracked(fd int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sockets[fd]
	return ok
}

// OpenSockets returns the number of tracked sockets.
func (s *Stack) OpenSockets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sockets)
}
