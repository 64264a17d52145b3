// holdserver accepts TCP connections and holds them open without reading or
// writing, which is the peer the connect client expects to talk to.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"liuproxy_connector/internal/shared/logger"
	"liuproxy_connector/internal/shared/types"
)

func main() {
	addr := flag.String("listen", "127.0.0.1:55555", "Address to listen on")
	level := flag.String("loglevel", "info", "Log level")
	flag.Parse()

	if err := logger.Init(types.LogConf{Level: *level}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to listen on %s: %v\n", *addr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", ln.Addr().String()).Msg("Hold server listening")
	serve(ctx, ln)
	logger.Info().Msg("Hold server stopped")
}

// holdSet is the set of held connections. Once closed it refuses new ones, so
// a connection accepted while shutting down is not left open.
type holdSet struct {
	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
}

func newHoldSet() *holdSet {
	return &holdSet{conns: make(map[net.Conn]struct{})}
}

// add holds conn, or closes it and reports false after closeAll.
func (h *holdSet) add(conn net.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		conn.Close()
		return false
	}
	h.conns[conn] = struct{}{}
	return true
}

func (h *holdSet) remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

func (h *holdSet) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.conns {
		c.Close()
	}
}

// serve accepts until ctx is done, then closes the listener and every held connection.
func serve(ctx context.Context, ln net.Listener) {
	held := newHoldSet()
	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		ln.Close()
		held.closeAll()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error().Err(err).Msg("Accept failed")
			}
			break
		}
		if !held.add(conn) {
			logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Shutting down, connection dropped")
			continue
		}
		logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("Connection accepted, holding")

		wg.Add(1)
		go func() {
			defer wg.Done()
			// Returns once the peer closes or the connection is torn down.
			n, _ := io.Copy(io.Discard, conn)
			conn.Close()
			held.remove(conn)
			logger.Debug().Str("remote", conn.RemoteAddr().String()).Int("discarded", int(n)).Msg("Connection released")
		}()
	}
	wg.Wait()
}
