package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"liuproxy_connector/internal/app"
	cnet "liuproxy_connector/internal/common/net"
	"liuproxy_connector/internal/shared/config"
	"liuproxy_connector/internal/shared/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit code: 0 on success, 1 on any error.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("connect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("configdir", "configs", "Path to config directory")
	timeout := fs.Duration("timeout", 0, "Connect timeout (overrides connect.timeout_ms)")
	retries := fs.Int("retries", -1, "Retries of the whole connect on transient failure (overrides connect.retries)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: connect [flags] [host] [port]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	iniPath := filepath.Join(*configDir, "connect.ini")
	cfg, err := config.LoadIni(iniPath)
	if err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if fs.NArg() > 0 {
		cfg.Host = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		port, err := cnet.PortFromString(fs.Arg(1))
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		cfg.Port = int(port)
	}
	if *timeout > 0 {
		cfg.TimeoutMillis = int(*timeout / time.Millisecond)
	}
	if *retries >= 0 {
		cfg.Retries = *retries
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}

	reg := prometheus.NewRegistry()
	client := app.NewClient(cfg, stdout, reg)
	err = client.Run(ctx)
	app.LogAttemptSummary(reg)
	fmt.Fprintln(stdout, "Program exiting")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
