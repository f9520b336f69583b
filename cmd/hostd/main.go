// Command hostd runs the remote-development bridge host daemon: it accepts
// connections, frames JSON-RPC messages, and dispatches them against the
// local filesystem, git, and terminal capabilities.
package main

// file: cmd/hostd/main.go

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/dkoosis/zedrahost/internal/config"
	"github.com/dkoosis/zedrahost/internal/daemon"
	"github.com/dkoosis/zedrahost/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "hostd: %+v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.FromFlags(args)
	if err != nil {
		return errors.Wrap(err, "parse flags")
	}

	logging.InitLogging(logging.LevelInfo, os.Stderr)
	logger := logging.GetLogger("hostd")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ln, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return errors.Wrapf(err, "listen on %s", cfg.Address())
	}
	logger.Info("hostd listening", "address", cfg.Address(), "workdir", cfg.WorkDir)

	state := daemon.New(cfg.WorkDir, logger)
	listener := daemon.NewListener(state)

	serveErr := make(chan error, 1)
	go func() { serveErr <- listener.Serve(ctx, ln) }()

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	case err := <-serveErr:
		if err != nil {
			logger.Error("listener stopped with error", "error", err)
			return err
		}
	}

	state.Terminal.CloseAll()
	logger.Info("hostd shutdown complete")
	return nil
}
