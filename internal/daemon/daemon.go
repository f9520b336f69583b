// Package daemon wires the core's handler catalog (spec.md §6) onto a
// shared daemon state and accepts connections, spawning one dispatcher per
// inbound stream.
package daemon

// file: internal/daemon/daemon.go

import (
	"context"
	"net"

	"github.com/google/uuid"

	"github.com/dkoosis/zedrahost/internal/aiprompt"
	"github.com/dkoosis/zedrahost/internal/connlife"
	"github.com/dkoosis/zedrahost/internal/dispatcher"
	"github.com/dkoosis/zedrahost/internal/fsops"
	"github.com/dkoosis/zedrahost/internal/logging"
	"github.com/dkoosis/zedrahost/internal/lspstub"
	"github.com/dkoosis/zedrahost/internal/paramschema"
	"github.com/dkoosis/zedrahost/internal/terminal"
	"github.com/dkoosis/zedrahost/internal/transport"
)

// State is the value shared across every connection to one daemon: the
// working directory, the filesystem capability, and the terminal manager.
// Immutable after New except for the terminal manager's own internal state.
type State struct {
	WorkDir  string
	FS       fsops.Filesystem
	Terminal *terminal.Manager
	AI       *aiprompt.Runner
	LSP      *lspstub.Service
	Logger   logging.Logger
}

// New constructs daemon State rooted at workDir, with a local-disk filesystem
// capability and a fresh terminal manager.
func New(workDir string, logger logging.Logger) *State {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &State{
		WorkDir:  workDir,
		FS:       fsops.NewLocalFS(workDir),
		Terminal: terminal.New(),
		AI:       aiprompt.NewRunner("claude"),
		LSP:      lspstub.New(workDir),
		Logger:   logger,
	}
}

// Registry builds the dispatcher.Registry wiring the full method catalog
// from spec.md §6 onto s.
func (s *State) Registry() *dispatcher.Registry {
	schemas := paramschema.NewRegistry()
	registerSchemas(schemas)

	reg := dispatcher.NewRegistry(schemas)
	registerFSHandlers(reg, s)
	registerGitHandlers(reg, s)
	registerTerminalHandlers(reg, s)
	registerAIHandlers(reg, s)
	registerLSPHandlers(reg, s)
	return reg
}

// Listener accepts connections from a net.Listener, spawning one dispatcher per
// connection against a shared State and registry.
type Listener struct {
	state  *State
	reg    *dispatcher.Registry
	logger logging.Logger
}

// NewListener returns a Listener ready to Serve.
func NewListener(state *State) *Listener {
	return &Listener{state: state, reg: state.Registry(), logger: state.Logger}
}

// Serve accepts connections on ln until ctx is cancelled or Accept fails.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go l.handleConn(ctx, conn)
	}
}

func (l *Listener) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connID := uuid.New().String()
	log := l.logger.WithField("conn", connID)

	life, err := connlife.New(log)
	if err != nil {
		log.Error("failed to build connection lifecycle", "error", err)
		return
	}

	framer := transport.New(conn)
	d := dispatcher.New(framer, l.reg, log)

	if err := d.Run(ctx); err != nil {
		log.Warn("connection ended", "error", err)
	}

	_ = life.MarkStreamEnded(ctx)
	_ = life.MarkDrained(ctx)
}
