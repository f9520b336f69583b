// Package terminal implements the daemon-scoped pseudo-terminal session
// manager from spec.md §4.4: a registry of interactive shells keyed by
// monotonically increasing string identifiers, exposed as the four
// terminal/* RPC methods.
package terminal

// file: internal/terminal/terminal.go

import (
	"encoding/base64"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/dkoosis/zedrahost/internal/rpcerr"
)

// session owns one live pseudo-terminal and its child shell.
type session struct {
	master *os.File
	cmd    osProcess
}

// osProcess is the subset of *exec.Cmd this package needs; kept as its own
// type so tests can substitute a fake process without shelling out.
type osProcess interface {
	Kill() error
}

// readGraceWindow is the ≤10ms pause spec.md §4.4 specifies before the
// single non-blocking read attempt in terminal/data.
const readGraceWindow = 10 * time.Millisecond

// maxReadChunk bounds a single terminal/data read, per spec.md §4.4.
const maxReadChunk = 8 * 1024

// Manager is the daemon-scoped registry of live terminal sessions. The zero
// value is not usable; construct with New.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	nextID   uint64
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{sessions: make(map[string]*session)}
}

// shellCommand resolves the login shell to spawn, per spec.md §6: $SHELL,
// falling back to /bin/bash, invoked with login-shell semantics and a
// terminal-capable environment exported to the child.
func shellCommand() (path string, args []string, env []string) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/bash"
	}
	env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")
	return shell, []string{"-l"}, env
}

// Create allocates a pseudo-terminal of the given geometry, spawns the login
// shell as its child, and registers the session under a freshly minted id.
func (m *Manager) Create(cols, rows uint16) (string, error) {
	shellPath, args, env := shellCommand()

	cmd, master, err := spawnPTY(shellPath, args, env, cols, rows)
	if err != nil {
		return "", rpcerr.WithCategory(rpcerr.Wrap(err, "spawn pty"), rpcerr.CategoryTerminal)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("term-%d", m.nextID)
	m.sessions[id] = &session{master: master, cmd: cmd}
	return id, nil
}

// Data decodes data (URL-safe base64) and writes it to the terminal's input,
// then waits up to readGraceWindow and returns whatever bytes, also
// URL-safe base64, are available from the terminal's output (possibly none).
func (m *Manager) Data(id string, data string) (string, error) {
	sess, err := m.lookup(id)
	if err != nil {
		return "", err
	}

	input, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return "", rpcerr.BadBase64(err)
	}

	if len(input) > 0 {
		if _, err := sess.master.Write(input); err != nil {
			return "", rpcerr.WithCategory(rpcerr.Wrap(err, "write to terminal"), rpcerr.CategoryTerminal)
		}
	}

	time.Sleep(readGraceWindow)

	output, err := nonBlockingRead(sess.master, maxReadChunk)
	if err != nil {
		return "", rpcerr.WithCategory(rpcerr.Wrap(err, "read from terminal"), rpcerr.CategoryTerminal)
	}
	return base64.URLEncoding.EncodeToString(output), nil
}

// Resize changes the terminal's geometry; the child receives SIGWINCH via the
// OS's PTY facilities.
func (m *Manager) Resize(id string, cols, rows uint16) error {
	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := pty.Setsize(sess.master, &pty.Winsize{Cols: cols, Rows: rows}); err != nil {
		return rpcerr.WithCategory(rpcerr.Wrap(err, "resize terminal"), rpcerr.CategoryTerminal)
	}
	return nil
}

// Close removes the session from the registry and releases its handles.
// Idempotent: closing an id that is absent (never minted, or already closed)
// still succeeds, per spec.md §4.4.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	_ = sess.master.Close()
	_ = sess.cmd.Kill()
	return nil
}

// CloseAll releases every live session, used on daemon shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*session)
	m.mu.Unlock()

	for _, sess := range sessions {
		_ = sess.master.Close()
		_ = sess.cmd.Kill()
	}
}

func (m *Manager) lookup(id string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, rpcerr.UnknownTerminal(id)
	}
	return sess, nil
}
