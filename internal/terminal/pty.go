// file: internal/terminal/pty.go
package terminal

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
)

// cmdProcess adapts *exec.Cmd's process handle to the osProcess interface.
type cmdProcess struct {
	cmd *exec.Cmd
}

func (c *cmdProcess) Kill() error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Kill()
}

// spawnPTY opens a pseudo-terminal at the requested geometry and starts cmd
// as its child, returning the master end and a handle used to kill the
// child on close.
func spawnPTY(shellPath string, args, env []string, cols, rows uint16) (osProcess, *os.File, error) {
	cmd := exec.Command(shellPath, args...)
	cmd.Env = env

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return nil, nil, err
	}

	return &cmdProcess{cmd: cmd}, master, nil
}

// nonBlockingRead attempts exactly one read of up to max bytes from f,
// returning an empty slice (not an error) if nothing was available within
// the already-elapsed grace window.
func nonBlockingRead(f *os.File, max int) ([]byte, error) {
	if err := f.SetReadDeadline(time.Now()); err != nil {
		// Some platforms/fd kinds don't support read deadlines; fall back
		// to returning no output rather than blocking the dispatcher.
		return nil, nil
	}
	buf := make([]byte, max)
	n, err := f.Read(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return buf[:n], nil
}
