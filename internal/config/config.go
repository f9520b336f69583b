// Package config handles daemon configuration.
// file: internal/config/config.go
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings holds the full daemon configuration. Per spec.md §6 there is no
// configuration file: every field is set from a default or a command-line flag.
type Settings struct {
	BindAddr string // BindAddr: interface to listen on; empty means all interfaces.
	Port     int    // Port: TCP port the daemon listens on.
	WorkDir  string // WorkDir: root against which every RPC path parameter is resolved.
}

// New returns the default configuration: all interfaces, port 7717, current
// working directory.
func New() *Settings {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Settings{
		BindAddr: "",
		Port:     7717,
		WorkDir:  cwd,
	}
}

// FromFlags parses args against a fresh FlagSet seeded with New()'s defaults,
// mirroring the way the teacher's command table parses subcommand flags.
func FromFlags(args []string) (*Settings, error) {
	s := New()
	fs := flag.NewFlagSet("hostd", flag.ContinueOnError)
	fs.StringVar(&s.BindAddr, "bind", s.BindAddr, "address to listen on (empty = all interfaces)")
	fs.IntVar(&s.Port, "port", s.Port, "TCP port to listen on")
	workdir := fs.String("workdir", s.WorkDir, "working directory RPC paths resolve against")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	expanded, err := ExpandPath(*workdir)
	if err != nil {
		return nil, err
	}
	s.WorkDir = expanded
	return s, nil
}

// Address returns the listener address as host:port.
func (s *Settings) Address() string {
	return fmt.Sprintf("%s:%d", s.BindAddr, s.Port)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
