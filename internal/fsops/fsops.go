// Package fsops implements the filesystem capability spec.md §6 describes:
// list/read/write/stat/mkdir/remove, every path resolved relative to the
// daemon's working directory.
package fsops

// file: internal/fsops/fsops.go

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
)

// Entry describes one directory member, matching the fs/list result shape.
type Entry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

// Stat describes one path's metadata, matching the fs/stat result shape.
type Stat struct {
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	Size     int64  `json:"size"`
	Modified *int64 `json:"modified,omitempty"`
}

// Filesystem is the capability consumed by the fs/* handlers. Implementations
// need not be backed by the local disk; a test double may be in-memory.
type Filesystem interface {
	List(path string) ([]Entry, error)
	Read(path string) (string, error)
	Write(path, content string) error
	Stat(path string) (Stat, error)
	Mkdir(path string) error
	Remove(path string) error
}

// LocalFS implements Filesystem against the real disk, rooted at Root.
type LocalFS struct {
	Root string
}

// NewLocalFS returns a Filesystem rooted at root.
func NewLocalFS(root string) *LocalFS {
	return &LocalFS{Root: root}
}

func (l *LocalFS) resolve(relPath string) string {
	return filepath.Join(l.Root, relPath)
}

// List returns the directory's entries with directories first, then files,
// each group lexicographic by name.
func (l *LocalFS) List(path string) ([]Entry, error) {
	full := l.resolve(path)
	dirEntries, err := os.ReadDir(full)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", path)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			return nil, errors.Wrapf(err, "stat entry %s", de.Name())
		}
		entries = append(entries, Entry{
			Name:  de.Name(),
			Path:  filepath.Join(path, de.Name()),
			IsDir: de.IsDir(),
			Size:  info.Size(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Read returns the file's full contents as a string.
func (l *LocalFS) Read(path string) (string, error) {
	b, err := os.ReadFile(l.resolve(path))
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(b), nil
}

// Write creates any missing parent directories, then writes content,
// replacing the file if it already exists.
func (l *LocalFS) Write(path, content string) error {
	full := l.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrapf(err, "create parent directories for %s", path)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Stat reports path's metadata. Modified is seconds since the Unix epoch.
func (l *LocalFS) Stat(path string) (Stat, error) {
	info, err := os.Stat(l.resolve(path))
	if err != nil {
		return Stat{}, errors.Wrapf(err, "stat %s", path)
	}
	modified := info.ModTime().Unix()
	return Stat{
		Path:     path,
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Modified: &modified,
	}, nil
}

// Mkdir creates path and any missing parent directories.
func (l *LocalFS) Mkdir(path string) error {
	if err := os.MkdirAll(l.resolve(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", path)
	}
	return nil
}

// Remove deletes path: a single file via Remove, a directory (empty or not)
// via RemoveAll.
func (l *LocalFS) Remove(path string) error {
	full := l.resolve(path)
	info, err := os.Lstat(full)
	if err != nil {
		return errors.Wrapf(err, "remove %s", path)
	}

	if info.IsDir() {
		if err := os.RemoveAll(full); err != nil {
			return errors.Wrapf(err, "remove directory %s", path)
		}
		return nil
	}
	if err := os.Remove(full); err != nil {
		return errors.Wrapf(err, "remove file %s", path)
	}
	return nil
}
