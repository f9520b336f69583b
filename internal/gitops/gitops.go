// Package gitops implements the git/* handlers by shelling out to the git
// binary, mirroring the approach of the original Rust host (no Go git
// library appears anywhere in the reference set this module was built from).
package gitops

// file: internal/gitops/gitops.go

import (
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// StatusEntry is one line of `git status --porcelain` output, mapped to the
// FileStatus enumeration spec.md §6 requires.
type StatusEntry struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// LogEntry is one commit record, matching the git/log result shape.
type LogEntry struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Author    string `json:"author"`
	Timestamp int64  `json:"timestamp"`
}

// BranchInfo is one local branch, matching the git/branches result shape.
type BranchInfo struct {
	Name   string `json:"name"`
	IsHead bool   `json:"is_head"`
}

// Repo wraps a working directory known to be a git repository.
type Repo struct {
	WorkDir string
}

// Open verifies workDir is a git repository and returns a Repo for it.
func Open(workDir string) (*Repo, error) {
	r := &Repo{WorkDir: workDir}
	if _, err := r.git("rev-parse", "--git-dir"); err != nil {
		return nil, errors.Wrapf(err, "%s is not a git repository", workDir)
	}
	return r, nil
}

func (r *Repo) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.WorkDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Newf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Branch returns the current branch name.
func (r *Repo) Branch() (string, error) {
	out, err := r.git("branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

var statusCodeToName = map[byte]string{
	'M': "modified",
	'A': "added",
	'D': "deleted",
	'R': "renamed",
	'C': "renamed",
	'?': "untracked",
	'U': "conflicted",
}

func classifyStatus(indexCode, worktreeCode byte) string {
	if indexCode == 'U' || worktreeCode == 'U' || (indexCode == 'A' && worktreeCode == 'A') {
		return "conflicted"
	}
	if name, ok := statusCodeToName[indexCode]; ok && indexCode != ' ' {
		return name
	}
	if name, ok := statusCodeToName[worktreeCode]; ok {
		return name
	}
	return "modified"
}

// Status returns the current branch and the porcelain status of every
// changed path.
func (r *Repo) Status() (string, []StatusEntry, error) {
	branch, err := r.Branch()
	if err != nil {
		return "", nil, err
	}

	out, err := r.git("status", "--porcelain=v1")
	if err != nil {
		return "", nil, err
	}

	var entries []StatusEntry
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 3 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		entries = append(entries, StatusEntry{
			Path:   path,
			Status: classifyStatus(line[0], line[1]),
		})
	}
	return branch, entries, nil
}

// Diff returns the unified diff for path (or the whole tree if path is
// empty), staged or against the working tree.
func (r *Repo) Diff(path string, staged bool) (string, error) {
	args := []string{"diff"}
	if staged {
		args = append(args, "--cached")
	}
	if path != "" {
		args = append(args, "--", path)
	}
	return r.git(args...)
}

// Log returns up to limit commits, most recent first.
func (r *Repo) Log(limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	out, err := r.git("log", "-n", strconv.Itoa(limit), "--format=%H%n%s%n%an%n%at")
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var entries []LogEntry
	for i := 0; i+4 <= len(lines); i += 4 {
		ts, _ := strconv.ParseInt(lines[i+3], 10, 64)
		entries = append(entries, LogEntry{
			ID:        lines[i],
			Message:   lines[i+1],
			Author:    lines[i+2],
			Timestamp: ts,
		})
	}
	return entries, nil
}

// Branches lists every local branch, marking which one is HEAD.
func (r *Repo) Branches() ([]BranchInfo, error) {
	out, err := r.git("branch", "--format=%(HEAD) %(refname:short)")
	if err != nil {
		return nil, err
	}

	var branches []BranchInfo
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		isHead := strings.HasPrefix(line, "*")
		name := strings.TrimSpace(strings.TrimPrefix(line, "*"))
		branches = append(branches, BranchInfo{Name: name, IsHead: isHead})
	}
	return branches, nil
}

// Checkout switches the working tree to branch.
func (r *Repo) Checkout(branch string) error {
	_, err := r.git("checkout", branch)
	return err
}

// Commit stages paths and commits them with message, returning the new
// commit hash. paths must be non-empty.
func (r *Repo) Commit(message string, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("commit requires at least one path")
	}
	if _, err := r.git(append([]string{"add"}, paths...)...); err != nil {
		return "", err
	}
	if _, err := r.git("commit", "-m", message); err != nil {
		return "", err
	}
	out, err := r.git("rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
