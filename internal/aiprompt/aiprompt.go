// Package aiprompt implements the ai/prompt handler: a thin passthrough to a
// locally installed AI CLI, with a non-fatal fallback when none is present.
package aiprompt

// file: internal/aiprompt/aiprompt.go

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// Result is the ai/prompt response shape.
type Result struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Runner invokes an AI CLI found on PATH. CLIName is looked up once per call
// so a CLI installed mid-session is picked up without restarting the daemon.
type Runner struct {
	CLIName string
}

// NewRunner returns a Runner that looks for cliName on PATH.
func NewRunner(cliName string) *Runner {
	return &Runner{CLIName: cliName}
}

// Run executes the configured CLI with prompt (and optional context text
// appended) and returns its stdout. If the CLI is not installed, it returns
// an explanatory, non-error Result so an unconfigured AI backend does not
// fail the RPC call.
func (r *Runner) Run(prompt, context string) (Result, error) {
	path, err := exec.LookPath(r.CLIName)
	if err != nil {
		return Result{
			Text: "no AI assistant CLI is configured on this host",
			Done: true,
		}, nil
	}

	fullPrompt := prompt
	if context != "" {
		fullPrompt = strings.TrimSpace(prompt) + "\n\n" + context
	}

	cmd := exec.Command(path, "--print", fullPrompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Result{}, errors.Newf("ai prompt failed: %s", strings.TrimSpace(stderr.String()))
	}

	return Result{Text: stdout.String(), Done: true}, nil
}
