// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell runs commands for the session.
// executor.go implements one synchronous shell invocation.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/nitindahiya-dev/terminalAI/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultShell interprets every command string.
	DefaultShell = "sh"
	// DefaultTerm is exported to commands so they emit colours.
	DefaultTerm = "xterm-256color"
)

// =============================================================================
// ERRORS
// =============================================================================

// ExecError reports a command that could not be started at all.
// A non-zero exit status is not an ExecError.
type ExecError struct {
	Command string
	Err     error
}

func (e *ExecError) Error() string {
	return "Error executing command: " + e.Err.Error()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// =============================================================================
// EXECUTOR
// =============================================================================

// Runner runs one command to completion in dir and returns its captured output.
type Runner interface {
	Run(ctx context.Context, dir, command string) (string, error)
}

// Executor runs commands through a POSIX shell: Shell -c <command>.
type Executor struct {
	// Shell is the interpreter (default "sh").
	Shell string
	// Term is the TERM value given to commands (default "xterm-256color").
	Term string
	// MaxOutputSize caps the captured bytes per stream; 0 means no cap.
	MaxOutputSize int
	// Env is appended to the inherited environment after TERM.
	Env []string
}

// NewExecutor creates an executor with the default shell and TERM.
func NewExecutor() *Executor {
	return &Executor{Shell: DefaultShell, Term: DefaultTerm}
}

// getEnviron returns the base environment (replaced in tests).
var getEnviron = func() []string { return nil }

// Run executes command and waits for it to exit.
//
// Exit status 0 returns stdout. Any other status returns stdout, a newline
// and stderr; the caller sees that as output, not as an error. Only a
// failure to start the shell returns an *ExecError.
func (e *Executor) Run(ctx context.Context, dir, command string) (string, error) {
	shellPath := e.Shell
	if shellPath == "" {
		shellPath = DefaultShell
	}
	term := e.Term
	if term == "" {
		term = DefaultTerm
	}

	cmd := exec.CommandContext(ctx, shellPath, "-c", command)
	if dir != "" {
		cmd.Dir = dir
	}
	env := getEnviron()
	if env == nil {
		env = cmd.Environ()
	}
	cmd.Env = append(withoutKey(env, "TERM"), "TERM="+term)
	cmd.Env = append(cmd.Env, e.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", &ExecError{Command: command, Err: err}
		}
		return e.buildOutput(&stdout, &stderr, true), nil
	}

	return e.buildOutput(&stdout, &stderr, false), nil
}

// buildOutput assembles the captured text, truncating each stream to
// MaxOutputSize when set.
func (e *Executor) buildOutput(stdout, stderr *bytes.Buffer, failed bool) string {
	out, outCut := e.limit(stdout.String())
	if !failed {
		if outCut {
			out += e.truncationNote()
		}
		return out
	}

	errText, errCut := e.limit(stderr.String())
	combined := out + "\n" + errText
	if outCut || errCut {
		combined += e.truncationNote()
	}
	return combined
}

func (e *Executor) limit(s string) (string, bool) {
	if e.MaxOutputSize <= 0 || len(s) <= e.MaxOutputSize {
		return s, false
	}
	return s[:e.MaxOutputSize], true
}

func (e *Executor) truncationNote() string {
	return "\n[Output truncated at " + util.IntToStr(e.MaxOutputSize) + " bytes]"
}

// withoutKey drops every KEY=... entry from env.
func withoutKey(env []string, key string) []string {
	prefix := key + "="
	out := make([]string, 0, len(env))
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return out
}

// formatDuration renders a run time for logs.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	}
	if d < time.Minute {
		return strconv.FormatFloat(d.Seconds(), 'f', 1, 64) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToStr(mins) + "m"
	}
	return util.IntToStr(mins) + "m" + util.IntToStr(secs) + "s"
}
