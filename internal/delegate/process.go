// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Process runs an external translator: Command Args... <text>.
// The translator prints one Response as JSON on stdout.
type Process struct {
	Command string
	Args    []string
	// Env is appended to the inherited environment.
	Env []string
	// Dir is the working directory of the translator ("" inherits).
	Dir string
}

// NewProcess creates a process backend.
func NewProcess(command string, args ...string) *Process {
	return &Process{Command: command, Args: args}
}

// Invoke runs the translator once and parses its reply.
func (p *Process) Invoke(ctx context.Context, text string) (string, error) {
	args := make([]string, 0, len(p.Args)+1)
	args = append(args, p.Args...)
	args = append(args, text)

	cmd := exec.CommandContext(ctx, p.Command, args...)
	if p.Dir != "" {
		cmd.Dir = p.Dir
	}
	if len(p.Env) > 0 {
		cmd.Env = append(cmd.Environ(), p.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &Error{
				Kind:   KindProcessFailure,
				Detail: strings.TrimSpace(stderr.String()),
				Cause:  err,
			}
		}
		return "", &Error{Kind: KindProcessFailure, Detail: err.Error(), Cause: err}
	}

	return ParseResponse(bytes.TrimSpace(stdout.Bytes()))
}
