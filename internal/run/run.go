// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package run wraps external command execution so that callers can be
// tested against a fake runner.
package run

import (
	"strings"

	"github.com/juju/utils/v4"
	"github.com/juju/utils/v4/exec"
)

// CommandRunner executes a shell command and returns the captured
// result of that execution in the exec.ExecResponse (which contains
// stdout, stderr, and the exit code).
type CommandRunner interface {
	RunCommands(params exec.RunParams) (*exec.ExecResponse, error)
}

type defaultRunner struct{}

// NewRunner returns a CommandRunner backed by the local shell.
func NewRunner() CommandRunner {
	return &defaultRunner{}
}

func (*defaultRunner) RunCommands(params exec.RunParams) (*exec.ExecResponse, error) {
	return exec.RunCommands(params)
}

// Command joins an executable name and its arguments into a single
// shell command, quoting each argument.
func Command(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		parts = append(parts, utils.ShQuote(arg))
	}
	return strings.Join(parts, " ")
}
