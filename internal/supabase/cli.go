// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package supabase wraps the platform CLI operations the lifecycle
// engine depends on: starting and stopping the stack and listing and
// applying migrations.
package supabase

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/utils/v4/exec"

	"github.com/agrant2711/supabase-stateful/internal/run"
)

var logger = loggo.GetLogger("supastate.supabase")

// Migration is one entry of the platform's migration list.
type Migration struct {
	Version string `json:"version"`
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
}

// CLI shells out to the supabase command line tool.
type CLI struct {
	runner run.CommandRunner
}

// New returns a CLI using the given command runner.
func New(runner run.CommandRunner) *CLI {
	return &CLI{runner: runner}
}

func (c *CLI) run(args ...string) (*exec.ExecResponse, error) {
	command := run.Command("supabase", args...)
	logger.Debugf("running %q", command)
	return c.runner.RunCommands(exec.RunParams{Commands: command})
}

// Start brings the stack up. Extra arguments are passed through to
// the platform, allowing callers to try alternative start modes.
func (c *CLI) Start(extraArgs ...string) error {
	resp, err := c.run(append([]string{"start"}, extraArgs...)...)
	if err != nil {
		return errors.Trace(err)
	}
	if resp.Code != 0 {
		return errors.Errorf("supabase start: %s", lastLine(resp.Stderr))
	}
	return nil
}

// Stop shuts the stack down, preserving its volumes.
func (c *CLI) Stop() error {
	resp, err := c.run("stop")
	if err != nil {
		return errors.Trace(err)
	}
	if resp.Code != 0 {
		return errors.Errorf("supabase stop: %s", lastLine(resp.Stderr))
	}
	return nil
}

// MigrationList returns the platform's machine-readable migration
// list.
func (c *CLI) MigrationList() ([]Migration, error) {
	resp, err := c.run("migration", "list", "--local", "--output", "json")
	if err != nil {
		return nil, errors.Trace(err)
	}
	if resp.Code != 0 {
		return nil, errors.Errorf("supabase migration list: %s", lastLine(resp.Stderr))
	}
	var migrations []Migration
	if err := json.Unmarshal(bytes.TrimSpace(resp.Stdout), &migrations); err != nil {
		return nil, errors.Annotate(err, "parsing migration list")
	}
	return migrations, nil
}

// MigrationUp applies outstanding migrations without recreating or
// clearing the database. It must never be replaced with the
// destructive reset operation.
func (c *CLI) MigrationUp() error {
	resp, err := c.run("migration", "up", "--local")
	if err != nil {
		return errors.Trace(err)
	}
	if resp.Code != 0 {
		return errors.Errorf("supabase migration up: %s", lastLine(resp.Stderr))
	}
	return nil
}

func lastLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	if s == "" {
		s = "no output"
	}
	return s
}
