// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/agrant2711/supabase-stateful/internal/config"
)

type statusCommand struct {
	cmd.CommandBase
	configPath      string
	newOrchestrator newOrchestratorFunc
}

func newStatusCommand() cmd.Command {
	return &statusCommand{newOrchestrator: defaultOrchestrator}
}

// Info implements cmd.Command.
func (c *statusCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "status",
		Purpose: "Show the environment and saved state status.",
		Doc: `
Reports whether the environment is running, the saved snapshot's size
and age, whether a backup snapshot is kept, and how many migrations
are pending.
`,
	}
}

// SetFlags implements cmd.Command.
func (c *statusCommand) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.configPath, "config", config.DefaultPath, "path to the project configuration file")
}

// Init implements cmd.Command.
func (c *statusCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// Run implements cmd.Command.
func (c *statusCommand) Run(ctx *cmd.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return errors.Trace(err)
	}
	status := c.newOrchestrator(cfg).Status()

	table := uitable.New()
	if status.Running {
		table.AddRow("Environment:", "running")
	} else {
		table.AddRow("Environment:", "not running")
	}
	if status.Snapshot != nil {
		table.AddRow("Saved state:", fmt.Sprintf("%s, saved %s",
			humanize.Bytes(uint64(status.Snapshot.Size)),
			humanize.Time(status.Snapshot.Modified)))
	} else {
		table.AddRow("Saved state:", "none")
	}
	if status.BackupPresent {
		table.AddRow("Backup:", "present")
	} else {
		table.AddRow("Backup:", "none")
	}
	switch {
	case status.Pending < 0:
		table.AddRow("Migrations:", "unknown")
	case status.Pending == 0:
		table.AddRow("Migrations:", "up to date")
	default:
		table.AddRow("Migrations:", fmt.Sprintf("%d pending", status.Pending))
	}
	fmt.Fprintln(ctx.Stdout, table)
	return nil
}
