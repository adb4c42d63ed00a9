// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/agrant2711/supabase-stateful/internal/config"
)

const stopDoc = `
Captures the database's application and identity tables into a
re-playable snapshot, then shuts the environment down. The previous
snapshot, if any, is kept at <state-file>.backup.

If the export fails the environment is left running and untouched.
`

type stopCommand struct {
	cmd.CommandBase
	configPath      string
	newOrchestrator newOrchestratorFunc
}

func newStopCommand() cmd.Command {
	return &stopCommand{newOrchestrator: defaultOrchestrator}
}

// Info implements cmd.Command.
func (c *stopCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "stop",
		Purpose: "Snapshot the database and stop the environment.",
		Doc:     stopDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *stopCommand) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.configPath, "config", config.DefaultPath, "path to the project configuration file")
}

// Init implements cmd.Command.
func (c *stopCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// Run implements cmd.Command.
func (c *stopCommand) Run(ctx *cmd.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return errors.Trace(err)
	}
	report, err := c.newOrchestrator(cfg).Stop()
	if err != nil {
		return errors.Trace(err)
	}
	if report.Saved {
		ctx.Infof("Saved state for %d table(s) to %s.", report.Tables, cfg.StateFile)
	}
	return nil
}
