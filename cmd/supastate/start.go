// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/agrant2711/supabase-stateful/internal/config"
	"github.com/agrant2711/supabase-stateful/internal/lifecycle"
)

const startDoc = `
Brings the local environment up. If the environment is not already
running, any saved database state is restored before pending
migrations are applied. Attaching to an already-running environment
skips restoration entirely.

If the default start fails, two fallbacks are tried in order: one
that excludes the studio container, and one that ignores failing
health checks.
`

type startCommand struct {
	cmd.CommandBase
	configPath      string
	newOrchestrator newOrchestratorFunc
}

func newStartCommand() cmd.Command {
	return &startCommand{newOrchestrator: defaultOrchestrator}
}

// Info implements cmd.Command.
func (c *startCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "start",
		Purpose: "Start the environment, restoring saved database state.",
		Doc:     startDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *startCommand) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.configPath, "config", config.DefaultPath, "path to the project configuration file")
}

// Init implements cmd.Command.
func (c *startCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// Run implements cmd.Command.
func (c *startCommand) Run(ctx *cmd.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return errors.Trace(err)
	}
	report, err := c.newOrchestrator(cfg).Start()
	if err != nil {
		return errors.Trace(err)
	}

	if report.Origin == lifecycle.Running {
		ctx.Infof("Attached to the already-running environment.")
	} else {
		if report.Strategy == "default" {
			ctx.Infof("Environment started.")
		} else {
			ctx.Infof("Environment started using the %q fallback.", report.Strategy)
		}
		switch report.Restore.Status {
		case lifecycle.RestoreNoSnapshot:
			ctx.Infof("No saved state found; starting fresh.")
		case lifecycle.RestoreClean:
			ctx.Infof("Saved state restored.")
		case lifecycle.RestoreConflicts:
			ctx.Infof("Saved state restored; rows already present were skipped.")
		case lifecycle.RestoreFailed:
			ctx.Infof("Saved state could not be restored: %v", report.Restore.Err)
		}
	}
	if report.Migrations.Applied && report.Migrations.Pending > 0 {
		ctx.Infof("Applied %d pending migration(s).", report.Migrations.Pending)
	}
	return nil
}
