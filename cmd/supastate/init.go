// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/agrant2711/supabase-stateful/internal/config"
)

type initCommand struct {
	cmd.CommandBase
	configPath string
}

func newInitCommand() cmd.Command {
	return &initCommand{}
}

// Info implements cmd.Command.
func (c *initCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "init",
		Purpose: "Write a default project configuration file.",
		Doc: `
Writes a configuration file with the default state file path and
database container name. Refuses to overwrite an existing file.
`,
	}
}

// SetFlags implements cmd.Command.
func (c *initCommand) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.configPath, "config", config.DefaultPath, "path to write the configuration file to")
}

// Init implements cmd.Command.
func (c *initCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// Run implements cmd.Command.
func (c *initCommand) Run(ctx *cmd.Context) error {
	if _, err := os.Stat(c.configPath); err == nil {
		return errors.AlreadyExistsf("configuration file %q", c.configPath)
	}
	if err := config.Default().Write(c.configPath); err != nil {
		return errors.Trace(err)
	}
	ctx.Infof("Wrote %s.", c.configPath)
	return nil
}
