// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// supastate gives a locally-run Supabase stack durable database
// state across stop/start cycles. Stopping captures a re-playable
// snapshot of the application and identity data; starting replays it
// on a cold start and then brings migrations up to date.
package main

import (
	"fmt"
	"os"

	"github.com/juju/cmd/v3"
)

var supastateDoc = `
supastate wraps the supabase CLI so that the local database keeps its
data across stop/start cycles. On stop, the application and identity
tables are exported into a single re-playable SQL snapshot; on a cold
start the snapshot is restored before any pending migrations are
applied, so migrations transform saved data instead of running
against an empty database.
`

func main() {
	os.Exit(Main(os.Args))
}

// Main runs the supastate command with the given command line
// arguments. It exists so tests can invoke the command surface with
// arbitrary arguments.
func Main(args []string) int {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	return cmd.Main(newSupastateCommand(), ctx, args[1:])
}

func newSupastateCommand() cmd.Command {
	super := cmd.NewSuperCommand(cmd.SuperCommandParams{
		Name:    "supastate",
		Doc:     supastateDoc,
		Purpose: "durable database state for local Supabase stacks",
		Log:     &cmd.Log{},
	})
	super.Register(newStartCommand())
	super.Register(newStopCommand())
	super.Register(newStatusCommand())
	super.Register(newInitCommand())
	return super
}
