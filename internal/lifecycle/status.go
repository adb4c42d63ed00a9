// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lifecycle

import (
	"os"

	"github.com/agrant2711/supabase-stateful/internal/migrate"
	"github.com/agrant2711/supabase-stateful/internal/snapshot"
)

// EnvStatus is a read-only view of the environment and its saved
// state.
type EnvStatus struct {
	// Running reports the environment's current liveness.
	Running bool
	// Snapshot holds the saved state's metadata, or nil when no
	// snapshot exists.
	Snapshot *snapshot.Metadata
	// BackupPresent reports whether a previous snapshot is kept.
	BackupPresent bool
	// Pending is the number of unapplied migrations, or -1 when the
	// count is unavailable.
	Pending int
}

// Status collects the environment's liveness, snapshot metadata and
// pending migration count. It never fails; unavailable facts are
// reported as absent or unknown.
func (o *Orchestrator) Status() *EnvStatus {
	status := &EnvStatus{
		Running: o.probe.IsRunning(o.cfg.ContainerName),
		Pending: -1,
	}
	if meta, err := o.store.Metadata(); err == nil {
		status.Snapshot = &meta
	}
	if _, err := os.Stat(o.store.BackupPath()); err == nil {
		status.BackupPresent = true
	}
	if status.Running {
		if pending, err := migrate.NewSequencer(o.platform).PendingCount(); err == nil {
			status.Pending = pending
		} else {
			logger.Debugf("cannot count pending migrations: %v", err)
		}
	}
	return status
}
