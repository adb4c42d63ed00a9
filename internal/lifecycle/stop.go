// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lifecycle

import (
	"github.com/juju/errors"

	"github.com/agrant2711/supabase-stateful/internal/snapshot"
)

// StopReport summarises a completed stop for the caller.
type StopReport struct {
	// Tables is the number of tables captured in the snapshot; zero
	// when nothing was worth capturing and no snapshot was written.
	Tables int
	// Saved reports whether a snapshot was written.
	Saved bool
}

// Stop captures the database into a snapshot, purges ephemeral token
// rows, and shuts the environment down. The export must fully
// succeed before any destructive step runs: a failed export aborts
// the stop with the environment untouched.
func (o *Orchestrator) Stop() (*StopReport, error) {
	releaser, err := o.lock()
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer releaser.Release()

	if !o.probe.IsRunning(o.cfg.ContainerName) {
		logger.Infof("environment is not running, nothing to save")
		return &StopReport{}, nil
	}

	tables, err := snapshot.Discover(o.db)
	if err != nil {
		return nil, errors.Trace(err)
	}
	report := &StopReport{Tables: len(tables)}
	if len(tables) == 0 {
		logger.Infof("no tables to capture, skipping snapshot")
	} else {
		dump, err := snapshot.Export(o.db, tables)
		if err != nil {
			return nil, errors.Trace(err)
		}
		payload := snapshot.Compose(snapshot.Rewrite(dump), o.clock.Now())
		if err := o.store.Save([]byte(payload)); err != nil {
			return nil, errors.Annotate(err, "saving snapshot")
		}
		report.Saved = true
		logger.Infof("saved state for %d table(s) to %s", len(tables), o.store.Path())

		if err := snapshot.PurgeAuthTokens(o.db); err != nil {
			logger.Warningf("could not purge auth tokens: %v", err)
		}
	}

	if err := o.platform.Stop(); err != nil {
		return nil, errors.Annotate(err, "stopping environment")
	}
	logger.Infof("environment stopped")
	return report, nil
}
