// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/juju/retry"

	"github.com/agrant2711/supabase-stateful/internal/migrate"
)

// startStrategy is one rung of the fallback ladder. The strategies
// are tried in order until one succeeds or all are exhausted.
type startStrategy struct {
	name string
	args []string
}

var startStrategies = []startStrategy{
	{name: "default"},
	// The studio container is a known flaky optional component.
	{name: "no-studio", args: []string{"-x", "studio"}},
	{name: "ignore-health", args: []string{"--ignore-health-check"}},
}

// RestoreStatus classifies what happened during restoration, so that
// an expected benign outcome (conflicting rows already present) is
// distinguishable from an unexpected failure.
type RestoreStatus string

const (
	// RestoreNoSnapshot means there was no saved state to replay.
	RestoreNoSnapshot RestoreStatus = "no-snapshot"
	// RestoreClean means the snapshot replayed without incident.
	RestoreClean RestoreStatus = "clean"
	// RestoreConflicts means some statements errored during replay;
	// duplicates on a cold start from persisted volumes are normal.
	RestoreConflicts RestoreStatus = "conflicts"
	// RestoreFailed means the snapshot could not be delivered or
	// executed at all.
	RestoreFailed RestoreStatus = "failed"
)

// RestoreOutcome is the result of the restore step. No outcome is
// fatal to start.
type RestoreOutcome struct {
	Status RestoreStatus
	Err    error
}

// StartReport summarises a completed start for the caller.
type StartReport struct {
	// Origin is the environment's liveness when the command began.
	Origin RunState
	// Strategy names the start strategy that succeeded. Empty on a
	// warm attach.
	Strategy string
	// Restore is the outcome of the restore step. On a warm attach
	// restore is skipped entirely and the status is left empty.
	Restore RestoreOutcome
	// Migrations reports what the migration sequencer did.
	Migrations migrate.Outcome
}

// Start brings the environment up. On a true cold start the saved
// snapshot, if any, is replayed before migrations are checked; when
// the environment is already running the command attaches to it and
// restoration is skipped outright.
func (o *Orchestrator) Start() (*StartReport, error) {
	releaser, err := o.lock()
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer releaser.Release()

	report := &StartReport{Origin: NotRunning}
	if o.probe.IsRunning(o.cfg.ContainerName) {
		report.Origin = Running
		logger.Infof("environment already running, attaching")
	} else {
		strategy, err := o.startPlatform()
		if err != nil {
			return nil, errors.Trace(err)
		}
		report.Strategy = strategy
		o.waitReady()
		report.Restore = o.restore()
	}

	outcome, err := migrate.NewSequencer(o.platform).Ensure()
	if err != nil {
		return nil, errors.Trace(err)
	}
	report.Migrations = outcome
	logger.Infof("environment ready")
	return report, nil
}

// startPlatform walks the fallback ladder and returns the name of
// the strategy that brought the environment up.
func (o *Orchestrator) startPlatform() (string, error) {
	var outcomes []string
	for _, s := range startStrategies {
		logger.Infof("starting environment (%s)", s.name)
		err := o.platform.Start(s.args...)
		if err == nil {
			return s.name, nil
		}
		logger.Warningf("start strategy %q failed: %v", s.name, err)
		outcomes = append(outcomes, fmt.Sprintf("%s: %v", s.name, err))
	}
	return "", errors.Errorf("all start strategies failed (%s)", strings.Join(outcomes, "; "))
}

// waitReady polls the database until it accepts connections. A
// database that never reports ready is not fatal here; the restore
// and migration steps surface their own failures.
func (o *Orchestrator) waitReady() {
	err := retry.Call(retry.CallArgs{
		Func:     o.db.Ping,
		Attempts: 30,
		Delay:    time.Second,
		Clock:    o.clock,
		NotifyFunc: func(err error, attempt int) {
			logger.Debugf("database not ready (attempt %d): %v", attempt, err)
		},
	})
	if err != nil {
		logger.Warningf("database readiness check timed out: %v", err)
	}
}

// restore replays the saved snapshot, if one exists. Only reachable
// from a cold start.
func (o *Orchestrator) restore() RestoreOutcome {
	payload, err := o.store.Load()
	if errors.IsNotFound(err) {
		logger.Infof("no saved state, starting fresh")
		return RestoreOutcome{Status: RestoreNoSnapshot}
	}
	if err != nil {
		logger.Warningf("cannot read saved state: %v", err)
		return RestoreOutcome{Status: RestoreFailed, Err: err}
	}
	result, err := o.db.RunScript(string(payload))
	if err != nil {
		logger.Warningf("cannot replay saved state: %v", err)
		return RestoreOutcome{Status: RestoreFailed, Err: err}
	}
	if strings.Contains(result.Stderr, "ERROR") {
		logger.Warningf("saved state replayed with conflicts (already-present rows are skipped)")
		return RestoreOutcome{Status: RestoreConflicts}
	}
	logger.Infof("saved state restored from %s", o.store.Path())
	return RestoreOutcome{Status: RestoreClean}
}
