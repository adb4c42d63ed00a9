// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package lifecycle drives the environment through stop/start cycles:
// the startup state machine with its fallback ladder, restoration of
// saved state on cold start, migration sequencing, and the snapshot
// flow on stop.
package lifecycle

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/mutex/v2"

	"github.com/agrant2711/supabase-stateful/internal/config"
	"github.com/agrant2711/supabase-stateful/internal/database"
	"github.com/agrant2711/supabase-stateful/internal/snapshot"
	"github.com/agrant2711/supabase-stateful/internal/supabase"
)

var logger = loggo.GetLogger("supastate.lifecycle")

// RunState is the environment's observed liveness when a command
// begins.
type RunState string

const (
	Running    RunState = "running"
	NotRunning RunState = "not-running"
)

// Prober reports whether the environment's database container is
// live. It never fails; an unreachable runtime reads as not running.
type Prober interface {
	IsRunning(name string) bool
}

// Platform is the platform CLI surface the orchestrator drives.
type Platform interface {
	Start(extraArgs ...string) error
	Stop() error
	MigrationList() ([]supabase.Migration, error)
	MigrationUp() error
}

// Database is the live-database surface the orchestrator uses.
type Database interface {
	Query(query string) ([]string, error)
	Exec(statement string) error
	DumpTables(tables []string, maxBytes int64) (string, error)
	RunScript(sql string) (*database.ScriptResult, error)
	Ping() error
}

// Orchestrator composes the probe, platform, database and snapshot
// store into the start and stop flows. Control flow is fully
// synchronous; no two external invocations ever run concurrently
// within one command.
type Orchestrator struct {
	cfg      config.Config
	probe    Prober
	platform Platform
	db       Database
	store    *snapshot.Store
	clock    clock.Clock

	acquireMutex func(mutex.Spec) (mutex.Releaser, error)
}

// NewOrchestrator returns an Orchestrator over the given
// collaborators.
func NewOrchestrator(cfg config.Config, probe Prober, platform Platform, db Database, clk clock.Clock) *Orchestrator {
	return &Orchestrator{
		cfg:          cfg,
		probe:        probe,
		platform:     platform,
		db:           db,
		store:        snapshot.NewStore(cfg.StateFile),
		clock:        clk,
		acquireMutex: mutex.Acquire,
	}
}

// lock serialises start/stop invocations against the same state file
// across processes.
func (o *Orchestrator) lock() (mutex.Releaser, error) {
	abs, err := filepath.Abs(o.cfg.StateFile)
	if err != nil {
		return nil, errors.Trace(err)
	}
	sum := sha256.Sum256([]byte(abs))
	releaser, err := o.acquireMutex(mutex.Spec{
		Name:    "supastate-" + hex.EncodeToString(sum[:4]),
		Clock:   o.clock,
		Delay:   250 * time.Millisecond,
		Timeout: 30 * time.Second,
	})
	if err != nil {
		return nil, errors.Annotate(err, "another supastate command is running")
	}
	return releaser, nil
}
