// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"github.com/juju/clock"

	"github.com/agrant2711/supabase-stateful/internal/config"
	"github.com/agrant2711/supabase-stateful/internal/database"
	"github.com/agrant2711/supabase-stateful/internal/docker"
	"github.com/agrant2711/supabase-stateful/internal/lifecycle"
	"github.com/agrant2711/supabase-stateful/internal/run"
	"github.com/agrant2711/supabase-stateful/internal/supabase"
)

// orchestrator is the lifecycle surface the commands drive.
type orchestrator interface {
	Start() (*lifecycle.StartReport, error)
	Stop() (*lifecycle.StopReport, error)
	Status() *lifecycle.EnvStatus
}

// newOrchestratorFunc builds an orchestrator for a loaded
// configuration. Commands hold one so tests can substitute a fake.
type newOrchestratorFunc func(cfg config.Config) orchestrator

func defaultOrchestrator(cfg config.Config) orchestrator {
	runner := run.NewRunner()
	runtime := docker.NewRuntime(runner)
	return lifecycle.NewOrchestrator(
		cfg,
		runtime,
		supabase.New(runner),
		database.New(runtime, cfg.ContainerName),
		clock.WallClock,
	)
}
