// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package docker provides the container runtime operations the
// snapshot engine needs: a liveness probe, command execution inside a
// container, and copying files into a container.
package docker

import (
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/utils/v4/exec"

	"github.com/agrant2711/supabase-stateful/internal/run"
)

var logger = loggo.GetLogger("supastate.docker")

// Runtime shells out to the docker CLI.
type Runtime struct {
	runner run.CommandRunner
}

// NewRuntime returns a Runtime using the given command runner.
func NewRuntime(runner run.CommandRunner) *Runtime {
	return &Runtime{runner: runner}
}

func (r *Runtime) run(args ...string) (*exec.ExecResponse, error) {
	return r.runner.RunCommands(exec.RunParams{
		Commands: run.Command("docker", args...),
	})
}

// IsRunning reports whether a container with the given name is
// currently running. Any failure to query the runtime is treated as
// "not running"; the probe never returns an error.
func (r *Runtime) IsRunning(name string) bool {
	names, err := r.ListRunning()
	if err != nil {
		logger.Debugf("cannot query container runtime: %v", err)
		return false
	}
	return set.NewStrings(names...).Contains(name)
}

// ListRunning returns the names of all running containers.
func (r *Runtime) ListRunning() ([]string, error) {
	resp, err := r.run("ps", "--format", "{{.Names}}")
	if err != nil {
		return nil, errors.Trace(err)
	}
	if resp.Code != 0 {
		return nil, errors.Errorf("docker ps: %s", firstLine(resp.Stderr))
	}
	var names []string
	for _, line := range strings.Split(string(resp.Stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Exec runs a command inside the named container and returns the
// captured response. A non-zero exit is reported in the response, not
// as an error.
func (r *Runtime) Exec(container string, args ...string) (*exec.ExecResponse, error) {
	resp, err := r.run(append([]string{"exec", container}, args...)...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return resp, nil
}

// CopyInto copies a local file into the named container.
func (r *Runtime) CopyInto(container, localPath, remotePath string) error {
	resp, err := r.run("cp", localPath, container+":"+remotePath)
	if err != nil {
		return errors.Trace(err)
	}
	if resp.Code != 0 {
		return errors.Errorf("docker cp: %s", firstLine(resp.Stderr))
	}
	return nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		s = "no output"
	}
	return s
}
