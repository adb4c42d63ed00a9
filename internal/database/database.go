// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package database talks to the Postgres instance inside the stack's
// database container. All access goes through psql and pg_dump
// executed in the container; there is no SQL driver connection.
package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/utils/v4/exec"
)

var connArgs = []string{"-U", "postgres", "-d", "postgres"}

// Runtime is the container runtime surface the database layer uses.
type Runtime interface {
	Exec(container string, args ...string) (*exec.ExecResponse, error)
	CopyInto(container, localPath, remotePath string) error
}

// DB runs SQL operations against the database container.
type DB struct {
	runtime   Runtime
	container string
}

// New returns a DB bound to the named container.
func New(runtime Runtime, container string) *DB {
	return &DB{runtime: runtime, container: container}
}

// Query runs a single query with unaligned tuple-only output and
// returns the non-empty result lines.
func (db *DB) Query(query string) ([]string, error) {
	args := append([]string{"psql"}, connArgs...)
	args = append(args, "-At", "-c", query)
	resp, err := db.runtime.Exec(db.container, args...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if resp.Code != 0 {
		return nil, errors.Errorf("query failed: %s", firstLine(resp.Stderr))
	}
	var lines []string
	for _, line := range strings.Split(string(resp.Stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Exec runs a single statement, failing on any statement error.
func (db *DB) Exec(statement string) error {
	args := append([]string{"psql"}, connArgs...)
	args = append(args, "-v", "ON_ERROR_STOP=1", "-c", statement)
	resp, err := db.runtime.Exec(db.container, args...)
	if err != nil {
		return errors.Trace(err)
	}
	if resp.Code != 0 {
		return errors.Errorf("statement failed: %s", firstLine(resp.Stderr))
	}
	return nil
}

// DumpTables exports schema and data for the named tables in a single
// pg_dump invocation. Output larger than maxBytes is a fatal error
// rather than being truncated.
func (db *DB) DumpTables(tables []string, maxBytes int64) (string, error) {
	args := append([]string{"pg_dump"}, connArgs...)
	args = append(args,
		"--no-owner",
		"--no-privileges",
		"--rows-per-insert=100",
	)
	for _, table := range tables {
		args = append(args, "--table="+table)
	}
	resp, err := db.runtime.Exec(db.container, args...)
	if err != nil {
		return "", errors.Trace(err)
	}
	if resp.Code != 0 {
		return "", errors.Errorf("pg_dump failed: %s", firstLine(resp.Stderr))
	}
	if int64(len(resp.Stdout)) > maxBytes {
		return "", errors.Errorf("dump exceeds the %d byte output ceiling", maxBytes)
	}
	return string(resp.Stdout), nil
}

// ScriptResult holds the output of a script run. Statement-level
// errors appear in Stderr; they do not fail the run.
type ScriptResult struct {
	Stdout string
	Stderr string
}

// RunScript copies the given SQL into the container and executes it
// with psql. The returned error covers only failures to deliver or
// invoke the script; statement errors are left in the result for the
// caller to classify.
func (db *DB) RunScript(sql string) (*ScriptResult, error) {
	local, err := os.CreateTemp("", "supastate-*.sql")
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer os.Remove(local.Name())
	if _, err := local.WriteString(sql); err != nil {
		local.Close()
		return nil, errors.Trace(err)
	}
	if err := local.Close(); err != nil {
		return nil, errors.Trace(err)
	}

	remote := "/tmp/" + filepath.Base(local.Name())
	if err := db.runtime.CopyInto(db.container, local.Name(), remote); err != nil {
		return nil, errors.Annotate(err, "copying script into container")
	}
	args := append([]string{"psql"}, connArgs...)
	args = append(args, "-f", remote)
	resp, err := db.runtime.Exec(db.container, args...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if resp.Code != 0 {
		return nil, errors.Errorf("running script: %s", firstLine(resp.Stderr))
	}
	return &ScriptResult{
		Stdout: string(resp.Stdout),
		Stderr: string(resp.Stderr),
	}, nil
}

// Ping reports whether the database is accepting connections.
func (db *DB) Ping() error {
	resp, err := db.runtime.Exec(db.container, "pg_isready", "-U", "postgres")
	if err != nil {
		return errors.Trace(err)
	}
	if resp.Code != 0 {
		return errors.Errorf("database not ready: %s", firstLine(resp.Stdout))
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
