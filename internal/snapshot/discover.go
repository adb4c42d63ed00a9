// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package snapshot implements the snapshot engine: discovering which
// tables to capture, turning an exported dump into a safely
// re-playable script, and persisting it with backup rotation.
package snapshot

import (
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("supastate.snapshot")

// TableRef identifies one user table eligible for capture.
type TableRef struct {
	Schema string
	Table  string
}

// String returns the schema-qualified name.
func (t TableRef) String() string {
	return t.Schema + "." + t.Table
}

// Qualified returns the name in a form pg_dump and psql accept
// regardless of identifier case.
func (t TableRef) Qualified() string {
	return t.Schema + `."` + t.Table + `"`
}

// Querier runs a catalog query and returns its result lines.
type Querier interface {
	Query(query string) ([]string, error)
}

// Only the application and identity schemas are captured.
const discoverQuery = `SELECT table_schema || '|' || table_name ` +
	`FROM information_schema.tables ` +
	`WHERE table_schema IN ('auth', 'public') AND table_type = 'BASE TABLE' ` +
	`ORDER BY table_schema, table_name`

var excludedTables = set.NewStrings("schema_migrations", "seed_files")

// Discover enumerates the user tables worth capturing, ordered by
// (schema, table) ascending. Platform-owned and migration-bookkeeping
// tables are excluded. An empty result is not an error; it means
// there is nothing to capture and no snapshot should be produced.
func Discover(db Querier) ([]TableRef, error) {
	lines, err := db.Query(discoverQuery)
	if err != nil {
		return nil, errors.Annotate(err, "listing tables")
	}
	var tables []TableRef
	for _, line := range lines {
		schema, table, ok := strings.Cut(line, "|")
		if !ok {
			return nil, errors.Errorf("malformed catalog row %q", line)
		}
		if excluded(table) {
			continue
		}
		tables = append(tables, TableRef{Schema: schema, Table: table})
	}
	return tables, nil
}

func excluded(table string) bool {
	switch {
	case strings.HasPrefix(table, "supabase_"):
		return true
	case strings.HasSuffix(table, "_migrations"):
		return true
	case strings.HasPrefix(table, "pg_"):
		return true
	case excludedTables.Contains(table):
		return true
	}
	return false
}
