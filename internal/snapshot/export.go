// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"github.com/juju/errors"
)

// MaxExportBytes is the ceiling on the size of an exported dump.
// A dump that exceeds it fails the export outright; it is never
// silently truncated.
const MaxExportBytes int64 = 128 << 20

// Dumper is the bulk-export operation of the database layer.
type Dumper interface {
	DumpTables(tables []string, maxBytes int64) (string, error)
}

// Export extracts schema and data for all given tables as one
// combined request. Schema is always included so that the snapshot
// can be replayed against a reset, empty database. Callers must not
// invoke Export with an empty table list.
func Export(db Dumper, tables []TableRef) (string, error) {
	if len(tables) == 0 {
		return "", errors.Errorf("no tables to export")
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Qualified()
	}
	dump, err := db.DumpTables(names, MaxExportBytes)
	if err != nil {
		return "", errors.Annotate(err, "exporting tables")
	}
	return dump, nil
}
