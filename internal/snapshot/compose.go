// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Disabling replica-role triggers turns off foreign key
	// enforcement for the bulk inserts, so table order in the dump
	// need not respect dependency order.
	disableChecks = "SET session_replication_role = replica;"
	enableChecks  = "SET session_replication_role = DEFAULT;"
)

// Compose wraps rewritten SQL into the complete snapshot payload:
// a timestamped banner, the integrity-check bracket around the dump,
// and a closing notice.
func Compose(sql string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- supastate snapshot, saved %s\n", now.UTC().Format(time.RFC3339))
	b.WriteString("-- Replaying this file skips rows that already exist.\n\n")
	b.WriteString(disableChecks)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimRight(sql, "\n"))
	b.WriteString("\n\n")
	b.WriteString(enableChecks)
	b.WriteString("\n\n-- End of snapshot.\n")
	return b.String()
}
