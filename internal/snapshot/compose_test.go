// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot_test

import (
	"strings"
	"time"

	jujutesting "github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/agrant2711/supabase-stateful/internal/snapshot"
)

type composeSuite struct {
	jujutesting.IsolationSuite
}

var _ = gc.Suite(&composeSuite{})

var composeTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func (s *composeSuite) TestBracketOrder(c *gc.C) {
	payload := snapshot.Compose("INSERT INTO t (id) VALUES (1) ON CONFLICT DO NOTHING;", composeTime)

	disable := strings.Index(payload, "SET session_replication_role = replica;")
	insert := strings.Index(payload, "INSERT INTO t")
	enable := strings.Index(payload, "SET session_replication_role = DEFAULT;")
	c.Assert(disable, jc.GreaterThan, -1)
	c.Assert(insert, jc.GreaterThan, disable)
	c.Assert(enable, jc.GreaterThan, insert)
}

func (s *composeSuite) TestBanner(c *gc.C) {
	payload := snapshot.Compose("SELECT 1;", composeTime)
	c.Assert(strings.HasPrefix(payload, "-- supastate snapshot, saved 2026-08-30T12:00:00Z\n"), jc.IsTrue)
	c.Assert(strings.HasSuffix(payload, "-- End of snapshot.\n"), jc.IsTrue)
}

func (s *composeSuite) TestBodyPreserved(c *gc.C) {
	body := "CREATE TABLE t (id int);\nINSERT INTO t (id) VALUES (1) ON CONFLICT DO NOTHING;"
	payload := snapshot.Compose(body+"\n\n", composeTime)
	c.Assert(strings.Contains(payload, body), jc.IsTrue)
}
