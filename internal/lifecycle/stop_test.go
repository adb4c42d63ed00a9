// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lifecycle_test

import (
	"os"
	"strings"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/agrant2711/supabase-stateful/internal/snapshot"
)

type stopSuite struct {
	baseSuite
}

var _ = gc.Suite(&stopSuite{})

func (s *stopSuite) SetUpTest(c *gc.C) {
	s.baseSuite.SetUpTest(c)
	s.env.running = true
	s.env.queryRows = []string{"auth|users", "public|orders"}
	s.env.dump = "CREATE TABLE public.orders (id int);\nINSERT INTO public.orders (id) VALUES (1);\n"
}

func (s *stopSuite) TestStopCapturesThenSanitizesThenStops(c *gc.C) {
	report, err := s.orch.Stop()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(report.Saved, jc.IsTrue)
	c.Assert(report.Tables, gc.Equals, 2)

	// Export fully succeeds before any destructive step runs.
	s.env.CheckCallNames(c, "IsRunning", "Query", "DumpTables", "Exec", "Stop")
	s.env.CheckCall(c, 3, "Exec", "DELETE FROM auth.refresh_tokens;")
	c.Assert(s.releaser.released, jc.IsTrue)
}

func (s *stopSuite) TestStopWritesComposedSnapshot(c *gc.C) {
	_, err := s.orch.Stop()
	c.Assert(err, jc.ErrorIsNil)

	payload, err := s.store.Load()
	c.Assert(err, jc.ErrorIsNil)
	text := string(payload)
	c.Assert(strings.Contains(text, "INSERT INTO public.orders (id) VALUES (1) ON CONFLICT DO NOTHING;"), jc.IsTrue)
	c.Assert(strings.Contains(text, "SET session_replication_role = replica;"), jc.IsTrue)
	c.Assert(strings.Contains(text, "SET session_replication_role = DEFAULT;"), jc.IsTrue)
	c.Assert(strings.HasPrefix(text, "-- supastate snapshot, saved 2026-08-30T12:00:00Z"), jc.IsTrue)
}

func (s *stopSuite) TestStopExportsAllTablesInOneRequest(c *gc.C) {
	_, err := s.orch.Stop()
	c.Assert(err, jc.ErrorIsNil)
	s.env.CheckCall(c, 2, "DumpTables",
		[]string{`auth."users"`, `public."orders"`}, snapshot.MaxExportBytes)
}

func (s *stopSuite) TestExportFailureAbortsBeforeDestructiveSteps(c *gc.C) {
	s.env.dumpErr = errors.New("pg_dump blew up")
	_, err := s.orch.Stop()
	c.Assert(err, gc.ErrorMatches, "exporting tables: pg_dump blew up")

	// Neither the token purge nor the platform stop ran, and no
	// snapshot was written.
	s.env.CheckCallNames(c, "IsRunning", "Query", "DumpTables")
	c.Assert(s.store.Exists(), jc.IsFalse)
}

func (s *stopSuite) TestStopNotRunningIsNoOp(c *gc.C) {
	s.env.running = false
	report, err := s.orch.Stop()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(report.Saved, jc.IsFalse)
	s.env.CheckCallNames(c, "IsRunning")
}

func (s *stopSuite) TestNothingToCaptureSkipsSnapshot(c *gc.C) {
	s.env.queryRows = nil
	report, err := s.orch.Stop()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(report.Saved, jc.IsFalse)
	c.Assert(report.Tables, gc.Equals, 0)

	// No export, no save, no sanitize; the stop itself still runs.
	s.env.CheckCallNames(c, "IsRunning", "Query", "Stop")
	c.Assert(s.store.Exists(), jc.IsFalse)
}

func (s *stopSuite) TestSanitizeFailureIsNotFatal(c *gc.C) {
	s.env.execErr = errors.New("permission denied")
	report, err := s.orch.Stop()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(report.Saved, jc.IsTrue)
	s.env.CheckCallNames(c, "IsRunning", "Query", "DumpTables", "Exec", "Stop")
}

func (s *stopSuite) TestStopRotatesPreviousSnapshot(c *gc.C) {
	c.Assert(s.store.Save([]byte("previous payload")), jc.ErrorIsNil)

	_, err := s.orch.Stop()
	c.Assert(err, jc.ErrorIsNil)

	backup, err := os.ReadFile(s.store.BackupPath())
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(string(backup), gc.Equals, "previous payload")
}

func (s *stopSuite) TestPlatformStopFailure(c *gc.C) {
	s.env.stopErr = errors.New("compose went away")
	_, err := s.orch.Stop()
	c.Assert(err, gc.ErrorMatches, "stopping environment: compose went away")
}

func (s *stopSuite) TestDiscoveryFailureAborts(c *gc.C) {
	s.env.queryErr = errors.New("connection refused")
	_, err := s.orch.Stop()
	c.Assert(err, gc.ErrorMatches, "listing tables: connection refused")
	s.env.CheckCallNames(c, "IsRunning", "Query")
}