// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package migrate_test

import (
	"github.com/juju/errors"
	jujutesting "github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/agrant2711/supabase-stateful/internal/migrate"
	"github.com/agrant2711/supabase-stateful/internal/supabase"
)

type sequencerSuite struct {
	jujutesting.IsolationSuite
	platform *fakePlatform
}

var _ = gc.Suite(&sequencerSuite{})

func (s *sequencerSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.platform = &fakePlatform{}
}

type fakePlatform struct {
	jujutesting.Stub
	migrations []supabase.Migration
}

func (p *fakePlatform) MigrationList() ([]supabase.Migration, error) {
	p.MethodCall(p, "MigrationList")
	if err := p.NextErr(); err != nil {
		return nil, err
	}
	return p.migrations, nil
}

func (p *fakePlatform) MigrationUp() error {
	p.MethodCall(p, "MigrationUp")
	return p.NextErr()
}

func (s *sequencerSuite) TestPendingCount(c *gc.C) {
	s.platform.migrations = []supabase.Migration{
		{Version: "20260101000000", Applied: true},
		{Version: "20260102000000", Applied: false},
		{Version: "20260103000000", Applied: false},
	}
	pending, err := migrate.NewSequencer(s.platform).PendingCount()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(pending, gc.Equals, 2)
}

func (s *sequencerSuite) TestEnsureAppliesOnceWithCount(c *gc.C) {
	s.platform.migrations = []supabase.Migration{
		{Version: "20260102000000"},
		{Version: "20260103000000"},
	}
	outcome, err := migrate.NewSequencer(s.platform).Ensure()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(outcome, jc.DeepEquals, migrate.Outcome{Pending: 2, Applied: true})
	s.platform.CheckCallNames(c, "MigrationList", "MigrationUp")
}

func (s *sequencerSuite) TestEnsureNothingPending(c *gc.C) {
	s.platform.migrations = []supabase.Migration{
		{Version: "20260101000000", Applied: true},
	}
	outcome, err := migrate.NewSequencer(s.platform).Ensure()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(outcome, jc.DeepEquals, migrate.Outcome{})
	s.platform.CheckCallNames(c, "MigrationList")
}

func (s *sequencerSuite) TestEnsureCountedApplyFailureIsFatal(c *gc.C) {
	s.platform.migrations = []supabase.Migration{{Version: "20260102000000"}}
	s.platform.SetErrors(nil, errors.New("boom"))
	_, err := migrate.NewSequencer(s.platform).Ensure()
	c.Assert(err, gc.ErrorMatches, "applying migrations: boom")
}

func (s *sequencerSuite) TestEnsureListFailureFallsBackToBlindApply(c *gc.C) {
	s.platform.SetErrors(errors.New("no list for you"))
	outcome, err := migrate.NewSequencer(s.platform).Ensure()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(outcome, jc.DeepEquals, migrate.Outcome{Pending: -1, Applied: true})
	s.platform.CheckCallNames(c, "MigrationList", "MigrationUp")
}

func (s *sequencerSuite) TestEnsureBlindApplyFailureIsAbsorbed(c *gc.C) {
	s.platform.SetErrors(errors.New("no list for you"), errors.New("apply failed"))
	outcome, err := migrate.NewSequencer(s.platform).Ensure()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(outcome, jc.DeepEquals, migrate.Outcome{Pending: -1, Applied: false})
}
