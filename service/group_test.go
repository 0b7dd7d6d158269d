package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	check "gopkg.in/check.v1"
)

var _ = check.Suite(new(GroupTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type GroupTestSuite struct{}

func (s *GroupTestSuite) TestGroupTerminatesAfterASingleError(c *check.C) {
	grp := Group{
		testService{id: "0"},
		testService{id: "1", err: fmt.Errorf("failed to load graph")},
		testService{id: "2"},
	}

	err := grp.Execute(context.TODO())
	c.Assert(err, check.NotNil)
	c.Assert(err, check.ErrorMatches, "(?ms).*1: failed to load graph.*")
}

func (s *GroupTestSuite) TestGroupCollectsMultipleErrors(c *check.C) {
	grp := Group{
		testService{id: "0"},
		testService{id: "1", err: fmt.Errorf("failed to load graph")},
		testService{id: "2", err: fmt.Errorf("failed to persist values")},
	}

	err := grp.Execute(context.TODO())
	c.Assert(err, check.NotNil)
	c.Assert(err, check.ErrorMatches, "(?ms).*1: failed to load graph.*")
	c.Assert(err, check.ErrorMatches, "(?ms).*2: failed to persist values.*")
}

func (s *GroupTestSuite) TestGroupTerminatesFromContext(c *check.C) {
	grp := Group{
		testService{id: "0"},
		testService{id: "1"},
	}

	ctx, cancelFn := context.WithTimeout(context.TODO(), 100*time.Millisecond)
	defer cancelFn()
	c.Assert(grp.Execute(ctx), check.IsNil)
}

type testService struct {
	id  string
	err error
}

func (s testService) Name() string { return s.id }

func (s testService) Run(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}

	<-ctx.Done()

	return nil
}
