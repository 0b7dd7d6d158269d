package cdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	check "gopkg.in/check.v1"

	"github.com/mycok/minigraph/graphstore/graphstoretest"
)

var _ = check.Suite(new(cockroachDBGraphTestSuite))

// Test registers the [check] library with the go testing library.
func Test(t *testing.T) {
	check.TestingT(t)
}

// cockroachDBGraphTestSuite embeds and runs the BaseSuite tests methods.
type cockroachDBGraphTestSuite struct {
	// Keep track of the sql.DB instance so the tables can be reset
	// between tests.
	db *sql.DB
	graphstoretest.BaseSuite
}

func (s *cockroachDBGraphTestSuite) SetUpSuite(c *check.C) {
	dsn := os.Getenv("CDB_DSN")
	if dsn == "" {
		c.Skip("Missing CDB_DSN envvar: skipping cockroachDB backed test suite")
	}

	g, err := NewCockroachDBGraph(dsn)
	if err != nil {
		c.Fatalf("Failed to make a database connection: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Assert(g.EnsureSchema(ctx), check.IsNil)

	s.SetGraph(g)
	s.db = g.db
}

func (s *cockroachDBGraphTestSuite) TearDownSuite(c *check.C) {
	if s.db != nil {
		s.flushDB(c)
		c.Assert(s.db.Close(), check.IsNil)
	}
}

func (s *cockroachDBGraphTestSuite) SetUpTest(c *check.C) {
	s.flushDB(c)
}

// flushDB resets the database by deleting all vertex and edge entries.
func (s *cockroachDBGraphTestSuite) flushDB(c *check.C) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, "TRUNCATE vertices CASCADE")
	c.Assert(err, check.IsNil)
}
