package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	check "gopkg.in/check.v1"

	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graphstore"
	memgraph "github.com/mycok/minigraph/graphstore/memory"
	"github.com/mycok/minigraph/service/pie"
)

var _ = check.Suite(new(JobTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type JobTestSuite struct{}

func (s *JobTestSuite) TestParseJob(c *check.C) {
	src := []byte(`
algorithm       = "sssp"
source          = 2
fragments       = 3
workers         = 4
max_rounds      = 20
update_interval = "10m"
store_uri       = "postgresql://root@localhost:26257/minigraph"

seed {
  vertices = 4
  edges    = [[0, 1], [2, 3]]
}
`)

	job, err := ParseJob(src, "job.hcl")
	c.Assert(err, check.IsNil)

	c.Assert(job.Config.Algorithm, check.Equals, "sssp")
	c.Assert(job.Config.Source, check.Equals, graph.VertexID(2))
	c.Assert(job.Config.NumOfFragments, check.Equals, 3)
	c.Assert(job.Config.NumOfWorkers, check.Equals, 4)
	c.Assert(job.Config.MaxRounds, check.Equals, 20)
	c.Assert(job.Config.UpdateInterval, check.Equals, 10*time.Minute)
	c.Assert(job.StoreURI, check.Equals, "postgresql://root@localhost:26257/minigraph")
	c.Assert(job.SeedVertices, check.Equals, uint32(4))
	c.Assert(job.SeedEdges, check.DeepEquals, []graphstore.Edge{
		{Src: 0, Dest: 1},
		{Src: 2, Dest: 3},
	})
}

func (s *JobTestSuite) TestParseJobDefaults(c *check.C) {
	job, err := ParseJob([]byte(`algorithm = "wcc"`), "job.hcl")
	c.Assert(err, check.IsNil)

	c.Assert(job.StoreURI, check.Equals, "in-memory://")
	c.Assert(job.Config.UpdateInterval, check.Equals, time.Hour)
	c.Assert(job.SeedVertices, check.Equals, uint32(0))
	c.Assert(job.SeedEdges, check.IsNil)
}

func (s *JobTestSuite) TestParseJobErrors(c *check.C) {
	specs := []struct {
		descr string
		src   string
		err   string
	}{
		{
			descr: "missing algorithm",
			src:   `source = 1`,
			err:   "(?s).*failed to decode job file.*",
		},
		{
			descr: "unknown attribute",
			src:   "algorithm = \"bfs\"\ncolour = \"red\"",
			err:   "(?s).*failed to decode job file.*",
		},
		{
			descr: "bad interval",
			src:   "algorithm = \"bfs\"\nupdate_interval = \"soon\"",
			err:   ".*invalid update interval.*",
		},
		{
			descr: "edge with unknown vertex",
			src:   "algorithm = \"bfs\"\nseed {\n  vertices = 2\n  edges = [[0, 5]]\n}",
			err:   ".*seed edge 0 references an unknown vertex",
		},
		{
			descr: "malformed edge",
			src:   "algorithm = \"bfs\"\nseed {\n  vertices = 2\n  edges = [[0]]\n}",
			err:   ".*seed edge 0 must be a \\[src, dest\\] pair",
		},
		{
			descr: "syntax error",
			src:   `algorithm = `,
			err:   "(?s).*failed to parse job file.*",
		},
	}

	for i, spec := range specs {
		c.Logf("[spec %d] %s", i, spec.descr)
		_, err := ParseJob([]byte(spec.src), "job.hcl")
		c.Assert(err, check.ErrorMatches, spec.err)
	}
}

func (s *JobTestSuite) TestSeedAndEvaluateOnce(c *check.C) {
	job, err := ParseJob([]byte(`
algorithm = "bfs"
source    = 0
fragments = 2
workers   = 2

seed {
  vertices = 5
  edges    = [[0, 3], [3, 1], [1, 2]]
}
`), "job.hcl")
	c.Assert(err, check.IsNil)

	store := memgraph.NewInMemoryGraph()
	c.Assert(job.seedGraph(store), check.IsNil)

	job.Config.GraphAPI = store
	svc, err := pie.New(job.Config)
	c.Assert(err, check.IsNil)
	c.Assert(svc.RunOnce(context.TODO()), check.IsNil)

	var buf bytes.Buffer
	c.Assert(printVertexValues(&buf, store), check.IsNil)
	c.Assert(buf.String(), check.Equals, "0\t1\n1\t1\n2\t1\n3\t1\n4\t0\n")
}
