package main

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graphstore"
	"github.com/mycok/minigraph/service/pie"
)

// jobFile is the top-level structure of a job file. A job file looks like:
//
//	algorithm       = "sssp"
//	source          = 0
//	fragments       = 4
//	workers         = 8
//	update_interval = "10m"
//	store_uri       = "in-memory://"
//
//	seed {
//	  vertices = 6
//	  edges    = [[0, 1], [1, 2], [4, 5]]
//	}
type jobFile struct {
	Algorithm      string    `hcl:"algorithm"`
	Source         *uint32   `hcl:"source,optional"`
	Fragments      *int      `hcl:"fragments,optional"`
	Workers        *int      `hcl:"workers,optional"`
	MaxRounds      *int      `hcl:"max_rounds,optional"`
	UpdateInterval *string   `hcl:"update_interval,optional"`
	StoreURI       *string   `hcl:"store_uri,optional"`
	Seed           *seedSpec `hcl:"seed,block"`
}

// seedSpec lists a graph that gets written to the store before the
// first evaluation pass.
type seedSpec struct {
	Vertices uint32     `hcl:"vertices"`
	Edges    [][]uint32 `hcl:"edges,optional"`
}

// Job is a decoded and validated job file.
type Job struct {
	Config   pie.Config
	StoreURI string

	SeedVertices uint32
	SeedEdges    []graphstore.Edge
}

// ParseJobFile reads and decodes the job file at path.
func ParseJobFile(path string) (*Job, error) {
	f, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, diags)
	}

	return decodeJob(f.Body, path)
}

// ParseJob decodes a job from an in-memory HCL document.
func ParseJob(src []byte, filename string) (*Job, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse job file %s: %w", filename, diags)
	}

	return decodeJob(f.Body, filename)
}

func decodeJob(body hcl.Body, filename string) (*Job, error) {
	var jf jobFile
	if diags := gohcl.DecodeBody(body, nil, &jf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode job file %s: %w", filename, diags)
	}

	job := &Job{StoreURI: "in-memory://"}
	job.Config.Algorithm = jf.Algorithm
	job.Config.UpdateInterval = time.Hour

	if jf.Source != nil {
		job.Config.Source = graph.VertexID(*jf.Source)
	}
	if jf.Fragments != nil {
		job.Config.NumOfFragments = *jf.Fragments
	}
	if jf.Workers != nil {
		job.Config.NumOfWorkers = *jf.Workers
	}
	if jf.MaxRounds != nil {
		job.Config.MaxRounds = *jf.MaxRounds
	}
	if jf.StoreURI != nil {
		job.StoreURI = *jf.StoreURI
	}
	if jf.UpdateInterval != nil {
		interval, err := time.ParseDuration(*jf.UpdateInterval)
		if err != nil {
			return nil, fmt.Errorf("job file %s: invalid update interval: %w", filename, err)
		}
		job.Config.UpdateInterval = interval
	}

	if jf.Seed != nil {
		job.SeedVertices = jf.Seed.Vertices
		for i, pair := range jf.Seed.Edges {
			if len(pair) != 2 {
				return nil, fmt.Errorf("job file %s: seed edge %d must be a [src, dest] pair", filename, i)
			}
			if pair[0] >= jf.Seed.Vertices || pair[1] >= jf.Seed.Vertices {
				return nil, fmt.Errorf("job file %s: seed edge %d references an unknown vertex", filename, i)
			}
			job.SeedEdges = append(job.SeedEdges, graphstore.Edge{
				Src:  graph.VertexID(pair[0]),
				Dest: graph.VertexID(pair[1]),
			})
		}
	}

	return job, nil
}

// seedGraph writes the job's seed vertices and edges to g.
func (job *Job) seedGraph(g graphstore.Graph) error {
	for id := uint32(0); id < job.SeedVertices; id++ {
		if err := g.UpsertVertex(&graphstore.Vertex{ID: graph.VertexID(id)}); err != nil {
			return err
		}
	}

	for i := range job.SeedEdges {
		if err := g.UpsertEdge(&job.SeedEdges[i]); err != nil {
			return err
		}
	}

	return nil
}
