package pie

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/mycok/minigraph/apps/bfs"
	"github.com/mycok/minigraph/apps/sssp"
	"github.com/mycok/minigraph/apps/wcc"
	"github.com/mycok/minigraph/emap"
	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/pie"
)

// algorithm describes how to load a graph for an app and how to create it.
type algorithm struct {
	// Payload assigned to every vertex before evaluation.
	initValue int64

	// Whether every stored edge is also loaded in the reverse direction.
	undirected bool

	newApp func(source graph.VertexID, logger *logrus.Entry) pie.App
}

var algorithms = map[string]algorithm{
	"bfs": {
		initValue: bfs.Unreached,
		newApp: func(source graph.VertexID, logger *logrus.Entry) pie.App {
			return bfs.New(source, emap.WithLogger(logger))
		},
	},
	"wcc": {
		undirected: true,
		newApp: func(_ graph.VertexID, logger *logrus.Entry) pie.App {
			return wcc.New(emap.WithLogger(logger))
		},
	},
	"sssp": {
		initValue: sssp.Infinity,
		newApp: func(source graph.VertexID, logger *logrus.Entry) pie.App {
			return sssp.New(source, emap.WithLogger(logger))
		},
	},
}

// Algorithms returns the names of the supported algorithms.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
