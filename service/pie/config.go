package pie

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graphstore"
)

// GraphAPI defines a minimum set of API methods for loading graphs from
// and writing computed values to a graph store.
type GraphAPI interface {
	// Vertices returns an iterator for the set of vertices whose ids
	// belong to the [fromID, toID] range.
	Vertices(fromID, toID graph.VertexID) (graphstore.VertexIterator, error)

	// Edges returns an iterator for the set of edges whose source vertex
	// ids belong to the [fromID, toID] range.
	Edges(fromID, toID graph.VertexID) (graphstore.EdgeIterator, error)

	// UpdateValue overwrites the value of an existing vertex.
	UpdateValue(id graph.VertexID, value int64) error
}

// Config defines configurations for the PIE evaluation service.
type Config struct {
	// API for loading graphs and persisting computed values.
	GraphAPI GraphAPI

	// Algorithm to evaluate. See Algorithms for the supported names.
	Algorithm string

	// Source vertex for algorithms that start from a single vertex.
	Source graph.VertexID

	// The number of fragments the graph is split into. If not specified,
	// a single fragment will be used.
	NumOfFragments int

	// The number of workers leased to fragments. If not specified, a
	// default value of 1 will be used instead.
	NumOfWorkers int

	// MaxRounds caps the number of rounds of a pass. A zero value means no
	// limit.
	MaxRounds int

	// The duration between subsequent evaluation passes.
	UpdateInterval time.Duration

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.GraphAPI == nil {
		err = multierror.Append(err, fmt.Errorf("graph API not provided"))
	}

	if _, found := algorithms[config.Algorithm]; !found {
		err = multierror.Append(err, fmt.Errorf("unsupported algorithm %q", config.Algorithm))
	}

	if config.NumOfFragments <= 0 {
		config.NumOfFragments = 1
	}

	if config.NumOfWorkers <= 0 {
		config.NumOfWorkers = 1
	}

	if config.MaxRounds < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for max rounds, must be >= 0"))
	}

	if config.UpdateInterval == 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for update interval"))
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
