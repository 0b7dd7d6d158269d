package pie

//go:generate mockgen -package mocks -destination mocks/mock_graphapi.go github.com/mycok/minigraph/service/pie GraphAPI
//go:generate mockgen -package mocks -destination mocks/mock_iterator.go github.com/mycok/minigraph/graphstore VertexIterator,EdgeIterator

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mycok/minigraph/executor"
	"github.com/mycok/minigraph/graph"
	"github.com/mycok/minigraph/graph/partition"
	"github.com/mycok/minigraph/pie"
)

// Service periodically loads the graph from a graph store, evaluates an
// algorithm over it with the PIE driver and writes the computed vertex
// values back. It satisfies the service.Service interface.
type Service struct {
	config Config
	algo   algorithm
}

// New creates and returns a fully configured PIE evaluation service.
func New(config Config) (*Service, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("pie service: config validation failed: %w", err)
	}

	return &Service{
		config: config,
		algo:   algorithms[config.Algorithm],
	}, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "pie-evaluator" }

// Run executes the service and blocks until the context gets cancelled
// or an error occurs.
func (svc *Service) Run(ctx context.Context) error {
	svc.config.Logger.WithFields(logrus.Fields{
		"algorithm":       svc.config.Algorithm,
		"update_interval": svc.config.UpdateInterval.String(),
	}).Info("started service")
	defer svc.config.Logger.Info("stopped service")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.config.Clock.After(svc.config.UpdateInterval):
			if err := svc.updateVertexValues(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}

				return err
			}
		}
	}
}

// RunOnce performs a single evaluation pass and returns.
func (svc *Service) RunOnce(ctx context.Context) error {
	return svc.updateVertexValues(ctx)
}

func (svc *Service) updateVertexValues(ctx context.Context) error {
	passID := uuid.New()
	logger := svc.config.Logger.WithField("pass_id", passID.String())
	logger.Info("started evaluation pass")

	startedAt := svc.config.Clock.Now()

	tick := svc.config.Clock.Now()
	frags, err := svc.loadFragments()
	if err != nil {
		return err
	}
	if len(frags) == 0 {
		logger.Info("skipping evaluation pass: graph is empty")

		return nil
	}
	graphPopulationDuration := svc.config.Clock.Now().Sub(tick)

	exec := executor.New(executor.Config{
		Parallelism: svc.config.NumOfWorkers,
		Logger:      logger,
	})
	defer func() { _ = exec.Close() }()

	driver, err := pie.NewDriver(pie.Config{
		App:       svc.algo.newApp(svc.config.Source, logger),
		Executor:  exec,
		MaxRounds: svc.config.MaxRounds,
		Clock:     svc.config.Clock,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	stats, err := driver.Run(ctx, graph.AsFragments(frags))
	if err != nil {
		return err
	}

	tick = svc.config.Clock.Now()
	numOfVertices, err := svc.writeBack(ctx, frags)
	if err != nil {
		return fmt.Errorf("persist values: %w", err)
	}
	valuePersistenceDuration := svc.config.Clock.Now().Sub(tick)

	logger.WithFields(logrus.Fields{
		"run_id":                     stats.RunID.String(),
		"processed_vertices":         numOfVertices,
		"fragments":                  len(frags),
		"rounds":                     stats.Rounds,
		"graph_population_duration":  graphPopulationDuration,
		"evaluation_duration":        stats.Duration,
		"value_persistence_duration": valuePersistenceDuration,
		"total_processing_time":      svc.config.Clock.Now().Sub(startedAt),
	}).Info("completed evaluation pass")

	return nil
}

// loadFragments reads every vertex and edge from the graph store and
// splits them into fragments over the range of loaded ids.
func (svc *Service) loadFragments() ([]*graph.CSR, error) {
	ids, err := svc.loadVertexIDs()
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	minID, maxID := ids[0], ids[0]
	for _, id := range ids {
		if id < minID {
			minID = id
		}
		if id > maxID {
			maxID = id
		}
	}

	numOfFragments := svc.config.NumOfFragments
	if span := uint64(maxID) - uint64(minID) + 1; uint64(numOfFragments) > span {
		numOfFragments = int(span)
	}

	r, err := partition.NewRange(numOfFragments, minID, maxID)
	if err != nil {
		return nil, err
	}

	p := partition.NewEdgeCut(r)
	for _, id := range ids {
		p.AddVertex(id, svc.algo.initValue)
	}

	if err := svc.loadEdges(p); err != nil {
		return nil, err
	}

	return p.Fragments()
}

func (svc *Service) loadVertexIDs() ([]graph.VertexID, error) {
	vertexIt, err := svc.config.GraphAPI.Vertices(0, math.MaxUint32)
	if err != nil {
		return nil, err
	}

	var ids []graph.VertexID
	for vertexIt.Next() {
		ids = append(ids, vertexIt.Vertex().ID)
	}

	if err := vertexIt.Error(); err != nil {
		_ = vertexIt.Close()

		return nil, err
	}

	return ids, vertexIt.Close()
}

func (svc *Service) loadEdges(p *partition.EdgeCut) error {
	edgeIt, err := svc.config.GraphAPI.Edges(0, math.MaxUint32)
	if err != nil {
		return err
	}

	for edgeIt.Next() {
		e := edgeIt.Edge()
		p.AddEdge(e.Src, e.Dest)
		if svc.algo.undirected {
			p.AddEdge(e.Dest, e.Src)
		}
	}

	if err := edgeIt.Error(); err != nil {
		_ = edgeIt.Close()

		return err
	}

	return edgeIt.Close()
}
