package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mycok/minigraph/graphstore"
	"github.com/mycok/minigraph/graphstore/cdb"
	memgraph "github.com/mycok/minigraph/graphstore/memory"
	"github.com/mycok/minigraph/service"
	"github.com/mycok/minigraph/service/pie"
)

const (
	appName = "minigraph"
	appSHA  = "compiled-and-deployed-at"
)

func main() {
	host, _ := os.Hostname()
	// Instantiate a root logger that will be passed to all services.
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"SHA":  appSHA,
		"host": host,
	})

	if err := run(rootLogger, logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func run(rootLogger *logrus.Logger, logger *logrus.Entry) error {
	jobPath := flag.String("job", "", "Path to an HCL job file describing the evaluation")
	storeURI := flag.String(
		"graph-store-uri", "",
		"URI for connecting to a graph data store, overrides the job file."+
			" [supported URI's: in-memory://, postgresql://user@host:26257/minigraph?sslmode=disable]",
	)
	once := flag.Bool("once", false, "Run a single evaluation pass, print the vertex values and exit")
	logLevel := flag.String("log-level", "info", "Logging level [debug, info, warn, error]")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	rootLogger.SetLevel(level)

	if *jobPath == "" {
		return fmt.Errorf("job file must be specified with --job")
	}

	job, err := ParseJobFile(*jobPath)
	if err != nil {
		return err
	}
	if *storeURI != "" {
		job.StoreURI = *storeURI
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	// Launch a separate process to listen and respond to os signals
	// and trigger a graceful shutdown.
	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)

		select {
		case s := <-signalChan:
			logger.WithField("signal", s.String()).Info("shutting down due to os signal")
			cancelFn()
		case <-ctx.Done():
		}
	}()

	store, closeFn, err := getGraphStore(ctx, job.StoreURI, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	if err := job.seedGraph(store); err != nil {
		return fmt.Errorf("seed graph store: %w", err)
	}

	job.Config.GraphAPI = store
	job.Config.Logger = logger.WithField("service", "pie-evaluator")
	svc, err := pie.New(job.Config)
	if err != nil {
		return err
	}

	if *once {
		if err := svc.RunOnce(ctx); err != nil {
			return err
		}

		return printVertexValues(os.Stdout, store)
	}

	return service.Group{svc}.Execute(ctx)
}

// getGraphStore returns the graph store the URI points to along with a
// function that releases its resources.
func getGraphStore(ctx context.Context, graphStoreURI string, logger *logrus.Entry) (graphstore.Graph, func() error, error) {
	if graphStoreURI == "" {
		return nil, nil, fmt.Errorf("graph store URI must be specified with --graph-store-uri")
	}

	url, err := url.Parse(graphStoreURI)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse graph store URI: %w", err)
	}

	switch url.Scheme {
	case "in-memory":
		logger.Info("using in-memory graph store")

		return memgraph.NewInMemoryGraph(), func() error { return nil }, nil
	case "postgresql":
		logger.Info("using CDB graph store")

		g, err := cdb.NewCockroachDBGraph(graphStoreURI)
		if err != nil {
			return nil, nil, err
		}

		schemaCtx, cancelFn := context.WithTimeout(ctx, 10*time.Second)
		defer cancelFn()
		if err := g.EnsureSchema(schemaCtx); err != nil {
			_ = g.Close()

			return nil, nil, err
		}

		return g, g.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported graph store URI scheme: %q", url.Scheme)
	}
}

func printVertexValues(w io.Writer, g graphstore.Graph) error {
	it, err := g.Vertices(0, math.MaxUint32)
	if err != nil {
		return err
	}

	for it.Next() {
		v := it.Vertex()
		if _, err := fmt.Fprintf(w, "%d\t%d\n", v.ID, v.Value); err != nil {
			_ = it.Close()

			return err
		}
	}

	if err := it.Error(); err != nil {
		_ = it.Close()

		return err
	}

	return it.Close()
}
