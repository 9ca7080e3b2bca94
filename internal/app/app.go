package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/simgraph/internal/config"
	"github.com/vk/simgraph/internal/connection"
	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/graph"
	"github.com/vk/simgraph/internal/hcl"
	"github.com/vk/simgraph/internal/inmemorystore"
	"github.com/vk/simgraph/internal/inmemorytopology"
	"github.com/vk/simgraph/internal/metrics"
	"github.com/vk/simgraph/internal/yaml"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	loaders    []config.Loader
	graph      *graph.Manager
	metrics    *metrics.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger, metrics and an empty model. When no
// loaders are given, HCL and YAML are understood.
func NewApp(outW io.Writer, cfg *Config, loaders ...config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(loaders) == 0 {
		loaders = []config.Loader{hcl.NewLoader(), yaml.NewLoader()}
	}

	reg := metrics.NewRegistry()
	g := graph.New(
		inmemorytopology.New(),
		inmemorystore.New(),
		graph.WithConnectionOptions(connection.Options{StrictElementMatch: cfg.StrictElementMatch}),
		graph.WithObserver(reg),
	)
	logger.Debug("Graph created.", "strict_element_match", cfg.StrictElementMatch)

	return &App{
		ctx:     ctx,
		logger:  logger,
		config:  cfg,
		loaders: loaders,
		graph:   g,
		metrics: reg,
	}
}

// Graph returns the application's graph.
func (a *App) Graph() *graph.Manager {
	return a.graph
}

// Metrics returns the application's metrics registry.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Context returns the application's base context, which carries its logger.
func (a *App) Context() context.Context {
	return a.ctx
}
