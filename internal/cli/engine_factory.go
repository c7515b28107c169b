package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/adapters/file"
	loamAdapter "github.com/aretw0/wayfinder/pkg/adapters/loam"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/wayfinder/pkg/adapters/redis"
	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/observability"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// ErrNoSource is returned when neither a document nor a Loam repository is given.
var ErrNoSource = errors.New("a query document or a loam directory is required")

// Workspace holds what outlives a reload: the metrics registry, the result
// cache and the logger. Load builds a fresh Project from the sources.
type Workspace struct {
	Options  Options
	Registry *prometheus.Registry

	logger  *slog.Logger
	metrics *observability.Metrics
	store   ports.ResultStore
	locker  ports.DistributedLocker
	client  *redis.Client
}

// Project is one loaded generation of the workspace sources.
type Project struct {
	Engine *wayfinder.Engine
	Bundle *file.Bundle
}

// NewWorkspace sets up metrics and caching for opts.
func NewWorkspace(opts Options, logger *slog.Logger) (*Workspace, error) {
	if opts.Document == "" && opts.LoamDir == "" {
		return nil, ErrNoSource
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		Options:  opts,
		Registry: reg,
		logger:   logger,
		metrics:  metrics,
	}
	switch {
	case opts.RedisAddr != "":
		ws.client = redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		ws.store = redisAdapter.NewFromClient(ws.client, redisAdapter.WithTTL(opts.CacheTTL))
		ws.locker = redisAdapter.NewLocker(ws.client, "")
		logger.Debug("Using redis result cache", "addr", opts.RedisAddr, "ttl", opts.CacheTTL)
	case opts.Cache:
		ws.store = memory.NewStore()
	}
	return ws, nil
}

// Close releases the Redis connection, if any.
func (w *Workspace) Close() error {
	if w.client != nil {
		return w.client.Close()
	}
	return nil
}

// Load reads the sources and builds an engine over them.
func (w *Workspace) Load(ctx context.Context) (*Project, error) {
	var graph file.NamedGraph
	if w.Options.LoamDir != "" {
		loader, err := loamAdapter.Open(w.Options.LoamDir)
		if err != nil {
			return nil, err
		}
		g, err := loader.LoadGraph(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		ng, ok := g.(file.NamedGraph)
		if !ok {
			return nil, fmt.Errorf("loam graph does not resolve node names")
		}
		graph = ng
	}

	bundle := &file.Bundle{Graph: graph, Automata: map[string]*automaton.Automaton{}}
	if w.Options.Document != "" {
		b, err := file.LoadWith(w.Options.Document, graph)
		if err != nil {
			return nil, err
		}
		bundle = b
	}

	opts := []wayfinder.Option{
		wayfinder.WithName(w.Options.name()),
		wayfinder.WithLogger(w.logger),
		wayfinder.WithAutomata(bundle.Automata),
		wayfinder.WithLifecycleHooks(observability.Combine(
			w.metrics.Hooks(),
			observability.LogHooks(w.logger),
		)),
	}
	if w.store != nil {
		opts = append(opts, wayfinder.WithResultStore(w.store))
	}
	if w.locker != nil {
		opts = append(opts, wayfinder.WithLocker(w.locker, 0))
	}
	engine, err := wayfinder.New(bundle.Graph, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	w.logger.Info("Workspace loaded",
		"nodes", bundle.Graph.NodeCount(),
		"edges", bundle.Graph.EdgeCount(),
		"automata", len(bundle.Automata),
		"queries", len(bundle.Queries),
	)
	return &Project{Engine: engine, Bundle: bundle}, nil
}
