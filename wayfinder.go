package wayfinder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/aretw0/wayfinder/internal/runtime"
	loamAdapter "github.com/aretw0/wayfinder/pkg/adapters/loam"
	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/result"
)

// DefaultLockTTL bounds how long a replica may hold the computation lock of one query.
const DefaultLockTTL = 30 * time.Second

// Engine is the high-level entry point for the Wayfinder library.
// It binds a host graph to a set of named automata and wraps the builders
// with logging, lifecycle hooks and optional result caching.
// An Engine is safe for concurrent use.
type Engine struct {
	graph    ports.Graph
	automata map[string]*automaton.Automaton
	store    ports.ResultStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	Name     string

	graphDigest uint64
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAutomata registers named automata, addressable from queries.
// An automaton registered under a name takes that name.
func WithAutomata(automata map[string]*automaton.Automaton) Option {
	return func(e *Engine) {
		for name, a := range automata {
			if a.Name != name {
				named := *a
				named.Name = name
				a = &named
			}
			e.automata[name] = a
		}
	}
}

// WithResultStore enables result caching. Only automata with a name and
// builds without an evaluation environment are cached.
func WithResultStore(store ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes the computation of one cached result across replicas.
// A zero ttl selects DefaultLockTTL.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.lockTTL = ttl
	}
}

// WithName labels the engine (and its cache keys) with the graph's name.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes an Engine over an already loaded host graph.
func New(graph ports.Graph, opts ...Option) (*Engine, error) {
	if graph == nil {
		return nil, fmt.Errorf("graph is required")
	}
	eng := &Engine{
		graph:    graph,
		automata: make(map[string]*automaton.Automaton),
	}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("graph", eng.Name)
	}
	if eng.lockTTL <= 0 {
		eng.lockTTL = DefaultLockTTL
	}
	if eng.locker != nil && eng.store == nil {
		return nil, fmt.Errorf("a locker requires a result store")
	}
	if eng.store != nil {
		eng.graphDigest = digestGraph(graph)
	}
	return eng, nil
}

// Load initializes an Engine from a GraphLoader.
func Load(ctx context.Context, loader ports.GraphLoader, opts ...Option) (*Engine, error) {
	g, err := loader.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	return New(g, opts...)
}

// Open initializes an Engine over a Loam repository of node documents at repoPath.
// The engine is named after the directory unless WithName says otherwise.
func Open(ctx context.Context, repoPath string, opts ...Option) (*Engine, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("repoPath is required")
	}
	loader, err := loamAdapter.Open(repoPath)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	opts = append([]Option{WithName(filepath.Base(absPath))}, opts...)
	return Load(ctx, loader, opts...)
}

// Graph returns the host graph.
func (e *Engine) Graph() ports.Graph {
	return e.graph
}

// Automaton returns a registered automaton.
func (e *Engine) Automaton(name string) (*automaton.Automaton, bool) {
	a, ok := e.automata[name]
	return a, ok
}

// Automata returns the names of the registered automata, sorted.
func (e *Engine) Automata() []string {
	names := make([]string, 0, len(e.automata))
	for name := range e.automata {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve maps node names to ids. It fails with domain.ErrUnknownNode when a
// name is not part of the graph or the graph cannot resolve names.
func (e *Engine) Resolve(names ...string) ([]domain.NodeID, error) {
	resolver, ok := e.graph.(ports.NodeResolver)
	if !ok {
		return nil, fmt.Errorf("%w: graph does not resolve node names", domain.ErrUnknownNode)
	}
	ids := make([]domain.NodeID, len(names))
	for i, name := range names {
		id, ok := resolver.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownNode, name)
		}
		ids[i] = id
	}
	return ids, nil
}

func (e *Engine) runtimeOptions() []runtime.Option {
	return []runtime.Option{
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	}
}

// BuildPathSystem computes the tree of shortest accepted paths from roots.
// env is handed to every predicate untouched.
func (e *Engine) BuildPathSystem(ctx context.Context, a *automaton.Automaton, roots []domain.NodeID, env any) (*result.PathSystem, error) {
	build := func(ctx context.Context) (*result.PathSystem, error) {
		return runtime.BuildPathSystem(ctx, e.graph, a, roots, env, e.runtimeOptions()...)
	}
	key, ok := e.cacheKey(a, roots, env)
	if !ok {
		return build(ctx)
	}
	return cachedBuild(ctx, e, key, domain.KindPathSystem, result.NewPathSystem, build)
}

// BuildSlice computes the subgraph of every node and edge on some accepted path from roots.
func (e *Engine) BuildSlice(ctx context.Context, a *automaton.Automaton, roots []domain.NodeID, env any) (*result.Slice, error) {
	build := func(ctx context.Context) (*result.Slice, error) {
		return runtime.BuildSlice(ctx, e.graph, a, roots, env, e.runtimeOptions()...)
	}
	key, ok := e.cacheKey(a, roots, env)
	if !ok {
		return build(ctx)
	}
	newSlice := func() *result.Slice { return result.NewSlice(nil) }
	return cachedBuild(ctx, e, key, domain.KindSlice, newSlice, build)
}

// ExtractPath returns a shortest accepted path from one of roots to target.
// It returns domain.ErrNoSuchPath when target is not reached in a final state.
func (e *Engine) ExtractPath(ctx context.Context, a *automaton.Automaton, roots []domain.NodeID, target domain.NodeID, env any) (result.Path, error) {
	if target < 0 || int(target) >= e.graph.NodeCount() {
		return result.Path{}, fmt.Errorf("%w: target %s", domain.ErrUnknownNode, target)
	}
	ps, err := e.BuildPathSystem(ctx, a, roots, env)
	if err != nil {
		return result.Path{}, err
	}
	return ps.ExtractPath(target)
}
