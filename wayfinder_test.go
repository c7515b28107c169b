package wayfinder_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCounter counts builder runs through lifecycle hooks.
type buildCounter struct {
	mu    sync.Mutex
	kinds []domain.ResultKind
}

func (c *buildCounter) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuildStart: func(_ context.Context, ev *domain.BuildEvent) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.kinds = append(c.kinds, ev.Kind)
		},
	}
}

func (c *buildCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.kinds)
}

// countingLocker is an in-process ports.DistributedLocker.
type countingLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	locks    int
	unlocks  int
	lastTTL  time.Duration
	lastKeys []string
}

func (l *countingLocker) Lock(_ context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	l.held[key] = true
	l.locks++
	l.lastTTL = ttl
	l.lastKeys = append(l.lastKeys, key)
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.unlocks++
		return nil
	}, nil
}

func newEngine(t *testing.T, opts ...wayfinder.Option) *wayfinder.Engine {
	t.Helper()
	g := testutils.CycleGraph(t)
	opts = append([]wayfinder.Option{
		wayfinder.WithLogger(testutils.NewLogger(t)),
		wayfinder.WithAutomata(map[string]*automaton.Automaton{
			"forward+": testutils.OneOrMoreForward(t),
			"dead":     testutils.Dead(t),
		}),
	}, opts...)
	eng, err := wayfinder.New(g, opts...)
	require.NoError(t, err)
	return eng
}

func TestNew_Errors(t *testing.T) {
	_, err := wayfinder.New(nil)
	assert.Error(t, err)

	_, err = wayfinder.New(testutils.CycleGraph(t), wayfinder.WithLocker(&countingLocker{}, 0))
	assert.ErrorContains(t, err, "requires a result store")
}

func TestEngine_Automata(t *testing.T) {
	forward := testutils.OneOrMoreForward(t)
	eng := newEngine(t, wayfinder.WithAutomata(map[string]*automaton.Automaton{"fwd": forward}))

	assert.Equal(t, []string{"dead", "forward+", "fwd"}, eng.Automata())

	a, ok := eng.Automaton("fwd")
	require.True(t, ok)
	assert.Equal(t, "fwd", a.Name)
	assert.Equal(t, "forward+", forward.Name, "registration must not rename the caller's automaton")

	_, ok = eng.Automaton("missing")
	assert.False(t, ok)
}

func TestEngine_Resolve(t *testing.T) {
	eng := newEngine(t)

	ids, err := eng.Resolve("C", "A")
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{2, 0}, ids)

	_, err = eng.Resolve("Z")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func TestEngine_ExtractPath(t *testing.T) {
	eng := newEngine(t)
	a, _ := eng.Automaton("forward+")
	ctx := context.Background()

	path, err := eng.ExtractPath(ctx, a, []domain.NodeID{0}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, path.Len(), "the root is accepted only after the full cycle")

	_, err = eng.ExtractPath(ctx, a, []domain.NodeID{0}, 9, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	dead, _ := eng.Automaton("dead")
	_, err = eng.ExtractPath(ctx, dead, []domain.NodeID{0}, 1, nil)
	assert.ErrorIs(t, err, domain.ErrNoSuchPath)
}

func TestEngine_CachesNamedBuilds(t *testing.T) {
	store := memory.NewStore()
	counter := &buildCounter{}
	eng := newEngine(t,
		wayfinder.WithName("ring"),
		wayfinder.WithResultStore(store),
		wayfinder.WithLifecycleHooks(counter.hooks()),
	)
	a, _ := eng.Automaton("forward+")
	ctx := context.Background()
	roots := []domain.NodeID{0}

	first, err := eng.BuildPathSystem(ctx, a, roots, nil)
	require.NoError(t, err)
	second, err := eng.BuildPathSystem(ctx, a, roots, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.count())
	assert.Equal(t, first.FinalNodes(), second.FinalNodes())
	assert.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.Leaves(), second.Leaves())
	assert.True(t, second.Finished())

	sl, err := eng.BuildSlice(ctx, a, roots, nil)
	require.NoError(t, err)
	cached, err := eng.BuildSlice(ctx, a, roots, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, counter.count())
	assert.Equal(t, sl.Edges(), cached.Edges())

	keys, err := store.List(ctx, domain.KindPathSystem)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Regexp(t, `^ring/forward\+@0#[0-9a-f]{16}$`, keys[0])
	sliceKeys, err := store.List(ctx, domain.KindSlice)
	require.NoError(t, err)
	assert.Equal(t, keys, sliceKeys)
}

func TestEngine_CacheKeyTracksContent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	fwd := testutils.OneOrMoreForward(t)

	engineOver := func(target string) *wayfinder.Engine {
		t.Helper()
		g := memory.NewGraph()
		a, _ := g.AddNode("A", "", nil)
		_, _ = g.AddNode("B", "", nil)
		_, _ = g.AddNode("C", "", nil)
		to, ok := g.Lookup(target)
		require.True(t, ok)
		_, err := g.AddEdge(a, to, "", nil)
		require.NoError(t, err)
		eng, err := wayfinder.New(g,
			wayfinder.WithName("doc"),
			wayfinder.WithResultStore(store),
			wayfinder.WithAutomata(map[string]*automaton.Automaton{"fwd": fwd}),
		)
		require.NoError(t, err)
		return eng
	}

	before := engineOver("B")
	a, _ := before.Automaton("fwd")
	sl, err := before.BuildSlice(ctx, a, []domain.NodeID{0}, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{0, 1}, sl.Nodes())

	// Same name and automaton, different edge: the earlier result must not be served.
	after := engineOver("C")
	a, _ = after.Automaton("fwd")
	sl, err = after.BuildSlice(ctx, a, []domain.NodeID{0}, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{0, 2}, sl.Nodes())

	keys, err := store.List(ctx, domain.KindSlice)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestEngine_CacheKeyTracksAutomatonSource(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	compile := func(edgeType string) *automaton.Automaton {
		t.Helper()
		a, err := automaton.Spec{
			Initial: 0,
			States: []automaton.StateSpec{
				{Transitions: []automaton.TransitionSpec{{To: 1, EdgeTypes: []string{edgeType}}}},
				{Final: true},
			},
		}.Compile()
		require.NoError(t, err)
		return a
	}

	g := memory.NewGraph()
	a0, _ := g.AddNode("A", "", nil)
	b0, _ := g.AddNode("B", "", nil)
	_, err := g.AddEdge(a0, b0, "road", nil)
	require.NoError(t, err)

	for edgeType, want := range map[string][]domain.NodeID{"road": {0, 1}, "rail": {0}} {
		eng, err := wayfinder.New(g,
			wayfinder.WithResultStore(store),
			wayfinder.WithAutomata(map[string]*automaton.Automaton{"hop": compile(edgeType)}),
		)
		require.NoError(t, err)
		a, _ := eng.Automaton("hop")
		sl, err := eng.BuildSlice(ctx, a, []domain.NodeID{a0}, nil)
		require.NoError(t, err)
		assert.Equal(t, want, sl.Nodes(), edgeType)
	}
}

func TestEngine_SkipsCacheForEnvAndAnonymousAutomata(t *testing.T) {
	store := memory.NewStore()
	counter := &buildCounter{}
	eng := newEngine(t, wayfinder.WithResultStore(store), wayfinder.WithLifecycleHooks(counter.hooks()))
	ctx := context.Background()
	roots := []domain.NodeID{0}

	named, _ := eng.Automaton("forward+")
	for range 2 {
		_, err := eng.BuildPathSystem(ctx, named, roots, map[string]int{"limit": 3})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, counter.count())

	anon := *named
	anon.Name = ""
	for range 2 {
		_, err := eng.BuildSlice(ctx, &anon, roots, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, counter.count())

	for _, kind := range []domain.ResultKind{domain.KindPathSystem, domain.KindSlice} {
		keys, err := store.List(ctx, kind)
		require.NoError(t, err)
		assert.Empty(t, keys)
	}
}

func TestEngine_DiscardsUnreadableCache(t *testing.T) {
	store := memory.NewStore()
	counter := &buildCounter{}
	eng := newEngine(t, wayfinder.WithResultStore(store), wayfinder.WithLifecycleHooks(counter.hooks()))
	ctx := context.Background()
	a, _ := eng.Automaton("forward+")
	_, err := eng.BuildPathSystem(ctx, a, []domain.NodeID{0}, nil)
	require.NoError(t, err)
	keys, err := store.List(ctx, domain.KindPathSystem)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.NoError(t, store.Save(ctx, keys[0], domain.KindPathSystem, []byte("not json")))

	ps, err := eng.BuildPathSystem(ctx, a, []domain.NodeID{0}, nil)
	require.NoError(t, err)
	assert.Len(t, ps.Leaves(), 4)
	assert.Equal(t, 2, counter.count())

	payload, err := store.Load(ctx, keys[0], domain.KindPathSystem)
	require.NoError(t, err)
	assert.True(t, json.Valid(payload), "the rebuilt result replaces the unreadable one")
}

func TestEngine_LocksAroundBuild(t *testing.T) {
	store := memory.NewStore()
	locker := &countingLocker{}
	counter := &buildCounter{}
	eng := newEngine(t,
		wayfinder.WithResultStore(store),
		wayfinder.WithLocker(locker, 0),
		wayfinder.WithLifecycleHooks(counter.hooks()),
	)
	a, _ := eng.Automaton("forward+")
	ctx := context.Background()

	_, err := eng.BuildSlice(ctx, a, []domain.NodeID{0, 2}, nil)
	require.NoError(t, err)
	_, err = eng.BuildSlice(ctx, a, []domain.NodeID{0, 2}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, counter.count())
	assert.Equal(t, 1, locker.locks, "cache hits do not lock")
	assert.Equal(t, 1, locker.unlocks)
	assert.Equal(t, wayfinder.DefaultLockTTL, locker.lastTTL)
	require.Len(t, locker.lastKeys, 1)
	assert.Regexp(t, `^slice:forward\+@0,2#[0-9a-f]{16}$`, locker.lastKeys[0])
}

func TestEngine_Execute(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	t.Run("path system by default", func(t *testing.T) {
		ans, err := eng.Execute(ctx, domain.Query{Automaton: "forward+", Roots: []string{"A"}})
		require.NoError(t, err)
		assert.Equal(t, domain.KindPathSystem, ans.Query.Mode)
		require.NotNil(t, ans.PathSystem)
		assert.Nil(t, ans.Slice)
		assert.Len(t, ans.PathSystem.Leaves(), 4)
	})

	t.Run("path when a target is given", func(t *testing.T) {
		ans, err := eng.Execute(ctx, domain.Query{Automaton: "forward+", Roots: []string{"A"}, Target: "C"})
		require.NoError(t, err)
		require.NotNil(t, ans.Path)
		assert.Equal(t, []domain.NodeID{0, 1, 2}, ans.Path.Nodes)
	})

	t.Run("slice", func(t *testing.T) {
		ans, err := eng.Execute(ctx, domain.Query{Automaton: "forward+", Roots: []string{"B"}, Mode: domain.KindSlice})
		require.NoError(t, err)
		require.NotNil(t, ans.Slice)
		assert.Equal(t, []domain.NodeID{1}, ans.Roots)
		assert.Equal(t, 4, ans.Slice.EdgeCount())
	})

	t.Run("errors", func(t *testing.T) {
		_, err := eng.Execute(ctx, domain.Query{Automaton: "nope", Roots: []string{"A"}})
		assert.ErrorIs(t, err, domain.ErrInvalidAutomaton)

		_, err = eng.Execute(ctx, domain.Query{Automaton: "forward+", Roots: []string{"Q"}})
		assert.ErrorIs(t, err, domain.ErrUnknownNode)

		_, err = eng.Execute(ctx, domain.Query{Automaton: "forward+", Roots: []string{"A"}, Target: "Q"})
		assert.ErrorIs(t, err, domain.ErrUnknownNode)

		_, err = eng.Execute(ctx, domain.Query{Automaton: "dead", Roots: []string{"A"}, Target: "B"})
		assert.ErrorIs(t, err, domain.ErrNoSuchPath)

		_, err = eng.Execute(ctx, domain.Query{Automaton: "forward+"})
		assert.ErrorIs(t, err, domain.ErrNoRoots)
	})

	t.Run("interrupted", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := eng.Execute(cancelled, domain.Query{Automaton: "forward+", Roots: []string{"A"}})
		assert.ErrorIs(t, err, domain.ErrInterrupted)
	})
}

func TestRunner_Markdown(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer
	runner := wayfinder.NewRunner(&out)

	err := runner.Run(context.Background(), eng, []domain.Query{
		{Name: "reach", Automaton: "forward+", Roots: []string{"A"}},
		{Name: "ride", Automaton: "forward+", Roots: []string{"A"}, Target: "C"},
		{Name: "span", Automaton: "forward+", Roots: []string{"A"}, Mode: domain.KindSlice},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "## reach")
	assert.Contains(t, text, "5 tree nodes, 4 accepted.")
	assert.Contains(t, text, "| C | 1 | 2 |")
	assert.Contains(t, text, "`A -next-> B -next-> C`")
	assert.Contains(t, text, "4 nodes and 4 edges lie on accepted paths.")
}

func TestRunner_JSON(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer
	runner := &wayfinder.Runner{Output: &out, JSON: true}

	err := runner.Run(context.Background(), eng, []domain.Query{
		{Name: "ride", Automaton: "forward+", Roots: []string{"A"}, Target: "B"},
	})
	require.NoError(t, err)

	var ans struct {
		Query domain.Query `json:"query"`
		Path  struct {
			Nodes []int `json:"nodes"`
		} `json:"path"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &ans))
	assert.Equal(t, "ride", ans.Query.Name)
	assert.Equal(t, []int{0, 1}, ans.Path.Nodes)
}

func upper(s string) (string, error) { return strings.ToUpper(s), nil }

func TestRunner_KeepGoing(t *testing.T) {
	eng := newEngine(t)
	queries := []domain.Query{
		{Name: "broken", Automaton: "missing", Roots: []string{"A"}},
		{Name: "reach", Automaton: "forward+", Roots: []string{"A"}},
	}

	var out bytes.Buffer
	err := wayfinder.NewRunner(&out).Run(context.Background(), eng, queries)
	require.Error(t, err)
	assert.Empty(t, out.String(), "the run stops at the first failure")

	out.Reset()
	runner := &wayfinder.Runner{Output: &out, KeepGoing: true, Renderer: upper}
	err = runner.Run(context.Background(), eng, queries)
	assert.ErrorIs(t, err, domain.ErrInvalidAutomaton)
	assert.Contains(t, out.String(), `query "broken" failed`)
	assert.Contains(t, out.String(), "## REACH")
}
