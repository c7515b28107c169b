package testutils

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/require"
)

// CycleGraph returns the four node cycle A -> B -> C -> D -> A.
// Node ids are 0..3 in that order and edge i leaves node i.
func CycleGraph(t *testing.T) *memory.Graph {
	t.Helper()
	g := memory.NewGraph()
	names := []string{"A", "B", "C", "D"}
	for _, n := range names {
		_, err := g.AddNode(n, "Stop", nil)
		require.NoError(t, err)
	}
	for i := range names {
		_, err := g.AddEdge(domain.NodeID(i), domain.NodeID((i+1)%len(names)), "next", nil)
		require.NoError(t, err)
	}
	return g
}

// RandomGraph builds a reproducible random multigraph. Node types cycle
// through "a", "b", "c" and edge types through "x", "y"; self loops and
// parallel edges are allowed.
func RandomGraph(t *testing.T, seed uint64, nodes, edges int) *memory.Graph {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g := memory.NewGraph()
	nodeTypes := []string{"a", "b", "c"}
	edgeTypes := []string{"x", "y"}
	for i := 0; i < nodes; i++ {
		_, err := g.AddNode(fmt.Sprintf("n%d", i), nodeTypes[i%len(nodeTypes)], nil)
		require.NoError(t, err)
	}
	for i := 0; i < edges; i++ {
		alpha := domain.NodeID(rng.IntN(nodes))
		omega := domain.NodeID(rng.IntN(nodes))
		_, err := g.AddEdge(alpha, omega, edgeTypes[rng.IntN(len(edgeTypes))], nil)
		require.NoError(t, err)
	}
	return g
}

// OneOrMoreForward accepts every path of at least one forward edge.
func OneOrMoreForward(t *testing.T) *automaton.Automaton {
	t.Helper()
	s0 := automaton.NewState(0, false)
	s1 := automaton.NewState(1, true)
	s0.Edge(s1, automaton.Forward())
	s1.Edge(s1, automaton.Forward())
	a, err := automaton.New("forward+", 0, s0, s1)
	require.NoError(t, err)
	return a
}

// Dead has a non-final initial state without transitions; it matches nothing.
func Dead(t *testing.T) *automaton.Automaton {
	t.Helper()
	a, err := automaton.New("dead", 0, automaton.NewState(0, false))
	require.NoError(t, err)
	return a
}

// RandomAutomaton builds a reproducible automaton mixing edge and structural
// transitions over the type vocabulary of RandomGraph. State 0 is initial.
func RandomAutomaton(t *testing.T, seed uint64, states, transitions int) *automaton.Automaton {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))
	all := make([]*automaton.State, states)
	for i := range all {
		all[i] = automaton.NewState(i, rng.IntN(3) == 0)
	}
	all[states-1].Final = true

	acceptors := []automaton.Acceptor{
		nil,
		automaton.Forward(),
		automaton.Backward(),
		automaton.EdgeTypes("x"),
		automaton.And(automaton.Forward(), automaton.EdgeTypes("y")),
		automaton.TargetTypes("a", "b"),
	}
	structural := []automaton.Acceptor{
		nil,
		automaton.NodeTypes("a"),
		automaton.Not(automaton.NodeTypes("c")),
	}
	for i := 0; i < transitions; i++ {
		from := all[rng.IntN(states)]
		to := all[rng.IntN(states)]
		if rng.IntN(4) == 0 {
			from.Structural(to, structural[rng.IntN(len(structural))])
		} else {
			from.Edge(to, acceptors[rng.IntN(len(acceptors))])
		}
	}
	a, err := automaton.New(fmt.Sprintf("random-%d", seed), 0, all...)
	require.NoError(t, err)
	return a
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewLogger returns a debug level logger that writes through t.Log.
func NewLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
