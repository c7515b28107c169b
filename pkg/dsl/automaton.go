package dsl

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/automaton"
)

// AutomatonBuilder assembles an automaton from named states.
// States are numbered in the order they are first mentioned; the first one is
// the initial state unless Initial says otherwise.
type AutomatonBuilder struct {
	name    string
	initial string
	states  map[string]*StateBuilder
	order   []string
}

// Automaton creates a new automaton builder.
func Automaton(name string) *AutomatonBuilder {
	return &AutomatonBuilder{
		name:   name,
		states: make(map[string]*StateBuilder),
	}
}

// State returns the builder for a state, creating it when needed.
func (b *AutomatonBuilder) State(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{name: name, builder: b}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Initial selects the initial state.
func (b *AutomatonBuilder) Initial(name string) *AutomatonBuilder {
	b.initial = name
	b.State(name)
	return b
}

// Build numbers the states and validates the result.
func (b *AutomatonBuilder) Build() (*automaton.Automaton, error) {
	if len(b.order) == 0 {
		return nil, fmt.Errorf("automaton %q has no states", b.name)
	}
	states := make([]*automaton.State, len(b.order))
	index := make(map[string]int, len(b.order))
	for i, name := range b.order {
		states[i] = automaton.NewState(i, b.states[name].final)
		index[name] = i
	}
	for i, name := range b.order {
		for _, t := range b.states[name].transitions {
			end, ok := index[t.to]
			if !ok {
				return nil, fmt.Errorf("automaton %q: state %q: unknown target %q", b.name, name, t.to)
			}
			states[i].Out = append(states[i].Out, automaton.Transition{Kind: t.kind, End: states[end], Accept: t.accept})
		}
	}

	initial := 0
	if b.initial != "" {
		initial = index[b.initial]
	}
	return automaton.New(b.name, initial, states...)
}

// MustBuild is like Build but panics on error. Meant for tests and fixtures.
func (b *AutomatonBuilder) MustBuild() *automaton.Automaton {
	a, err := b.Build()
	if err != nil {
		panic(err)
	}
	return a
}

type pendingTransition struct {
	to     string
	kind   automaton.Kind
	accept automaton.Acceptor
}

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	name        string
	final       bool
	transitions []pendingTransition
	builder     *AutomatonBuilder
}

// Final marks the state as accepting.
func (s *StateBuilder) Final() *StateBuilder {
	s.final = true
	return s
}

// Edge adds a consuming transition guarded by acc (nil accepts every incidence).
func (s *StateBuilder) Edge(target string, acc automaton.Acceptor) *StateBuilder {
	s.builder.State(target)
	s.transitions = append(s.transitions, pendingTransition{to: target, kind: automaton.KindEdge, accept: acc})
	return s
}

// Out follows outgoing edges, optionally restricted to edge types.
func (s *StateBuilder) Out(target string, edgeTypes ...string) *StateBuilder {
	return s.Edge(target, directed(automaton.Forward(), edgeTypes))
}

// In follows incoming edges, optionally restricted to edge types.
func (s *StateBuilder) In(target string, edgeTypes ...string) *StateBuilder {
	return s.Edge(target, directed(automaton.Backward(), edgeTypes))
}

// Filter adds a structural transition that only passes nodes of the given types.
func (s *StateBuilder) Filter(target string, nodeTypes ...string) *StateBuilder {
	return s.Structural(target, automaton.NodeTypes(nodeTypes...))
}

// Structural adds a non-consuming transition guarded by acc.
func (s *StateBuilder) Structural(target string, acc automaton.Acceptor) *StateBuilder {
	s.builder.State(target)
	s.transitions = append(s.transitions, pendingTransition{to: target, kind: automaton.KindStructural, accept: acc})
	return s
}

// State continues with another state of the same automaton.
func (s *StateBuilder) State(name string) *StateBuilder {
	return s.builder.State(name)
}

// Build finishes the whole automaton.
func (s *StateBuilder) Build() (*automaton.Automaton, error) {
	return s.builder.Build()
}

func directed(dir automaton.Acceptor, edgeTypes []string) automaton.Acceptor {
	if len(edgeTypes) == 0 {
		return dir
	}
	return automaton.And(dir, automaton.EdgeTypes(edgeTypes...))
}

// MustBuild finishes the whole automaton and panics on error.
func (s *StateBuilder) MustBuild() *automaton.Automaton {
	return s.builder.MustBuild()
}
