package automaton

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Kind tags a transition as consuming or structural.
type Kind int

const (
	// KindEdge consumes one incidence and moves to the node at its other end.
	KindEdge Kind = iota
	// KindStructural stays on the current node without consuming an edge.
	KindStructural
)

func (k Kind) String() string {
	switch k {
	case KindEdge:
		return "edge"
	case KindStructural:
		return "structural"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Transition is an automaton edge. It is read-only once the automaton is built.
type Transition struct {
	Kind   Kind
	End    *State
	Accept Acceptor // nil accepts every move
}

// ConsumesEdge reports whether the transition advances the path by one edge.
func (t Transition) ConsumesEdge() bool {
	return t.Kind == KindEdge
}

// Next returns the node reached from at. Consuming transitions follow inc;
// structural transitions stay on at.
func (t Transition) Next(at domain.NodeID, inc *domain.Incidence) domain.NodeID {
	if t.Kind == KindEdge && inc != nil {
		return inc.That
	}
	return at
}

// State is an automaton node.
type State struct {
	Number int
	Final  bool
	Out    []Transition
}

// NewState creates a state without transitions.
func NewState(number int, final bool) *State {
	return &State{Number: number, Final: final}
}

// Edge appends a consuming transition to end.
func (s *State) Edge(end *State, acc Acceptor) *State {
	s.Out = append(s.Out, Transition{Kind: KindEdge, End: end, Accept: acc})
	return s
}

// Structural appends a non-consuming transition to end.
func (s *State) Structural(end *State, acc Acceptor) *State {
	s.Out = append(s.Out, Transition{Kind: KindStructural, End: end, Accept: acc})
	return s
}

// Automaton is a compiled path description.
// States[i].Number == i for every state, and Initial is one of States.
type Automaton struct {
	Name    string
	Initial *State
	States  []*State
	// Source is the canonical form of the Spec the automaton was compiled
	// from; empty for automata built in code.
	Source string
}

// New builds an automaton over states with states[initial] as the initial state.
func New(name string, initial int, states ...*State) (*Automaton, error) {
	if initial < 0 || initial >= len(states) {
		return nil, fmt.Errorf("%w: initial state %d out of range", domain.ErrInvalidAutomaton, initial)
	}
	a := &Automaton{Name: name, Initial: states[initial], States: states}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// StateCount returns the number of states.
func (a *Automaton) StateCount() int {
	return len(a.States)
}

// Finals returns the numbers of the final states.
func (a *Automaton) Finals() []int {
	var out []int
	for _, s := range a.States {
		if s.Final {
			out = append(out, s.Number)
		}
	}
	return out
}

// Validate checks structural consistency: dense numbering, an initial state
// that belongs to the automaton, and transitions that stay inside it.
// An automaton without reachable final states is valid; it simply matches nothing.
func (a *Automaton) Validate() error {
	var errs []error
	if a.Initial == nil {
		errs = append(errs, &ValidationError{State: -1, Reason: "missing initial state"})
	}
	for i, s := range a.States {
		if s == nil {
			errs = append(errs, &ValidationError{State: i, Reason: "nil state"})
			continue
		}
		if s.Number != i {
			errs = append(errs, &ValidationError{State: i, Reason: fmt.Sprintf("numbered %d, expected %d", s.Number, i)})
		}
		for ti, t := range s.Out {
			switch {
			case t.Kind != KindEdge && t.Kind != KindStructural:
				errs = append(errs, &ValidationError{State: i, Transition: ti, Reason: "unknown transition " + t.Kind.String()})
			case t.End == nil:
				errs = append(errs, &ValidationError{State: i, Transition: ti, Reason: "missing end state"})
			case !a.owns(t.End):
				errs = append(errs, &ValidationError{State: i, Transition: ti, Reason: fmt.Sprintf("end state %d is not part of the automaton", t.End.Number)})
			}
		}
	}
	if a.Initial != nil && !a.owns(a.Initial) {
		errs = append(errs, &ValidationError{State: a.Initial.Number, Reason: "initial state is not part of the automaton"})
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func (a *Automaton) owns(s *State) bool {
	return s.Number >= 0 && s.Number < len(a.States) && a.States[s.Number] == s
}
