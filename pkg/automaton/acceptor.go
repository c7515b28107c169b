package automaton

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Step is what an Acceptor sees when a move is attempted.
type Step struct {
	Graph ports.Graph
	At    domain.NodeID
	// Incidence is the incidence being traversed; nil for structural transitions.
	Incidence *domain.Incidence
	// Env is the caller's evaluation context, passed through untouched.
	Env any
}

// Acceptor decides whether a transition may be taken.
// Implementations may re-enter a host evaluator; returned errors abort the
// computation. Returning an error matching domain.ErrInterrupted (or a context
// error) signals a cooperative abort rather than an evaluation failure.
type Acceptor interface {
	Accepts(ctx context.Context, step Step) (bool, error)
}

// AcceptorFunc adapts a function to the Acceptor interface.
type AcceptorFunc func(ctx context.Context, step Step) (bool, error)

// Accepts implements Acceptor.
func (f AcceptorFunc) Accepts(ctx context.Context, step Step) (bool, error) {
	return f(ctx, step)
}

// accepts evaluates acc, treating nil as "always".
func accepts(ctx context.Context, acc Acceptor, step Step) (bool, error) {
	if acc == nil {
		return true, nil
	}
	return acc.Accepts(ctx, step)
}

// Accepts evaluates the transition's acceptor for step.
func (t Transition) Accepts(ctx context.Context, step Step) (bool, error) {
	return accepts(ctx, t.Accept, step)
}
