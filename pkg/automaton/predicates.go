package automaton

import (
	"context"
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Any accepts every move.
func Any() Acceptor {
	return AcceptorFunc(func(context.Context, Step) (bool, error) { return true, nil })
}

// Forward accepts incidences leaving the current node (the edge's alpha side).
func Forward() Acceptor {
	return DirectionIs(domain.Out)
}

// Backward accepts incidences entering the current node.
func Backward() Acceptor {
	return DirectionIs(domain.In)
}

// DirectionIs accepts incidences with the given direction. Structural steps never match.
func DirectionIs(dir domain.Direction) Acceptor {
	return AcceptorFunc(func(_ context.Context, s Step) (bool, error) {
		return s.Incidence != nil && s.Incidence.Direction == dir, nil
	})
}

// EdgeTypes accepts incidences whose edge has one of the given types.
func EdgeTypes(types ...string) Acceptor {
	return AcceptorFunc(func(_ context.Context, s Step) (bool, error) {
		if s.Incidence == nil {
			return false, nil
		}
		e, ok := s.Graph.Edge(s.Incidence.Edge)
		return ok && slices.Contains(types, e.Type), nil
	})
}

// NodeTypes accepts when the current node has one of the given types.
// This is the usual acceptor of a structural type-restriction transition.
func NodeTypes(types ...string) Acceptor {
	return AcceptorFunc(func(_ context.Context, s Step) (bool, error) {
		n, ok := s.Graph.Node(s.At)
		return ok && slices.Contains(types, n.Type), nil
	})
}

// TargetTypes accepts incidences whose other end has one of the given types.
func TargetTypes(types ...string) Acceptor {
	return AcceptorFunc(func(_ context.Context, s Step) (bool, error) {
		if s.Incidence == nil {
			return false, nil
		}
		n, ok := s.Graph.Node(s.Incidence.That)
		return ok && slices.Contains(types, n.Type), nil
	})
}

// And accepts when every acceptor accepts. Evaluation stops at the first
// rejection or error.
func And(accs ...Acceptor) Acceptor {
	return AcceptorFunc(func(ctx context.Context, s Step) (bool, error) {
		for _, acc := range accs {
			ok, err := accepts(ctx, acc, s)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	})
}

// Or accepts when at least one acceptor accepts.
func Or(accs ...Acceptor) Acceptor {
	return AcceptorFunc(func(ctx context.Context, s Step) (bool, error) {
		for _, acc := range accs {
			ok, err := accepts(ctx, acc, s)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	})
}

// Not negates acc. Errors are passed through.
func Not(acc Acceptor) Acceptor {
	return AcceptorFunc(func(ctx context.Context, s Step) (bool, error) {
		ok, err := accepts(ctx, acc, s)
		if err != nil {
			return false, err
		}
		return !ok, nil
	})
}
