package runtime

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// move is one admitted automaton step out of a pair.
type move struct {
	next domain.NodeID
	end  *automaton.State
	edge domain.EdgeID // domain.NoEdge for structural moves
}

// expander enumerates the moves admitted out of a (node, state) pair.
//
// Incidences are visited in graph order and, for each, the state's transitions
// in declaration order. Structural transitions are evaluated once, in their
// declared position, during the first incidence pass (or a single pass when the
// node has no incidences).
type expander struct {
	graph ports.Graph
	env   any
}

// skipFunc reports moves whose outcome is already known; their acceptor is not called.
type skipFunc func(next domain.NodeID, end *automaton.State, edge domain.EdgeID) bool

func (x *expander) expand(ctx context.Context, at domain.NodeID, state *automaton.State, skip skipFunc, emit func(move) error) error {
	incs := x.graph.Incidences(at)
	passes := len(incs)
	if passes == 0 {
		passes = 1
	}

	for i := 0; i < passes; i++ {
		var inc *domain.Incidence
		if i < len(incs) {
			inc = &incs[i]
		}
		for _, t := range state.Out {
			m := move{end: t.End, edge: domain.NoEdge}
			if t.ConsumesEdge() {
				if inc == nil {
					continue
				}
				m.edge = inc.Edge
			} else if i > 0 {
				continue
			}
			m.next = t.Next(at, inc)
			if skip(m.next, m.end, m.edge) {
				continue
			}

			step := automaton.Step{Graph: x.graph, At: at, Env: x.env}
			if t.ConsumesEdge() {
				step.Incidence = inc
			}
			ok, err := t.Accepts(ctx, step)
			if err != nil {
				if domain.IsInterruption(err) {
					return domain.Interrupted(err)
				}
				return err
			}
			if !ok {
				continue
			}
			if err := emit(m); err != nil {
				return err
			}
		}
	}
	return nil
}
