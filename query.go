package wayfinder

import (
	"context"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/result"
)

// Answer is the outcome of a Query. Exactly one of the result fields is set,
// according to the query's mode.
type Answer struct {
	Query      domain.Query       `json:"query"`
	Roots      []domain.NodeID    `json:"roots"`
	PathSystem *result.PathSystem `json:"pathsystem,omitempty"`
	Slice      *result.Slice      `json:"slice,omitempty"`
	Path       *result.Path       `json:"path,omitempty"`
}

// Execute runs a query by name against the registered automata.
// Unknown automata and node names are reported before any build starts.
func (e *Engine) Execute(ctx context.Context, q domain.Query) (*Answer, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	a, ok := e.Automaton(q.Automaton)
	if !ok {
		return nil, fmt.Errorf("%w: unknown automaton %q", domain.ErrInvalidAutomaton, q.Automaton)
	}
	roots, err := e.Resolve(q.Roots...)
	if err != nil {
		return nil, err
	}

	ans := &Answer{Query: q, Roots: roots}
	switch q.Mode {
	case domain.KindSlice:
		ans.Slice, err = e.BuildSlice(ctx, a, roots, nil)
	case domain.KindPath:
		target, rerr := e.Resolve(q.Target)
		if rerr != nil {
			return nil, rerr
		}
		var path result.Path
		path, err = e.ExtractPath(ctx, a, roots, target[0], nil)
		ans.Path = &path
	default:
		ans.PathSystem, err = e.BuildPathSystem(ctx, a, roots, nil)
	}
	if err != nil {
		return nil, err
	}
	return ans, nil
}
