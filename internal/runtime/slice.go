package runtime

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/result"
)

// BuildSlice computes the subgraph made of every node and edge lying on some
// accepted path from roots.
//
// Each (node, state) pair is expanded once, but every distinct way of reaching
// it (edge and source state) is recorded. A backward sweep from the final pairs
// then keeps exactly the routes that lead to acceptance.
func BuildSlice(ctx context.Context, g ports.Graph, a *automaton.Automaton, roots []domain.NodeID, env any, opts ...Option) (*result.Slice, error) {
	roots, err := prepare(g, a, roots)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	r := cfg.begin(ctx, domain.KindSlice, a, roots)

	store := newSliceStore(a.StateCount(), g.NodeCount())
	finals, err := markSlice(ctx, r, store, &expander{graph: g, env: env}, a, roots)
	if err != nil {
		r.finish(ctx, store.marked, store.len(), len(finals), err)
		return nil, err
	}

	sl := sweepSlice(store, a.StateCount(), g.NodeCount(), roots, finals)
	err = sl.Finish()
	r.finish(ctx, store.marked, store.len(), len(finals), err)
	if err != nil {
		return nil, err
	}
	return sl, nil
}

// markSlice runs the forward phase. It returns the first entry of every pair
// reached in a final state.
func markSlice(ctx context.Context, r *run, store *sliceStore, x *expander, a *automaton.Automaton, roots []domain.NodeID) ([]int32, error) {
	var finals []int32
	queue := make([]int32, 0, len(roots))
	for _, root := range roots {
		e := entry{node: root, state: int32(a.Initial.Number), parent: -1, edge: domain.NoEdge}
		idx, first := store.record(e)
		if !first {
			continue
		}
		queue = append(queue, idx)
		r.mark(ctx, e, a.Initial.Final)
		if a.Initial.Final {
			finals = append(finals, idx)
		}
	}

	for head := 0; head < len(queue); head++ {
		if err := checkContext(ctx); err != nil {
			return finals, err
		}
		cur := queue[head]
		from := store.at(cur)
		skip := func(next domain.NodeID, end *automaton.State, edge domain.EdgeID) bool {
			return store.hasRoute(next, end.Number, edge, from.state)
		}
		err := x.expand(ctx, from.node, a.States[from.state], skip, func(m move) error {
			e := entry{
				node:     m.next,
				state:    int32(m.end.Number),
				parent:   cur,
				edge:     m.edge,
				distance: from.distance + 1,
			}
			idx, first := store.record(e)
			if first {
				queue = append(queue, idx)
				r.mark(ctx, e, m.end.Final)
				if m.end.Final {
					finals = append(finals, idx)
				}
			}
			return nil
		})
		if err != nil {
			return finals, err
		}
	}
	return finals, nil
}

// sweepSlice walks every recorded route backwards from the final pairs. Each
// pair is swept once.
func sweepSlice(store *sliceStore, states, nodes int, roots []domain.NodeID, finals []int32) *result.Slice {
	sl := result.NewSlice(roots)
	swept := make([][]bool, states)
	for i := range swept {
		swept[i] = make([]bool, nodes)
	}

	var work []int32
	for _, f := range finals {
		e := store.at(f)
		_ = sl.MarkFinal(e.node)
		if swept[e.state][e.node] {
			continue
		}
		swept[e.state][e.node] = true
		work = append(work, f)

		for len(work) > 0 {
			top := store.at(work[len(work)-1])
			work = work[:len(work)-1]
			for _, idx := range store.routes(top.node, int(top.state)) {
				route := store.at(idx)
				if route.root() {
					continue
				}
				if route.edge.Valid() {
					_ = sl.MarkEdge(route.edge)
				}
				p := store.at(route.parent)
				_ = sl.MarkNode(p.node)
				if !swept[p.state][p.node] {
					swept[p.state][p.node] = true
					work = append(work, route.parent)
				}
			}
		}
	}
	return sl
}
