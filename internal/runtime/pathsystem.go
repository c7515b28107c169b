package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/result"
)

// BuildPathSystem computes the tree of shortest accepted paths from roots.
//
// Pairs are explored breadth-first and the first entry recorded for a
// (node, state) pair is kept, so every tree node carries its minimal distance.
// Every automaton step counts one towards the distance, structural steps
// included.
func BuildPathSystem(ctx context.Context, g ports.Graph, a *automaton.Automaton, roots []domain.NodeID, env any, opts ...Option) (*result.PathSystem, error) {
	roots, err := prepare(g, a, roots)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	r := cfg.begin(ctx, domain.KindPathSystem, a, roots)

	store := newPathStore(a.StateCount(), g.NodeCount())
	finals, err := markPathSystem(ctx, r, store, &expander{graph: g, env: env}, a, roots)
	if err != nil {
		r.finish(ctx, store.marked, store.len(), len(finals), err)
		return nil, err
	}

	ps, err := reconstructPathSystem(store, a, roots, finals)
	r.finish(ctx, store.marked, store.len(), len(finals), err)
	if err != nil {
		return nil, err
	}
	return ps, nil
}

// markPathSystem runs the forward phase and returns the arena indices of the
// entries reached in a final state, in marking order.
func markPathSystem(ctx context.Context, r *run, store *pathStore, x *expander, a *automaton.Automaton, roots []domain.NodeID) ([]int32, error) {
	var finals []int32
	queue := make([]int32, 0, len(roots))
	for _, root := range roots {
		e := entry{node: root, state: int32(a.Initial.Number), parent: -1, edge: domain.NoEdge}
		idx := store.mark(e)
		queue = append(queue, idx)
		r.mark(ctx, e, a.Initial.Final)
		if a.Initial.Final {
			finals = append(finals, idx)
		}
	}

	skip := func(next domain.NodeID, end *automaton.State, _ domain.EdgeID) bool {
		return store.isMarked(next, end.Number)
	}

	for head := 0; head < len(queue); head++ {
		if err := checkContext(ctx); err != nil {
			return finals, err
		}
		cur := queue[head]
		from := store.at(cur)
		err := x.expand(ctx, from.node, a.States[from.state], skip, func(m move) error {
			e := entry{
				node:     m.next,
				state:    int32(m.end.Number),
				parent:   cur,
				edge:     m.edge,
				distance: from.distance + 1,
			}
			idx := store.mark(e)
			queue = append(queue, idx)
			r.mark(ctx, e, m.end.Final)
			if m.end.Final {
				finals = append(finals, idx)
			}
			return nil
		})
		if err != nil {
			return finals, err
		}
	}
	return finals, nil
}

func keyOf(e entry) result.Key {
	return result.Key{Node: e.node, State: int(e.state)}
}

// reconstructPathSystem walks provenance back from every final entry and
// builds the tree. Walks stop at the first pair already present. Entries
// reached by a structural step are linked afterwards by completePathSystem.
func reconstructPathSystem(store *pathStore, a *automaton.Automaton, roots []domain.NodeID, finals []int32) (*result.PathSystem, error) {
	ps := result.NewPathSystem()
	for _, root := range roots {
		if err := ps.AddRoot(root, a.Initial.Number); err != nil {
			return nil, err
		}
	}

	var deferred []int32
	for _, f := range finals {
		leaf := store.at(f)
		_, created, err := ps.AddNode(leaf.node, int(leaf.state), int(leaf.distance))
		if err != nil {
			return nil, err
		}
		for cur := f; created; {
			e := store.at(cur)
			if e.root() {
				break
			}
			p := store.at(e.parent)
			_, created, err = ps.AddNode(p.node, int(p.state), int(p.distance))
			if err != nil {
				return nil, err
			}
			if e.edge.Valid() {
				if err := ps.AddEdge(keyOf(e), keyOf(p), e.edge); err != nil {
					return nil, err
				}
			} else {
				deferred = append(deferred, cur)
			}
			cur = e.parent
		}
		if err := ps.MarkLeaf(keyOf(leaf)); err != nil {
			return nil, err
		}
	}

	if err := completePathSystem(ps, store, deferred); err != nil {
		return nil, err
	}
	if err := ps.Finish(); err != nil {
		return nil, err
	}
	return ps, nil
}

// completePathSystem links the pairs reached by structural steps. Each one is
// attached where its nearest edge-consuming ancestor is attached, through that
// ancestor's edge, so extracted paths contain only host nodes joined by host
// edges. A chain of structural steps back to a root is attached to the root
// without an edge.
func completePathSystem(ps *result.PathSystem, store *pathStore, deferred []int32) error {
	for _, idx := range deferred {
		e := store.at(idx)
		child := keyOf(e)
		if e.root() && e.distance == 0 {
			continue
		}

		parent, edge, err := consumingAncestor(store, idx)
		if err != nil {
			return err
		}
		if existing, ok := ps.Node(child); ok && existing.HasParent {
			if existing.Parent != parent || existing.Edge != edge {
				return &domain.InvariantError{
					Node:   e.node,
					State:  int(e.state),
					Reason: fmt.Sprintf("more than one parent: %s via %s and %s via %s", existing.Parent, existing.Edge, parent, edge),
				}
			}
			continue
		}
		if err := ps.AddEdge(child, parent, edge); err != nil {
			return err
		}
	}
	return nil
}

// consumingAncestor follows provenance from idx through structural entries.
// It returns the parent of the first entry that crossed an edge together with
// that edge, or the root reached without crossing one.
func consumingAncestor(store *pathStore, idx int32) (result.Key, domain.EdgeID, error) {
	start := store.at(idx)
	cur := start
	for steps := 0; steps <= store.len(); steps++ {
		if cur.root() {
			return result.Key{}, domain.NoEdge, &domain.InvariantError{
				Node:   start.node,
				State:  int(start.state),
				Reason: "structural chain starts at a root entry",
			}
		}
		p := store.at(cur.parent)
		if cur.edge.Valid() {
			return keyOf(p), cur.edge, nil
		}
		if p.root() {
			return keyOf(p), domain.NoEdge, nil
		}
		cur = p
	}
	return result.Key{}, domain.NoEdge, &domain.InvariantError{
		Node:   start.node,
		State:  int(start.state),
		Reason: "provenance chain does not reach a root",
	}
}
