package result

import (
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Slice marks the host nodes and edges lying on at least one accepted path.
// Unlike a PathSystem it has no tree structure and may contain cycles.
// Start nodes are always marked.
type Slice struct {
	roots  []domain.NodeID
	nodes  map[domain.NodeID]struct{}
	edges  map[domain.EdgeID]struct{}
	finals map[domain.NodeID]struct{}
	frozen bool
}

// NewSlice creates an unfinished slice with its start nodes marked.
// Duplicate roots are dropped, keeping the first occurrence.
func NewSlice(roots []domain.NodeID) *Slice {
	s := &Slice{
		nodes:  make(map[domain.NodeID]struct{}),
		edges:  make(map[domain.EdgeID]struct{}),
		finals: make(map[domain.NodeID]struct{}),
	}
	for _, r := range roots {
		if _, dup := s.nodes[r]; dup {
			continue
		}
		s.roots = append(s.roots, r)
		s.nodes[r] = struct{}{}
	}
	return s
}

// MarkNode adds a host node to the slice.
func (s *Slice) MarkNode(n domain.NodeID) error {
	if s.frozen {
		return ErrFrozen
	}
	s.nodes[n] = struct{}{}
	return nil
}

// MarkEdge adds a host edge to the slice.
func (s *Slice) MarkEdge(e domain.EdgeID) error {
	if s.frozen {
		return ErrFrozen
	}
	s.edges[e] = struct{}{}
	return nil
}

// MarkFinal records that n reached a final state; it also marks n.
func (s *Slice) MarkFinal(n domain.NodeID) error {
	if s.frozen {
		return ErrFrozen
	}
	s.finals[n] = struct{}{}
	s.nodes[n] = struct{}{}
	return nil
}

// Finish freezes the slice.
func (s *Slice) Finish() error {
	if s.frozen {
		return ErrFrozen
	}
	s.frozen = true
	return nil
}

// Finished reports whether Finish has completed.
func (s *Slice) Finished() bool {
	return s.frozen
}

// Roots returns the start nodes.
func (s *Slice) Roots() []domain.NodeID {
	return append([]domain.NodeID(nil), s.roots...)
}

// ContainsNode reports whether n is marked.
func (s *Slice) ContainsNode(n domain.NodeID) bool {
	_, ok := s.nodes[n]
	return ok
}

// ContainsEdge reports whether e is marked.
func (s *Slice) ContainsEdge(e domain.EdgeID) bool {
	_, ok := s.edges[e]
	return ok
}

// IsFinal reports whether n reached a final state.
func (s *Slice) IsFinal(n domain.NodeID) bool {
	_, ok := s.finals[n]
	return ok
}

// Nodes returns the marked nodes, sorted.
func (s *Slice) Nodes() []domain.NodeID {
	return sortedKeys(s.nodes)
}

// Edges returns the marked edges, sorted.
func (s *Slice) Edges() []domain.EdgeID {
	return sortedKeys(s.edges)
}

// FinalNodes returns the nodes that reached a final state, sorted.
func (s *Slice) FinalNodes() []domain.NodeID {
	return sortedKeys(s.finals)
}

// NodeCount returns the number of marked nodes.
func (s *Slice) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of marked edges.
func (s *Slice) EdgeCount() int { return len(s.edges) }

func sortedKeys[T ~int](m map[T]struct{}) []T {
	out := make([]T, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
