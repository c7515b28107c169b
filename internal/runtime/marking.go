package runtime

import "github.com/aretw0/wayfinder/pkg/domain"

// entry records how a (node, state) pair was reached.
// parent is the arena index of the entry it was reached from, -1 for roots.
type entry struct {
	node     domain.NodeID
	state    int32
	parent   int32
	edge     domain.EdgeID
	distance int32
	next     int32 // next entry for the same pair, -1 terminates; slices only
}

func (e entry) root() bool {
	return e.parent < 0
}

// arena stores entries densely. Indices are stable for the life of a build.
type arena struct {
	entries []entry
}

func (a *arena) add(e entry) int32 {
	a.entries = append(a.entries, e)
	return int32(len(a.entries) - 1)
}

func (a *arena) at(i int32) entry {
	return a.entries[i]
}

func (a *arena) len() int {
	return len(a.entries)
}

// markTable maps (state, node) to an arena index plus one; zero is unmarked.
type markTable [][]int32

func newMarkTable(states, nodes int) markTable {
	t := make(markTable, states)
	for i := range t {
		t[i] = make([]int32, nodes)
	}
	return t
}

func (t markTable) get(node domain.NodeID, state int) (int32, bool) {
	v := t[state][node]
	return v - 1, v != 0
}

func (t markTable) set(node domain.NodeID, state int, idx int32) {
	t[state][node] = idx + 1
}

// pathStore keeps the single first entry of every marked pair.
type pathStore struct {
	arena
	marks  markTable
	marked int
}

func newPathStore(states, nodes int) *pathStore {
	return &pathStore{marks: newMarkTable(states, nodes)}
}

func (s *pathStore) isMarked(node domain.NodeID, state int) bool {
	_, ok := s.marks.get(node, state)
	return ok
}

// mark records e as the provenance of its pair. The caller checks isMarked first.
func (s *pathStore) mark(e entry) int32 {
	e.next = -1
	idx := s.add(e)
	s.marks.set(e.node, int(e.state), idx)
	s.marked++
	return idx
}

// sliceStore keeps every distinct route into a pair as a linked list.
type sliceStore struct {
	arena
	heads  markTable
	tails  markTable
	marked int
}

func newSliceStore(states, nodes int) *sliceStore {
	return &sliceStore{
		heads: newMarkTable(states, nodes),
		tails: newMarkTable(states, nodes),
	}
}

func (s *sliceStore) isMarked(node domain.NodeID, state int) bool {
	_, ok := s.heads.get(node, state)
	return ok
}

// hasRoute reports whether (node, state) was already reached through edge from
// a pair in parentState.
func (s *sliceStore) hasRoute(node domain.NodeID, state int, edge domain.EdgeID, parentState int32) bool {
	idx, ok := s.heads.get(node, state)
	for ok {
		e := s.at(idx)
		if e.edge == edge && !e.root() && s.at(e.parent).state == parentState {
			return true
		}
		idx, ok = e.next, e.next >= 0
	}
	return false
}

// record appends e to its pair's route list. The boolean reports whether the
// pair was reached for the first time.
func (s *sliceStore) record(e entry) (int32, bool) {
	e.next = -1
	idx := s.add(e)
	state := int(e.state)
	tail, ok := s.tails.get(e.node, state)
	if ok {
		s.entries[tail].next = idx
	} else {
		s.heads.set(e.node, state, idx)
		s.marked++
	}
	s.tails.set(e.node, state, idx)
	return idx, !ok
}

// routes returns the arena indices of every entry recorded for a pair.
func (s *sliceStore) routes(node domain.NodeID, state int) []int32 {
	var out []int32
	idx, ok := s.heads.get(node, state)
	for ok {
		out = append(out, idx)
		next := s.at(idx).next
		idx, ok = next, next >= 0
	}
	return out
}
