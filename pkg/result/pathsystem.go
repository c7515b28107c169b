package result

import (
	"fmt"
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Key identifies a PathSystemNode: a host node seen in one automaton state.
type Key struct {
	Node  domain.NodeID `json:"node"`
	State int           `json:"state"`
}

// SyntheticKey identifies the wrapper root of a path system with several start nodes.
var SyntheticKey = Key{Node: domain.NoNode, State: -1}

func (k Key) String() string {
	if k == SyntheticKey {
		return "(root)"
	}
	return fmt.Sprintf("(%s,%d)", k.Node, k.State)
}

// PathSystemNode is a node of the path system tree.
type PathSystemNode struct {
	Key
	// Leaf is set when the pair was reached in a final automaton state.
	// A leaf may still have children: final states can be passed through.
	Leaf bool
	// Parent is meaningful only when HasParent is set.
	Parent    Key
	HasParent bool
	// Edge is the host edge joining this node to its parent. It is domain.NoEdge
	// for roots and for links that do not cross an edge.
	Edge     domain.EdgeID
	Distance int
}

// Synthetic reports whether the node is the wrapper root of a multi-root system.
func (n PathSystemNode) Synthetic() bool {
	return n.Key == SyntheticKey
}

// PathSystem is a rooted tree of shortest accepted paths.
// Every non-root node has exactly one parent. Build it with AddRoot, AddNode,
// AddEdge and MarkLeaf, then call Finish once; afterwards it is read-only.
type PathSystem struct {
	nodes    map[Key]*PathSystemNode
	order    []Key
	byHost   map[domain.NodeID][]Key
	children map[Key][]Key
	links    []Key // children in the order they were linked
	starts   []Key
	leaves   []Key
	root     Key
	frozen   bool
}

// NewPathSystem creates an empty, unfinished path system.
func NewPathSystem() *PathSystem {
	return &PathSystem{
		nodes:    make(map[Key]*PathSystemNode),
		byHost:   make(map[domain.NodeID][]Key),
		children: make(map[Key][]Key),
	}
}

// AddRoot registers a start node in the given state at distance 0.
// Adding the same start twice is a no-op.
func (ps *PathSystem) AddRoot(node domain.NodeID, state int) error {
	if ps.frozen {
		return ErrFrozen
	}
	k := Key{Node: node, State: state}
	if _, exists := ps.nodes[k]; exists {
		return nil
	}
	ps.insert(&PathSystemNode{Key: k, Edge: domain.NoEdge})
	ps.starts = append(ps.starts, k)
	return nil
}

// AddNode creates the node for (node, state) or returns the existing one.
// The boolean reports whether the node was created by this call.
func (ps *PathSystem) AddNode(node domain.NodeID, state int, distance int) (PathSystemNode, bool, error) {
	if ps.frozen {
		return PathSystemNode{}, false, ErrFrozen
	}
	k := Key{Node: node, State: state}
	if n, exists := ps.nodes[k]; exists {
		return *n, false, nil
	}
	n := &PathSystemNode{Key: k, Edge: domain.NoEdge, Distance: distance}
	ps.insert(n)
	return *n, true, nil
}

// AddEdge links child under parent through edge (domain.NoEdge for links that
// do not cross an edge). Re-adding the same link is a no-op; linking a child to
// a second, different parent is an invariant violation.
func (ps *PathSystem) AddEdge(child, parent Key, edge domain.EdgeID) error {
	if ps.frozen {
		return ErrFrozen
	}
	c, ok := ps.nodes[child]
	if !ok {
		return &domain.InvariantError{Node: child.Node, State: child.State, Reason: "link from unknown node"}
	}
	if _, ok := ps.nodes[parent]; !ok {
		return &domain.InvariantError{Node: child.Node, State: child.State, Reason: "link to unknown parent " + parent.String()}
	}
	if child == parent {
		return &domain.InvariantError{Node: child.Node, State: child.State, Reason: "node linked to itself"}
	}
	if c.HasParent {
		if c.Parent == parent && c.Edge == edge {
			return nil
		}
		return &domain.InvariantError{
			Node:   child.Node,
			State:  child.State,
			Reason: fmt.Sprintf("second parent %s via %s (already %s via %s)", parent, edge, c.Parent, c.Edge),
		}
	}
	c.Parent = parent
	c.HasParent = true
	c.Edge = edge
	ps.children[parent] = append(ps.children[parent], child)
	ps.links = append(ps.links, child)
	return nil
}

// MarkLeaf flags a node as reached in a final state.
func (ps *PathSystem) MarkLeaf(k Key) error {
	if ps.frozen {
		return ErrFrozen
	}
	n, ok := ps.nodes[k]
	if !ok {
		return &domain.InvariantError{Node: k.Node, State: k.State, Reason: "leaf is not part of the path system"}
	}
	if !n.Leaf {
		n.Leaf = true
		ps.leaves = append(ps.leaves, k)
	}
	return nil
}

// Finish wraps multiple start nodes under a synthetic root, checks that every
// node is attached to the tree, drops branches that end without a leaf, and
// freezes the path system. Afterwards every childless node other than a start
// is a leaf.
func (ps *PathSystem) Finish() error {
	if ps.frozen {
		return ErrFrozen
	}
	if len(ps.starts) == 0 {
		return &domain.InvariantError{Node: domain.NoNode, State: -1, Reason: "path system without root"}
	}

	if len(ps.starts) == 1 {
		ps.root = ps.starts[0]
	} else {
		ps.insert(&PathSystemNode{Key: SyntheticKey, Edge: domain.NoEdge, Distance: -1})
		for _, s := range ps.starts {
			if err := ps.AddEdge(s, SyntheticKey, domain.NoEdge); err != nil {
				return err
			}
		}
		ps.root = SyntheticKey
	}

	for _, k := range ps.order {
		n := ps.nodes[k]
		if k != ps.root && !n.HasParent {
			return &domain.InvariantError{Node: k.Node, State: k.State, Reason: "node has no parent"}
		}
	}
	if err := ps.checkAcyclic(); err != nil {
		return err
	}
	ps.prune()

	ps.frozen = true
	return nil
}

// prune removes nodes that are neither leaves nor starts and have no children,
// repeating as parents lose their last child.
func (ps *PathSystem) prune() {
	start := make(map[Key]bool, len(ps.starts)+1)
	start[ps.root] = true
	for _, k := range ps.starts {
		start[k] = true
	}
	dead := func(k Key) bool {
		return !start[k] && !ps.nodes[k].Leaf && len(ps.children[k]) == 0
	}

	var work []Key
	for _, k := range ps.order {
		if dead(k) {
			work = append(work, k)
		}
	}
	if len(work) == 0 {
		return
	}

	removed := make(map[Key]bool)
	for len(work) > 0 {
		k := work[len(work)-1]
		work = work[:len(work)-1]
		if removed[k] {
			continue
		}
		removed[k] = true
		n := ps.nodes[k]
		delete(ps.nodes, k)
		delete(ps.children, k)
		if n.HasParent {
			p := n.Parent
			ps.children[p] = slices.DeleteFunc(ps.children[p], func(c Key) bool { return c == k })
			if dead(p) {
				work = append(work, p)
			}
		}
	}

	gone := func(k Key) bool { return removed[k] }
	ps.order = slices.DeleteFunc(ps.order, gone)
	ps.links = slices.DeleteFunc(ps.links, gone)
	for host, keys := range ps.byHost {
		keys = slices.DeleteFunc(keys, gone)
		if len(keys) == 0 {
			delete(ps.byHost, host)
		} else {
			ps.byHost[host] = keys
		}
	}
}

// checkAcyclic verifies that walking parents from any node reaches the root.
func (ps *PathSystem) checkAcyclic() error {
	reaches := make(map[Key]bool, len(ps.nodes))
	reaches[ps.root] = true
	for _, k := range ps.order {
		var trail []Key
		seen := make(map[Key]bool)
		cur := k
		for !reaches[cur] {
			if seen[cur] {
				return &domain.InvariantError{Node: k.Node, State: k.State, Reason: "parent links form a cycle"}
			}
			seen[cur] = true
			trail = append(trail, cur)
			cur = ps.nodes[cur].Parent
		}
		for _, t := range trail {
			reaches[t] = true
		}
	}
	return nil
}

func (ps *PathSystem) insert(n *PathSystemNode) {
	ps.nodes[n.Key] = n
	ps.order = append(ps.order, n.Key)
	if n.Key != SyntheticKey {
		ps.byHost[n.Node] = append(ps.byHost[n.Node], n.Key)
	}
}

// Finished reports whether Finish has completed.
func (ps *PathSystem) Finished() bool {
	return ps.frozen
}

// Root returns the root: the single start pair, or the synthetic wrapper when
// more than one start node was used. Only valid after Finish.
func (ps *PathSystem) Root() PathSystemNode {
	if n, ok := ps.nodes[ps.root]; ok {
		return *n
	}
	return PathSystemNode{}
}

// Roots returns the start nodes in the order they were added.
func (ps *PathSystem) Roots() []domain.NodeID {
	out := make([]domain.NodeID, len(ps.starts))
	for i, k := range ps.starts {
		out[i] = k.Node
	}
	return out
}

// Node returns the tree node for a key.
func (ps *PathSystem) Node(k Key) (PathSystemNode, bool) {
	n, ok := ps.nodes[k]
	if !ok {
		return PathSystemNode{}, false
	}
	return *n, true
}

// Parent returns the parent of a node; false for the root or unknown keys.
func (ps *PathSystem) Parent(k Key) (PathSystemNode, bool) {
	n, ok := ps.nodes[k]
	if !ok || !n.HasParent {
		return PathSystemNode{}, false
	}
	return *ps.nodes[n.Parent], true
}

// Children returns the children of a node in the order they were linked.
func (ps *PathSystem) Children(k Key) []PathSystemNode {
	keys := ps.children[k]
	out := make([]PathSystemNode, len(keys))
	for i, c := range keys {
		out[i] = *ps.nodes[c]
	}
	return out
}

// Nodes returns every tree node in creation order, synthetic root included.
func (ps *PathSystem) Nodes() []PathSystemNode {
	out := make([]PathSystemNode, len(ps.order))
	for i, k := range ps.order {
		out[i] = *ps.nodes[k]
	}
	return out
}

// Len returns the number of tree nodes, synthetic root included.
func (ps *PathSystem) Len() int {
	return len(ps.order)
}

// Leaves returns the nodes reached in a final state, in discovery order.
func (ps *PathSystem) Leaves() []PathSystemNode {
	out := make([]PathSystemNode, len(ps.leaves))
	for i, k := range ps.leaves {
		out[i] = *ps.nodes[k]
	}
	return out
}

// HostNodes returns the distinct host nodes in the tree, sorted.
func (ps *PathSystem) HostNodes() []domain.NodeID {
	out := make([]domain.NodeID, 0, len(ps.byHost))
	for n := range ps.byHost {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// HostEdges returns the distinct host edges used by tree links, sorted.
func (ps *PathSystem) HostEdges() []domain.EdgeID {
	seen := make(map[domain.EdgeID]bool)
	var out []domain.EdgeID
	for _, k := range ps.order {
		e := ps.nodes[k].Edge
		if e.Valid() && !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return out
}

// FinalNodes returns the distinct host nodes reached in a final state, sorted.
func (ps *PathSystem) FinalNodes() []domain.NodeID {
	seen := make(map[domain.NodeID]bool)
	var out []domain.NodeID
	for _, k := range ps.leaves {
		if !seen[k.Node] {
			seen[k.Node] = true
			out = append(out, k.Node)
		}
	}
	slices.Sort(out)
	return out
}

// ExtractPath returns the shortest accepted path ending at target. Among
// several final states at target the one with the smallest distance wins, ties
// going to the lowest state number. It returns domain.ErrNoSuchPath when
// target never reached a final state.
func (ps *PathSystem) ExtractPath(target domain.NodeID) (Path, error) {
	var best *PathSystemNode
	for _, k := range ps.byHost[target] {
		n := ps.nodes[k]
		if !n.Leaf {
			continue
		}
		if best == nil || n.Distance < best.Distance || (n.Distance == best.Distance && n.State < best.State) {
			best = n
		}
	}
	if best == nil {
		return Path{}, fmt.Errorf("%w: %s", domain.ErrNoSuchPath, target)
	}

	nodes := []domain.NodeID{best.Node}
	var edges []domain.EdgeID
	for cur := best; cur.HasParent && cur.Parent != SyntheticKey; {
		parent := ps.nodes[cur.Parent]
		if cur.Edge.Valid() {
			edges = append(edges, cur.Edge)
			nodes = append(nodes, parent.Node)
		}
		cur = parent
	}
	slices.Reverse(nodes)
	slices.Reverse(edges)
	return Path{Nodes: nodes, Edges: edges}, nil
}
