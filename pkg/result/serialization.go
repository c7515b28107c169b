package result

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
)

type pathSystemDoc struct {
	Roots []domain.NodeID `json:"roots"`
	Root  Key             `json:"root"`
	Nodes []nodeDoc       `json:"nodes"`
	// Links lists linked nodes in link order, which is the order of Children.
	Links []Key `json:"links,omitempty"`
	// Leaves lists leaves in discovery order.
	Leaves []Key `json:"leaves,omitempty"`
}

type nodeDoc struct {
	Node     domain.NodeID `json:"node"`
	State    int           `json:"state"`
	Leaf     bool          `json:"leaf,omitempty"`
	Parent   *Key          `json:"parent,omitempty"`
	Edge     domain.EdgeID `json:"edge"`
	Distance int           `json:"distance"`
}

// MarshalJSON encodes a finished path system. Nodes appear in creation order,
// so parents of a node may appear after it. Link and leaf order are kept so a
// decoded system lists children and leaves exactly like the original.
func (ps *PathSystem) MarshalJSON() ([]byte, error) {
	if !ps.frozen {
		return nil, fmt.Errorf("marshal unfinished path system")
	}
	doc := pathSystemDoc{Roots: ps.Roots(), Root: ps.root, Nodes: make([]nodeDoc, 0, len(ps.order))}
	for _, k := range ps.order {
		n := ps.nodes[k]
		if n.Synthetic() {
			continue
		}
		nd := nodeDoc{Node: n.Node, State: n.State, Leaf: n.Leaf, Edge: n.Edge, Distance: n.Distance}
		if n.HasParent && n.Parent != SyntheticKey {
			p := n.Parent
			nd.Parent = &p
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, k := range ps.links {
		if ps.nodes[k].Parent != SyntheticKey {
			doc.Links = append(doc.Links, k)
		}
	}
	doc.Leaves = append(doc.Leaves, ps.leaves...)
	return json.Marshal(doc)
}

// UnmarshalJSON rebuilds and finishes a path system.
func (ps *PathSystem) UnmarshalJSON(data []byte) error {
	var doc pathSystemDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse path system: %w", err)
	}

	rootState := make(map[domain.NodeID]int, len(doc.Roots))
	for _, nd := range doc.Nodes {
		if nd.Parent == nil && nd.Distance == 0 {
			rootState[nd.Node] = nd.State
		}
	}

	fresh := NewPathSystem()
	for _, r := range doc.Roots {
		state, ok := rootState[r]
		if !ok {
			return fmt.Errorf("root %s missing from nodes", r)
		}
		if err := fresh.AddRoot(r, state); err != nil {
			return err
		}
	}
	for _, nd := range doc.Nodes {
		if _, _, err := fresh.AddNode(nd.Node, nd.State, nd.Distance); err != nil {
			return err
		}
	}
	byKey := make(map[Key]nodeDoc, len(doc.Nodes))
	links, leaves := doc.Links, doc.Leaves
	for _, nd := range doc.Nodes {
		k := Key{Node: nd.Node, State: nd.State}
		byKey[k] = nd
		if doc.Links == nil && nd.Parent != nil {
			links = append(links, k)
		}
		if doc.Leaves == nil && nd.Leaf {
			leaves = append(leaves, k)
		}
	}
	for _, k := range links {
		nd, ok := byKey[k]
		if !ok || nd.Parent == nil {
			return fmt.Errorf("link %s has no parent", k)
		}
		if err := fresh.AddEdge(k, *nd.Parent, nd.Edge); err != nil {
			return err
		}
	}
	for _, k := range leaves {
		if err := fresh.MarkLeaf(k); err != nil {
			return err
		}
	}
	if err := fresh.Finish(); err != nil {
		return err
	}
	*ps = *fresh
	return nil
}

type sliceDoc struct {
	Roots  []domain.NodeID `json:"roots"`
	Nodes  []domain.NodeID `json:"nodes"`
	Edges  []domain.EdgeID `json:"edges"`
	Finals []domain.NodeID `json:"finals"`
}

// MarshalJSON encodes the slice with sorted node, edge and final sets.
func (s *Slice) MarshalJSON() ([]byte, error) {
	return json.Marshal(sliceDoc{
		Roots:  s.Roots(),
		Nodes:  s.Nodes(),
		Edges:  s.Edges(),
		Finals: s.FinalNodes(),
	})
}

// UnmarshalJSON rebuilds and finishes a slice.
func (s *Slice) UnmarshalJSON(data []byte) error {
	var doc sliceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse slice: %w", err)
	}
	fresh := NewSlice(doc.Roots)
	for _, n := range doc.Nodes {
		_ = fresh.MarkNode(n)
	}
	for _, e := range doc.Edges {
		_ = fresh.MarkEdge(e)
	}
	for _, n := range doc.Finals {
		_ = fresh.MarkFinal(n)
	}
	_ = fresh.Finish()
	*s = *fresh
	return nil
}
