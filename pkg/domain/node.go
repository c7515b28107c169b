package domain

import "fmt"

// NodeID identifies a node of the host graph.
// Ids are dense: a graph with n nodes uses 0..n-1.
type NodeID int

// EdgeID identifies an edge of the host graph.
// Ids are dense: a graph with m edges uses 0..m-1.
type EdgeID int

const (
	// NoNode marks the absence of a node (e.g. the parent of a root).
	NoNode NodeID = -1
	// NoEdge marks the absence of a traversed edge (structural moves, roots).
	NoEdge EdgeID = -1
)

// Valid reports whether the id refers to a node.
func (n NodeID) Valid() bool { return n >= 0 }

// Valid reports whether the id refers to an edge.
func (e EdgeID) Valid() bool { return e >= 0 }

func (n NodeID) String() string {
	if !n.Valid() {
		return "none"
	}
	return fmt.Sprintf("v%d", int(n))
}

func (e EdgeID) String() string {
	if !e.Valid() {
		return "none"
	}
	return fmt.Sprintf("e%d", int(e))
}

// Node is a vertex of the host graph.
type Node struct {
	ID   NodeID `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"` // Human-facing identifier, unique per graph
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Attributes holds arbitrary typed data for predicates.
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Edge is a directed edge of the host graph, from Alpha to Omega.
type Edge struct {
	ID    EdgeID `json:"id" yaml:"id"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Alpha NodeID `json:"alpha" yaml:"alpha"`
	Omega NodeID `json:"omega" yaml:"omega"`

	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}
