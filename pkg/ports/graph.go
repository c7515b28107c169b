package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Graph is the read-only host graph the automaton runs over.
// Implementations must return incidences in a stable order; that order decides
// which provenance wins ties and is therefore part of the result.
type Graph interface {
	// NodeCount returns the number of nodes. Node ids are 0..NodeCount()-1.
	NodeCount() int
	// EdgeCount returns the number of edges. Edge ids are 0..EdgeCount()-1.
	EdgeCount() int
	// Node returns the node with the given id.
	Node(id domain.NodeID) (domain.Node, bool)
	// Edge returns the edge with the given id.
	Edge(id domain.EdgeID) (domain.Edge, bool)
	// Incidences returns the incidences of a node. Callers must not modify the slice.
	Incidences(id domain.NodeID) []domain.Incidence
}

// NodeResolver maps human-facing node names to ids.
type NodeResolver interface {
	Lookup(name string) (domain.NodeID, bool)
}

// GraphLoader defines how a host graph is obtained from an external source.
// This allows the storage layer (Loam, files, memory) to be decoupled.
type GraphLoader interface {
	LoadGraph(ctx context.Context) (Graph, error)
}
