package memory

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Graph implements ports.Graph using dense in-memory slices.
// It is built once and then only read; it is not safe to mutate a Graph
// while queries run against it.
type Graph struct {
	nodes  []domain.Node
	edges  []domain.Edge
	incs   [][]domain.Incidence
	byName map[string]domain.NodeID
}

var (
	_ ports.Graph        = (*Graph)(nil)
	_ ports.NodeResolver = (*Graph)(nil)
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		byName: make(map[string]domain.NodeID),
	}
}

// AddNode appends a node. Names must be unique; an empty name defaults to the id ("v3").
func (g *Graph) AddNode(name, nodeType string, attrs map[string]any) (domain.NodeID, error) {
	id := domain.NodeID(len(g.nodes))
	if name == "" {
		name = id.String()
	}
	if _, exists := g.byName[name]; exists {
		return domain.NoNode, fmt.Errorf("duplicate node name: %s", name)
	}
	g.nodes = append(g.nodes, domain.Node{ID: id, Name: name, Type: nodeType, Attributes: attrs})
	g.incs = append(g.incs, nil)
	g.byName[name] = id
	return id, nil
}

// AddEdge appends an edge from alpha to omega. Incidences are recorded in
// creation order; a self loop gets its out incidence before its in incidence.
func (g *Graph) AddEdge(alpha, omega domain.NodeID, edgeType string, attrs map[string]any) (domain.EdgeID, error) {
	if !g.has(alpha) {
		return domain.NoEdge, fmt.Errorf("%w: alpha %s", domain.ErrUnknownNode, alpha)
	}
	if !g.has(omega) {
		return domain.NoEdge, fmt.Errorf("%w: omega %s", domain.ErrUnknownNode, omega)
	}
	id := domain.EdgeID(len(g.edges))
	g.edges = append(g.edges, domain.Edge{ID: id, Type: edgeType, Alpha: alpha, Omega: omega, Attributes: attrs})
	g.incs[alpha] = append(g.incs[alpha], domain.Incidence{Edge: id, Direction: domain.Out, That: omega})
	g.incs[omega] = append(g.incs[omega], domain.Incidence{Edge: id, Direction: domain.In, That: alpha})
	return id, nil
}

// NodeCount implements ports.Graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount implements ports.Graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node implements ports.Graph.
func (g *Graph) Node(id domain.NodeID) (domain.Node, bool) {
	if !g.has(id) {
		return domain.Node{}, false
	}
	return g.nodes[id], true
}

// Edge implements ports.Graph.
func (g *Graph) Edge(id domain.EdgeID) (domain.Edge, bool) {
	if id < 0 || int(id) >= len(g.edges) {
		return domain.Edge{}, false
	}
	return g.edges[id], true
}

// Incidences implements ports.Graph.
func (g *Graph) Incidences(id domain.NodeID) []domain.Incidence {
	if !g.has(id) {
		return nil
	}
	return g.incs[id]
}

// Lookup implements ports.NodeResolver.
func (g *Graph) Lookup(name string) (domain.NodeID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Nodes returns all nodes in id order.
func (g *Graph) Nodes() []domain.Node {
	return append([]domain.Node(nil), g.nodes...)
}

// Edges returns all edges in id order.
func (g *Graph) Edges() []domain.Edge {
	return append([]domain.Edge(nil), g.edges...)
}

func (g *Graph) has(id domain.NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}
