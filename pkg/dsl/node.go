package dsl

import "github.com/aretw0/wayfinder/pkg/adapters/memory"

// NodeBuilder provides a fluent API for configuring a host node.
type NodeBuilder struct {
	doc     memory.NodeDocument
	builder *Builder
}

// Type sets the node type matched by type predicates.
func (n *NodeBuilder) Type(nodeType string) *NodeBuilder {
	n.doc.Type = nodeType
	return n
}

// Attr sets a node attribute.
func (n *NodeBuilder) Attr(key string, value any) *NodeBuilder {
	if n.doc.Attributes == nil {
		n.doc.Attributes = make(map[string]any)
	}
	n.doc.Attributes[key] = value
	return n
}

// Go adds an edge of the given type to the target node.
func (n *NodeBuilder) Go(target, edgeType string) *NodeBuilder {
	return n.Edge(target, edgeType, nil)
}

// Edge adds an edge with attributes to the target node.
func (n *NodeBuilder) Edge(target, edgeType string, attrs map[string]any) *NodeBuilder {
	n.doc.Edges = append(n.doc.Edges, memory.EdgeDocument{
		To:         target,
		Type:       edgeType,
		Attributes: attrs,
	})
	return n
}

// Add continues with another node of the same graph.
func (n *NodeBuilder) Add(id string) *NodeBuilder {
	return n.builder.Add(id)
}

// Build returns the underlying node document.
func (n *NodeBuilder) Build() memory.NodeDocument {
	return n.doc
}
