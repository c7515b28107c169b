package dsl

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
)

// Builder manages the host graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		doc:     memory.NodeDocument{ID: id},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Documents returns the node documents in the order they were added.
func (b *Builder) Documents() []memory.NodeDocument {
	docs := make([]memory.NodeDocument, 0, len(b.order))
	for _, id := range b.order {
		docs = append(docs, b.nodes[id].Build())
	}
	return docs
}

// Build compiles the graph. Node ids follow the sorted node names, as with
// every other document-based loader.
func (b *Builder) Build() (*memory.Graph, error) {
	g, err := memory.FromDocuments(b.Documents())
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	return g, nil
}

// Loader returns a ports.GraphLoader serving the built graph.
func (b *Builder) Loader() (*memory.Loader, error) {
	loader, err := memory.NewFromDocuments(b.Documents()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
