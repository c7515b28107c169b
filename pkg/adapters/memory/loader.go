package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/wayfinder/pkg/ports"
)

// NodeDocument is the serialized form of a host node together with its outgoing edges.
// It is shared by every adapter that reads graphs as a set of node documents.
type NodeDocument struct {
	ID         string         `json:"id" yaml:"id" mapstructure:"id"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty" mapstructure:"attributes"`
	Edges      []EdgeDocument `json:"edges,omitempty" yaml:"edges,omitempty" mapstructure:"edges"`
}

// EdgeDocument is an outgoing edge of a NodeDocument.
type EdgeDocument struct {
	To         string         `json:"to" yaml:"to" mapstructure:"to"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty" mapstructure:"attributes"`
}

// FromDocuments assembles a Graph from node documents.
// Nodes are created in ascending id order, then edges in document order, so the
// resulting ids and incidence order do not depend on the caller's ordering of docs.
func FromDocuments(docs []NodeDocument) (*Graph, error) {
	sorted := append([]NodeDocument(nil), docs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	g := NewGraph()
	for _, d := range sorted {
		if d.ID == "" {
			return nil, fmt.Errorf("node missing ID")
		}
		if _, err := g.AddNode(d.ID, d.Type, d.Attributes); err != nil {
			return nil, err
		}
	}
	for _, d := range sorted {
		from, _ := g.Lookup(d.ID)
		for _, e := range d.Edges {
			to, ok := g.Lookup(e.To)
			if !ok {
				return nil, fmt.Errorf("node %s: dangling edge to %q", d.ID, e.To)
			}
			if _, err := g.AddEdge(from, to, e.Type, e.Attributes); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Loader implements ports.GraphLoader over raw JSON node documents.
type Loader struct {
	docs map[string][]byte
}

var _ ports.GraphLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the provided raw data (JSON strings keyed by node id).
// The key wins over an "id" field inside the document.
func NewLoader(data map[string]string) *Loader {
	docs := make(map[string][]byte)
	for k, v := range data {
		docs[k] = []byte(v)
	}
	return &Loader{
		docs: docs,
	}
}

// NewFromDocuments creates a Loader from domain documents.
// This handles serialization automatically, improving DX for tests.
func NewFromDocuments(docs ...NodeDocument) (*Loader, error) {
	data := make(map[string][]byte)
	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("node missing ID")
		}
		bytes, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal node %s: %w", d.ID, err)
		}
		data[d.ID] = bytes
	}
	return &Loader{docs: data}, nil
}

// LoadGraph decodes every document and assembles the graph.
func (l *Loader) LoadGraph(ctx context.Context) (ports.Graph, error) {
	docs := make([]NodeDocument, 0, len(l.docs))
	for id, raw := range l.docs {
		var d NodeDocument
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("failed to parse node %s: %w", id, err)
		}
		d.ID = id
		docs = append(docs, d)
	}
	g, err := FromDocuments(docs)
	if err != nil {
		return nil, err
	}
	return g, nil
}
