package file

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/ports"
)

// Loader implements ports.GraphLoader over the graph section of a query document.
type Loader struct {
	Path string
}

var _ ports.GraphLoader = (*Loader)(nil)

// NewLoader creates a loader for the document at path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// LoadGraph reads the document again on every call, so a serve loop can reload it.
func (l *Loader) LoadGraph(ctx context.Context) (ports.Graph, error) {
	b, err := Load(l.Path)
	if err != nil {
		return nil, err
	}
	return b.Graph, nil
}
