package result

import (
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Path is a walk through the host graph. Nodes[i] and Nodes[i+1] are joined by Edges[i].
type Path struct {
	Nodes []domain.NodeID `json:"nodes"`
	Edges []domain.EdgeID `json:"edges"`
}

// Len returns the number of edges.
func (p Path) Len() int {
	return len(p.Edges)
}

// Start returns the first node, or domain.NoNode for an empty path.
func (p Path) Start() domain.NodeID {
	if len(p.Nodes) == 0 {
		return domain.NoNode
	}
	return p.Nodes[0]
}

// End returns the last node, or domain.NoNode for an empty path.
func (p Path) End() domain.NodeID {
	if len(p.Nodes) == 0 {
		return domain.NoNode
	}
	return p.Nodes[len(p.Nodes)-1]
}

// String renders the path as "v0 -e1-> v2".
func (p Path) String() string {
	var sb strings.Builder
	for i, n := range p.Nodes {
		if i > 0 {
			sb.WriteString(" -")
			sb.WriteString(p.Edges[i-1].String())
			sb.WriteString("-> ")
		}
		sb.WriteString(n.String())
	}
	return sb.String()
}
