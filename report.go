package wayfinder

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// nodeName renders a node by name when the graph has one.
func nodeName(g ports.Graph, id domain.NodeID) string {
	if n, ok := g.Node(id); ok && n.Name != "" {
		return n.Name
	}
	return id.String()
}

func nodeNames(g ports.Graph, ids []domain.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = nodeName(g, id)
	}
	return out
}

// Markdown renders the answer as a short markdown report.
func (a *Answer) Markdown(g ports.Graph) string {
	var sb strings.Builder
	title := a.Query.Name
	if title == "" {
		title = a.Query.Automaton
	}
	fmt.Fprintf(&sb, "## %s\n\n", title)
	fmt.Fprintf(&sb, "Automaton `%s` from **%s** (%s)\n\n", a.Query.Automaton, strings.Join(nodeNames(g, a.Roots), ", "), a.Query.Mode)

	switch {
	case a.PathSystem != nil:
		ps := a.PathSystem
		leaves := ps.Leaves()
		fmt.Fprintf(&sb, "%d tree nodes, %d accepted.\n\n", ps.Len(), len(leaves))
		if len(leaves) == 0 {
			sb.WriteString("_No node is reachable by an accepted path._\n")
			break
		}
		sb.WriteString("| Node | State | Distance |\n|---|---|---|\n")
		for _, l := range leaves {
			fmt.Fprintf(&sb, "| %s | %d | %d |\n", nodeName(g, l.Node), l.State, l.Distance)
		}

	case a.Slice != nil:
		sl := a.Slice
		fmt.Fprintf(&sb, "%d nodes and %d edges lie on accepted paths.\n\n", sl.NodeCount(), sl.EdgeCount())
		if finals := sl.FinalNodes(); len(finals) > 0 {
			fmt.Fprintf(&sb, "- Accepted at: %s\n", strings.Join(nodeNames(g, finals), ", "))
		}
		fmt.Fprintf(&sb, "- Nodes: %s\n", strings.Join(nodeNames(g, sl.Nodes()), ", "))

	case a.Path != nil:
		p := a.Path
		fmt.Fprintf(&sb, "Shortest path to **%s**, %d edges:\n\n", a.Query.Target, p.Len())
		var parts []string
		for i, n := range p.Nodes {
			if i > 0 {
				edge := p.Edges[i-1].String()
				if e, ok := g.Edge(p.Edges[i-1]); ok && e.Type != "" {
					edge = e.Type
				}
				parts = append(parts, "-"+edge+"->")
			}
			parts = append(parts, nodeName(g, n))
		}
		fmt.Fprintf(&sb, "`%s`\n", strings.Join(parts, " "))
	}
	return sb.String()
}

// GraphSummary is a name-based listing of a host graph.
type GraphSummary struct {
	Nodes []NodeSummary `json:"nodes"`
	Edges []EdgeSummary `json:"edges"`
}

// NodeSummary is one host node of a GraphSummary.
type NodeSummary struct {
	ID   domain.NodeID `json:"id"`
	Name string        `json:"name"`
	Type string        `json:"type,omitempty"`
}

// EdgeSummary is one host edge of a GraphSummary, endpoints given by name.
type EdgeSummary struct {
	ID   domain.EdgeID `json:"id"`
	Type string        `json:"type,omitempty"`
	From string        `json:"from"`
	To   string        `json:"to"`
}

// Summarize lists the nodes and edges of g in id order.
func Summarize(g ports.Graph) GraphSummary {
	s := GraphSummary{
		Nodes: make([]NodeSummary, 0, g.NodeCount()),
		Edges: make([]EdgeSummary, 0, g.EdgeCount()),
	}
	for i := 0; i < g.NodeCount(); i++ {
		id := domain.NodeID(i)
		n, _ := g.Node(id)
		s.Nodes = append(s.Nodes, NodeSummary{ID: id, Name: nodeName(g, id), Type: n.Type})
	}
	for i := 0; i < g.EdgeCount(); i++ {
		e, _ := g.Edge(domain.EdgeID(i))
		s.Edges = append(s.Edges, EdgeSummary{
			ID:   e.ID,
			Type: e.Type,
			From: nodeName(g, e.Alpha),
			To:   nodeName(g, e.Omega),
		})
	}
	return s
}
