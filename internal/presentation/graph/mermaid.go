// Package graph renders host graphs and query results as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/result"
)

const styles = `    classDef root fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;
    classDef final fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;
`

func nodeID(id domain.NodeID) string {
	return fmt.Sprintf("n%d", id)
}

func keyID(k result.Key) string {
	if k == result.SyntheticKey {
		return "root"
	}
	return fmt.Sprintf("n%d_q%d", k.Node, k.State)
}

// label escapes text for a quoted Mermaid label.
func label(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

func nodeLabel(g ports.Graph, id domain.NodeID) string {
	if n, ok := g.Node(id); ok && n.Name != "" {
		return label(n.Name)
	}
	return id.String()
}

func edgeLabel(g ports.Graph, id domain.EdgeID) string {
	if e, ok := g.Edge(id); ok && e.Type != "" {
		return label(e.Type)
	}
	return id.String()
}

// GraphMermaid draws the whole host graph. When path is not nil its edges
// are highlighted and its ends styled as root and final.
func GraphMermaid(g ports.Graph, path *result.Path) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	for i := 0; i < g.NodeCount(); i++ {
		id := domain.NodeID(i)
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", nodeID(id), nodeLabel(g, id))
	}
	for i := 0; i < g.EdgeCount(); i++ {
		e, _ := g.Edge(domain.EdgeID(i))
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(e.Alpha), edgeLabel(g, e.ID), nodeID(e.Omega))
	}
	if path == nil || len(path.Nodes) == 0 {
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(styles)
	fmt.Fprintf(&sb, "    class %s root;\n", nodeID(path.Start()))
	fmt.Fprintf(&sb, "    class %s final;\n", nodeID(path.End()))
	// Links are numbered in declaration order, which is edge id order here.
	seen := make(map[domain.EdgeID]bool)
	for _, e := range path.Edges {
		if !seen[e] {
			seen[e] = true
			fmt.Fprintf(&sb, "    linkStyle %d stroke:#fbc02d,stroke-width:4px;\n", e)
		}
	}
	return sb.String()
}

// PathSystemMermaid draws the path system tree. Each tree node is a host node
// in an automaton state; links that stay on a node are dotted.
func PathSystemMermaid(ps *result.PathSystem, g ports.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var finals []string
	for _, n := range ps.Nodes() {
		k := keyID(n.Key)
		if n.Synthetic() {
			fmt.Fprintf(&sb, "    %s((\"*\"))\n", k)
			continue
		}
		fmt.Fprintf(&sb, "    %s[\"%s · q%d\"]\n", k, nodeLabel(g, n.Node), n.State)
		if n.Leaf {
			finals = append(finals, k)
		}
	}
	for _, n := range ps.Nodes() {
		if !n.HasParent {
			continue
		}
		if n.Edge.Valid() {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", keyID(n.Parent), edgeLabel(g, n.Edge), keyID(n.Key))
		} else {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", keyID(n.Parent), keyID(n.Key))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(styles)
	if ps.Finished() {
		fmt.Fprintf(&sb, "    class %s root;\n", keyID(ps.Root().Key))
	}
	if len(finals) > 0 {
		fmt.Fprintf(&sb, "    class %s final;\n", strings.Join(finals, ","))
	}
	return sb.String()
}

// SliceMermaid draws the subgraph of a slice. Roots and final nodes are styled.
func SliceMermaid(sl *result.Slice, g ports.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	for _, n := range sl.Nodes() {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", nodeID(n), nodeLabel(g, n))
	}
	for _, eid := range sl.Edges() {
		e, ok := g.Edge(eid)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(e.Alpha), edgeLabel(g, eid), nodeID(e.Omega))
	}

	sb.WriteString("\n")
	sb.WriteString(styles)
	if roots := sl.Roots(); len(roots) > 0 {
		fmt.Fprintf(&sb, "    class %s root;\n", joinIDs(roots))
	}
	if finals := sl.FinalNodes(); len(finals) > 0 {
		fmt.Fprintf(&sb, "    class %s final;\n", joinIDs(finals))
	}
	return sb.String()
}

func joinIDs(ids []domain.NodeID) string {
	parts := make([]string, len(ids))
	for i, n := range ids {
		parts[i] = nodeID(n)
	}
	return strings.Join(parts, ",")
}
