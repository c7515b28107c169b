package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// RunOptions configures how query answers are written.
type RunOptions struct {
	JSON      bool
	KeepGoing bool
	Renderer  wayfinder.ContentRenderer
}

// Select picks the named queries of the project's document, in the order
// given. No names selects every query.
func (p *Project) Select(names ...string) ([]domain.Query, error) {
	if len(names) == 0 {
		if len(p.Bundle.Queries) == 0 {
			return nil, fmt.Errorf("%w: the document defines no queries", domain.ErrInvalidQuery)
		}
		return p.Bundle.Queries, nil
	}
	out := make([]domain.Query, 0, len(names))
	for _, name := range names {
		q, ok := p.Bundle.Query(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown query %q", domain.ErrInvalidQuery, name)
		}
		out = append(out, q)
	}
	return out, nil
}

// Run executes queries against the project and writes their answers to out.
func Run(ctx context.Context, p *Project, out io.Writer, opts RunOptions, queries []domain.Query) error {
	r := wayfinder.NewRunner(out)
	r.JSON = opts.JSON
	r.KeepGoing = opts.KeepGoing
	if !opts.JSON {
		r.Renderer = opts.Renderer
	}
	return r.Run(ctx, p.Engine, queries)
}

// Diagram renders the host graph as Mermaid. With a query it renders the
// query's answer instead: the path system tree, the slice, or the graph
// with the extracted path highlighted.
func Diagram(ctx context.Context, p *Project, q *domain.Query) (string, error) {
	g := p.Engine.Graph()
	if q == nil {
		return graph.GraphMermaid(g, nil), nil
	}
	ans, err := p.Engine.Execute(ctx, *q)
	if err != nil {
		return "", err
	}
	switch {
	case ans.Slice != nil:
		return graph.SliceMermaid(ans.Slice, g), nil
	case ans.Path != nil:
		return graph.GraphMermaid(g, ans.Path), nil
	default:
		return graph.PathSystemMermaid(ans.PathSystem, g), nil
	}
}

// Describe summarizes a loaded project for the validate command.
func Describe(p *Project) string {
	g := p.Engine.Graph()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d nodes, %d edges\n", g.NodeCount(), g.EdgeCount())
	if names := p.Engine.Automata(); len(names) > 0 {
		fmt.Fprintf(&sb, "automata: %s\n", strings.Join(names, ", "))
	}
	for _, q := range p.Bundle.Queries {
		fmt.Fprintf(&sb, "query %s: %s from %s", q.Name, q.Mode, strings.Join(q.Roots, ", "))
		if q.Target != "" {
			fmt.Fprintf(&sb, " to %s", q.Target)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
