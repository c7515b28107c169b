// Package file reads query documents: a host graph, named automata and named
// queries in one YAML or JSON file.
package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Format selects the document syntax.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatOf picks the format from a file extension. Anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return JSON
	}
	return YAML
}

// NodeSpec is a host node in a query document.
type NodeSpec struct {
	Name       string         `yaml:"name" json:"name"`
	Type       string         `yaml:"type,omitempty" json:"type,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// EdgeSpec is a host edge between two named nodes.
type EdgeSpec struct {
	From       string         `yaml:"from" json:"from"`
	To         string         `yaml:"to" json:"to"`
	Type       string         `yaml:"type,omitempty" json:"type,omitempty"`
	Attributes map[string]any `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Document is the raw shape of a query document. Automata stay loosely typed
// until they are decoded into automaton.Spec.
type Document struct {
	Nodes    []NodeSpec                `yaml:"nodes" json:"nodes"`
	Edges    []EdgeSpec                `yaml:"edges,omitempty" json:"edges,omitempty"`
	Automata map[string]map[string]any `yaml:"automata,omitempty" json:"automata,omitempty"`
	Queries  []domain.Query            `yaml:"queries,omitempty" json:"queries,omitempty"`
}

// NamedGraph is a host graph whose nodes can be found by name.
type NamedGraph interface {
	ports.Graph
	ports.NodeResolver
}

// Bundle is a loaded query document.
type Bundle struct {
	Graph    NamedGraph
	Automata map[string]*automaton.Automaton
	Queries  []domain.Query
}

// AutomatonNames returns the automaton names, sorted.
func (b *Bundle) AutomatonNames() []string {
	names := make([]string, 0, len(b.Automata))
	for name := range b.Automata {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Query returns the named query.
func (b *Bundle) Query(name string) (domain.Query, bool) {
	for _, q := range b.Queries {
		if q.Name == name {
			return q, true
		}
	}
	return domain.Query{}, false
}

// Load reads and assembles the document at path.
func Load(path string) (*Bundle, error) {
	return LoadWith(path, nil)
}

// LoadWith is Load with the host graph supplied from elsewhere, as
// AssembleWith describes.
func LoadWith(path string, g NamedGraph) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query document: %w", err)
	}
	doc, err := Decode(data, FormatOf(path))
	if err == nil {
		var b *Bundle
		if b, err = doc.AssembleWith(g); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", path, err)
}

// Decode parses the raw document. Unknown fields are rejected.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON document: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML document: %w", err)
		}
	}
	return &doc, nil
}

// Parse decodes and assembles a document.
func Parse(data []byte, format Format) (*Bundle, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return doc.Assemble()
}

// Assemble builds the graph, compiles the automata and checks that every
// query names a known automaton and known nodes.
func (d *Document) Assemble() (*Bundle, error) {
	return d.AssembleWith(nil)
}

// AssembleWith assembles the document over g instead of its own graph
// section, which must then be empty. A nil g means the document's graph.
func (d *Document) AssembleWith(g NamedGraph) (*Bundle, error) {
	if g == nil {
		mg, err := d.graph()
		if err != nil {
			return nil, err
		}
		g = mg
	} else if len(d.Nodes) > 0 || len(d.Edges) > 0 {
		return nil, fmt.Errorf("document defines a graph but another graph was supplied")
	}
	automata, err := d.automata()
	if err != nil {
		return nil, err
	}

	var errs []error
	queries := make([]domain.Query, 0, len(d.Queries))
	for i, q := range d.Queries {
		label := q.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		nq, err := q.Normalize()
		if err != nil {
			errs = append(errs, fmt.Errorf("query %s: %w", label, err))
			continue
		}
		if _, ok := automata[nq.Automaton]; !ok {
			errs = append(errs, fmt.Errorf("query %s: %w: unknown automaton %q", label, domain.ErrInvalidAutomaton, nq.Automaton))
		}
		names := nq.Roots
		if nq.Target != "" {
			names = append(slices.Clone(names), nq.Target)
		}
		for _, name := range names {
			if _, ok := g.Lookup(name); !ok {
				errs = append(errs, fmt.Errorf("query %s: %w: %q", label, domain.ErrUnknownNode, name))
			}
		}
		queries = append(queries, nq)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Bundle{Graph: g, Automata: automata, Queries: queries}, nil
}

func (d *Document) graph() (*memory.Graph, error) {
	g := memory.NewGraph()
	for _, n := range d.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node missing name")
		}
		if _, err := g.AddNode(n.Name, n.Type, n.Attributes); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	for i, e := range d.Edges {
		from, ok := g.Lookup(e.From)
		if !ok {
			return nil, fmt.Errorf("edge #%d: %w: %q", i, domain.ErrUnknownNode, e.From)
		}
		to, ok := g.Lookup(e.To)
		if !ok {
			return nil, fmt.Errorf("edge #%d: %w: %q", i, domain.ErrUnknownNode, e.To)
		}
		if _, err := g.AddEdge(from, to, e.Type, e.Attributes); err != nil {
			return nil, fmt.Errorf("edge #%d: %w", i, err)
		}
	}
	return g, nil
}

func (d *Document) automata() (map[string]*automaton.Automaton, error) {
	out := make(map[string]*automaton.Automaton, len(d.Automata))
	var errs []error
	for name, raw := range d.Automata {
		spec, err := automaton.DecodeSpec(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("automaton %q: %w", name, err))
			continue
		}
		spec.Name = name
		a, err := spec.Compile()
		if err != nil {
			errs = append(errs, fmt.Errorf("automaton %q: %w", name, err))
			continue
		}
		out[name] = a
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
