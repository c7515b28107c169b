package automaton

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Spec is the declarative form of an automaton, as found in query documents.
// It uses "mapstructure" tags so it can be decoded from YAML/JSON maps.
type Spec struct {
	Name    string      `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Initial int         `json:"initial" yaml:"initial" mapstructure:"initial"`
	States  []StateSpec `json:"states" yaml:"states" mapstructure:"states"`
}

// StateSpec describes one state; its number is its index in Spec.States.
type StateSpec struct {
	Final       bool             `json:"final,omitempty" yaml:"final,omitempty" mapstructure:"final"`
	Transitions []TransitionSpec `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`
}

// TransitionSpec describes a transition and its predicate.
//
// Kind "edge" (default) consumes an incidence: Direction restricts its side
// ("out" default, "in", "any"), EdgeTypes the edge type and NodeTypes the type
// of the node reached. Kind "structural" stays on the node: NodeTypes restricts
// the current node's type. Not negates the type restrictions, never the direction.
type TransitionSpec struct {
	To        int      `json:"to" yaml:"to" mapstructure:"to"`
	Kind      string   `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Direction string   `json:"direction,omitempty" yaml:"direction,omitempty" mapstructure:"direction"`
	EdgeTypes []string `json:"edge_types,omitempty" yaml:"edge_types,omitempty" mapstructure:"edge_types"`
	NodeTypes []string `json:"node_types,omitempty" yaml:"node_types,omitempty" mapstructure:"node_types"`
	Not       bool     `json:"not,omitempty" yaml:"not,omitempty" mapstructure:"not"`
}

// DecodeSpec decodes a loosely typed map (from YAML or JSON) into a Spec.
// Unknown keys are rejected so typos in documents surface early.
func DecodeSpec(raw map[string]any) (Spec, error) {
	var spec Spec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Spec{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Spec{}, fmt.Errorf("failed to decode automaton spec: %w", err)
	}
	return spec, nil
}

// Compile turns the spec into an Automaton.
func (s Spec) Compile() (*Automaton, error) {
	states := make([]*State, len(s.States))
	for i, ss := range s.States {
		states[i] = NewState(i, ss.Final)
	}

	var errs []error
	for i, ss := range s.States {
		for ti, ts := range ss.Transitions {
			if ts.To < 0 || ts.To >= len(states) {
				errs = append(errs, &ValidationError{State: i, Transition: ti, Reason: fmt.Sprintf("transition to unknown state %d", ts.To)})
				continue
			}
			kind, acc, err := ts.compile()
			if err != nil {
				errs = append(errs, &ValidationError{State: i, Transition: ti, Reason: err.Error()})
				continue
			}
			states[i].Out = append(states[i].Out, Transition{Kind: kind, End: states[ts.To], Accept: acc})
		}
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	a, err := New(s.Name, s.Initial, states...)
	if err != nil {
		return nil, err
	}
	source, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	a.Source = string(source)
	return a, nil
}

func (ts TransitionSpec) compile() (Kind, Acceptor, error) {
	var typeChecks []Acceptor

	switch strings.ToLower(ts.Kind) {
	case "", "edge":
		var dir Acceptor
		switch strings.ToLower(ts.Direction) {
		case "", "out":
			dir = Forward()
		case "in":
			dir = Backward()
		case "any", "both":
			dir = nil
		default:
			return 0, nil, fmt.Errorf("unknown direction %q", ts.Direction)
		}
		if len(ts.EdgeTypes) > 0 {
			typeChecks = append(typeChecks, EdgeTypes(ts.EdgeTypes...))
		}
		if len(ts.NodeTypes) > 0 {
			typeChecks = append(typeChecks, TargetTypes(ts.NodeTypes...))
		}
		return KindEdge, combine(dir, typeChecks, ts.Not), nil

	case "structural", "node":
		if ts.Direction != "" || len(ts.EdgeTypes) > 0 {
			return 0, nil, fmt.Errorf("structural transitions cannot restrict edges")
		}
		if len(ts.NodeTypes) > 0 {
			typeChecks = append(typeChecks, NodeTypes(ts.NodeTypes...))
		}
		return KindStructural, combine(nil, typeChecks, ts.Not), nil

	default:
		return 0, nil, fmt.Errorf("unknown transition kind %q", ts.Kind)
	}
}

func combine(dir Acceptor, checks []Acceptor, negate bool) Acceptor {
	var typed Acceptor
	switch len(checks) {
	case 0:
	case 1:
		typed = checks[0]
	default:
		typed = And(checks...)
	}
	if negate {
		if typed == nil {
			// Negating "no restriction" rejects everything.
			typed = Not(Any())
		} else {
			typed = Not(typed)
		}
	}
	switch {
	case dir == nil:
		return typed
	case typed == nil:
		return dir
	default:
		return And(dir, typed)
	}
}

// Describe renders a short human-readable form of the spec's transitions,
// used by the CLI and the mermaid presenter.
func (ts TransitionSpec) Describe() string {
	var parts []string
	kind := strings.ToLower(ts.Kind)
	if kind == "structural" || kind == "node" {
		parts = append(parts, "node")
	} else {
		dir := strings.ToLower(ts.Direction)
		if dir == "" {
			dir = "out"
		}
		parts = append(parts, dir)
		if len(ts.EdgeTypes) > 0 {
			parts = append(parts, strings.Join(ts.EdgeTypes, "|"))
		}
	}
	if len(ts.NodeTypes) > 0 {
		parts = append(parts, ":"+strings.Join(ts.NodeTypes, "|"))
	}
	if ts.Not {
		parts = append([]string{"not"}, parts...)
	}
	return strings.Join(parts, " ")
}
