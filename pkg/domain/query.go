package domain

import "fmt"

// Query is a named request against a host graph, as found in query documents
// and API requests. Roots and Target are node names.
type Query struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Automaton string     `json:"automaton" yaml:"automaton" mapstructure:"automaton"`
	Roots     []string   `json:"roots" yaml:"roots" mapstructure:"roots"`
	Mode      ResultKind `json:"mode,omitempty" yaml:"mode,omitempty" mapstructure:"mode"`
	Target    string     `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
}

// Normalize fills defaults and checks that the query is complete.
// The mode defaults to KindPath when a target is given and to KindPathSystem otherwise.
func (q Query) Normalize() (Query, error) {
	if q.Automaton == "" {
		return q, fmt.Errorf("%w %q: automaton is required", ErrInvalidQuery, q.Name)
	}
	if len(q.Roots) == 0 {
		return q, fmt.Errorf("%w %q: %w", ErrInvalidQuery, q.Name, ErrNoRoots)
	}
	if q.Mode == "" {
		q.Mode = KindPathSystem
		if q.Target != "" {
			q.Mode = KindPath
		}
	}
	switch q.Mode {
	case KindPathSystem, KindSlice:
	case KindPath:
		if q.Target == "" {
			return q, fmt.Errorf("%w %q: mode %s requires a target", ErrInvalidQuery, q.Name, q.Mode)
		}
	default:
		return q, fmt.Errorf("%w %q: unknown mode %q", ErrInvalidQuery, q.Name, q.Mode)
	}
	return q, nil
}
