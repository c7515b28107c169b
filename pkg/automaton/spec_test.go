package automaton_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSpec(t *testing.T) {
	raw := map[string]any{
		"name":    "roads",
		"initial": "0",
		"states": []any{
			map[string]any{
				"transitions": []any{
					map[string]any{"to": 1, "edge_types": []any{"road"}},
				},
			},
			map[string]any{
				"final": true,
				"transitions": []any{
					map[string]any{"to": 1, "direction": "any"},
					map[string]any{"to": 1, "kind": "structural", "node_types": []any{"town"}, "not": true},
				},
			},
		},
	}

	spec, err := automaton.DecodeSpec(raw)
	require.NoError(t, err)
	assert.Equal(t, "roads", spec.Name)
	require.Len(t, spec.States, 2)
	assert.Equal(t, []string{"road"}, spec.States[0].Transitions[0].EdgeTypes)
	assert.Equal(t, "not node :town", spec.States[1].Transitions[1].Describe())
	assert.Equal(t, "out road", spec.States[0].Transitions[0].Describe())

	a, err := spec.Compile()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, a.Finals())
	assert.Equal(t, automaton.KindStructural, a.States[1].Out[1].Kind)
}

func TestDecodeSpec_UnknownKey(t *testing.T) {
	_, err := automaton.DecodeSpec(map[string]any{"initial": 0, "statez": []any{}})
	assert.Error(t, err)
}

func TestSpec_CompileErrors(t *testing.T) {
	spec := automaton.Spec{
		States: []automaton.StateSpec{
			{Transitions: []automaton.TransitionSpec{
				{To: 4},
				{To: 0, Direction: "sideways"},
				{To: 0, Kind: "structural", EdgeTypes: []string{"road"}},
				{To: 0, Kind: "teleport"},
			}},
		},
	}
	_, err := spec.Compile()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidAutomaton)
	assert.Len(t, automaton.ValidationErrors(err), 4)
}

func TestSpec_CompiledPredicates(t *testing.T) {
	g := memory.NewGraph()
	a0, _ := g.AddNode("A", "city", nil)
	b0, _ := g.AddNode("B", "town", nil)
	_, err := g.AddEdge(a0, b0, "road", nil)
	require.NoError(t, err)
	out := automaton.Step{Graph: g, At: a0, Incidence: &g.Incidences(a0)[0]}
	in := automaton.Step{Graph: g, At: b0, Incidence: &g.Incidences(b0)[0]}
	ctx := context.Background()

	compile := func(ts automaton.TransitionSpec) automaton.Transition {
		t.Helper()
		a, err := automaton.Spec{States: []automaton.StateSpec{{Final: true, Transitions: []automaton.TransitionSpec{ts}}}}.Compile()
		require.NoError(t, err)
		return a.States[0].Out[0]
	}
	accepts := func(tr automaton.Transition, s automaton.Step) bool {
		t.Helper()
		ok, err := tr.Accepts(ctx, s)
		require.NoError(t, err)
		return ok
	}

	fwd := compile(automaton.TransitionSpec{})
	assert.True(t, accepts(fwd, out))
	assert.False(t, accepts(fwd, in))

	back := compile(automaton.TransitionSpec{Direction: "in", NodeTypes: []string{"city"}})
	assert.True(t, accepts(back, in))

	notRoad := compile(automaton.TransitionSpec{Direction: "any", EdgeTypes: []string{"road"}, Not: true})
	assert.False(t, accepts(notRoad, out))
	assert.False(t, accepts(notRoad, in))

	rejectAll := compile(automaton.TransitionSpec{Kind: "node", Not: true})
	assert.False(t, accepts(rejectAll, automaton.Step{Graph: g, At: a0}))
}
