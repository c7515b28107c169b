package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/pkg/automaton"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Graph(t *testing.T) {
	b := New()
	b.Add("start").Type("city").Attr("pop", 10).Go("middle", "road")
	b.Add("middle").Type("town").
		Go("end", "road").
		Edge("start", "rail", map[string]any{"km": 3})
	b.Add("end").Type("town")

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())

	// Ids follow the sorted names: end, middle, start.
	start, ok := g.Lookup("start")
	require.True(t, ok)
	assert.Equal(t, domain.NodeID(2), start)

	node, ok := g.Node(start)
	require.True(t, ok)
	assert.Equal(t, "city", node.Type)
	assert.Equal(t, 10, node.Attributes["pop"])

	loader, err := b.Loader()
	require.NoError(t, err)
	loaded, err := loader.LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, g.EdgeCount(), loaded.EdgeCount())
}

func TestBuilder_DanglingEdge(t *testing.T) {
	b := New()
	b.Add("start").Go("nowhere", "road")

	_, err := b.Build()
	assert.Error(t, err)
}

func TestAutomatonBuilder(t *testing.T) {
	a, err := Automaton("roads").
		State("start").Out("town", "road").
		State("town").Final().Out("town", "road").Filter("checked", "town").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "roads", a.Name)
	assert.Equal(t, 3, a.StateCount())
	assert.Equal(t, 0, a.Initial.Number)
	assert.Equal(t, []int{1}, a.Finals())
	require.Len(t, a.States[1].Out, 2)
	assert.Equal(t, automaton.KindStructural, a.States[1].Out[1].Kind)
	assert.Same(t, a.States[2], a.States[1].Out[1].End)
}

func TestAutomatonBuilder_Initial(t *testing.T) {
	a := Automaton("back").
		State("done").Final().
		State("start").In("done").
		builder.Initial("start").
		MustBuild()

	assert.Equal(t, 1, a.Initial.Number)
}

func TestAutomatonBuilder_Empty(t *testing.T) {
	_, err := Automaton("empty").Build()
	assert.Error(t, err)
}
