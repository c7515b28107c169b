package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
	contract "github.com/aretw0/wayfinder/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	data := map[string]string{
		"a": `{"type": "Person", "edges": [{"to": "b", "type": "knows"}, {"to": "a", "type": "self"}]}`,
		"b": `{"type": "Person", "edges": [{"to": "c", "type": "knows"}]}`,
		"c": `{"type": "City"}`,
	}

	loader := memory.NewLoader(data)
	g, err := loader.LoadGraph(context.Background())
	require.NoError(t, err)

	contract.GraphContractTest(t, g)
}

func TestInMemoryLoader_DeterministicIDs(t *testing.T) {
	loader, err := memory.NewFromDocuments(
		memory.NodeDocument{ID: "zeta", Edges: []memory.EdgeDocument{{To: "alpha"}}},
		memory.NodeDocument{ID: "alpha", Type: "Start"},
	)
	require.NoError(t, err)

	g, err := loader.LoadGraph(context.Background())
	require.NoError(t, err)

	mg := g.(*memory.Graph)
	alpha, ok := mg.Lookup("alpha")
	require.True(t, ok)
	zeta, ok := mg.Lookup("zeta")
	require.True(t, ok)

	assert.Equal(t, domain.NodeID(0), alpha, "ids follow sorted document ids")
	assert.Equal(t, domain.NodeID(1), zeta)

	e, ok := g.Edge(0)
	require.True(t, ok)
	assert.Equal(t, zeta, e.Alpha)
	assert.Equal(t, alpha, e.Omega)
}

func TestInMemoryLoader_DanglingEdge(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"a": `{"edges": [{"to": "ghost"}]}`,
	})

	_, err := loader.LoadGraph(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangling edge")
}

func TestGraph_AddNode_DuplicateName(t *testing.T) {
	g := memory.NewGraph()
	_, err := g.AddNode("a", "", nil)
	require.NoError(t, err)

	_, err = g.AddNode("a", "", nil)
	assert.Error(t, err)
}

func TestGraph_AddEdge_UnknownNode(t *testing.T) {
	g := memory.NewGraph()
	a, _ := g.AddNode("a", "", nil)

	_, err := g.AddEdge(a, 7, "", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func TestGraph_SelfLoopIncidenceOrder(t *testing.T) {
	g := memory.NewGraph()
	a, _ := g.AddNode("a", "", nil)
	e, err := g.AddEdge(a, a, "loop", nil)
	require.NoError(t, err)

	incs := g.Incidences(a)
	require.Len(t, incs, 2)
	assert.Equal(t, domain.Incidence{Edge: e, Direction: domain.Out, That: a}, incs[0])
	assert.Equal(t, domain.Incidence{Edge: e, Direction: domain.In, That: a}, incs[1])
}
