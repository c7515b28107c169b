package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadGraph(t *testing.T) {
	_, repo := testutils.NodeRepo(t, map[string]string{
		"a.md": `---
type: city
edges:
  - to: b
    type: road
  - to: c.md
    type: rail
---
Capital.`,
		"b.md": `---
type: town
to: c
---
`,
		"c.json": `{ "id": "c.json", "type": "town", "attributes": { "pop": 3 } }`,
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	g, err := loader.LoadGraph(context.Background())
	require.NoError(t, err)

	tests.GraphContractTest(t, g)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())

	// Node ids follow the sorted document ids.
	a, ok := g.Node(0)
	require.True(t, ok)
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, "city", a.Type)
	assert.Equal(t, "Capital.", a.Attributes[ContentAttribute])

	incs := g.Incidences(0)
	require.Len(t, incs, 2)
	assert.Equal(t, domain.NodeID(1), incs[0].That)
	assert.Equal(t, domain.NodeID(2), incs[1].That)

	e, ok := g.Edge(incs[1].Edge)
	require.True(t, ok)
	assert.Equal(t, "rail", e.Type)
}

func TestLoader_Collision(t *testing.T) {
	_, repo := testutils.NodeRepo(t, map[string]string{
		"foo.md":   "---\ntype: town\n---\n",
		"foo.json": `{ "type": "town" }`,
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	_, err := loader.LoadGraph(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_DanglingEdge(t *testing.T) {
	_, repo := testutils.NodeRepo(t, map[string]string{
		"a.md": "---\nto: ghost\n---\n",
	})

	loader := New(loam.NewTypedRepository[NodeMetadata](repo))
	_, err := loader.LoadGraph(context.Background())
	assert.ErrorContains(t, err, "dangling edge")
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.WriteDocs(t, tmpDir, map[string]string{
		"only.md": "---\ntype: town\n---\n",
	})

	loader, err := Open(tmpDir)
	require.NoError(t, err)
	g, err := loader.LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, g.NodeCount())
}
