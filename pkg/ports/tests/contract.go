package tests

import (
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// GraphContractTest is a reusable test suite that verifies if an adapter complies with ports.Graph.
// It checks that ids are dense and that every edge is visible from both of its ends.
func GraphContractTest(t *testing.T, g ports.Graph) {
	t.Helper()

	t.Run("Nodes_Dense", func(t *testing.T) {
		for i := 0; i < g.NodeCount(); i++ {
			n, ok := g.Node(domain.NodeID(i))
			if !ok {
				t.Fatalf("node %d missing", i)
			}
			if n.ID != domain.NodeID(i) {
				t.Errorf("node %d reports id %d", i, n.ID)
			}
		}
		if _, ok := g.Node(domain.NodeID(g.NodeCount())); ok {
			t.Error("expected no node past NodeCount")
		}
		if _, ok := g.Node(domain.NoNode); ok {
			t.Error("expected no node for NoNode")
		}
	})

	t.Run("Edges_Incident_On_Both_Ends", func(t *testing.T) {
		for i := 0; i < g.EdgeCount(); i++ {
			e, ok := g.Edge(domain.EdgeID(i))
			if !ok {
				t.Fatalf("edge %d missing", i)
			}
			if !hasIncidence(g.Incidences(e.Alpha), e.ID, domain.Out, e.Omega) {
				t.Errorf("edge %d: alpha %s lacks out incidence", i, e.Alpha)
			}
			if !hasIncidence(g.Incidences(e.Omega), e.ID, domain.In, e.Alpha) {
				t.Errorf("edge %d: omega %s lacks in incidence", i, e.Omega)
			}
		}
	})

	t.Run("Incidence_Count", func(t *testing.T) {
		total := 0
		for i := 0; i < g.NodeCount(); i++ {
			total += len(g.Incidences(domain.NodeID(i)))
		}
		if total != 2*g.EdgeCount() {
			t.Errorf("expected %d incidences, got %d", 2*g.EdgeCount(), total)
		}
	})

	t.Run("Incidence_Order_Stable", func(t *testing.T) {
		for i := 0; i < g.NodeCount(); i++ {
			a := g.Incidences(domain.NodeID(i))
			b := g.Incidences(domain.NodeID(i))
			if len(a) != len(b) {
				t.Fatalf("node %d: incidence count changed", i)
			}
			for j := range a {
				if a[j] != b[j] {
					t.Errorf("node %d: incidence %d changed between calls", i, j)
				}
			}
		}
	})
}

func hasIncidence(incs []domain.Incidence, e domain.EdgeID, dir domain.Direction, that domain.NodeID) bool {
	for _, inc := range incs {
		if inc.Edge == e && inc.Direction == dir && inc.That == that {
			return true
		}
	}
	return false
}
