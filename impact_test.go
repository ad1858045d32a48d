package rigidipc

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestConvertEdgeVertexToEdgeEdgeImpacts(t *testing.T) {
	// Polyline 0-1-2: vertex 1 belongs to both edges.
	edges := [][2]int{{0, 1}, {1, 2}}
	evImpacts := []EdgeVertexImpact{
		{TOI: 0.5, EdgeBody: 0, EdgeID: 0, Alpha: 0.25, VertexBody: 1, VertexID: 1},
	}

	eeImpacts := ConvertEdgeVertexToEdgeEdgeImpacts(edges, evImpacts)
	if len(eeImpacts) != 2 {
		t.Fatalf("got %d edge-edge impacts, want 2", len(eeImpacts))
	}

	first := eeImpacts[0]
	if first.EdgeA != 0 || first.EdgeB != 0 || first.AlphaA != 0.25 || first.AlphaB != 1 {
		t.Errorf("first expansion = %+v, want edge 0 with vertex at its far endpoint", first)
	}
	second := eeImpacts[1]
	if second.EdgeB != 1 || second.AlphaB != 0 {
		t.Errorf("second expansion = %+v, want edge 1 with vertex at its start", second)
	}
	for _, ee := range eeImpacts {
		if ee.TOI != 0.5 {
			t.Errorf("TOI not carried through: %+v", ee)
		}
	}

	// A vertex at the end of a dangling edge expands to a single impact.
	evImpacts[0].VertexID = 2
	if got := ConvertEdgeVertexToEdgeEdgeImpacts(edges, evImpacts); len(got) != 1 {
		t.Errorf("dangling vertex: got %d expansions, want 1", len(got))
	}
}

func TestPruneImpacts(t *testing.T) {
	impacts := []EdgeEdgeImpact{
		{TOI: 0.8, EdgeA: 0, EdgeB: 1},
		{TOI: 0.3, EdgeA: 1, EdgeB: 2},
		{TOI: 0.5, EdgeA: 0, EdgeB: 3},
	}

	got := PruneImpacts(impacts, 5)
	// Edge 1 and 2 first appear in the t=0.3 impact, edge 0 and 3 in the
	// t=0.5 one; edge 4 is never hit.
	want := []int{2, 1, 1, 2, -1}
	for e := range want {
		if got[e] != want[e] {
			t.Errorf("edge %d assigned impact %d, want %d (map %v)", e, got[e], want[e], got)
		}
	}
}

func TestPruneImpactsMinimality(t *testing.T) {
	impacts := []EdgeEdgeImpact{
		{TOI: 0.9, EdgeA: 0, EdgeB: 1},
		{TOI: 0.2, EdgeA: 0, EdgeB: 2},
		{TOI: 0.4, EdgeA: 0, EdgeB: 3},
	}
	got := PruneImpacts(impacts, 4)
	for e, idx := range got {
		if idx < 0 {
			continue
		}
		for i, im := range impacts {
			if (im.EdgeA == e || im.EdgeB == e) && im.TOI < impacts[idx].TOI {
				t.Errorf("edge %d assigned impact %d (toi %v) but impact %d has toi %v",
					e, idx, impacts[idx].TOI, i, im.TOI)
			}
		}
	}
}

func TestPruneImpactsTieBreak(t *testing.T) {
	// Equal TOIs keep insertion order.
	impacts := []EdgeEdgeImpact{
		{TOI: 0.5, EdgeA: 0, EdgeB: 1},
		{TOI: 0.5, EdgeA: 0, EdgeB: 2},
	}
	got := PruneImpacts(impacts, 3)
	if got[0] != 0 {
		t.Errorf("edge 0 assigned impact %d, want the first inserted", got[0])
	}
	if got[2] != 1 {
		t.Errorf("edge 2 assigned impact %d, want 1", got[2])
	}
}

func TestConvertThenPruneDeterministic(t *testing.T) {
	edges := [][2]int{{0, 1}, {1, 2}, {2, 3}}
	evImpacts := []EdgeVertexImpact{
		{TOI: 0.7, EdgeID: 0, Alpha: 0.5, VertexID: 2},
		{TOI: 0.2, EdgeID: 2, Alpha: 0.1, VertexID: 1},
	}

	first := PruneImpacts(ConvertEdgeVertexToEdgeEdgeImpacts(edges, evImpacts), len(edges))
	second := PruneImpacts(ConvertEdgeVertexToEdgeEdgeImpacts(edges, evImpacts), len(edges))
	for e := range first {
		if first[e] != second[e] {
			t.Fatalf("non-deterministic pruning: %v vs %v", first, second)
		}
	}
}

func TestImpactsSortOrder(t *testing.T) {
	impacts := &Impacts{
		EdgeVertex: []EdgeVertexImpact{
			{TOI: 0.9, EdgeID: 0},
			{TOI: 0.1, EdgeID: 2},
			{TOI: 0.1, EdgeID: 1},
		},
	}
	impacts.sortAll()
	if impacts.EdgeVertex[0].TOI != 0.1 || impacts.EdgeVertex[0].EdgeID != 1 {
		t.Errorf("sort order: %+v", impacts.EdgeVertex)
	}
	if impacts.EdgeVertex[2].TOI != 0.9 {
		t.Errorf("sort order: %+v", impacts.EdgeVertex)
	}
	if !scalar.EqualWithinAbs(impacts.EdgeVertex[1].TOI, 0.1, 0) || impacts.EdgeVertex[1].EdgeID != 2 {
		t.Errorf("tie-break by ids: %+v", impacts.EdgeVertex)
	}
}
