package rigidipc

import "sort"

// EdgeVertexImpact records contact between an edge and a vertex. Alpha
// parameterizes the contact point along the edge, 0 at the edge's first
// endpoint.
type EdgeVertexImpact struct {
	TOI        float64
	EdgeBody   int
	EdgeID     int
	Alpha      float64
	VertexBody int
	VertexID   int
}

// EdgeEdgeImpact records contact between two edges.
type EdgeEdgeImpact struct {
	TOI    float64
	BodyA  int
	EdgeA  int
	AlphaA float64
	BodyB  int
	EdgeB  int
	AlphaB float64
}

// FaceVertexImpact records contact between a face and a vertex; (U, V)
// are the barycentric coordinates of the contact on the face.
type FaceVertexImpact struct {
	TOI        float64
	FaceBody   int
	FaceID     int
	U, V       float64
	VertexBody int
	VertexID   int
}

// Impacts collects the detection output by feature pairing. Each list is
// sorted by time of impact ascending, ties broken by feature identifiers.
type Impacts struct {
	EdgeVertex []EdgeVertexImpact
	EdgeEdge   []EdgeEdgeImpact
	FaceVertex []FaceVertexImpact
}

// Len returns the total number of impacts.
func (im *Impacts) Len() int {
	return len(im.EdgeVertex) + len(im.EdgeEdge) + len(im.FaceVertex)
}

func (im *Impacts) sortAll() {
	sort.SliceStable(im.EdgeVertex, func(i, j int) bool {
		a, b := im.EdgeVertex[i], im.EdgeVertex[j]
		if a.TOI != b.TOI {
			return a.TOI < b.TOI
		}
		if a.EdgeBody != b.EdgeBody {
			return a.EdgeBody < b.EdgeBody
		}
		if a.EdgeID != b.EdgeID {
			return a.EdgeID < b.EdgeID
		}
		if a.VertexBody != b.VertexBody {
			return a.VertexBody < b.VertexBody
		}
		return a.VertexID < b.VertexID
	})
	sort.SliceStable(im.EdgeEdge, func(i, j int) bool {
		a, b := im.EdgeEdge[i], im.EdgeEdge[j]
		if a.TOI != b.TOI {
			return a.TOI < b.TOI
		}
		if a.BodyA != b.BodyA {
			return a.BodyA < b.BodyA
		}
		if a.EdgeA != b.EdgeA {
			return a.EdgeA < b.EdgeA
		}
		if a.BodyB != b.BodyB {
			return a.BodyB < b.BodyB
		}
		return a.EdgeB < b.EdgeB
	})
	sort.SliceStable(im.FaceVertex, func(i, j int) bool {
		a, b := im.FaceVertex[i], im.FaceVertex[j]
		if a.TOI != b.TOI {
			return a.TOI < b.TOI
		}
		if a.FaceBody != b.FaceBody {
			return a.FaceBody < b.FaceBody
		}
		if a.FaceID != b.FaceID {
			return a.FaceID < b.FaceID
		}
		if a.VertexBody != b.VertexBody {
			return a.VertexBody < b.VertexBody
		}
		return a.VertexID < b.VertexID
	})
}

// ConvertEdgeVertexToEdgeEdgeImpacts expands each edge-vertex impact into
// one edge-edge impact per edge incident to the impacted vertex — up to
// two on a manifold polyline. edges is the flattened scene connectivity
// the impact's vertex and edge ids index into. The impacting edge keeps
// its alpha; on the incident edge the contact sits at the vertex, so its
// alpha is the vertex's endpoint position (0 or 1). Results preserve the
// input order, incident edges in index order.
func ConvertEdgeVertexToEdgeEdgeImpacts(edges [][2]int, evImpacts []EdgeVertexImpact) []EdgeEdgeImpact {
	eeImpacts := make([]EdgeEdgeImpact, 0, 2*len(evImpacts))
	for _, ev := range evImpacts {
		for eid, e := range edges {
			var alphaB float64
			switch ev.VertexID {
			case e[0]:
				alphaB = 0
			case e[1]:
				alphaB = 1
			default:
				continue
			}
			eeImpacts = append(eeImpacts, EdgeEdgeImpact{
				TOI:    ev.TOI,
				BodyA:  ev.EdgeBody,
				EdgeA:  ev.EdgeID,
				AlphaA: ev.Alpha,
				BodyB:  ev.VertexBody,
				EdgeB:  eid,
				AlphaB: alphaB,
			})
		}
	}
	return eeImpacts
}

// PruneImpacts assigns each edge its earliest impact: the returned map
// holds, per edge, the index into eeImpacts of the first impact
// mentioning it when scanning by ascending time of impact, or -1 for
// edges never impacted. Ties in time keep the impacts' insertion order,
// then the lexicographic order of (EdgeA, EdgeB).
func PruneImpacts(eeImpacts []EdgeEdgeImpact, numEdges int) []int {
	edgeImpactMap := make([]int, numEdges)
	for i := range edgeImpactMap {
		edgeImpactMap[i] = -1
	}

	order := make([]int, len(eeImpacts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := eeImpacts[order[i]], eeImpacts[order[j]]
		if a.TOI != b.TOI {
			return a.TOI < b.TOI
		}
		if order[i] != order[j] {
			return order[i] < order[j]
		}
		if a.EdgeA != b.EdgeA {
			return a.EdgeA < b.EdgeA
		}
		return a.EdgeB < b.EdgeB
	})

	assign := func(edge, impact int) {
		if edge >= 0 && edge < numEdges && edgeImpactMap[edge] < 0 {
			edgeImpactMap[edge] = impact
		}
	}
	for _, idx := range order {
		assign(eeImpacts[idx].EdgeA, idx)
		assign(eeImpacts[idx].EdgeB, idx)
	}
	return edgeImpactMap
}
