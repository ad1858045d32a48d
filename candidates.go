package rigidipc

import (
	"sort"

	"github.com/fabiodr/rigid-ipc/geometry"
	"github.com/fabiodr/rigid-ipc/interval"
	"github.com/fabiodr/rigid-ipc/physics"
)

// CollisionType selects which feature pairings a detection pass
// considers.
type CollisionType uint8

const (
	EdgeVertexCollisions CollisionType = 1 << iota
	EdgeEdgeCollisions
	FaceVertexCollisions

	AllCollisions = EdgeVertexCollisions | EdgeEdgeCollisions | FaceVertexCollisions
)

// DetectionMethod selects the broad-phase strategy.
type DetectionMethod int

const (
	// BruteForce emits every cross-body feature pair.
	BruteForce DetectionMethod = iota
	// HashGrid emits only pairs whose swept bounding boxes share a grid
	// cell and overlap.
	HashGrid
)

// EdgeVertexCandidate pairs an edge of one body with a vertex of another.
type EdgeVertexCandidate struct {
	EdgeBody   int
	EdgeID     int
	VertexBody int
	VertexID   int
}

// EdgeEdgeCandidate pairs edges of two different bodies.
type EdgeEdgeCandidate struct {
	BodyA int
	EdgeA int
	BodyB int
	EdgeB int
}

// FaceVertexCandidate pairs a face of one body with a vertex of another.
type FaceVertexCandidate struct {
	FaceBody   int
	FaceID     int
	VertexBody int
	VertexID   int
}

// Candidates holds the broad-phase output by feature pairing.
type Candidates struct {
	EdgeVertex []EdgeVertexCandidate
	EdgeEdge   []EdgeEdgeCandidate
	FaceVertex []FaceVertexCandidate
}

// Len returns the total number of candidates.
func (c *Candidates) Len() int {
	return len(c.EdgeVertex) + len(c.EdgeEdge) + len(c.FaceVertex)
}

func (c *Candidates) sortAll() {
	sort.Slice(c.EdgeVertex, func(i, j int) bool {
		a, b := c.EdgeVertex[i], c.EdgeVertex[j]
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
	sort.Slice(c.EdgeEdge, func(i, j int) bool {
		a, b := c.EdgeEdge[i], c.EdgeEdge[j]
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
	sort.Slice(c.FaceVertex, func(i, j int) bool {
		a, b := c.FaceVertex[i], c.FaceVertex[j]
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

// canCollide filters pairs of bodies: a body never collides with itself,
// bodies sharing a non-negative group are excluded, and two fully fixed
// bodies cannot produce an impact.
func canCollide(a, b *physics.RigidBody) bool {
	if a == b {
		return false
	}
	if a.GroupID >= 0 && a.GroupID == b.GroupID {
		return false
	}
	return !(allFixed(a) && allFixed(b))
}

func allFixed(body *physics.RigidBody) bool {
	for _, fixed := range body.FixedDOF {
		if !fixed {
			return false
		}
	}
	return true
}

// sweptAABBs holds, per body, the trajectory bounding box of every
// vertex over the detection interval.
type sweptAABBs struct {
	vertices [][]geometry.AABB
}

// buildSweptAABBs evaluates each vertex's interval world position over
// t = [0, 1] of the pose interpolation; the resulting boxes enclose the
// full trajectories, rotation arcs included.
func buildSweptAABBs(bodies []*physics.RigidBody, posesT0, posesT1 []physics.Pose, inflation float64) *sweptAABBs {
	unit := interval.New(0, 1)
	swept := &sweptAABBs{vertices: make([][]geometry.AABB, len(bodies))}
	for i, body := range bodies {
		pose := physics.InterpolateInterval(posesT0[i], posesT1[i], unit)
		boxes := make([]geometry.AABB, body.NumVertices())
		for v := range boxes {
			w := body.WorldVertexInterval(pose, v)
			boxes[v] = geometry.NewAABBFromIntervals(w[0], w[1], w[2]).Inflated(inflation)
		}
		swept.vertices[i] = boxes
	}
	return swept
}

func (s *sweptAABBs) vertex(body, vid int) geometry.AABB {
	return s.vertices[body][vid]
}

func (s *sweptAABBs) edge(bodies []*physics.RigidBody, body, eid int) geometry.AABB {
	e := bodies[body].Edges[eid]
	return s.vertices[body][e[0]].Union(s.vertices[body][e[1]])
}

func (s *sweptAABBs) face(bodies []*physics.RigidBody, body, fid int) geometry.AABB {
	f := bodies[body].Faces[fid]
	return s.vertices[body][f[0]].Union(s.vertices[body][f[1]]).Union(s.vertices[body][f[2]])
}

// detectCandidatesBruteForce emits every admissible cross-body feature
// pair for the requested collision types.
func detectCandidatesBruteForce(bodies []*physics.RigidBody, types CollisionType) *Candidates {
	candidates := &Candidates{}
	dim := 2
	if len(bodies) > 0 {
		dim = bodies[0].Dim()
	}

	for i, a := range bodies {
		for j, b := range bodies {
			if i == j || !canCollide(a, b) {
				continue
			}

			if dim == 2 && types&EdgeVertexCollisions != 0 {
				for eid := range a.Edges {
					for vid := 0; vid < b.NumVertices(); vid++ {
						candidates.EdgeVertex = append(candidates.EdgeVertex, EdgeVertexCandidate{
							EdgeBody: i, EdgeID: eid, VertexBody: j, VertexID: vid,
						})
					}
				}
			}
			if dim == 3 && types&EdgeEdgeCollisions != 0 && i < j {
				for ea := range a.Edges {
					for eb := range b.Edges {
						candidates.EdgeEdge = append(candidates.EdgeEdge, EdgeEdgeCandidate{
							BodyA: i, EdgeA: ea, BodyB: j, EdgeB: eb,
						})
					}
				}
			}
			if dim == 3 && types&FaceVertexCollisions != 0 {
				for fid := range a.Faces {
					for vid := 0; vid < b.NumVertices(); vid++ {
						candidates.FaceVertex = append(candidates.FaceVertex, FaceVertexCandidate{
							FaceBody: i, FaceID: fid, VertexBody: j, VertexID: vid,
						})
					}
				}
			}
		}
	}

	candidates.sortAll()
	return candidates
}
