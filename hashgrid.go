package rigidipc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fabiodr/rigid-ipc/geometry"
	"github.com/fabiodr/rigid-ipc/physics"
)

// ============================================================================
// Types
// ============================================================================

// CellKey addresses a cell of the uniform grid.
type CellKey struct {
	X, Y, Z int
}

type featureKind uint8

const (
	vertexFeature featureKind = iota
	edgeFeature
	faceFeature
)

type gridItem struct {
	kind  featureKind
	body  int
	index int
	aabb  geometry.AABB
}

// cell holds the indices of items whose boxes overlap it.
type cell struct {
	itemIndices []int
}

// SpatialGrid is a uniform spatial hash over swept feature bounding
// boxes. Cells live in a power-of-two slice addressed by a prime-XOR
// hash; colliding keys share a cell, which only ever adds candidate
// pairs (the emitter re-checks box overlap).
type SpatialGrid struct {
	cellSize float64
	cells    []cell
	cellMask int
	items    []gridItem
}

// ============================================================================
// Construction
// ============================================================================

// NewSpatialGrid creates a grid with the given cell size and at least
// numCells cells (rounded up to a power of two).
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]cell, numCells)
	for i := range cells {
		cells[i].itemIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert registers a feature box in every cell it overlaps.
func (sg *SpatialGrid) Insert(kind featureKind, body, index int, aabb geometry.AABB) {
	itemIdx := len(sg.items)
	sg.items = append(sg.items, gridItem{kind: kind, body: body, index: index, aabb: aabb})

	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})
				sg.cells[cellIdx].itemIndices = append(
					sg.cells[cellIdx].itemIndices,
					itemIdx,
				)
			}
		}
	}
}

// worldToCell converts a world position to cell coordinates.
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell maps a cell key to an index in the cell slice.
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}

// ============================================================================
// Candidate emission
// ============================================================================

// candidatePairs walks every cell and emits deduplicated feature pairs
// for the requested collision types. Pairs must span two collidable
// bodies and their boxes must actually overlap; the same cell may list a
// pair twice and hash collisions may co-locate distant features, so both
// checks are mandatory.
func (sg *SpatialGrid) candidatePairs(bodies []*physics.RigidBody, types CollisionType) *Candidates {
	candidates := &Candidates{}
	seenEV := make(map[EdgeVertexCandidate]struct{})
	seenEE := make(map[EdgeEdgeCandidate]struct{})
	seenFV := make(map[FaceVertexCandidate]struct{})

	dim := 2
	if len(bodies) > 0 {
		dim = bodies[0].Dim()
	}

	for ci := range sg.cells {
		indices := sg.cells[ci].itemIndices
		for ii := 0; ii < len(indices); ii++ {
			for jj := ii + 1; jj < len(indices); jj++ {
				a := sg.items[indices[ii]]
				b := sg.items[indices[jj]]
				if a.body == b.body || !canCollide(bodies[a.body], bodies[b.body]) {
					continue
				}
				if !a.aabb.Overlaps(b.aabb) {
					continue
				}

				switch {
				case dim == 2 && types&EdgeVertexCollisions != 0 &&
					((a.kind == edgeFeature && b.kind == vertexFeature) ||
						(a.kind == vertexFeature && b.kind == edgeFeature)):
					edge, vertex := a, b
					if a.kind == vertexFeature {
						edge, vertex = b, a
					}
					c := EdgeVertexCandidate{
						EdgeBody: edge.body, EdgeID: edge.index,
						VertexBody: vertex.body, VertexID: vertex.index,
					}
					if _, ok := seenEV[c]; !ok {
						seenEV[c] = struct{}{}
						candidates.EdgeVertex = append(candidates.EdgeVertex, c)
					}

				case dim == 3 && types&EdgeEdgeCollisions != 0 &&
					a.kind == edgeFeature && b.kind == edgeFeature:
					lo, hi := a, b
					if hi.body < lo.body {
						lo, hi = hi, lo
					}
					c := EdgeEdgeCandidate{
						BodyA: lo.body, EdgeA: lo.index,
						BodyB: hi.body, EdgeB: hi.index,
					}
					if _, ok := seenEE[c]; !ok {
						seenEE[c] = struct{}{}
						candidates.EdgeEdge = append(candidates.EdgeEdge, c)
					}

				case dim == 3 && types&FaceVertexCollisions != 0 &&
					((a.kind == faceFeature && b.kind == vertexFeature) ||
						(a.kind == vertexFeature && b.kind == faceFeature)):
					face, vertex := a, b
					if a.kind == vertexFeature {
						face, vertex = b, a
					}
					c := FaceVertexCandidate{
						FaceBody: face.body, FaceID: face.index,
						VertexBody: vertex.body, VertexID: vertex.index,
					}
					if _, ok := seenFV[c]; !ok {
						seenFV[c] = struct{}{}
						candidates.FaceVertex = append(candidates.FaceVertex, c)
					}
				}
			}
		}
	}

	candidates.sortAll()
	return candidates
}

// detectCandidatesHashGrid builds a transient grid over the swept
// feature boxes and emits overlapping cross-body pairs. The cell size is
// a caller-tuned multiple of the mean swept-edge extent.
func detectCandidatesHashGrid(
	bodies []*physics.RigidBody,
	posesT0, posesT1 []physics.Pose,
	types CollisionType,
	inflation float64,
	cellSizeRatio float64,
) *Candidates {
	swept := buildSweptAABBs(bodies, posesT0, posesT1, inflation)

	extentSum, edgeCount := 0.0, 0
	itemCount := 0
	for i, body := range bodies {
		itemCount += body.NumVertices() + len(body.Edges) + len(body.Faces)
		for eid := range body.Edges {
			extentSum += swept.edge(bodies, i, eid).MaxExtent()
			edgeCount++
		}
	}
	cellSize := 1.0
	if edgeCount > 0 && extentSum > 0 {
		cellSize = math.Max(1, cellSizeRatio) * extentSum / float64(edgeCount)
	}

	sg := NewSpatialGrid(cellSize, 4*itemCount)
	needVertices := types&(EdgeVertexCollisions|FaceVertexCollisions) != 0
	for i, body := range bodies {
		if needVertices {
			for vid := 0; vid < body.NumVertices(); vid++ {
				sg.Insert(vertexFeature, i, vid, swept.vertex(i, vid))
			}
		}
		if types&(EdgeVertexCollisions|EdgeEdgeCollisions) != 0 {
			for eid := range body.Edges {
				sg.Insert(edgeFeature, i, eid, swept.edge(bodies, i, eid))
			}
		}
		if types&FaceVertexCollisions != 0 {
			for fid := range body.Faces {
				sg.Insert(faceFeature, i, fid, swept.face(bodies, i, fid))
			}
		}
	}

	return sg.candidatePairs(bodies, types)
}
