package rigidipc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/fabiodr/rigid-ipc/geometry"
	"github.com/fabiodr/rigid-ipc/interval"
	"github.com/fabiodr/rigid-ipc/physics"
)

// Defaults for the narrow phase. The tolerance bounds the width of the
// final enclosing interval, so subdivision depth is about
// log2(earliestTOI/tolerance) per candidate.
const (
	DEFAULT_TOI_TOLERANCE = 1e-6
	DEFAULT_EARLIEST_TOI  = 1.0
)

func validateTOIQuery(bodyA, bodyB *physics.RigidBody, wantDim int, earliestTOI, tolerance float64) error {
	if bodyA == nil || bodyB == nil {
		return errors.Wrap(ErrInvalidInput, "nil body")
	}
	if bodyA.Dim() != bodyB.Dim() {
		return errors.Wrapf(ErrInvalidInput, "dimension mismatch %d vs %d", bodyA.Dim(), bodyB.Dim())
	}
	if bodyA.Dim() != wantDim {
		return errors.Wrapf(ErrNotImplemented, "query requires dimension %d, bodies are %dD", wantDim, bodyA.Dim())
	}
	if math.IsNaN(earliestTOI) || earliestTOI < 0 {
		return errors.Wrapf(ErrInvalidInput, "earliest TOI %g", earliestTOI)
	}
	if math.IsNaN(tolerance) || tolerance <= 0 {
		return errors.Wrapf(ErrInvalidInput, "tolerance %g", tolerance)
	}
	return nil
}

func vec2(v mgl64.Vec3) mgl64.Vec2 {
	return mgl64.Vec2{v.X(), v.Y()}
}

// ComputeEdgeVertexTOI finds a conservative time of impact between a
// vertex of bodyA and an edge of bodyB, both screwing from their t=0
// pose to their t=1 pose, searching t in [0, earliestTOI]. On success
// the returned time is the lower end of an enclosing interval no wider
// than tolerance, and alpha locates the contact along the edge,
// evaluated in double precision at the reported time. Planar bodies
// only.
func ComputeEdgeVertexTOI(
	bodyA *physics.RigidBody, poseA0, poseA1 physics.Pose, vertexID int,
	bodyB *physics.RigidBody, poseB0, poseB1 physics.Pose, edgeID int,
	earliestTOI, tolerance float64,
) (toi, alpha float64, ok bool, err error) {
	if err := validateTOIQuery(bodyA, bodyB, 2, earliestTOI, tolerance); err != nil {
		return 0, 0, false, err
	}
	if vertexID < 0 || vertexID >= bodyA.NumVertices() || edgeID < 0 || edgeID >= len(bodyB.Edges) {
		return 0, 0, false, errors.Wrapf(ErrInvalidInput, "vertex %d / edge %d out of range", vertexID, edgeID)
	}
	edge := bodyB.Edges[edgeID]

	positions := func(t interval.Interval) (p, e0, e1 interval.Vec2) {
		poseA := physics.InterpolateInterval(poseA0, poseA1, t)
		poseB := physics.InterpolateInterval(poseB0, poseB1, t)
		p = bodyA.WorldVertexInterval(poseA, vertexID).XY()
		e0 = bodyB.WorldVertexInterval(poseB, edge[0]).XY()
		e1 = bodyB.WorldVertexInterval(poseB, edge[1]).XY()
		return p, e0, e1
	}

	distance := func(t interval.Interval) (interval.Interval, error) {
		p, e0, e1 := positions(t)
		return geometry.PointLineSignedDistanceInterval(p, e0, e1), nil
	}
	inside := func(t interval.Interval) (interval.Tristate, error) {
		p, e0, e1 := positions(t)
		return geometry.IsPointAlongSegment(p, e0, e1), nil
	}

	enclosure, ok, err := interval.FindRoot(distance, inside, interval.New(0, earliestTOI), tolerance)
	if err != nil || !ok {
		return 0, 0, false, err
	}

	// Conservative time of impact.
	toi = enclosure.Lo
	poseA := physics.Interpolate(poseA0, poseA1, toi)
	poseB := physics.Interpolate(poseB0, poseB1, toi)
	p := vec2(bodyA.WorldVertex(poseA, vertexID))
	e0 := vec2(bodyB.WorldVertex(poseB, edge[0]))
	e1 := vec2(bodyB.WorldVertex(poseB, edge[1]))
	return toi, geometry.PointSegmentParameter(p, e0, e1), true, nil
}

// ComputeEdgeEdgeTOI finds a conservative time of impact between an edge
// of bodyA and an edge of bodyB in 3D. alphaA and alphaB locate the
// contact along each edge at the reported time.
func ComputeEdgeEdgeTOI(
	bodyA *physics.RigidBody, poseA0, poseA1 physics.Pose, edgeAID int,
	bodyB *physics.RigidBody, poseB0, poseB1 physics.Pose, edgeBID int,
	earliestTOI, tolerance float64,
) (toi, alphaA, alphaB float64, ok bool, err error) {
	if err := validateTOIQuery(bodyA, bodyB, 3, earliestTOI, tolerance); err != nil {
		return 0, 0, 0, false, err
	}
	if edgeAID < 0 || edgeAID >= len(bodyA.Edges) || edgeBID < 0 || edgeBID >= len(bodyB.Edges) {
		return 0, 0, 0, false, errors.Wrapf(ErrInvalidInput, "edges %d / %d out of range", edgeAID, edgeBID)
	}
	edgeA := bodyA.Edges[edgeAID]
	edgeB := bodyB.Edges[edgeBID]

	positions := func(t interval.Interval) (a0, a1, b0, b1 interval.Vec3) {
		poseA := physics.InterpolateInterval(poseA0, poseA1, t)
		poseB := physics.InterpolateInterval(poseB0, poseB1, t)
		a0 = bodyA.WorldVertexInterval(poseA, edgeA[0])
		a1 = bodyA.WorldVertexInterval(poseA, edgeA[1])
		b0 = bodyB.WorldVertexInterval(poseB, edgeB[0])
		b1 = bodyB.WorldVertexInterval(poseB, edgeB[1])
		return a0, a1, b0, b1
	}

	distance := func(t interval.Interval) (interval.Interval, error) {
		a0, a1, b0, b1 := positions(t)
		return geometry.LineLineSignedDistanceInterval(a0, a1, b0, b1), nil
	}
	inside := func(t interval.Interval) (interval.Tristate, error) {
		a0, a1, b0, b1 := positions(t)
		return geometry.AreEdgesIntersecting(a0, a1, b0, b1), nil
	}

	enclosure, ok, err := interval.FindRoot(distance, inside, interval.New(0, earliestTOI), tolerance)
	if err != nil || !ok {
		return 0, 0, 0, false, err
	}

	toi = enclosure.Lo
	poseA := physics.Interpolate(poseA0, poseA1, toi)
	poseB := physics.Interpolate(poseB0, poseB1, toi)
	a0 := bodyA.WorldVertex(poseA, edgeA[0])
	a1 := bodyA.WorldVertex(poseA, edgeA[1])
	b0 := bodyB.WorldVertex(poseB, edgeB[0])
	b1 := bodyB.WorldVertex(poseB, edgeB[1])
	alphaA, alphaB = geometry.EdgeEdgeParameters(a0, a1, b0, b1)
	return toi, alphaA, alphaB, true, nil
}

// ComputeFaceVertexTOI finds a conservative time of impact between a
// vertex of bodyA and a face of bodyB in 3D. (u, v) are the barycentric
// coordinates of the contact on the face at the reported time.
func ComputeFaceVertexTOI(
	bodyA *physics.RigidBody, poseA0, poseA1 physics.Pose, vertexID int,
	bodyB *physics.RigidBody, poseB0, poseB1 physics.Pose, faceID int,
	earliestTOI, tolerance float64,
) (toi, u, v float64, ok bool, err error) {
	if err := validateTOIQuery(bodyA, bodyB, 3, earliestTOI, tolerance); err != nil {
		return 0, 0, 0, false, err
	}
	if vertexID < 0 || vertexID >= bodyA.NumVertices() || faceID < 0 || faceID >= len(bodyB.Faces) {
		return 0, 0, 0, false, errors.Wrapf(ErrInvalidInput, "vertex %d / face %d out of range", vertexID, faceID)
	}
	face := bodyB.Faces[faceID]

	positions := func(t interval.Interval) (p, f0, f1, f2 interval.Vec3) {
		poseA := physics.InterpolateInterval(poseA0, poseA1, t)
		poseB := physics.InterpolateInterval(poseB0, poseB1, t)
		p = bodyA.WorldVertexInterval(poseA, vertexID)
		f0 = bodyB.WorldVertexInterval(poseB, face[0])
		f1 = bodyB.WorldVertexInterval(poseB, face[1])
		f2 = bodyB.WorldVertexInterval(poseB, face[2])
		return p, f0, f1, f2
	}

	distance := func(t interval.Interval) (interval.Interval, error) {
		p, f0, f1, f2 := positions(t)
		return geometry.PointTriangleSignedDistanceInterval(p, f0, f1, f2), nil
	}
	inside := func(t interval.Interval) (interval.Tristate, error) {
		p, f0, f1, f2 := positions(t)
		return geometry.IsPointInsideTriangle(p, f0, f1, f2), nil
	}

	enclosure, ok, err := interval.FindRoot(distance, inside, interval.New(0, earliestTOI), tolerance)
	if err != nil || !ok {
		return 0, 0, 0, false, err
	}

	toi = enclosure.Lo
	poseA := physics.Interpolate(poseA0, poseA1, toi)
	poseB := physics.Interpolate(poseB0, poseB1, toi)
	p := bodyA.WorldVertex(poseA, vertexID)
	f0 := bodyB.WorldVertex(poseB, face[0])
	f1 := bodyB.WorldVertex(poseB, face[1])
	f2 := bodyB.WorldVertex(poseB, face[2])
	u, v = geometry.TriangleBarycentric(p, f0, f1, f2)
	return toi, u, v, true, nil
}

// ComputeEdgeVertexTOIDisplacement is the planar edge-vertex query over
// linear vertex trajectories p(t) = p + t*d instead of rigid poses. The
// volume pipeline consumes vertices and displacements directly in this
// form.
func ComputeEdgeVertexTOIDisplacement(
	vertex, edge0, edge1 mgl64.Vec2,
	dVertex, dEdge0, dEdge1 mgl64.Vec2,
	earliestTOI, tolerance float64,
) (toi, alpha float64, ok bool, err error) {
	if math.IsNaN(earliestTOI) || earliestTOI < 0 {
		return 0, 0, false, errors.Wrapf(ErrInvalidInput, "earliest TOI %g", earliestTOI)
	}
	if math.IsNaN(tolerance) || tolerance <= 0 {
		return 0, 0, false, errors.Wrapf(ErrInvalidInput, "tolerance %g", tolerance)
	}

	at := func(p, d mgl64.Vec2, t interval.Interval) interval.Vec2 {
		return interval.NewVec2(p).Add(interval.NewVec2(d).Mul(t))
	}

	distance := func(t interval.Interval) (interval.Interval, error) {
		return geometry.PointLineSignedDistanceInterval(
			at(vertex, dVertex, t), at(edge0, dEdge0, t), at(edge1, dEdge1, t)), nil
	}
	inside := func(t interval.Interval) (interval.Tristate, error) {
		return geometry.IsPointAlongSegment(
			at(vertex, dVertex, t), at(edge0, dEdge0, t), at(edge1, dEdge1, t)), nil
	}

	enclosure, ok, err := interval.FindRoot(distance, inside, interval.New(0, earliestTOI), tolerance)
	if err != nil || !ok {
		return 0, 0, false, err
	}

	toi = enclosure.Lo
	p := vertex.Add(dVertex.Mul(toi))
	e0 := edge0.Add(dEdge0.Mul(toi))
	e1 := edge1.Add(dEdge1.Mul(toi))
	return toi, geometry.PointSegmentParameter(p, e0, e1), true, nil
}
