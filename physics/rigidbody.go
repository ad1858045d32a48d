package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fabiodr/rigid-ipc/interval"
)

// ErrInvalidBody reports a malformed rigid-body definition.
var ErrInvalidBody = errors.New("physics: invalid rigid body definition")

// RigidBody holds the immutable body-space geometry and mass properties
// of one rigid body, plus its kinematic state. The constructor re-centers
// the vertices about the center of mass and shifts the pose so world
// positions are unchanged.
type RigidBody struct {
	// Geometry, in body space with the center of mass at the origin.
	Vertices []mgl64.Vec3
	Edges    [][2]int
	Faces    [][3]int

	// Mass properties.
	Mass float64
	// MomentOfInertia holds the principal moments; planar bodies only
	// use the Z component.
	MomentOfInertia mgl64.Vec3
	// R0 rotates from the principal axes to the input orientation.
	R0 mgl64.Mat3
	// RMax is the maximum distance from the center of mass to a vertex.
	RMax              float64
	AverageEdgeLength float64

	// FixedDOF masks degrees of freedom that never change
	// (x, y, z, ωx, ωy, ωz).
	FixedDOF [6]bool

	// Bodies sharing a non-negative group id never collide with each
	// other. Negative ids disable the filter.
	GroupID int

	// State, owned by the outer time stepper.
	Pose     Pose
	PosePrev Pose
	Velocity Pose
	Force    Pose

	dim int
}

// NewRigidBody builds a rigid body from body-space geometry. dim selects
// planar (2) or spatial (3) collision handling; planar bodies must have
// zero Z coordinates and no faces.
func NewRigidBody(
	dim int,
	vertices []mgl64.Vec3,
	edges [][2]int,
	faces [][3]int,
	pose Pose,
	velocity Pose,
	force Pose,
	density float64,
	fixedDOF [6]bool,
	groupID int,
) (*RigidBody, error) {
	if dim != 2 && dim != 3 {
		return nil, errors.Wrapf(ErrInvalidBody, "dimension %d", dim)
	}
	if len(vertices) == 0 {
		return nil, errors.Wrap(ErrInvalidBody, "no vertices")
	}
	if !(density > 0) {
		return nil, errors.Wrapf(ErrInvalidBody, "density %g", density)
	}
	for _, e := range edges {
		if e[0] < 0 || e[0] >= len(vertices) || e[1] < 0 || e[1] >= len(vertices) {
			return nil, errors.Wrapf(ErrInvalidBody, "edge %v out of range", e)
		}
	}
	for _, f := range faces {
		for _, vi := range f {
			if vi < 0 || vi >= len(vertices) {
				return nil, errors.Wrapf(ErrInvalidBody, "face %v out of range", f)
			}
		}
	}
	if dim == 2 {
		if len(faces) > 0 {
			return nil, errors.Wrap(ErrInvalidBody, "planar body with faces")
		}
		for _, v := range vertices {
			if v.Z() != 0 {
				return nil, errors.Wrap(ErrInvalidBody, "planar body with nonzero Z")
			}
		}
	}

	rb := &RigidBody{
		Vertices: append([]mgl64.Vec3(nil), vertices...),
		Edges:    append([][2]int(nil), edges...),
		Faces:    append([][3]int(nil), faces...),
		FixedDOF: fixedDOF,
		GroupID:  groupID,
		Pose:     pose,
		PosePrev: pose,
		Velocity: velocity,
		Force:    force,
		dim:      dim,
	}

	masses := rb.lumpedVertexMasses(density)
	for _, m := range masses {
		rb.Mass += m
	}

	var com mgl64.Vec3
	for i, v := range rb.Vertices {
		com = com.Add(v.Mul(masses[i] / rb.Mass))
	}
	for i := range rb.Vertices {
		rb.Vertices[i] = rb.Vertices[i].Sub(com)
	}
	// Keep world positions unchanged after re-centering.
	rb.Pose.Position = rb.Pose.Position.Add(pose.RotationMatrix().Mul3x1(com))
	rb.PosePrev = rb.Pose

	for _, v := range rb.Vertices {
		rb.RMax = math.Max(rb.RMax, v.Len())
	}
	if len(rb.Edges) > 0 {
		total := 0.0
		for _, e := range rb.Edges {
			total += rb.Vertices[e[1]].Sub(rb.Vertices[e[0]]).Len()
		}
		rb.AverageEdgeLength = total / float64(len(rb.Edges))
	}

	if err := rb.computeInertia(masses); err != nil {
		return nil, err
	}
	return rb, nil
}

// lumpedVertexMasses distributes the mesh measure onto vertices: a third
// of each face's area in 3D, half of each edge's length otherwise, and
// uniform point masses for bare point clouds.
func (rb *RigidBody) lumpedVertexMasses(density float64) []float64 {
	masses := make([]float64, len(rb.Vertices))
	switch {
	case len(rb.Faces) > 0:
		for _, f := range rb.Faces {
			a, b, c := rb.Vertices[f[0]], rb.Vertices[f[1]], rb.Vertices[f[2]]
			area := 0.5 * b.Sub(a).Cross(c.Sub(a)).Len()
			share := density * area / 3
			masses[f[0]] += share
			masses[f[1]] += share
			masses[f[2]] += share
		}
	case len(rb.Edges) > 0:
		for _, e := range rb.Edges {
			length := rb.Vertices[e[1]].Sub(rb.Vertices[e[0]]).Len()
			share := density * length / 2
			masses[e[0]] += share
			masses[e[1]] += share
		}
	default:
		for i := range masses {
			masses[i] = density
		}
	}
	// A vertex not referenced by any feature still needs mass for the
	// center of mass to be defined.
	for i := range masses {
		if masses[i] == 0 {
			masses[i] = density * 1e-12
		}
	}
	return masses
}

// computeInertia fills MomentOfInertia and R0 from the lumped masses.
// The 3D inertia tensor is eigendecomposed to recover the principal
// moments and the principal-axes rotation.
func (rb *RigidBody) computeInertia(masses []float64) error {
	if rb.dim == 2 {
		iz := 0.0
		for i, v := range rb.Vertices {
			iz += masses[i] * v.LenSqr()
		}
		rb.MomentOfInertia = mgl64.Vec3{0, 0, iz}
		rb.R0 = mgl64.Ident3()
		return nil
	}

	var xx, yy, zz, xy, xz, yz float64
	for i, v := range rb.Vertices {
		m := masses[i]
		xx += m * (v.Y()*v.Y() + v.Z()*v.Z())
		yy += m * (v.X()*v.X() + v.Z()*v.Z())
		zz += m * (v.X()*v.X() + v.Y()*v.Y())
		xy -= m * v.X() * v.Y()
		xz -= m * v.X() * v.Z()
		yz -= m * v.Y() * v.Z()
	}

	var es mat.EigenSym
	if !es.Factorize(mat.NewSymDense(3, []float64{
		xx, xy, xz,
		xy, yy, yz,
		xz, yz, zz,
	}), true) {
		return errors.Wrap(ErrInvalidBody, "inertia eigendecomposition failed")
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	rb.MomentOfInertia = mgl64.Vec3{vals[0], vals[1], vals[2]}
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			rb.R0[col*3+row] = vecs.At(row, col)
		}
	}
	if rb.R0.Det() < 0 {
		// Eigenvectors are only defined up to sign; keep a proper rotation.
		for row := 0; row < 3; row++ {
			rb.R0[2*3+row] = -rb.R0[2*3+row]
		}
	}
	return nil
}

// Dim returns 2 for planar bodies and 3 for spatial ones.
func (rb *RigidBody) Dim() int { return rb.dim }

// NumVertices returns the vertex count.
func (rb *RigidBody) NumVertices() int { return len(rb.Vertices) }

// WorldVertex evaluates vertex i under the given pose.
func (rb *RigidBody) WorldVertex(pose Pose, i int) mgl64.Vec3 {
	return pose.RotationMatrix().Mul3x1(rb.Vertices[i]).Add(pose.Position)
}

// WorldVertices evaluates every vertex under the given pose.
func (rb *RigidBody) WorldVertices(pose Pose) []mgl64.Vec3 {
	r := pose.RotationMatrix()
	out := make([]mgl64.Vec3, len(rb.Vertices))
	for i, v := range rb.Vertices {
		out[i] = r.Mul3x1(v).Add(pose.Position)
	}
	return out
}

// WorldVertexInterval evaluates vertex i under an interval pose. Each
// coordinate encloses the vertex trajectory over the pose enclosure.
func (rb *RigidBody) WorldVertexInterval(pose PoseInterval, i int) interval.Vec3 {
	return pose.RotationMatrix().Mul3x1(interval.NewVec3(rb.Vertices[i])).Add(pose.Position)
}
