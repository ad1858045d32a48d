// Package physics provides the rigid-body configuration model used by
// continuous collision detection: poses with linearly interpolated
// rotation parameters (screw motion), and bodies with immutable
// body-space geometry and mass properties.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fabiodr/rigid-ipc/interval"
)

// Pose is a rigid-body configuration: a position and an axis-angle
// rotation whose norm is the rotation angle. Planar scenes live in the
// XY plane and store the rotation angle as the Z component, which makes
// rotation about Z by that angle exactly the 2D rotation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
}

// Add returns the component-wise sum of two poses.
func (p Pose) Add(o Pose) Pose {
	return Pose{
		Position: p.Position.Add(o.Position),
		Rotation: p.Rotation.Add(o.Rotation),
	}
}

// Sub returns the component-wise difference of two poses.
func (p Pose) Sub(o Pose) Pose {
	return Pose{
		Position: p.Position.Sub(o.Position),
		Rotation: p.Rotation.Sub(o.Rotation),
	}
}

// Scale returns the pose with both parameter blocks scaled by c.
func (p Pose) Scale(c float64) Pose {
	return Pose{
		Position: p.Position.Mul(c),
		Rotation: p.Rotation.Mul(c),
	}
}

// Interpolate linearly interpolates position and rotation parameters
// between p0 and p1. Interpolating the axis-angle vector makes axis and
// angle move jointly: the body screws from one configuration to the
// other.
func Interpolate(p0, p1 Pose, t float64) Pose {
	return p0.Add(p1.Sub(p0).Scale(t))
}

// RotationMatrix returns the rotation matrix of the pose via the
// exponential map of the axis-angle vector.
func (p Pose) RotationMatrix() mgl64.Mat3 {
	w := p.Rotation
	s := w.LenSqr()
	theta := math.Sqrt(s)

	var sinc, cosc float64
	if theta < 1e-4 {
		// Series keeps the map exact through the theta -> 0 limit.
		sinc = 1 - s/6 + s*s/120
		cosc = 0.5 - s/24 + s*s/720
	} else {
		sinc = math.Sin(theta) / theta
		cosc = (1 - math.Cos(theta)) / s
	}

	w1 := skew(w)
	w2 := w1.Mul3(w1)
	return mgl64.Ident3().Add(w1.Mul(sinc)).Add(w2.Mul(cosc))
}

// skew returns the cross-product matrix of w (column-major).
func skew(w mgl64.Vec3) mgl64.Mat3 {
	x, y, z := w.X(), w.Y(), w.Z()
	return mgl64.Mat3{
		0, z, -y,
		-z, 0, x,
		y, -x, 0,
	}
}

// ============================================================================
// Interval poses
// ============================================================================

// PoseInterval is a pose whose parameters are intervals. Evaluated at an
// interval time it encloses every configuration the body passes through.
type PoseInterval struct {
	Position interval.Vec3
	Rotation interval.Vec3
}

// Cast lifts the pose to degenerate intervals.
func (p Pose) Cast() PoseInterval {
	return PoseInterval{
		Position: interval.NewVec3(p.Position),
		Rotation: interval.NewVec3(p.Rotation),
	}
}

// InterpolateInterval interpolates the poses at an interval time. Each
// parameter encloses its whole trajectory for t in the given interval.
func InterpolateInterval(p0, p1 Pose, t interval.Interval) PoseInterval {
	i0 := p0.Cast()
	i1 := p1.Cast()
	out := PoseInterval{
		Position: i0.Position.Add(i1.Position.Sub(i0.Position).Mul(t)),
		Rotation: i0.Rotation.Add(i1.Rotation.Sub(i0.Rotation).Mul(t)),
	}
	// A parameter that does not move is exact at every t; keeping it a
	// point interval (outward rounding would widen an exact zero) lets
	// RotationMatrix recognize rotations about Z.
	for k := 0; k < 3; k++ {
		if p0.Position[k] == p1.Position[k] {
			out.Position[k] = i0.Position[k]
		}
		if p0.Rotation[k] == p1.Rotation[k] {
			out.Rotation[k] = i0.Rotation[k]
		}
	}
	return out
}

// RotationMatrix returns an enclosure of the rotation matrices of every
// pose in the interval pose. Planar rotations (axis exactly Z) use the
// trigonometric enclosures directly; full 3D rotations use Rodrigues'
// formula
//
//	R = I + sinc(θ)·W + cosc(θ)·W²
//
// with W the cross-product matrix of the axis-angle vector, so the
// θ -> 0 singularity of the normalized form never appears.
func (p PoseInterval) RotationMatrix() interval.Mat3 {
	w := p.Rotation
	if w[0].Lo == 0 && w[0].Hi == 0 && w[1].Lo == 0 && w[1].Hi == 0 {
		return rotationAboutZ(w[2])
	}

	s := w.LenSqr()
	w1 := skewInterval(w)
	w2 := w1.Mul3(w1)
	return interval.Ident3().
		Add(w1.Scale(sincSquared(s))).
		Add(w2.Scale(coscSquared(s)))
}

func rotationAboutZ(theta interval.Interval) interval.Mat3 {
	c := theta.Cos()
	sn := theta.Sin()
	m := interval.Ident3()
	m.Set(0, 0, c)
	m.Set(1, 0, sn)
	m.Set(0, 1, sn.Neg())
	m.Set(1, 1, c)
	return m
}

func skewInterval(w interval.Vec3) interval.Mat3 {
	zero := interval.NewPoint(0)
	var m interval.Mat3
	for i := range m {
		m[i] = zero
	}
	m.Set(0, 1, w[2].Neg())
	m.Set(0, 2, w[1])
	m.Set(1, 0, w[2])
	m.Set(1, 2, w[0].Neg())
	m.Set(2, 0, w[1].Neg())
	m.Set(2, 1, w[0])
	return m
}

// sincSquared encloses sin(θ)/θ as a function of s = θ². For small s the
// alternating Taylor series brackets the value (terms decrease for
// s <= 20); larger rotations fall back to the global range of sinc.
func sincSquared(s interval.Interval) interval.Interval {
	if s.Hi <= 9 {
		one := interval.NewPoint(1)
		lower := one.Sub(s.MulFloat(1.0 / 6.0))
		upper := lower.Add(s.Sqr().MulFloat(1.0 / 120.0))
		return interval.Interval{Lo: math.Max(lower.Lo, -0.2172336282112217), Hi: math.Min(upper.Hi, 1)}
	}
	return interval.Interval{Lo: -0.2172336282112217, Hi: 1}
}

// coscSquared encloses (1-cos θ)/θ² as a function of s = θ².
func coscSquared(s interval.Interval) interval.Interval {
	if s.Hi <= 9 {
		half := interval.NewPoint(0.5)
		lower := half.Sub(s.MulFloat(1.0 / 24.0))
		upper := lower.Add(s.Sqr().MulFloat(1.0 / 720.0))
		return interval.Interval{Lo: math.Max(lower.Lo, 0), Hi: math.Min(upper.Hi, 0.5)}
	}
	return interval.Interval{Lo: 0, Hi: 0.5}
}
