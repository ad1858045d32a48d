package interval

import "github.com/go-gl/mathgl/mgl64"

// Vec2 is a 2D vector with interval components. The method set mirrors
// mgl64.Vec2 so the double and interval code paths read the same.
type Vec2 [2]Interval

// NewVec2 lifts a point vector to degenerate intervals.
func NewVec2(v mgl64.Vec2) Vec2 {
	return Vec2{NewPoint(v.X()), NewPoint(v.Y())}
}

func (v Vec2) X() Interval { return v[0] }
func (v Vec2) Y() Interval { return v[1] }

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v[0].Add(o[0]), v[1].Add(o[1])}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v[0].Sub(o[0]), v[1].Sub(o[1])}
}

// Mul scales the vector by the interval scalar s.
func (v Vec2) Mul(s Interval) Vec2 {
	return Vec2{v[0].Mul(s), v[1].Mul(s)}
}

func (v Vec2) Dot(o Vec2) Interval {
	return v[0].Mul(o[0]).Add(v[1].Mul(o[1]))
}

// Cross returns the z component of the 2D cross product.
func (v Vec2) Cross(o Vec2) Interval {
	return v[0].Mul(o[1]).Sub(v[1].Mul(o[0]))
}

func (v Vec2) LenSqr() Interval {
	return v[0].Sqr().Add(v[1].Sqr())
}

// Vec3 is a 3D vector with interval components.
type Vec3 [3]Interval

// NewVec3 lifts a point vector to degenerate intervals.
func NewVec3(v mgl64.Vec3) Vec3 {
	return Vec3{NewPoint(v.X()), NewPoint(v.Y()), NewPoint(v.Z())}
}

func (v Vec3) X() Interval { return v[0] }
func (v Vec3) Y() Interval { return v[1] }
func (v Vec3) Z() Interval { return v[2] }

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0].Add(o[0]), v[1].Add(o[1]), v[2].Add(o[2])}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0].Sub(o[0]), v[1].Sub(o[1]), v[2].Sub(o[2])}
}

// Mul scales the vector by the interval scalar s.
func (v Vec3) Mul(s Interval) Vec3 {
	return Vec3{v[0].Mul(s), v[1].Mul(s), v[2].Mul(s)}
}

func (v Vec3) Dot(o Vec3) Interval {
	return v[0].Mul(o[0]).Add(v[1].Mul(o[1])).Add(v[2].Mul(o[2]))
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1].Mul(o[2]).Sub(v[2].Mul(o[1])),
		v[2].Mul(o[0]).Sub(v[0].Mul(o[2])),
		v[0].Mul(o[1]).Sub(v[1].Mul(o[0])),
	}
}

func (v Vec3) LenSqr() Interval {
	return v[0].Sqr().Add(v[1].Sqr()).Add(v[2].Sqr())
}

// XY projects onto the plane; planar geometry lives in the XY components.
func (v Vec3) XY() Vec2 {
	return Vec2{v[0], v[1]}
}

// Mat3 is a 3x3 interval matrix in column-major order, the same layout as
// mgl64.Mat3.
type Mat3 [9]Interval

// Ident3 returns the identity matrix with degenerate components.
func Ident3() Mat3 {
	var m Mat3
	for i := range m {
		m[i] = NewPoint(0)
	}
	m[0] = NewPoint(1)
	m[4] = NewPoint(1)
	m[8] = NewPoint(1)
	return m
}

// At returns the element at (row, col).
func (m Mat3) At(row, col int) Interval {
	return m[col*3+row]
}

// Set writes the element at (row, col).
func (m *Mat3) Set(row, col int, v Interval) {
	m[col*3+row] = v
}

// Mul3x1 returns m * v.
func (m Mat3) Mul3x1(v Vec3) Vec3 {
	return Vec3{
		m[0].Mul(v[0]).Add(m[3].Mul(v[1])).Add(m[6].Mul(v[2])),
		m[1].Mul(v[0]).Add(m[4].Mul(v[1])).Add(m[7].Mul(v[2])),
		m[2].Mul(v[0]).Add(m[5].Mul(v[1])).Add(m[8].Mul(v[2])),
	}
}

// Add returns the element-wise sum m + n.
func (m Mat3) Add(n Mat3) Mat3 {
	var out Mat3
	for i := range m {
		out[i] = m[i].Add(n[i])
	}
	return out
}

// Scale returns m with every element multiplied by s.
func (m Mat3) Scale(s Interval) Mat3 {
	var out Mat3
	for i := range m {
		out[i] = m[i].Mul(s)
	}
	return out
}

// Mul3 returns the matrix product m * n.
func (m Mat3) Mul3(n Mat3) Mat3 {
	var out Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			s := m.At(row, 0).Mul(n.At(0, col))
			s = s.Add(m.At(row, 1).Mul(n.At(1, col)))
			s = s.Add(m.At(row, 2).Mul(n.At(2, col)))
			out.Set(row, col, s)
		}
	}
	return out
}
