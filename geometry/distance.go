package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fabiodr/rigid-ipc/interval"
)

// The signed distances below are scaled by the (non-unit) length of the
// supporting feature: they share roots with the true distances, which is
// all the root finder needs, and avoiding the normalization keeps the
// interval enclosures tight.

// cross2 returns the z component of the 2D cross product.
func cross2(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// PointLineSignedDistance returns the signed area-scaled distance from p
// to the line through a and b. Positive when p lies to the left of a→b.
func PointLineSignedDistance(p, a, b mgl64.Vec2) float64 {
	return cross2(b.Sub(a), p.Sub(a))
}

// PointLineSignedDistanceInterval is the interval extension of
// PointLineSignedDistance.
func PointLineSignedDistanceInterval(p, a, b interval.Vec2) interval.Interval {
	return b.Sub(a).Cross(p.Sub(a))
}

// LineLineSignedDistance returns the triple product of the two line
// directions with the separation vector: zero exactly when the two lines
// are coplanar, i.e. when two skew segments can touch.
func LineLineSignedDistance(a0, a1, b0, b1 mgl64.Vec3) float64 {
	return b0.Sub(a0).Dot(a1.Sub(a0).Cross(b1.Sub(b0)))
}

// LineLineSignedDistanceInterval is the interval extension of
// LineLineSignedDistance.
func LineLineSignedDistanceInterval(a0, a1, b0, b1 interval.Vec3) interval.Interval {
	return b0.Sub(a0).Dot(a1.Sub(a0).Cross(b1.Sub(b0)))
}

// TriangleNormal returns the normal of the triangle (a, b, c). When
// normalized is false the raw cross product is returned.
func TriangleNormal(a, b, c mgl64.Vec3, normalized bool) mgl64.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if normalized {
		return n.Normalize()
	}
	return n
}

// TriangleNormalInterval returns the unnormalized interval normal of the
// triangle (a, b, c).
func TriangleNormalInterval(a, b, c interval.Vec3) interval.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// PointPlaneSignedDistance returns the normal-scaled signed distance from
// p to the plane through a with normal n.
func PointPlaneSignedDistance(p, a, n mgl64.Vec3) float64 {
	return p.Sub(a).Dot(n)
}

// PointPlaneSignedDistanceInterval is the interval extension of
// PointPlaneSignedDistance.
func PointPlaneSignedDistanceInterval(p, a, n interval.Vec3) interval.Interval {
	return p.Sub(a).Dot(n)
}

// PointTriangleSignedDistance returns the signed distance from p to the
// supporting plane of the triangle (a, b, c), scaled by the unnormalized
// normal.
func PointTriangleSignedDistance(p, a, b, c mgl64.Vec3) float64 {
	return PointPlaneSignedDistance(p, a, TriangleNormal(a, b, c, false))
}

// PointTriangleSignedDistanceInterval is the interval extension of
// PointTriangleSignedDistance.
func PointTriangleSignedDistanceInterval(p, a, b, c interval.Vec3) interval.Interval {
	return PointPlaneSignedDistanceInterval(p, a, TriangleNormalInterval(a, b, c))
}
