// Package geometry provides the distance, containment, and bounding-box
// primitives used by continuous collision detection. Most operations come
// in two variants: a double-precision one for parameter extraction at a
// fixed time, and an interval one whose result encloses the exact value
// for every point of its interval operands.
package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fabiodr/rigid-ipc/interval"
)

// AABB represents an axis-aligned bounding box. Planar scenes use boxes
// with a degenerate Z extent.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABBFromIntervals builds the box enclosing the interval coordinates.
func NewAABBFromIntervals(x, y, z interval.Interval) AABB {
	return AABB{
		Min: mgl64.Vec3{x.Lo, y.Lo, z.Lo},
		Max: mgl64.Vec3{x.Hi, y.Hi, z.Hi},
	}
}

// ContainsPoint checks if a point is inside the AABB.
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap.
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Union returns the smallest box containing both operands.
func (a AABB) Union(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{
			min(a.Min.X(), other.Min.X()),
			min(a.Min.Y(), other.Min.Y()),
			min(a.Min.Z(), other.Min.Z()),
		},
		Max: mgl64.Vec3{
			max(a.Max.X(), other.Max.X()),
			max(a.Max.Y(), other.Max.Y()),
			max(a.Max.Z(), other.Max.Z()),
		},
	}
}

// Inflated returns the box grown by r on every side (uniform Minkowski
// inflation).
func (a AABB) Inflated(r float64) AABB {
	if r == 0 {
		return a
	}
	d := mgl64.Vec3{r, r, r}
	return AABB{Min: a.Min.Sub(d), Max: a.Max.Add(d)}
}

// MaxExtent returns the largest side length of the box.
func (a AABB) MaxExtent() float64 {
	d := a.Max.Sub(a.Min)
	return max(d.X(), max(d.Y(), d.Z()))
}
