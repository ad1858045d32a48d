package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/fabiodr/rigid-ipc/interval"
)

func iv2(x, y float64) interval.Vec2 {
	return interval.NewVec2(mgl64.Vec2{x, y})
}

func iv3(x, y, z float64) interval.Vec3 {
	return interval.NewVec3(mgl64.Vec3{x, y, z})
}

func TestIsPointAlongSegment(t *testing.T) {
	a := iv2(-1, 0)
	b := iv2(1, 0)

	cases := []struct {
		name string
		p    interval.Vec2
		want interval.Tristate
	}{
		{"midpoint", iv2(0, 0.5), interval.True},
		{"at endpoint", iv2(1, 0), interval.True},
		{"beyond endpoint", iv2(2, 0), interval.False},
		{"before start", iv2(-3, 1), interval.False},
	}
	for _, c := range cases {
		if got := IsPointAlongSegment(c.p, a, b); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}

	// Degenerate edge: the parameter is undefined, never prune.
	if got := IsPointAlongSegment(iv2(0, 0), iv2(1, 1), iv2(1, 1)); got != interval.Maybe {
		t.Errorf("degenerate edge: got %v, want maybe", got)
	}
}

func TestAreEdgesIntersecting(t *testing.T) {
	cases := []struct {
		name           string
		a0, a1, b0, b1 interval.Vec3
		want           interval.Tristate
	}{
		{
			"crossing at origin",
			iv3(-1, 0, 0), iv3(1, 0, 0), iv3(0, -1, 0), iv3(0, 1, 0),
			interval.True,
		},
		{
			"crossing point outside extents",
			iv3(-1, 0, 0), iv3(1, 0, 0), iv3(3, -1, 0), iv3(3, 1, 0),
			interval.False,
		},
		{
			"parallel",
			iv3(-1, 0, 0), iv3(1, 0, 0), iv3(-1, 1, 0), iv3(1, 1, 0),
			interval.Maybe,
		},
	}
	for _, c := range cases {
		if got := AreEdgesIntersecting(c.a0, c.a1, c.b0, c.b1); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsPointInsideTriangle(t *testing.T) {
	a := iv3(0, 0, 0)
	b := iv3(2, 0, 0)
	c := iv3(0, 2, 0)

	cases := []struct {
		name string
		p    interval.Vec3
		want interval.Tristate
	}{
		{"inside", iv3(0.5, 0.5, 1), interval.True},
		{"outside", iv3(3, 3, 0), interval.False},
		{"vertex", iv3(0, 0, 0), interval.True},
	}
	for _, cs := range cases {
		if got := IsPointInsideTriangle(cs.p, a, b, c); got != cs.want {
			t.Errorf("%s: got %v, want %v", cs.name, got, cs.want)
		}
	}
}

func TestPointSegmentParameter(t *testing.T) {
	a := mgl64.Vec2{-1, 0}
	b := mgl64.Vec2{1, 0}

	cases := []struct {
		p    mgl64.Vec2
		want float64
	}{
		{mgl64.Vec2{0, 1}, 0.5},
		{mgl64.Vec2{-1, 0}, 0},
		{mgl64.Vec2{1, 2}, 1},
		{mgl64.Vec2{4, 0}, 1}, // clamped
		{mgl64.Vec2{-9, 0}, 0},
	}
	for _, c := range cases {
		if got := PointSegmentParameter(c.p, a, b); !scalar.EqualWithinAbs(got, c.want, 1e-12) {
			t.Errorf("parameter of %v: got %v, want %v", c.p, got, c.want)
		}
	}
}

func TestEdgeEdgeParameters(t *testing.T) {
	a0 := mgl64.Vec3{-1, 0, 0}
	a1 := mgl64.Vec3{1, 0, 0}
	b0 := mgl64.Vec3{0.5, -1, 0}
	b1 := mgl64.Vec3{0.5, 1, 0}

	alphaA, alphaB := EdgeEdgeParameters(a0, a1, b0, b1)
	if !scalar.EqualWithinAbs(alphaA, 0.75, 1e-12) {
		t.Errorf("alphaA = %v, want 0.75", alphaA)
	}
	if !scalar.EqualWithinAbs(alphaB, 0.5, 1e-12) {
		t.Errorf("alphaB = %v, want 0.5", alphaB)
	}
}

func TestTriangleBarycentric(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{1, 0, 0}
	c := mgl64.Vec3{0, 1, 0}

	u, v := TriangleBarycentric(mgl64.Vec3{0.25, 0.5, 3}, a, b, c)
	if !scalar.EqualWithinAbs(u, 0.25, 1e-12) || !scalar.EqualWithinAbs(v, 0.5, 1e-12) {
		t.Errorf("barycentric = (%v, %v), want (0.25, 0.5)", u, v)
	}
}

func TestAABB(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	b := AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{2, 2, 2}}
	c := AABB{Min: mgl64.Vec3{3, 3, 3}, Max: mgl64.Vec3{4, 4, 4}}

	if !a.Overlaps(b) {
		t.Error("overlapping boxes reported disjoint")
	}
	if a.Overlaps(c) {
		t.Error("disjoint boxes reported overlapping")
	}
	// Touching faces count as overlap (closed boxes).
	d := AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}
	if !a.Overlaps(d) {
		t.Error("touching boxes reported disjoint")
	}

	u := a.Union(c)
	if u.Min != a.Min || u.Max != c.Max {
		t.Errorf("Union = %+v", u)
	}

	infl := a.Inflated(0.5)
	if !infl.ContainsPoint(mgl64.Vec3{-0.4, 0.5, 0.5}) {
		t.Error("inflated box should contain the grown margin")
	}
	if infl.Overlaps(c) {
		t.Error("inflation grew too far")
	}

	if got := b.MaxExtent(); !scalar.EqualWithinAbs(got, 1.5, 1e-12) {
		t.Errorf("MaxExtent = %v, want 1.5", got)
	}
}
