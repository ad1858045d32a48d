package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/fabiodr/rigid-ipc/interval"
)

// Containment predicates decide whether the zero of a supporting-line (or
// supporting-plane) distance corresponds to contact with the finite
// feature. On intervals the answer is three-valued; degeneracies that
// prevent a decision (zero-length edges, parallel lines) yield Maybe so
// the root finder keeps refining instead of pruning a real contact.

// unitRange classifies an interval parameter against [0, 1].
func unitRange(alpha interval.Interval) interval.Tristate {
	if alpha.Hi < 0 || alpha.Lo > 1 {
		return interval.False
	}
	if alpha.Lo >= 0 && alpha.Hi <= 1 {
		return interval.True
	}
	return interval.Maybe
}

// and3 combines tri-states conjunctively.
func and3(a, b interval.Tristate) interval.Tristate {
	if a == interval.False || b == interval.False {
		return interval.False
	}
	if a == interval.True && b == interval.True {
		return interval.True
	}
	return interval.Maybe
}

// IsPointAlongSegment reports whether the projection of p onto the line
// through a and b lands within the segment.
func IsPointAlongSegment(p, a, b interval.Vec2) interval.Tristate {
	e := b.Sub(a)
	den := e.LenSqr()
	alpha, err := p.Sub(a).Dot(e).Div(den)
	if err != nil {
		// Degenerate edge; cannot rule the contact out.
		return interval.Maybe
	}
	return unitRange(alpha)
}

// AreEdgesIntersecting reports whether two coplanar-at-this-instant
// segments actually cross within both of their extents. The segment
// parameters come from
//
//	p + alpha*r = q + beta*s
//
// solved with cross products against n = r x s; parallel or degenerate
// configurations leave n*n containing zero and yield Maybe.
func AreEdgesIntersecting(a0, a1, b0, b1 interval.Vec3) interval.Tristate {
	r := a1.Sub(a0)
	s := b1.Sub(b0)
	n := r.Cross(s)
	nn := n.LenSqr()

	pq := b0.Sub(a0)
	alpha, err := pq.Cross(s).Dot(n).Div(nn)
	if err != nil {
		return interval.Maybe
	}
	beta, err := pq.Cross(r).Dot(n).Div(nn)
	if err != nil {
		return interval.Maybe
	}
	return and3(unitRange(alpha), unitRange(beta))
}

// IsPointInsideTriangle reports whether the projection of p onto the
// triangle's plane lies within the triangle. Each edge cross product is
// projected onto the normal; the point is inside when all three signs
// agree with the winding.
func IsPointInsideTriangle(p, a, b, c interval.Vec3) interval.Tristate {
	n := b.Sub(a).Cross(c.Sub(a))

	d0 := b.Sub(a).Cross(p.Sub(a)).Dot(n)
	d1 := c.Sub(b).Cross(p.Sub(b)).Dot(n)
	d2 := a.Sub(c).Cross(p.Sub(c)).Dot(n)

	state := func(d interval.Interval) interval.Tristate {
		if d.Lo >= 0 {
			return interval.True
		}
		if d.Hi < 0 {
			return interval.False
		}
		return interval.Maybe
	}
	return and3(and3(state(d0), state(d1)), state(d2))
}

// ============================================================================
// Double-precision parameter extraction
// ============================================================================

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PointSegmentParameter returns the parameter alpha in [0, 1] of the
// projection of p onto the segment a→b. A degenerate segment maps to 0.
func PointSegmentParameter(p, a, b mgl64.Vec2) float64 {
	e := b.Sub(a)
	den := e.LenSqr()
	if den == 0 {
		return 0
	}
	return clamp01(p.Sub(a).Dot(e) / den)
}

// EdgeEdgeParameters returns the parameters (alphaA, alphaB) of the
// closest points between the segments a0→a1 and b0→b1, clamped to their
// extents. Parallel segments fall back to projecting b0 onto edge A.
func EdgeEdgeParameters(a0, a1, b0, b1 mgl64.Vec3) (float64, float64) {
	r := a1.Sub(a0)
	s := b1.Sub(b0)
	n := r.Cross(s)
	nn := n.LenSqr()
	if nn == 0 {
		rr := r.LenSqr()
		if rr == 0 {
			return 0, 0
		}
		alphaA := clamp01(b0.Sub(a0).Dot(r) / rr)
		ss := s.LenSqr()
		if ss == 0 {
			return alphaA, 0
		}
		p := a0.Add(r.Mul(alphaA))
		return alphaA, clamp01(p.Sub(b0).Dot(s) / ss)
	}
	pq := b0.Sub(a0)
	alphaA := clamp01(pq.Cross(s).Dot(n) / nn)
	alphaB := clamp01(pq.Cross(r).Dot(n) / nn)
	return alphaA, alphaB
}

// TriangleBarycentric returns (u, v) with p ~ a + u*(b-a) + v*(c-a),
// computed for the projection of p onto the triangle's plane. A
// degenerate triangle maps to the first vertex.
func TriangleBarycentric(p, a, b, c mgl64.Vec3) (float64, float64) {
	e0 := b.Sub(a)
	e1 := c.Sub(a)
	w := p.Sub(a)

	d00 := e0.Dot(e0)
	d01 := e0.Dot(e1)
	d11 := e1.Dot(e1)
	d20 := w.Dot(e0)
	d21 := w.Dot(e1)

	den := d00*d11 - d01*d01
	if den == 0 {
		return 0, 0
	}
	u := (d11*d20 - d01*d21) / den
	v := (d00*d21 - d01*d20) / den
	return u, v
}
