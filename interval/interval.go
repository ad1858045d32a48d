// Package interval implements sound arithmetic over closed real intervals.
//
// Every operation returns an interval that encloses the exact real result
// set of its operands. Outward rounding is applied with math.Nextafter on
// each computed endpoint: the hardware rounds to nearest (within half an
// ulp of the true value), so stepping one ulp outward yields a guaranteed
// enclosure. Transcendental functions step two ulps to cover the larger
// error bound of the math package.
//
// Tightness only affects how much callers have to subdivide, never
// soundness.
package interval

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrDomainSplit reports a division by an interval containing zero.
	// The caller must split the divisor before retrying.
	ErrDomainSplit = errors.New("interval: divisor contains zero")

	// ErrDomain reports an input outside the domain of an operation,
	// e.g. the square root of an entirely negative interval.
	ErrDomain = errors.New("interval: input outside operation domain")

	// ErrInvalidInput reports malformed parameters at a call boundary.
	ErrInvalidInput = errors.New("interval: invalid input")
)

// Tristate is the result of a comparison between intervals: it may hold
// for every point of the operands, for none, or only for some.
type Tristate uint8

const (
	False Tristate = iota
	True
	Maybe
)

func (t Tristate) String() string {
	switch t {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "maybe"
	}
}

// Interval is a closed interval [Lo, Hi] with Lo <= Hi. The zero value is
// the degenerate interval [0, 0]. Values are immutable after construction.
type Interval struct {
	Lo, Hi float64
}

// New returns the interval [lo, hi]. Endpoints are reordered if needed, so
// the empty interval stays unrepresentable.
func New(lo, hi float64) Interval {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Lo: lo, Hi: hi}
}

// NewPoint returns the degenerate interval [x, x].
func NewPoint(x float64) Interval {
	return Interval{Lo: x, Hi: x}
}

// Hull returns the smallest interval containing both operands.
func Hull(x, y Interval) Interval {
	return Interval{Lo: math.Min(x.Lo, y.Lo), Hi: math.Max(x.Hi, y.Hi)}
}

func (x Interval) String() string {
	return fmt.Sprintf("[%g, %g]", x.Lo, x.Hi)
}

// Width returns Hi - Lo.
func (x Interval) Width() float64 {
	return x.Hi - x.Lo
}

// Mid returns the midpoint, clamped into the interval.
func (x Interval) Mid() float64 {
	m := 0.5*x.Lo + 0.5*x.Hi
	if m < x.Lo {
		return x.Lo
	}
	if m > x.Hi {
		return x.Hi
	}
	return m
}

// Contains reports whether v lies in the interval.
func (x Interval) Contains(v float64) bool {
	return x.Lo <= v && v <= x.Hi
}

// ContainsZero reports whether Lo <= 0 <= Hi.
func (x Interval) ContainsZero() bool {
	return x.Lo <= 0 && 0 <= x.Hi
}

// Intersects reports whether the two intervals share a point.
func (x Interval) Intersects(y Interval) bool {
	return x.Lo <= y.Hi && y.Lo <= x.Hi
}

// ============================================================================
// Outward rounding
// ============================================================================

func down(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Nextafter(v, math.Inf(-1))
}

func up(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Nextafter(v, math.Inf(1))
}

func down2(v float64) float64 { return down(down(v)) }

func up2(v float64) float64 { return up(up(v)) }

// ============================================================================
// Arithmetic
// ============================================================================

// Add returns x + y.
func (x Interval) Add(y Interval) Interval {
	return Interval{Lo: down(x.Lo + y.Lo), Hi: up(x.Hi + y.Hi)}
}

// Sub returns x - y.
func (x Interval) Sub(y Interval) Interval {
	return Interval{Lo: down(x.Lo - y.Hi), Hi: up(x.Hi - y.Lo)}
}

// Neg returns -x. Negation is exact, no rounding step is needed.
func (x Interval) Neg() Interval {
	return Interval{Lo: -x.Hi, Hi: -x.Lo}
}

// Mul returns x * y.
func (x Interval) Mul(y Interval) Interval {
	p00 := x.Lo * y.Lo
	p01 := x.Lo * y.Hi
	p10 := x.Hi * y.Lo
	p11 := x.Hi * y.Hi
	lo := math.Min(math.Min(p00, p01), math.Min(p10, p11))
	hi := math.Max(math.Max(p00, p01), math.Max(p10, p11))
	return Interval{Lo: down(lo), Hi: up(hi)}
}

// MulFloat returns x scaled by the point value c.
func (x Interval) MulFloat(c float64) Interval {
	a, b := x.Lo*c, x.Hi*c
	if a > b {
		a, b = b, a
	}
	return Interval{Lo: down(a), Hi: up(b)}
}

// Div returns x / y. The divisor must not contain zero; callers that can
// split the divisor should do so and retry on ErrDomainSplit.
func (x Interval) Div(y Interval) (Interval, error) {
	if y.ContainsZero() {
		return Interval{}, errors.WithStack(ErrDomainSplit)
	}
	q00 := x.Lo / y.Lo
	q01 := x.Lo / y.Hi
	q10 := x.Hi / y.Lo
	q11 := x.Hi / y.Hi
	lo := math.Min(math.Min(q00, q01), math.Min(q10, q11))
	hi := math.Max(math.Max(q00, q01), math.Max(q10, q11))
	return Interval{Lo: down(lo), Hi: up(hi)}, nil
}

// Sqr returns x², tighter than x.Mul(x) because the operands are
// correlated: the square can never be negative.
func (x Interval) Sqr() Interval {
	ll, hh := x.Lo*x.Lo, x.Hi*x.Hi
	switch {
	case x.Lo >= 0:
		return Interval{Lo: down(ll), Hi: up(hh)}
	case x.Hi <= 0:
		return Interval{Lo: down(hh), Hi: up(ll)}
	default:
		return Interval{Lo: 0, Hi: up(math.Max(ll, hh))}
	}
}

// Sqrt returns the square root of x. An interval lying entirely below
// zero is a domain error; an interval that merely dips below zero is
// clamped at zero, since the dip is numerical noise around a root.
func (x Interval) Sqrt() (Interval, error) {
	if x.Hi < 0 {
		return Interval{}, errors.Wrapf(ErrDomain, "sqrt of %v", x)
	}
	lo := 0.0
	if x.Lo > 0 {
		lo = math.Max(0, down(math.Sqrt(x.Lo)))
	}
	return Interval{Lo: lo, Hi: up(math.Sqrt(x.Hi))}, nil
}

// Abs returns |x|.
func (x Interval) Abs() Interval {
	switch {
	case x.Lo >= 0:
		return x
	case x.Hi <= 0:
		return x.Neg()
	default:
		return Interval{Lo: 0, Hi: math.Max(-x.Lo, x.Hi)}
	}
}

// ============================================================================
// Comparisons
// ============================================================================

// LT reports whether x < y holds for every, no, or only some point pairs.
func (x Interval) LT(y Interval) Tristate {
	if x.Hi < y.Lo {
		return True
	}
	if x.Lo >= y.Hi {
		return False
	}
	return Maybe
}

// LE reports x <= y as a tri-state.
func (x Interval) LE(y Interval) Tristate {
	if x.Hi <= y.Lo {
		return True
	}
	if x.Lo > y.Hi {
		return False
	}
	return Maybe
}

// GT reports x > y as a tri-state.
func (x Interval) GT(y Interval) Tristate { return y.LT(x) }

// GE reports x >= y as a tri-state.
func (x Interval) GE(y Interval) Tristate { return y.LE(x) }

// ============================================================================
// Trigonometry
// ============================================================================

// Pi is an enclosure of π.
var Pi = Interval{Lo: down(math.Pi), Hi: up(math.Pi)}

var halfPi = Interval{Lo: down(math.Pi / 2), Hi: up(math.Pi / 2)}

// containsMultipleOf conservatively reports whether base + k*period lies
// in x for some integer k. The slop errs toward containment, which only
// widens the trigonometric result.
func containsMultipleOf(x Interval, base, period float64) bool {
	k := math.Floor((x.Lo - base) / period)
	for i := -1.0; i <= 2.0; i++ {
		m := base + (k+i)*period
		slop := 1e-12 * math.Max(1, math.Abs(m))
		if m >= x.Lo-slop && m <= x.Hi+slop {
			return true
		}
	}
	return false
}

// Cos returns an enclosure of cos over x.
func (x Interval) Cos() Interval {
	const twoPi = 2 * math.Pi
	if x.Width() >= twoPi {
		return Interval{Lo: -1, Hi: 1}
	}
	cl, ch := math.Cos(x.Lo), math.Cos(x.Hi)
	lo := down2(math.Min(cl, ch))
	hi := up2(math.Max(cl, ch))
	if containsMultipleOf(x, 0, twoPi) {
		hi = 1
	}
	if containsMultipleOf(x, math.Pi, twoPi) {
		lo = -1
	}
	return Interval{Lo: math.Max(lo, -1), Hi: math.Min(hi, 1)}
}

// Sin returns an enclosure of sin over x, via sin t = cos(t - π/2).
func (x Interval) Sin() Interval {
	return x.Sub(halfPi).Cos()
}

// Atan2 returns an enclosure of atan2 over the box [y] x [x]. atan2 has
// no interior critical points, so on a box that avoids the branch cut
// (the non-positive x-axis) the extremes sit on the corners. A box that
// may touch the cut gets the full range.
func Atan2(y, x Interval) Interval {
	if x.Lo <= 0 && y.ContainsZero() {
		return Interval{Lo: down2(-math.Pi), Hi: up2(math.Pi)}
	}
	v0 := math.Atan2(y.Lo, x.Lo)
	v1 := math.Atan2(y.Lo, x.Hi)
	v2 := math.Atan2(y.Hi, x.Lo)
	v3 := math.Atan2(y.Hi, x.Hi)
	lo := math.Min(math.Min(v0, v1), math.Min(v2, v3))
	hi := math.Max(math.Max(v0, v1), math.Max(v2, v3))
	return Interval{Lo: down2(lo), Hi: up2(hi)}
}
