package interval

import (
	"math"

	"github.com/pkg/errors"
)

// FindRoot locates the earliest sub-interval of domain on which f may
// vanish while the containment predicate may hold.
//
// f must be an interval extension of the underlying real function: for
// any point t in J, f(t) lies in the interval f(J). inside prunes roots
// of the supporting-line distance that fall outside the finite feature;
// True and Maybe both keep a sub-interval alive, only False discards it.
//
// The search is a depth-first bisection over an explicit stack, pushing
// the right half before the left so the leftmost surviving sub-interval
// is reached first. A sub-interval J survives when 0 ∈ f(J) and
// inside(J) != False; it is returned once width(J) <= tol, so the
// reported enclosure is a conservative bound on the first root.
//
// A false return with a nil error means no root was found; errors from f
// or inside abort the search and propagate unchanged.
func FindRoot(
	f func(Interval) (Interval, error),
	inside func(Interval) (Tristate, error),
	domain Interval,
	tol float64,
) (Interval, bool, error) {
	if math.IsNaN(tol) || tol <= 0 {
		return Interval{}, false, errors.Wrapf(ErrInvalidInput, "tolerance %g must be positive", tol)
	}
	if math.IsNaN(domain.Lo) || math.IsNaN(domain.Hi) || domain.Lo > domain.Hi {
		return Interval{}, false, errors.Wrapf(ErrInvalidInput, "domain %v", domain)
	}

	stack := make([]Interval, 0, 64)
	stack = append(stack, domain)

	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fj, err := f(j)
		if err != nil {
			return Interval{}, false, err
		}
		if !fj.ContainsZero() {
			continue
		}

		in, err := inside(j)
		if err != nil {
			return Interval{}, false, err
		}
		if in == False {
			continue
		}

		if j.Width() <= tol {
			return j, true, nil
		}

		mid := j.Mid()
		if mid <= j.Lo || mid >= j.Hi {
			// Cannot split further at this precision.
			return j, true, nil
		}
		// Closed halves share the midpoint; right half first so the left
		// half is processed next.
		stack = append(stack, Interval{Lo: mid, Hi: j.Hi}, Interval{Lo: j.Lo, Hi: mid})
	}

	return Interval{}, false, nil
}
