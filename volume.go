package rigidipc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// SpaceTimeCollisionVolume computes the space-time interference volume of
// an edge for a fixed time of impact:
//
//	V = (1 - τ) * sqrt(ε²·‖e(τ)‖² + (U·e(τ)⊥)²)
//
// where e(τ) is the edge vector at the time of impact, U the
// displacement of the contact point at parameter alpha along the edge,
// and epsilon the caller-supplied time-scale regularization keeping the
// volume nonzero for grazing contacts. Purely algebraic, so the outer
// layer can differentiate it through the inputs.
func SpaceTimeCollisionVolume(vi, vj, ui, uj mgl64.Vec2, toi, alpha, epsilon float64) float64 {
	e := vj.Add(uj.Mul(toi)).Sub(vi.Add(ui.Mul(toi)))
	ePerp := mgl64.Vec2{-e.Y(), e.X()}
	u := ui.Mul(1 - alpha).Add(uj.Mul(alpha))

	proj := u.Dot(ePerp)
	return (1 - toi) * math.Sqrt(epsilon*epsilon*e.LenSqr()+proj*proj)
}

// ComputeVolumesFixedTOI returns one space-time interference volume per
// edge of the flattened scene (V vertices, U displacements, E edges).
// Edges without an assigned impact in edgeImpactMap get volume zero; an
// assigned edge uses the time of impact of its assigned edge-edge impact
// and its own side's contact parameter.
func ComputeVolumesFixedTOI(
	v, u []mgl64.Vec2,
	e [][2]int,
	eeImpacts []EdgeEdgeImpact,
	edgeImpactMap []int,
	epsilon float64,
) ([]float64, error) {
	if len(v) != len(u) {
		return nil, errors.Wrapf(ErrInvalidInput, "got %d vertices but %d displacements", len(v), len(u))
	}
	if len(edgeImpactMap) != len(e) {
		return nil, errors.Wrapf(ErrInvalidInput, "got %d edges but %d map entries", len(e), len(edgeImpactMap))
	}

	volumes := make([]float64, len(e))
	for eid, impactIdx := range edgeImpactMap {
		if impactIdx < 0 {
			continue
		}
		if impactIdx >= len(eeImpacts) {
			return nil, errors.Wrapf(ErrInvalidInput, "impact index %d out of range", impactIdx)
		}
		impact := eeImpacts[impactIdx]

		alpha := impact.AlphaA
		if eid == impact.EdgeB && eid != impact.EdgeA {
			alpha = impact.AlphaB
		}

		vi, vj := e[eid][0], e[eid][1]
		if vi < 0 || vi >= len(v) || vj < 0 || vj >= len(v) {
			return nil, errors.Wrapf(ErrInvalidInput, "edge %d out of range", eid)
		}
		volumes[eid] = SpaceTimeCollisionVolume(v[vi], v[vj], u[vi], u[vj], impact.TOI, alpha, epsilon)
	}
	return volumes, nil
}
