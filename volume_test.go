package rigidipc

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestSpaceTimeCollisionVolume(t *testing.T) {
	vi := mgl64.Vec2{-1, 0}
	vj := mgl64.Vec2{1, 0}

	// A stationary edge: only the regularization term contributes, and
	// the volume shrinks linearly in the remaining time.
	got := SpaceTimeCollisionVolume(vi, vj, mgl64.Vec2{}, mgl64.Vec2{}, 0.5, 0.5, 0.1)
	want := 0.5 * 0.1 * 2 // (1 - toi) * epsilon * |e|
	if !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("stationary edge: got %v, want %v", got, want)
	}

	// A uniformly falling edge: the displacement projects fully onto
	// the edge normal.
	u := mgl64.Vec2{0, -1}
	got = SpaceTimeCollisionVolume(vi, vj, u, u, 0.5, 0.5, 0.1)
	want = 0.5 * math.Sqrt(0.1*0.1*4+4) // e(0.5) = (2, 0), U·e⊥ = -2
	if !scalar.EqualWithinAbs(got, want, 1e-12) {
		t.Errorf("falling edge: got %v, want %v", got, want)
	}

	// At toi = 1 the space-time wedge has no remaining extent.
	if got := SpaceTimeCollisionVolume(vi, vj, u, u, 1.0, 0.5, 0.1); got != 0 {
		t.Errorf("toi = 1: got %v, want 0", got)
	}

	// The contact-point displacement interpolates with alpha.
	ui := mgl64.Vec2{0, -2}
	uj := mgl64.Vec2{0, 0}
	atStart := SpaceTimeCollisionVolume(vi, vj, ui, uj, 0, 0, 0)
	atEnd := SpaceTimeCollisionVolume(vi, vj, ui, uj, 0, 1, 0)
	if !scalar.EqualWithinAbs(atStart, 4, 1e-12) {
		t.Errorf("alpha = 0: got %v, want 4", atStart)
	}
	if atEnd != 0 {
		t.Errorf("alpha = 1: got %v, want 0", atEnd)
	}
}

func TestComputeVolumesFixedTOI(t *testing.T) {
	// Two edges of a small scene; only edge 0 has an assigned impact.
	v := []mgl64.Vec2{{-1, 0}, {1, 0}, {-1, 1}, {1, 1}}
	u := []mgl64.Vec2{{0, 0}, {0, 0}, {0, -1}, {0, -1}}
	e := [][2]int{{0, 1}, {2, 3}}

	impacts := []EdgeEdgeImpact{
		{TOI: 0.5, EdgeA: 0, AlphaA: 0.5, EdgeB: 1, AlphaB: 0.25},
	}
	edgeImpactMap := []int{0, -1}

	volumes, err := ComputeVolumesFixedTOI(v, u, e, impacts, edgeImpactMap, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if len(volumes) != 2 {
		t.Fatalf("got %d volumes, want 2", len(volumes))
	}
	want := SpaceTimeCollisionVolume(v[0], v[1], u[0], u[1], 0.5, 0.5, 0.1)
	if !scalar.EqualWithinAbs(volumes[0], want, 1e-12) {
		t.Errorf("volumes[0] = %v, want %v", volumes[0], want)
	}
	if volumes[1] != 0 {
		t.Errorf("unassigned edge volume = %v, want 0", volumes[1])
	}

	// The assigned edge uses its own side's alpha.
	edgeImpactMap = []int{-1, 0}
	volumes, err = ComputeVolumesFixedTOI(v, u, e, impacts, edgeImpactMap, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	want = SpaceTimeCollisionVolume(v[2], v[3], u[2], u[3], 0.5, 0.25, 0.1)
	if !scalar.EqualWithinAbs(volumes[1], want, 1e-12) {
		t.Errorf("volumes[1] = %v, want %v", volumes[1], want)
	}
}

func TestComputeVolumesFixedTOIValidation(t *testing.T) {
	v := []mgl64.Vec2{{0, 0}}
	u := []mgl64.Vec2{{0, 0}, {0, 0}}
	if _, err := ComputeVolumesFixedTOI(v, u, nil, nil, nil, 0.1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("mismatched vertices/displacements: got %v, want ErrInvalidInput", err)
	}

	e := [][2]int{{0, 0}}
	if _, err := ComputeVolumesFixedTOI(v, v, e, nil, []int{3}, 0.1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("impact index out of range: got %v, want ErrInvalidInput", err)
	}
}
