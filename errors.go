// Package rigidipc implements conservative continuous collision detection
// for rigid bodies under screw motion: a hash-grid broad phase over swept
// bounding boxes, an interval-arithmetic narrow phase reporting
// conservative times of impact per feature pair, and the impact
// aggregation consumed by volume-based contact formulations.
package rigidipc

import "github.com/pkg/errors"

var (
	// ErrInvalidInput reports malformed parameters at the API boundary:
	// negative search intervals, non-positive tolerances, mismatched
	// body dimensions or feature indices out of range.
	ErrInvalidInput = errors.New("rigidipc: invalid input")

	// ErrNotImplemented reports a dimension/feature combination with no
	// distance or containment formulation (edge-vertex in 3D,
	// edge-edge and face-vertex in 2D).
	ErrNotImplemented = errors.New("rigidipc: not implemented")
)
