package rigidipc

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fabiodr/rigid-ipc/physics"
)

const (
	DEFAULT_WORKERS         = 1
	DEFAULT_CELL_SIZE_RATIO = 1.0
)

// Detector runs one continuous collision detection pass: a broad phase
// producing candidate feature pairs, then a per-candidate narrow phase
// computing conservative times of impact. Zero-valued fields take the
// package defaults. Bodies and poses are borrowed read-only; the
// returned impact lists are owned by the caller.
type Detector struct {
	Method DetectionMethod
	// Types masks the feature pairings to consider; zero means all.
	Types CollisionType
	// EarliestTOI bounds the search interval to [0, EarliestTOI].
	EarliestTOI float64
	// Tolerance bounds the width of the final TOI enclosure.
	Tolerance float64
	// InflationRadius grows every swept bounding box uniformly.
	InflationRadius float64
	// CellSizeRatio scales the hash-grid cell size relative to the mean
	// swept edge extent; values below 1 are clamped to 1.
	CellSizeRatio float64
	Workers       int
	Logger        *zap.Logger
}

func (d *Detector) defaults() Detector {
	resolved := *d
	if resolved.Types == 0 {
		resolved.Types = AllCollisions
	}
	if resolved.EarliestTOI == 0 {
		resolved.EarliestTOI = DEFAULT_EARLIEST_TOI
	}
	if resolved.Tolerance == 0 {
		resolved.Tolerance = DEFAULT_TOI_TOLERANCE
	}
	if resolved.CellSizeRatio == 0 {
		resolved.CellSizeRatio = DEFAULT_CELL_SIZE_RATIO
	}
	if resolved.Workers < DEFAULT_WORKERS {
		resolved.Workers = DEFAULT_WORKERS
	}
	if resolved.Logger == nil {
		resolved.Logger = zap.NewNop()
	}
	return resolved
}

// DetectCollisions finds all impacts between the bodies as they screw
// from their t=0 poses to their t=1 poses. Per-candidate narrow-phase
// errors are aggregated; the impacts from unaffected candidates are
// still returned alongside the combined error.
func (d *Detector) DetectCollisions(
	bodies []*physics.RigidBody,
	posesT0, posesT1 []physics.Pose,
) (*Impacts, error) {
	cfg := d.defaults()
	if err := validateScene(bodies, posesT0, posesT1, cfg.EarliestTOI, cfg.Tolerance); err != nil {
		return nil, err
	}

	impacts := &Impacts{}
	if len(bodies) == 0 {
		return impacts, nil
	}

	candidates := cfg.detectCandidates(bodies, posesT0, posesT1)
	cfg.Logger.Debug("broad phase",
		zap.Int("edge_vertex_candidates", len(candidates.EdgeVertex)),
		zap.Int("edge_edge_candidates", len(candidates.EdgeEdge)),
		zap.Int("face_vertex_candidates", len(candidates.FaceVertex)),
	)

	err := cfg.narrowPhase(bodies, posesT0, posesT1, candidates, impacts)
	impacts.sortAll()
	cfg.Logger.Debug("narrow phase",
		zap.Int("edge_vertex_impacts", len(impacts.EdgeVertex)),
		zap.Int("edge_edge_impacts", len(impacts.EdgeEdge)),
		zap.Int("face_vertex_impacts", len(impacts.FaceVertex)),
	)
	return impacts, err
}

// DetectCandidates exposes the broad phase on its own: candidate pairs
// whose swept bounding volumes may interact, before any narrow-phase
// work.
func (d *Detector) DetectCandidates(
	bodies []*physics.RigidBody,
	posesT0, posesT1 []physics.Pose,
) (*Candidates, error) {
	cfg := d.defaults()
	if err := validateScene(bodies, posesT0, posesT1, cfg.EarliestTOI, cfg.Tolerance); err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return &Candidates{}, nil
	}
	return cfg.detectCandidates(bodies, posesT0, posesT1), nil
}

func (d *Detector) detectCandidates(
	bodies []*physics.RigidBody,
	posesT0, posesT1 []physics.Pose,
) *Candidates {
	if d.Method == HashGrid {
		return detectCandidatesHashGrid(bodies, posesT0, posesT1, d.Types, d.InflationRadius, d.CellSizeRatio)
	}
	return detectCandidatesBruteForce(bodies, d.Types)
}

// narrowPhase runs every candidate through its TOI query. Each candidate
// writes into its own result slot, so the output is identical no matter
// how the work is scheduled across workers.
func (d *Detector) narrowPhase(
	bodies []*physics.RigidBody,
	posesT0, posesT1 []physics.Pose,
	candidates *Candidates,
	impacts *Impacts,
) error {
	var detectErr error

	evResults := make([]*EdgeVertexImpact, len(candidates.EdgeVertex))
	evErrs := make([]error, len(candidates.EdgeVertex))
	task(d.Workers, candidates.EdgeVertex, func(i int, c EdgeVertexCandidate) {
		toi, alpha, ok, err := ComputeEdgeVertexTOI(
			bodies[c.VertexBody], posesT0[c.VertexBody], posesT1[c.VertexBody], c.VertexID,
			bodies[c.EdgeBody], posesT0[c.EdgeBody], posesT1[c.EdgeBody], c.EdgeID,
			d.EarliestTOI, d.Tolerance,
		)
		if err != nil {
			evErrs[i] = errors.Wrapf(err, "edge %d of body %d vs vertex %d of body %d",
				c.EdgeID, c.EdgeBody, c.VertexID, c.VertexBody)
			return
		}
		if ok {
			evResults[i] = &EdgeVertexImpact{
				TOI: toi, EdgeBody: c.EdgeBody, EdgeID: c.EdgeID,
				Alpha: alpha, VertexBody: c.VertexBody, VertexID: c.VertexID,
			}
		}
	})
	for i, impact := range evResults {
		if impact != nil {
			impacts.EdgeVertex = append(impacts.EdgeVertex, *impact)
		}
		detectErr = multierr.Append(detectErr, evErrs[i])
	}

	eeResults := make([]*EdgeEdgeImpact, len(candidates.EdgeEdge))
	eeErrs := make([]error, len(candidates.EdgeEdge))
	task(d.Workers, candidates.EdgeEdge, func(i int, c EdgeEdgeCandidate) {
		toi, alphaA, alphaB, ok, err := ComputeEdgeEdgeTOI(
			bodies[c.BodyA], posesT0[c.BodyA], posesT1[c.BodyA], c.EdgeA,
			bodies[c.BodyB], posesT0[c.BodyB], posesT1[c.BodyB], c.EdgeB,
			d.EarliestTOI, d.Tolerance,
		)
		if err != nil {
			eeErrs[i] = errors.Wrapf(err, "edge %d of body %d vs edge %d of body %d",
				c.EdgeA, c.BodyA, c.EdgeB, c.BodyB)
			return
		}
		if ok {
			eeResults[i] = &EdgeEdgeImpact{
				TOI: toi, BodyA: c.BodyA, EdgeA: c.EdgeA, AlphaA: alphaA,
				BodyB: c.BodyB, EdgeB: c.EdgeB, AlphaB: alphaB,
			}
		}
	})
	for i, impact := range eeResults {
		if impact != nil {
			impacts.EdgeEdge = append(impacts.EdgeEdge, *impact)
		}
		detectErr = multierr.Append(detectErr, eeErrs[i])
	}

	fvResults := make([]*FaceVertexImpact, len(candidates.FaceVertex))
	fvErrs := make([]error, len(candidates.FaceVertex))
	task(d.Workers, candidates.FaceVertex, func(i int, c FaceVertexCandidate) {
		toi, u, v, ok, err := ComputeFaceVertexTOI(
			bodies[c.VertexBody], posesT0[c.VertexBody], posesT1[c.VertexBody], c.VertexID,
			bodies[c.FaceBody], posesT0[c.FaceBody], posesT1[c.FaceBody], c.FaceID,
			d.EarliestTOI, d.Tolerance,
		)
		if err != nil {
			fvErrs[i] = errors.Wrapf(err, "face %d of body %d vs vertex %d of body %d",
				c.FaceID, c.FaceBody, c.VertexID, c.VertexBody)
			return
		}
		if ok {
			fvResults[i] = &FaceVertexImpact{
				TOI: toi, FaceBody: c.FaceBody, FaceID: c.FaceID,
				U: u, V: v, VertexBody: c.VertexBody, VertexID: c.VertexID,
			}
		}
	})
	for i, impact := range fvResults {
		if impact != nil {
			impacts.FaceVertex = append(impacts.FaceVertex, *impact)
		}
		detectErr = multierr.Append(detectErr, fvErrs[i])
	}

	return detectErr
}

func validateScene(bodies []*physics.RigidBody, posesT0, posesT1 []physics.Pose, earliestTOI, tolerance float64) error {
	if len(posesT0) != len(bodies) || len(posesT1) != len(bodies) {
		return errors.Wrapf(ErrInvalidInput, "got %d bodies but %d/%d poses",
			len(bodies), len(posesT0), len(posesT1))
	}
	if earliestTOI < 0 {
		return errors.Wrapf(ErrInvalidInput, "earliest TOI %g", earliestTOI)
	}
	if tolerance <= 0 {
		return errors.Wrapf(ErrInvalidInput, "tolerance %g", tolerance)
	}
	for i, body := range bodies {
		if body == nil {
			return errors.Wrapf(ErrInvalidInput, "body %d is nil", i)
		}
		if body.Dim() != bodies[0].Dim() {
			return errors.Wrapf(ErrInvalidInput, "body %d is %dD, body 0 is %dD",
				i, body.Dim(), bodies[0].Dim())
		}
	}
	return nil
}

// DetectCollisions runs a detection pass with the package defaults for
// tolerance, search interval and grid sizing.
func DetectCollisions(
	bodies []*physics.RigidBody,
	posesT0, posesT1 []physics.Pose,
	types CollisionType,
	method DetectionMethod,
) (*Impacts, error) {
	d := Detector{Method: method, Types: types}
	return d.DetectCollisions(bodies, posesT0, posesT1)
}
