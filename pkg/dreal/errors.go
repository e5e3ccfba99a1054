package dreal

import "errors"

// The four error kinds named in spec §7. All other conditions — empty
// boxes, zero-effect prunes, infeasible branches — are normal control
// flow, not errors. Contractors never fail; they narrow or leave
// unchanged.
var (
	// ErrInterrupted is returned when the process-wide interrupt flag
	// was observed set at a poll point.
	ErrInterrupted = errors.New("dreal: interrupted")

	// ErrSolverBackendUnknown is returned when the underlying SAT
	// engine reports an internal failure rather than sat/unsat. This is
	// fatal and is always surfaced to the caller.
	ErrSolverBackendUnknown = errors.New("dreal: sat backend returned unknown")

	// ErrUnsupported is returned when the theory layer meets a construct
	// it cannot handle: a contractor with an unknown kind tag, or a
	// Minimize objective that cannot be evaluated over the witness box
	// (e.g. a Div whose divisor interval contains zero). Non-linear atoms
	// given to the polytope contractor are skipped, not reported.
	ErrUnsupported = errors.New("dreal: unsupported formula construct")

	// ErrInvalidConfiguration is returned for a structurally invalid
	// Config, e.g. a non-positive precision.
	ErrInvalidConfiguration = errors.New("dreal: invalid configuration")
)
