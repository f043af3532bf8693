package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	satpb "github.com/google/or-tools/ortools/sat/proto/sat_parameters"
)

// DriverOptions are the orthogonal options spec §4.4 allows exposing: a
// search deadline and a worker count, both mapped onto the CP-SAT
// implementation's own time-limit and num-workers parameters. Neither is
// required for correctness; both default to the solver's own defaults.
type DriverOptions struct {
	// Deadline, if non-zero, bounds the solver's search time. The HTTP front
	// end derives this from the inbound request's context.Context deadline;
	// the context itself is never passed into the solver library.
	Deadline time.Duration
	// Workers, if non-zero, bounds the solver's internal worker-thread
	// count. Those threads are an implementation detail of the CP-SAT
	// backend and never leak through this package's API.
	Workers int
}

// Solution is the raw, unprojected outcome of one solver invocation.
type Solution struct {
	Status     cmpb.CpSolverStatus
	Objective  float64
	Response   *cmpb.CpSolverResponse
	Diagnostic string
}

// Feasible reports whether the solver returned a usable assignment.
func (s *Solution) Feasible() bool {
	return s.Status == cmpb.CpSolverStatus_OPTIMAL || s.Status == cmpb.CpSolverStatus_FEASIBLE
}

// RunSolver invokes the CP-SAT solver on the model b has accumulated and
// returns its terminal status and response. It does not read ctx; callers
// derive opts.Deadline from it before the call — once the solve starts, it runs to
// completion or to the time limit, with no mid-solve cancellation, per the
// concurrency model in §5.
func RunSolver(ctx context.Context, b *Builder, opts DriverOptions) (*Solution, error) {
	model, err := b.CP().Model()
	if err != nil {
		return nil, fmt.Errorf("instantiate cp model: %w", err)
	}

	params := &satpb.SatParameters{}
	if opts.Deadline > 0 {
		seconds := opts.Deadline.Seconds()
		params.MaxTimeInSeconds = &seconds
	}
	if opts.Workers > 0 {
		workers := int32(opts.Workers)
		params.NumWorkers = &workers
	}

	response, err := cpmodel.SolveCpModelWithParameters(model, params)
	if err != nil {
		return nil, fmt.Errorf("solve cp model: %w", err)
	}

	status := response.GetStatus()
	sol := &Solution{
		Status:    status,
		Objective: response.GetObjectiveValue(),
		Response:  response,
	}
	if sol.Feasible() {
		return sol, nil
	}

	sol.Diagnostic = fmt.Sprintf("solver terminated with status %s; returning empty assignment", status)
	return sol, nil
}
