package scheduler

import (
	"context"
	"fmt"
)

// Options are the caller-facing knobs for one Solve invocation.
type Options struct {
	Driver DriverOptions
}

// Outcome is everything one Solve call produces: the projected result plus
// the raw solver status, for callers that want to persist both.
type Outcome struct {
	*Result
	Status    string
	Objective float64
}

// Solve runs the full pipeline for one campaign: build the eligibility set,
// post the hard constraints and weighted objective, invoke CP-SAT, and
// project the response back into shifts and shortages. It never mutates
// roster or weights.
func Solve(ctx context.Context, roster *Roster, weights Weights, opts Options) (*Outcome, error) {
	return SolveEligibility(ctx, roster, BuildEligibility(roster), weights, opts)
}

// SolveEligibility runs the same pipeline as Solve but accepts an
// already-computed eligibility set, letting a caller reuse one built from a
// cached key list (see FromKeys) when the roster has not changed since it
// was last computed.
func SolveEligibility(ctx context.Context, roster *Roster, elig *Eligibility, weights Weights, opts Options) (*Outcome, error) {
	b := NewBuilder()
	vars := PostHardConstraints(b, roster, elig)
	PostObjective(b, roster, elig, vars, weights.Sanitize())

	sol, err := RunSolver(ctx, b, opts.Driver)
	if err != nil {
		return nil, fmt.Errorf("run solver: %w", err)
	}

	result := Project(roster, elig, vars, sol)

	return &Outcome{
		Result:    result,
		Status:    sol.Status.String(),
		Objective: sol.Objective,
	}, nil
}
