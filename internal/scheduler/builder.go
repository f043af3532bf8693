package scheduler

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// Builder is a narrow wrapper over cpmodel.Builder exposing the handful of
// "capabilities" the objective and constraint code actually need: posting a
// linear constraint and reifying an equality or an at-least-k bound.
// constraints.go and objective.go post constraints only through these
// methods, but they (and project.go) still use cpmodel's variable and
// linear-expression types and solution accessors directly, so swapping the
// backing CP-SAT binding reaches those files too.
type Builder struct {
	cp *cpmodel.Builder
}

// NewBuilder allocates a fresh, empty model builder for one solve.
func NewBuilder() *Builder {
	return &Builder{cp: cpmodel.NewCpModelBuilder()}
}

// CP exposes the underlying cpmodel builder to the solver driver, which is
// the only other file in this package allowed to call cpmodel.Model /
// cpmodel.SolveCpModel directly.
func (b *Builder) CP() *cpmodel.Builder {
	return b.cp
}

// BoolVar allocates a named Boolean decision or auxiliary variable.
func (b *Builder) BoolVar(name string) cpmodel.BoolVar {
	return b.cp.NewBoolVar().WithName(name)
}

// IntVar allocates a named integer variable ranging over [lo, hi].
func (b *Builder) IntVar(name string, lo, hi int64) cpmodel.IntVar {
	return b.cp.NewIntVarFromDomain(cpmodel.NewDomain(lo, hi)).WithName(name)
}

// Sum builds a linear expression over the given Boolean variables.
func Sum(vars ...cpmodel.BoolVar) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, v := range vars {
		expr.Add(v)
	}
	return expr
}

// PostEquality posts expr == value unconditionally.
func (b *Builder) PostEquality(expr *cpmodel.LinearExpr, value int64) {
	b.cp.AddEquality(expr, cpmodel.NewConstant(value))
}

// PostLessOrEqual posts expr <= value unconditionally.
func (b *Builder) PostLessOrEqual(expr *cpmodel.LinearExpr, value int64) {
	b.cp.AddLessOrEqual(expr, cpmodel.NewConstant(value))
}

// PostAtLeast posts expr >= value, only enforced when enforcedBy holds. Used
// by H4's conditional minimum (present[t] => total[t] >= min_classes).
func (b *Builder) PostAtLeast(expr *cpmodel.LinearExpr, value int64, enforcedBy cpmodel.BoolVar) {
	b.cp.AddLessOrEqual(cpmodel.NewConstant(value), expr).OnlyEnforceIf(enforcedBy)
}

// ReifyEquals returns a Boolean lit such that lit <=> (expr == value), posted
// as the two half-reified implications the design notes require: a single
// half-reification is not sufficient for a maximization objective because
// the solver would be free to leave bonus literals false even when their
// condition holds.
func (b *Builder) ReifyEquals(name string, expr *cpmodel.LinearExpr, value int64) cpmodel.BoolVar {
	lit := b.BoolVar(name)
	b.cp.AddEquality(expr, cpmodel.NewConstant(value)).OnlyEnforceIf(lit)
	b.cp.AddNotEqual(expr, cpmodel.NewConstant(value)).OnlyEnforceIf(lit.Not())
	return lit
}

// ReifyAtLeast returns a Boolean lit such that lit <=> (expr >= value), using
// the same half-reified-pair convention as ReifyEquals. Used for H4's
// present[t] <=> total[t] >= 1 and for the S5/S6 "is assigned at all"
// literal.
func (b *Builder) ReifyAtLeast(name string, expr *cpmodel.LinearExpr, value int64) cpmodel.BoolVar {
	lit := b.BoolVar(name)
	b.cp.AddLessOrEqual(cpmodel.NewConstant(value), expr).OnlyEnforceIf(lit)
	b.cp.AddLessOrEqual(expr, cpmodel.NewConstant(value-1)).OnlyEnforceIf(lit.Not())
	return lit
}

// FixedBool allocates a named Boolean variable pinned to a constant value,
// for bookkeeping positions (e.g. an available slot with no eligible
// decision key) that still need a literal to participate in a downstream
// reified chain.
func (b *Builder) FixedBool(name string, value bool) cpmodel.BoolVar {
	v := b.BoolVar(name)
	target := int64(0)
	if value {
		target = 1
	}
	b.PostEquality(Sum(v), target)
	return v
}

// Maximize sets the model's objective to maximize the given linear
// expression. objective.go calls this once after every soft-constraint term
// has been added to the accumulated expression.
func (b *Builder) Maximize(expr *cpmodel.LinearExpr) {
	b.cp.Maximize(expr)
}
