package milp

import "context"

// Status reports the outcome of a solve. The strings are part of the external
// contract and must not be remapped by callers.
type Status string

const (
	StatusOptimal    Status = "Optimal"
	StatusInfeasible Status = "Infeasible"
	StatusUnbounded  Status = "Unbounded"
	StatusNotSolved  Status = "Not Solved"
	StatusUndefined  Status = "Undefined"
)

// Solution is the raw solver output: a status and, when optimal, the objective
// value and one value per model variable in column order.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Value returns the assignment of v, or 0 when the solution carries no value
// for it.
func (s *Solution) Value(v Var) float64 {
	if s == nil || v.id < 0 || v.id >= len(s.Values) {
		return 0
	}
	return s.Values[v.id]
}

// Solver turns a model into a solution. Implementations report solver outcomes
// (infeasible, unbounded, ...) through the solution status; the error return is
// reserved for adapter failures.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
