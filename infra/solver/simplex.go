package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/andig/evopt/core/milp"
)

var (
	errInfeasible = errors.New("relaxation infeasible")
	errUnbounded  = errors.New("relaxation unbounded")
)

// relaxation is the LP relaxation of a model under node-specific variable
// bounds. Bounds are stored per column so branching only needs to copy two
// slices.
type relaxation struct {
	model *milp.Model
	lower []float64
	upper []float64
}

// solve brings the relaxation into standard equality form and runs gonum's
// simplex on it. Each variable is shifted by its lower bound so the shifted
// variable is nonnegative; finite upper bounds and inequality rows receive
// slack columns.
func (r *relaxation) solve(tol float64) (obj float64, x []float64, err error) {
	n := r.model.NumVars()

	// Constant constraints carry no columns and would show up as zero rows,
	// which the simplex rejects. Check them here and drop them.
	cons := make([]milp.Constraint, 0, r.model.NumConstraints())
	for _, con := range r.model.Constraints() {
		if len(con.Terms) > 0 {
			cons = append(cons, con)
			continue
		}
		ok := true
		switch con.Sense {
		case milp.LessEq:
			ok = con.RHS >= -tol
		case milp.GreaterEq:
			ok = con.RHS <= tol
		case milp.Equal:
			ok = math.Abs(con.RHS) <= tol
		}
		if !ok {
			return 0, nil, errInfeasible
		}
	}

	for j := 0; j < n; j++ {
		if math.IsInf(r.lower[j], -1) {
			return 0, nil, fmt.Errorf("variable %d has no finite lower bound", j)
		}
		if r.upper[j] < r.lower[j] {
			return 0, nil, errInfeasible
		}
	}

	// One row per model constraint plus one per finite upper bound.
	nSlack := 0
	for _, c := range cons {
		if c.Sense != milp.Equal {
			nSlack++
		}
	}
	bounded := make([]int, 0, n)
	for j := 0; j < n; j++ {
		if !math.IsInf(r.upper[j], 1) {
			bounded = append(bounded, j)
		}
	}
	rows := len(cons) + len(bounded)
	cols := n + nSlack + len(bounded)

	if rows == 0 {
		return r.solveUnconstrained()
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)

	for _, t := range r.model.Objective() {
		c[t.Var.ID()] -= t.Coef // maximize -> minimize
	}

	slack := n
	for i, con := range cons {
		rhs := con.RHS
		for _, t := range con.Terms {
			a.Set(i, t.Var.ID(), a.At(i, t.Var.ID())+t.Coef)
			rhs -= t.Coef * r.lower[t.Var.ID()]
		}
		switch con.Sense {
		case milp.LessEq:
			a.Set(i, slack, 1)
			slack++
		case milp.GreaterEq:
			a.Set(i, slack, -1)
			slack++
		}
		b[i] = rhs
	}
	for k, j := range bounded {
		row := len(cons) + k
		a.Set(row, j, 1)
		a.Set(row, slack, 1)
		slack++
		b[row] = r.upper[j] - r.lower[j]
	}

	opt, xStd, err := lp.Simplex(c, a, b, tol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return 0, nil, errInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return 0, nil, errUnbounded
		default:
			return 0, nil, fmt.Errorf("simplex: %w", err)
		}
	}

	x = make([]float64, n)
	shift := 0.0
	objCoeffs := r.model.ObjectiveCoeffs()
	for j := 0; j < n; j++ {
		x[j] = r.lower[j] + xStd[j]
		shift += objCoeffs[j] * r.lower[j]
	}
	return -opt + shift, x, nil
}

// solveUnconstrained handles the corner case of a model whose relaxation has
// no rows at all: every variable sits at whichever bound the objective favors.
func (r *relaxation) solveUnconstrained() (float64, []float64, error) {
	n := r.model.NumVars()
	c := r.model.ObjectiveCoeffs()
	x := make([]float64, n)
	var obj float64
	for j := 0; j < n; j++ {
		if c[j] > 0 {
			if math.IsInf(r.upper[j], 1) {
				return 0, nil, errUnbounded
			}
			x[j] = r.upper[j]
		} else {
			x[j] = r.lower[j]
		}
		obj += c[j] * x[j]
	}
	return obj, x, nil
}
