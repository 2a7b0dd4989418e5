package milp

import "math"

// VarKind distinguishes continuous and binary decision variables.
type VarKind int

const (
	Continuous VarKind = iota
	Binary
)

// Var identifies a decision variable inside a Model. The zero value is not a
// valid variable; obtain instances from Model.AddVar or Model.AddBinary.
type Var struct {
	id   int
	name string
}

// ID returns the variable's column index in the model.
func (v Var) ID() int { return v.id }

// Name returns the variable's name.
func (v Var) Name() string { return v.name }

// Term is a single coefficient*variable product of a linear expression.
type Term struct {
	Var  Var
	Coef float64
}

// Sense is the comparison direction of a linear constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

// Constraint is one linear (in)equality: sum(Terms) Sense RHS.
type Constraint struct {
	Terms []Term
	Sense Sense
	RHS   float64
}

// VarInfo describes the bounds and kind of one variable.
type VarInfo struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
}

// Model is the intermediate representation handed to a Solver: a set of bounded
// variables, a linear objective to maximize and a list of linear constraints.
// It performs no solving itself and is not safe for concurrent mutation.
type Model struct {
	vars        []VarInfo
	objective   []Term
	constraints []Constraint
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// AddVar adds a continuous variable with the given bounds. Upper may be
// math.Inf(1) for an unbounded variable.
func (m *Model) AddVar(name string, lower, upper float64) Var {
	m.vars = append(m.vars, VarInfo{Name: name, Kind: Continuous, Lower: lower, Upper: upper})
	return Var{id: len(m.vars) - 1, name: name}
}

// AddBinary adds a {0,1} variable.
func (m *Model) AddBinary(name string) Var {
	m.vars = append(m.vars, VarInfo{Name: name, Kind: Binary, Lower: 0, Upper: 1})
	return Var{id: len(m.vars) - 1, name: name}
}

// AddObjectiveTerm accumulates coef*v into the (maximized) objective.
func (m *Model) AddObjectiveTerm(v Var, coef float64) {
	m.objective = append(m.objective, Term{Var: v, Coef: coef})
}

// AddConstraint appends a linear constraint. The terms slice is retained.
func (m *Model) AddConstraint(terms []Term, sense Sense, rhs float64) {
	m.constraints = append(m.constraints, Constraint{Terms: terms, Sense: sense, RHS: rhs})
}

// Vars returns the variable descriptions in column order.
func (m *Model) Vars() []VarInfo { return m.vars }

// Objective returns the accumulated objective terms.
func (m *Model) Objective() []Term { return m.objective }

// Constraints returns the constraint list.
func (m *Model) Constraints() []Constraint { return m.constraints }

// NumVars returns the number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of constraints.
func (m *Model) NumConstraints() int { return len(m.constraints) }

// ObjectiveCoeffs returns the dense objective coefficient vector.
func (m *Model) ObjectiveCoeffs() []float64 {
	c := make([]float64, len(m.vars))
	for _, t := range m.objective {
		c[t.Var.id] += t.Coef
	}
	return c
}

// EvalObjective computes the objective value for a full variable assignment.
func (m *Model) EvalObjective(x []float64) float64 {
	var v float64
	for _, t := range m.objective {
		v += t.Coef * x[t.Var.id]
	}
	return v
}

// Inf is a convenience for an unbounded upper limit.
func Inf() float64 { return math.Inf(1) }
