// Package solver provides a mixed-integer linear solver built on gonum's
// simplex implementation. Binary variables are handled by depth-first branch
// and bound over LP relaxations.
package solver

import (
	"context"
	"math"

	"github.com/andig/evopt/core/logger"
	"github.com/andig/evopt/core/milp"
)

// Config tunes the branch and bound search.
type Config struct {
	// Tol is the pivot tolerance passed to the simplex.
	Tol float64 `json:"tol"`
	// IntTol is the maximum distance from an integer at which a binary
	// relaxation value counts as integral.
	IntTol float64 `json:"int_tol"`
	// MaxNodes bounds the search tree. Zero means the default.
	MaxNodes int `json:"max_nodes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Tol == 0 {
		c.Tol = 1e-9
	}
	if c.IntTol == 0 {
		c.IntTol = 1e-6
	}
	if c.MaxNodes == 0 {
		c.MaxNodes = 100000
	}
}

// BranchAndBound solves MILP models by branching on fractional binaries.
// Instances are stateless between Solve calls and safe for concurrent use.
type BranchAndBound struct {
	cfg Config
	log logger.Logger
}

// New creates a solver with the given configuration.
func New(cfg Config, log logger.Logger) *BranchAndBound {
	cfg.SetDefaults()
	if log == nil {
		log = noplog{}
	}
	return &BranchAndBound{cfg: cfg, log: log}
}

type node struct {
	lower []float64
	upper []float64
}

// Solve implements milp.Solver.
func (s *BranchAndBound) Solve(ctx context.Context, m *milp.Model) (*milp.Solution, error) {
	if m.NumVars() == 0 {
		// Nothing to decide. Constant constraints could still contradict.
		rel := relaxation{model: m}
		if _, _, err := rel.solve(s.cfg.Tol); err == errInfeasible {
			return &milp.Solution{Status: milp.StatusInfeasible}, nil
		}
		return &milp.Solution{Status: milp.StatusOptimal, Objective: 0, Values: nil}, nil
	}

	vars := m.Vars()
	root := node{lower: make([]float64, len(vars)), upper: make([]float64, len(vars))}
	for j, v := range vars {
		root.lower[j] = v.Lower
		root.upper[j] = v.Upper
	}

	best := math.Inf(-1)
	var bestX []float64
	stack := []node{root}
	nodes := 0

	for len(stack) > 0 {
		if ctx.Err() != nil {
			s.log.Warnf("solve cancelled after %d nodes", nodes)
			return &milp.Solution{Status: milp.StatusNotSolved}, nil
		}
		nodes++
		if nodes > s.cfg.MaxNodes {
			s.log.Warnf("node limit %d reached", s.cfg.MaxNodes)
			return &milp.Solution{Status: milp.StatusNotSolved}, nil
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rel := relaxation{model: m, lower: nd.lower, upper: nd.upper}
		obj, x, err := rel.solve(s.cfg.Tol)
		switch err {
		case nil:
		case errInfeasible:
			continue
		case errUnbounded:
			return &milp.Solution{Status: milp.StatusUnbounded}, nil
		default:
			return &milp.Solution{Status: milp.StatusUndefined}, err
		}

		if bestX != nil && obj <= best+s.cfg.Tol {
			continue
		}

		branch := s.pickBranch(vars, x)
		if branch < 0 {
			// Integral. Snap binaries onto exact values.
			for j, v := range vars {
				if v.Kind == milp.Binary {
					x[j] = math.Round(x[j])
				}
			}
			best = obj
			bestX = x
			continue
		}

		zero := node{lower: cloneBounds(nd.lower), upper: cloneBounds(nd.upper)}
		zero.upper[branch] = 0
		one := node{lower: cloneBounds(nd.lower), upper: cloneBounds(nd.upper)}
		one.lower[branch] = 1
		stack = append(stack, zero, one)
	}

	if bestX == nil {
		return &milp.Solution{Status: milp.StatusInfeasible}, nil
	}
	s.log.Debugw("milp solved", map[string]any{"nodes": nodes, "objective": best})
	return &milp.Solution{Status: milp.StatusOptimal, Objective: best, Values: bestX}, nil
}

// pickBranch returns the index of the most fractional binary, or -1 when all
// binaries are integral within tolerance.
func (s *BranchAndBound) pickBranch(vars []milp.VarInfo, x []float64) int {
	branch := -1
	bestFrac := s.cfg.IntTol
	for j, v := range vars {
		if v.Kind != milp.Binary {
			continue
		}
		frac := math.Abs(x[j] - math.Round(x[j]))
		if frac > bestFrac {
			bestFrac = frac
			branch = j
		}
	}
	return branch
}

func cloneBounds(b []float64) []float64 {
	out := make([]float64, len(b))
	copy(out, b)
	return out
}

type noplog struct{}

func (noplog) Debugf(string, ...any)         {}
func (noplog) Debugw(string, map[string]any) {}
func (noplog) Infof(string, ...any)          {}
func (noplog) Warnf(string, ...any)          {}
func (noplog) Errorf(string, ...any)         {}
