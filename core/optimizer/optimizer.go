package optimizer

import (
	"context"
	"fmt"
	"math"

	"github.com/andig/evopt/core/logger"
	"github.com/andig/evopt/core/milp"
)

// Config assembles one problem instance. Batteries and time series are read
// only; the optimizer never mutates them.
type Config struct {
	Strategy   Strategy
	Batteries  []BatteryConfig
	TimeSeries TimeSeriesData
	// EtaC and EtaD are the charge and discharge efficiencies in (0,1].
	EtaC float64
	// EtaD is applied as 1/EtaD on discharged energy.
	EtaD float64
	// BigM gates the disjunctive constraints. It must exceed any reachable
	// variable value.
	BigM float64

	Solver milp.Solver
	Logger logger.Logger
}

// SetDefaults applies the default efficiencies and big-M constant.
func (c *Config) SetDefaults() {
	if c.EtaC == 0 {
		c.EtaC = 0.95
	}
	if c.EtaD == 0 {
		c.EtaD = 0.95
	}
	if c.BigM == 0 {
		c.BigM = 1e6
	}
}

// Validate checks the instance before any model building so malformed input
// fails fast instead of producing an unsolvable or silently wrong model.
func (c Config) Validate() error {
	ts := c.TimeSeries
	horizon := len(ts.Gt)
	if len(ts.Dt) != horizon || len(ts.Ft) != horizon || len(ts.PN) != horizon || len(ts.PE) != horizon {
		return fmt.Errorf("time series length mismatch: dt=%d gt=%d ft=%d p_n=%d p_e=%d",
			len(ts.Dt), len(ts.Gt), len(ts.Ft), len(ts.PN), len(ts.PE))
	}
	for t, dt := range ts.Dt {
		if dt <= 0 {
			return fmt.Errorf("time step %d: non-positive duration %d", t, dt)
		}
	}
	if c.EtaC <= 0 || c.EtaC > 1 {
		return fmt.Errorf("charge efficiency %g outside (0,1]", c.EtaC)
	}
	if c.EtaD <= 0 || c.EtaD > 1 {
		return fmt.Errorf("discharge efficiency %g outside (0,1]", c.EtaD)
	}
	if c.BigM <= 0 {
		return fmt.Errorf("big-M constant must be positive, got %g", c.BigM)
	}
	for i, bat := range c.Batteries {
		if bat.SMin > bat.SMax {
			return fmt.Errorf("battery %d: s_min %g exceeds s_max %g", i, bat.SMin, bat.SMax)
		}
		if bat.SInitial < bat.SMin || bat.SInitial > bat.SMax {
			return fmt.Errorf("battery %d: s_initial %g outside [%g, %g]", i, bat.SInitial, bat.SMin, bat.SMax)
		}
		if bat.CMax < 0 || bat.DMax < 0 {
			return fmt.Errorf("battery %d: negative power limit", i)
		}
		if bat.CMin < 0 {
			return fmt.Errorf("battery %d: negative c_min %g", i, bat.CMin)
		}
		if bat.CMin > 0 && bat.CMin > bat.CMax {
			return fmt.Errorf("battery %d: c_min %g exceeds c_max %g", i, bat.CMin, bat.CMax)
		}
		if bat.PDemand != nil && len(bat.PDemand) != horizon {
			return fmt.Errorf("battery %d: p_demand length %d, want %d", i, len(bat.PDemand), horizon)
		}
		if bat.SGoal != nil && len(bat.SGoal) != horizon {
			return fmt.Errorf("battery %d: s_goal length %d, want %d", i, len(bat.SGoal), horizon)
		}
	}
	return nil
}

// Optimizer owns one problem instance and the model built from it. It is not
// safe for concurrent use: Build mutates the model and Solve reads it.
type Optimizer struct {
	cfg     Config
	horizon int

	model *milp.Model
	vars  *variables
	log   logger.Logger
}

// New validates the configuration and returns an optimizer for it.
func New(cfg Config) (*Optimizer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Solver == nil {
		return nil, fmt.Errorf("solver is required")
	}
	log := cfg.Logger
	if log == nil {
		log = nopLogger{}
	}
	return &Optimizer{cfg: cfg, horizon: len(cfg.TimeSeries.Gt), log: log}, nil
}

// Build assembles variables, objective and constraints into the model. It is
// idempotent: once a model exists, further calls reuse it so repeated solves
// do not duplicate constraints.
func (o *Optimizer) Build() {
	if o.model != nil {
		return
	}
	m := milp.New()
	o.vars = newVariables(m, o.cfg.Batteries, o.cfg.TimeSeries.Dt)
	o.buildObjective(m)
	o.buildConstraints(m)
	o.model = m
	o.log.Debugw("model built", map[string]any{
		"horizon":     o.horizon,
		"batteries":   len(o.cfg.Batteries),
		"variables":   m.NumVars(),
		"constraints": m.NumConstraints(),
	})
}

// Model exposes the assembled model, building it first if needed.
func (o *Optimizer) Model() *milp.Model {
	o.Build()
	return o.model
}

// Solve builds the model if necessary, runs the solver and maps its output
// into a Result. Solver-reported infeasibility or unboundedness is a valid
// outcome carried in the result status, not an error.
func (o *Optimizer) Solve(ctx context.Context) (*Result, error) {
	o.Build()
	sol, err := o.cfg.Solver.Solve(ctx, o.model)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	return o.extract(sol), nil
}

// extract maps raw solver values back into domain sequences.
func (o *Optimizer) extract(sol *milp.Solution) *Result {
	res := &Result{
		Status:        sol.Status,
		Batteries:     []BatterySchedule{},
		GridImport:    []float64{},
		GridExport:    []float64{},
		FlowDirection: []int{},
	}
	if sol.Status != milp.StatusOptimal {
		return res
	}

	obj := sol.Objective
	res.ObjectiveValue = &obj
	res.GridImport = values(sol, o.vars.gridImport)
	res.GridExport = values(sol, o.vars.gridExport)

	for i := range o.cfg.Batteries {
		bv := o.vars.batteries[i]
		res.Batteries = append(res.Batteries, BatterySchedule{
			ChargingPower:    values(sol, bv.charge),
			DischargingPower: values(sol, bv.discharge),
			StateOfCharge:    values(sol, bv.soc),
		})
	}

	for t := 0; t < o.horizon; t++ {
		if t >= len(o.vars.direction) {
			// No direction variable for this step means import.
			res.FlowDirection = append(res.FlowDirection, 0)
			continue
		}
		res.FlowDirection = append(res.FlowDirection, int(math.Round(sol.Value(o.vars.direction[t]))))
	}
	return res
}

func values(sol *milp.Solution, vars []milp.Var) []float64 {
	out := make([]float64, len(vars))
	for i, v := range vars {
		out[i] = sol.Value(v)
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
