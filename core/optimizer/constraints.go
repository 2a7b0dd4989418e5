package optimizer

import (
	"fmt"

	"github.com/andig/evopt/core/milp"
)

// demandClipFactor leaves slack between a forced charging demand and the
// variable's own upper bound so the constraint stays feasible.
const demandClipFactor = 0.999

// buildConstraints adds every constraint family. An empty horizon degenerates
// to an empty constraint set.
func (o *Optimizer) buildConstraints(m *milp.Model) {
	o.powerBalance(m)
	for i, bat := range o.cfg.Batteries {
		o.batteryDynamics(m, i, bat)
		o.socGoals(m, i, bat)
		o.chargeFloors(m, i, bat)
		o.gridPermissions(m, i, bat)
	}
	o.flowExclusivity(m)
}

// powerBalance enforces, for every step, that battery net discharge plus
// production plus grid import exactly covers grid export plus consumption.
func (o *Optimizer) powerBalance(m *milp.Model) {
	ts := o.cfg.TimeSeries
	for t := 0; t < o.horizon; t++ {
		terms := make([]milp.Term, 0, 2*len(o.cfg.Batteries)+2)
		for i := range o.cfg.Batteries {
			terms = append(terms,
				milp.Term{Var: o.vars.batteries[i].discharge[t], Coef: 1},
				milp.Term{Var: o.vars.batteries[i].charge[t], Coef: -1},
			)
		}
		terms = append(terms,
			milp.Term{Var: o.vars.gridImport[t], Coef: 1},
			milp.Term{Var: o.vars.gridExport[t], Coef: -1},
		)
		m.AddConstraint(terms, milp.Equal, ts.Gt[t]-ts.Ft[t])
	}
}

// batteryDynamics ties each step's state of charge to the previous one.
// Charged energy is discounted by the charge efficiency, discharged energy is
// inflated by the inverse discharge efficiency.
func (o *Optimizer) batteryDynamics(m *milp.Model, i int, bat BatteryConfig) {
	bv := o.vars.batteries[i]
	for t := 0; t < o.horizon; t++ {
		terms := []milp.Term{
			{Var: bv.soc[t], Coef: 1},
			{Var: bv.charge[t], Coef: -o.cfg.EtaC},
			{Var: bv.discharge[t], Coef: 1 / o.cfg.EtaD},
		}
		rhs := 0.0
		if t == 0 {
			rhs = bat.SInitial
		} else {
			terms = append(terms, milp.Term{Var: bv.soc[t-1], Coef: -1})
		}
		m.AddConstraint(terms, milp.Equal, rhs)
	}
}

// socGoals enforces minimum state of charge targets. Only strictly positive
// goal entries at t >= 1 are constraints; zero or negative entries are no-ops.
func (o *Optimizer) socGoals(m *milp.Model, i int, bat BatteryConfig) {
	if bat.SGoal == nil {
		return
	}
	for t := 1; t < o.horizon; t++ {
		if bat.SGoal[t] > 0 {
			m.AddConstraint([]milp.Term{{Var: o.vars.batteries[i].soc[t], Coef: 1}}, milp.GreaterEq, bat.SGoal[t])
		}
	}
}

// chargeFloors handles the two mutually exclusive lower-bound regimes: a
// forced per-step charging demand, or the floor-or-zero disjunction gated by
// the charge activation flag.
func (o *Optimizer) chargeFloors(m *milp.Model, i int, bat BatteryConfig) {
	ts := o.cfg.TimeSeries

	if bat.PDemand != nil {
		for t := 1; t < o.horizon; t++ {
			if bat.PDemand[t] > 0 {
				// Clip the demand just below the step's charging ceiling so
				// it cannot collide with the variable's upper bound.
				demand := bat.PDemand[t]
				if ceil := stepEnergy(bat.CMax, ts.Dt[t]); demand >= ceil {
					demand = ceil * demandClipFactor
				}
				m.AddConstraint([]milp.Term{{Var: o.vars.batteries[i].charge[t], Coef: 1}}, milp.GreaterEq, demand)
			} else if bat.CMin > 0 {
				o.floorOrZero(m, i, bat, t)
			}
		}
		return
	}

	if bat.CMin > 0 {
		for t := 0; t < o.horizon; t++ {
			o.floorOrZero(m, i, bat, t)
		}
	}
}

// floorOrZero makes "charge at least c_min" and "charge nothing" both
// feasible: the activation flag lifts the floor and the big-M bound forces the
// flag whenever any charging happens.
func (o *Optimizer) floorOrZero(m *milp.Model, i int, bat BatteryConfig, t int) {
	bv := o.vars.batteries[i]
	if bv.chargeActive == nil {
		// Variable creation and constraint building disagree on CMin.
		panic(fmt.Sprintf("optimizer: battery %d has c_min %g but no activation flags", i, bat.CMin))
	}
	m.AddConstraint([]milp.Term{
		{Var: bv.charge[t], Coef: 1},
		{Var: bv.chargeActive[t], Coef: -stepEnergy(bat.CMin, o.cfg.TimeSeries.Dt[t])},
	}, milp.GreaterEq, 0)
	m.AddConstraint([]milp.Term{
		{Var: bv.charge[t], Coef: 1},
		{Var: bv.chargeActive[t], Coef: -o.cfg.BigM},
	}, milp.LessEq, 0)
}

// gridPermissions couples battery flows to the grid direction flag. Without
// grid charging permission a battery may only charge while the direction flag
// blocks import, so the energy can only come from production surplus. Without
// grid export permission it may only discharge while export is blocked, so the
// energy can only serve local consumption.
func (o *Optimizer) gridPermissions(m *milp.Model, i int, bat BatteryConfig) {
	bv := o.vars.batteries[i]
	if !bat.ChargeFromGrid {
		for t := 0; t < o.horizon; t++ {
			m.AddConstraint([]milp.Term{
				{Var: bv.charge[t], Coef: 1},
				{Var: o.vars.direction[t], Coef: -o.cfg.BigM},
			}, milp.LessEq, 0)
		}
	}
	if !bat.DischargeToGrid {
		for t := 0; t < o.horizon; t++ {
			m.AddConstraint([]milp.Term{
				{Var: bv.discharge[t], Coef: 1},
				{Var: o.vars.direction[t], Coef: o.cfg.BigM},
			}, milp.LessEq, o.cfg.BigM)
		}
	}
}

// flowExclusivity prevents simultaneous import and export within one step.
// y=1 opens export, y=0 opens import.
func (o *Optimizer) flowExclusivity(m *milp.Model) {
	for t := 0; t < o.horizon; t++ {
		m.AddConstraint([]milp.Term{
			{Var: o.vars.gridExport[t], Coef: 1},
			{Var: o.vars.direction[t], Coef: -o.cfg.BigM},
		}, milp.LessEq, 0)
		m.AddConstraint([]milp.Term{
			{Var: o.vars.gridImport[t], Coef: 1},
			{Var: o.vars.direction[t], Coef: o.cfg.BigM},
		}, milp.LessEq, o.cfg.BigM)
	}
}
