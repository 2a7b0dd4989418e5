package optimizer

import (
	"github.com/andig/evopt/core/milp"
)

// Tie-breaker weights. They must stay far below the smallest realistic price
// differential so the secondary preference never distorts the economic
// optimum.
const (
	chargeBeforeExportWeight = 5e-5
	attenuatePeaksWeight     = 1e-6
)

// buildObjective assembles the maximized objective: export revenue minus
// import cost plus the valuation of energy left in the batteries at the end of
// the horizon, optionally followed by a strategy tie-breaker.
func (o *Optimizer) buildObjective(m *milp.Model) {
	ts := o.cfg.TimeSeries

	for t := 0; t < o.horizon; t++ {
		m.AddObjectiveTerm(o.vars.gridImport[t], -ts.PN[t])
		m.AddObjectiveTerm(o.vars.gridExport[t], ts.PE[t])
	}

	for i, bat := range o.cfg.Batteries {
		if o.horizon > 0 {
			m.AddObjectiveTerm(o.vars.batteries[i].soc[o.horizon-1], bat.PA)
		}
	}

	if o.horizon == 0 {
		return
	}
	minImport := ts.PN[0]
	for _, p := range ts.PN[1:] {
		if p < minImport {
			minImport = p
		}
	}

	switch o.cfg.Strategy.ChargingStrategy {
	case StrategyChargeBeforeExport:
		// Weight early state of charge more heavily so charging is pulled
		// forward among cost-equal schedules.
		for i := range o.cfg.Batteries {
			for t := 0; t < o.horizon; t++ {
				m.AddObjectiveTerm(o.vars.batteries[i].soc[t], minImport*chargeBeforeExportWeight*float64(o.horizon-t))
			}
		}
	case StrategyAttenuateGridPeaks:
		// Reward charging that coincides with high forecasted production.
		for i := range o.cfg.Batteries {
			for t := 0; t < o.horizon; t++ {
				m.AddObjectiveTerm(o.vars.batteries[i].charge[t], ts.Ft[t]*minImport*attenuatePeaksWeight)
			}
		}
	}
}
