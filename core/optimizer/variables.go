package optimizer

import (
	"fmt"

	"github.com/andig/evopt/core/milp"
)

// batteryVars holds the decision variables of one battery. chargeActive is nil
// unless the battery has a minimum charging power, so its absence is typed
// rather than signalled by a sentinel.
type batteryVars struct {
	charge       []milp.Var // energy charged per step, Wh
	discharge    []milp.Var // energy discharged per step, Wh
	soc          []milp.Var // state of charge at end of step, Wh
	chargeActive []milp.Var // floor-or-zero activation flag, nil when CMin == 0
}

// variables holds the full variable set of one model.
type variables struct {
	batteries  []batteryVars
	gridImport []milp.Var // n, Wh per step
	gridExport []milp.Var // e, Wh per step
	direction  []milp.Var // y, 1 = export permitted, 0 = import permitted
}

// stepEnergy converts a power limit in W to the energy reachable within time
// step t, supporting a non-uniform time grid.
func stepEnergy(powerW float64, dtSeconds int) float64 {
	return powerW * float64(dtSeconds) / 3600.
}

// newVariables creates every decision variable with its bounds. An empty
// horizon yields empty variable sets.
func newVariables(m *milp.Model, batteries []BatteryConfig, dt []int) *variables {
	v := &variables{}

	for i, bat := range batteries {
		bv := batteryVars{}
		for t := range dt {
			bv.charge = append(bv.charge, m.AddVar(fmt.Sprintf("c_%d_%d", i, t), 0, stepEnergy(bat.CMax, dt[t])))
			bv.discharge = append(bv.discharge, m.AddVar(fmt.Sprintf("d_%d_%d", i, t), 0, stepEnergy(bat.DMax, dt[t])))
			bv.soc = append(bv.soc, m.AddVar(fmt.Sprintf("s_%d_%d", i, t), bat.SMin, bat.SMax))
		}
		if bat.CMin > 0 {
			for t := range dt {
				bv.chargeActive = append(bv.chargeActive, m.AddBinary(fmt.Sprintf("z_c_%d_%d", i, t)))
			}
		}
		v.batteries = append(v.batteries, bv)
	}

	for t := range dt {
		v.gridImport = append(v.gridImport, m.AddVar(fmt.Sprintf("n_%d", t), 0, milp.Inf()))
		v.gridExport = append(v.gridExport, m.AddVar(fmt.Sprintf("e_%d", t), 0, milp.Inf()))
		v.direction = append(v.direction, m.AddBinary(fmt.Sprintf("y_%d", t)))
	}

	return v
}
