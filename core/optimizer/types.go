// Package optimizer builds a mixed-integer linear program that schedules
// battery charging, discharging and grid exchange over a price and production
// forecast horizon, and maps the solver output back into per-battery
// schedules.
package optimizer

import (
	"github.com/andig/evopt/core/milp"
)

// Charging strategy selectors. A strategy only breaks ties between
// economically equivalent schedules; it never changes the cost optimum.
const (
	StrategyChargeBeforeExport = "charge_before_export"
	StrategyAttenuateGridPeaks = "attenuate_grid_peaks"
)

// Strategy selects the secondary charging preference.
type Strategy struct {
	ChargingStrategy string `json:"charging_strategy"`
}

// BatteryConfig describes one battery. Power limits are in W, energy values in
// Wh, prices in currency per Wh.
type BatteryConfig struct {
	// ChargeFromGrid permits charging while the grid direction is import.
	ChargeFromGrid bool `json:"charge_from_grid"`
	// DischargeToGrid permits discharging while the grid direction is export.
	DischargeToGrid bool `json:"discharge_to_grid"`
	// SMin and SMax bound the state of charge, SInitial is the level at the
	// start of the horizon.
	SMin     float64 `json:"s_min"`
	SMax     float64 `json:"s_max"`
	SInitial float64 `json:"s_initial"`
	// CMin is the minimum charging power while charging is active; zero
	// disables the floor. CMax and DMax cap charging and discharging power.
	CMin float64 `json:"c_min"`
	CMax float64 `json:"c_max"`
	DMax float64 `json:"d_max"`
	// PA values residual stored energy at the end of the horizon.
	PA float64 `json:"p_a"`
	// PDemand forces a minimum charging power per time step when set. A nil
	// slice means no demand constraint applies.
	PDemand []float64 `json:"p_demand,omitempty"`
	// SGoal requires a minimum state of charge per time step when set.
	// Entries that are not strictly positive are ignored.
	SGoal []float64 `json:"s_goal,omitempty"`
}

// TimeSeriesData carries the horizon-aligned inputs. All slices must have
// equal length.
type TimeSeriesData struct {
	// Dt is the duration of each time step in seconds.
	Dt []int `json:"dt"`
	// Gt is the required consumption per step in Wh.
	Gt []float64 `json:"gt"`
	// Ft is the forecasted production per step in Wh.
	Ft []float64 `json:"ft"`
	// PN and PE are the import and export prices per step.
	PN []float64 `json:"p_n"`
	PE []float64 `json:"p_e"`
}

// BatterySchedule is the per-battery slice of an optimization result.
type BatterySchedule struct {
	ChargingPower    []float64 `json:"charging_power"`
	DischargingPower []float64 `json:"discharging_power"`
	StateOfCharge    []float64 `json:"state_of_charge"`
}

// Result is the outcome of one solve. Callers must branch on Status before
// reading the sequence fields: on any status other than Optimal the objective
// is absent and all sequences are empty.
type Result struct {
	Status         milp.Status       `json:"status"`
	ObjectiveValue *float64          `json:"objective_value,omitempty"`
	Batteries      []BatterySchedule `json:"batteries"`
	GridImport     []float64         `json:"grid_import"`
	GridExport     []float64         `json:"grid_export"`
	FlowDirection  []int             `json:"flow_direction"`
}
