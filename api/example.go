package api

import "github.com/andig/evopt/core/optimizer"

// ExampleRequest returns a canonical 24 hour instance: a solar day with a
// morning and evening consumption peak, a cheap night tariff, a stationary
// home battery and an EV that must reach its departure goal by hour 18.
func ExampleRequest() OptimizeRequest {
	const hours = 24

	ts := optimizer.TimeSeriesData{
		Dt: make([]int, hours),
		Gt: make([]float64, hours),
		Ft: make([]float64, hours),
		PN: make([]float64, hours),
		PE: make([]float64, hours),
	}

	for t := 0; t < hours; t++ {
		ts.Dt[t] = 3600
		// Base load with morning and evening peaks.
		switch {
		case t >= 6 && t < 9:
			ts.Gt[t] = 1500
		case t >= 17 && t < 22:
			ts.Gt[t] = 2000
		default:
			ts.Gt[t] = 500
		}
		// Solar production between 07:00 and 19:00, peaking at noon.
		if t >= 7 && t < 19 {
			mid := 13.0
			span := 6.0
			f := 1 - (float64(t)-mid)*(float64(t)-mid)/(span*span)
			if f > 0 {
				ts.Ft[t] = 5000 * f
			}
		}
		// Night tariff until 06:00, peak price in the evening. Prices are per
		// Wh, so 0.0003 is 0.30 per kWh.
		switch {
		case t < 6:
			ts.PN[t] = 0.00020
		case t >= 17 && t < 21:
			ts.PN[t] = 0.00040
		default:
			ts.PN[t] = 0.00030
		}
		ts.PE[t] = 0.00008
	}

	evGoal := make([]float64, hours)
	for t := 18; t < hours; t++ {
		evGoal[t] = 30000
	}

	return OptimizeRequest{
		Strategy: optimizer.Strategy{ChargingStrategy: optimizer.StrategyChargeBeforeExport},
		Batteries: []optimizer.BatteryConfig{
			{
				// Home storage, free to trade with the grid.
				ChargeFromGrid:  true,
				DischargeToGrid: true,
				SMin:            1000,
				SMax:            10000,
				SInitial:        4000,
				CMax:            5000,
				DMax:            5000,
				PA:              0.00015,
			},
			{
				// EV: grid charging allowed, no backfeed, 30 kWh required
				// from 18:00 and a 1.4 kW minimum charging power.
				ChargeFromGrid: true,
				SMin:           5000,
				SMax:           60000,
				SInitial:       15000,
				CMin:           1400,
				CMax:           11000,
				PA:             0.0001,
				SGoal:          evGoal,
			},
		},
		TimeSeries: ts,
	}
}
