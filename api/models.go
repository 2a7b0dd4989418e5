package api

import "github.com/andig/evopt/core/optimizer"

// OptimizeRequest is the JSON body of POST /api/v1/optimize/charge-schedule.
type OptimizeRequest struct {
	Strategy   optimizer.Strategy        `json:"strategy"`
	Batteries  []optimizer.BatteryConfig `json:"batteries" binding:"required"`
	TimeSeries optimizer.TimeSeriesData  `json:"time_series" binding:"required"`
	// EtaC, EtaD and BigM override the server defaults when non-zero.
	EtaC float64 `json:"eta_c,omitempty"`
	EtaD float64 `json:"eta_d,omitempty"`
	BigM float64 `json:"big_m,omitempty"`
}

// OptimizeResponse mirrors the optimization result plus the request id the
// run was logged under.
type OptimizeResponse struct {
	RequestID string `json:"request_id"`
	optimizer.Result
}

// ErrorDetail describes a single API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope returned on non-2xx statuses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
