package metrics

import coremetrics "github.com/andig/evopt/core/metrics"

// MultiSink fans solve records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSolve(rec coremetrics.SolveRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(rec); err != nil {
			return err
		}
	}
	return nil
}
