package log

// nullLogger discards everything. Used by tests and by any harness that
// wants a silent core (conformance-test runners, fuzzers).
type nullLogger struct{}

// NewNullLogger returns a Logger that discards all output.
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Debugf(string, ...interface{}) {}
