package instrument

import "github.com/hashicorp/go-hclog"

// Sink receives diagnostic records. Args are alternating key/value pairs,
// as with hclog. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(msg string, args ...any)
	Enabled() bool
}

// LogSink writes records to an hclog logger at DEBUG level.
type LogSink struct {
	logger hclog.Logger
}

func NewLogSink(logger hclog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

func (s *LogSink) Enabled() bool {
	return s.logger.IsDebug()
}

// New returns a LogSink when enabled is true and a NoopSink otherwise.
func New(enabled bool, logger hclog.Logger) Sink {
	if !enabled || logger == nil {
		return &NoopSink{}
	}
	return NewLogSink(logger)
}
