package instrument

// NoopSink discards all records. Used when diagnostics are disabled.
type NoopSink struct{}

func (n *NoopSink) Emit(msg string, args ...any) {}
func (n *NoopSink) Enabled() bool                { return false }
