package logging

import "github.com/rs/zerolog"

// DispatcherLogger adapts a zerolog.Logger to the key-value logger the
// command dispatcher expects.
type DispatcherLogger struct {
	logger zerolog.Logger
}

// NewDispatcherLogger wraps a zerolog.Logger for dispatcher use.
func NewDispatcherLogger(logger zerolog.Logger) *DispatcherLogger {
	return &DispatcherLogger{logger: logger}
}

// Debug logs at debug level with optional key-value pairs.
func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	emit(l.logger.Debug(), msg, keysAndValues)
}

// Info logs at info level with optional key-value pairs.
func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	emit(l.logger.Info(), msg, keysAndValues)
}

// Error logs at error level with optional key-value pairs.
func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	emit(l.logger.Error(), msg, keysAndValues)
}

// emit attaches the pairs to the event. Non-string keys and a trailing
// unpaired value are skipped rather than rejected.
func emit(ev *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	ev.Msg(msg)
}
