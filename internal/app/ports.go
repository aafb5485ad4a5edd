package app

// IDGenerator returns identifiers for new entities. Two calls for distinct
// entities must not return the same value within a session.
type IDGenerator func() string

// Logger is the structured logger the service writes gesture and mutation
// events to. *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}
