package log

// Logger is what every component of the SDK takes. Keyvals are alternating
// key/value pairs, as in Info("order signed", "id", id).
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})

	With(keyvals ...interface{}) Logger
}
