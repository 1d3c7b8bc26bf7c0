package core

// Logger logs messages with increasing severity. Implementations may ship
// Error and Fatal entries to an external error tracker; extra args provide
// context (an error, a user.User, a map of metadata).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
