// Package logger is the process-wide logging facade. Call Init once at
// startup with one or more backends; every package then logs through the
// package-level functions in keyval style:
//
//	logger.Error("Failed to load prompt", "id", id, "err", err)
//
// Before Init (or with no backends) all calls are no-ops, which keeps unit
// tests quiet without any setup.
package logger

// Backend is a logging sink. Implementations live in subpackages so the
// facade stays dependency-free.
type Backend interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

var backends []Backend

// Init installs the backends used by all subsequent log calls. It is meant
// to be called once from main before anything else logs.
func Init(b ...Backend) {
	backends = b
}

func dispatch(fn func(Backend)) {
	for _, b := range backends {
		fn(b)
	}
}

// Debug logs at DEBUG level on every backend.
func Debug(message string, keyvals ...any) {
	dispatch(func(b Backend) { b.Debug(message, keyvals...) })
}

// Info logs at INFO level on every backend.
func Info(message string, keyvals ...any) {
	dispatch(func(b Backend) { b.Info(message, keyvals...) })
}

// Warn logs at WARN level on every backend.
func Warn(message string, keyvals ...any) {
	dispatch(func(b Backend) { b.Warn(message, keyvals...) })
}

// Error logs at ERROR level on every backend.
func Error(message string, keyvals ...any) {
	dispatch(func(b Backend) { b.Error(message, keyvals...) })
}

// Fatal logs at FATAL level on every backend; backends are expected to
// terminate the process.
func Fatal(message string, keyvals ...any) {
	dispatch(func(b Backend) { b.Fatal(message, keyvals...) })
}
