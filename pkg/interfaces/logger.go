package interfaces

import "context"

// Logger is the leveled logger handed to sessions, page services, command
// handlers and the admin API. Messages are dotted event names such as
// "session.save.remote_failed"; args are alternating key/value pairs.
// github.com/goliatone/go-logger loggers satisfy it directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is a Logger that can carry persistent fields, e.g. the
// page_slug of the session that owns it. Use logging.WithFields to attach
// fields to a Logger that may not implement it.
type FieldsLogger interface {
	Logger
	WithFields(fields map[string]any) Logger
}

// LoggerProvider hands out module loggers by name ("sitepages.session",
// "sitepages.http", ...).
type LoggerProvider interface {
	GetLogger(name string) Logger
}
