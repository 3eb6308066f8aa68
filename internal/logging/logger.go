// Package logging is the structured logger every component receives. The
// JSON implementation sits on log/slog; Discard is for tests.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	l.Info(ctx, "vessel created", "vessel_id", v.ID, "name", v.Name)
//
// The context is passed through to the handler, so request-scoped values
// (request id) end up on the record.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
