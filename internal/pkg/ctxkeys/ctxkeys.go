// Package ctxkeys carries request-scoped identifiers through context.Context.
package ctxkeys

import "context"

// contextKey is unexported so no other package can collide with these keys.
type contextKey string

const (
	HeaderXRequestID = "X-Request-Id"

	requestIDKey contextKey = "request_id"
	sessionIDKey contextKey = "session_id"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionID returns the storefront session id stored in ctx, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
