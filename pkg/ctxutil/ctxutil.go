package ctxutil

import (
	"context"
)

type ctxKey string

const (
	clientIDKey  ctxKey = "client_id"
	sessionIDKey ctxKey = "session_id"
	requestIDKey ctxKey = "request_id"
	storedKey    ctxKey = "session_stored"
)

// WithClientID stores the resolved client identity in the context.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// ClientIDFromCtx extracts the client identity from the context.
// Returns "" and false if the value is missing, empty, or of the wrong type.
func ClientIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithSessionID stores the server-side session ID in the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromCtx extracts the session ID from the context.
// Returns an empty string if absent.
func SessionIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// WithStoredSession marks the request's session as one the client presented
// and the session store returned, as opposed to one minted for this request.
func WithStoredSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, storedKey, true)
}

// StoredSessionFromCtx reports whether WithStoredSession marked the context.
func StoredSessionFromCtx(ctx context.Context) bool {
	ok, _ := ctx.Value(storedKey).(bool)
	return ok
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
