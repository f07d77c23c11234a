package logger

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDField is the log field carrying the request id.
const RequestIDField = "requestId"

type requestIDKey struct{}

// MaxRequestIDLen bounds a caller supplied request id.
const MaxRequestIDLen = 128

// WithRequestID returns a copy of ctx carrying id. An id that is empty,
// longer than MaxRequestIDLen or not printable ASCII is replaced by a fresh
// one.
func WithRequestID(ctx context.Context, id string) context.Context {
	if !validRequestID(id) {
		id = NewRequestID()
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}
	return true
}

// RequestID returns the id stored in ctx.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// NewRequestID generates a random request id.
func NewRequestID() string {
	return uuid.NewString()
}
