// Package correlation propagates a correlation ID through contexts, HTTP headers
// and Kafka message headers.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName is used both as the HTTP header and the Kafka header key.
const HeaderName = "X-Correlation-ID"

type contextKey struct{}

// FromContext returns the correlation ID or an empty string.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// EnsureID returns ctx unchanged if it already carries an ID, otherwise a
// context with a freshly generated one. Used by background jobs.
func EnsureID(ctx context.Context) context.Context {
	if FromContext(ctx) != "" {
		return ctx
	}
	return WithID(ctx, NewID())
}

func NewID() string {
	return uuid.New().String()
}
