package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
)

type key string

// TraceIDKey is the request-context key under which the logger middleware
// stores the per-request trace id.
const TraceIDKey key = "traceId"

// WithTraceID returns a context carrying the given trace id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceIdOfRequest returns the trace id attached to the incoming request,
// or "unknown" if the logger middleware did not run.
func GetTraceIdOfRequest(c *gin.Context) string {
	traceID, ok := c.Request.Context().Value(TraceIDKey).(string)
	if !ok {
		return "unknown"
	}
	return traceID
}
