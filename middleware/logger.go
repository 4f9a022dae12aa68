package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/ctxmanage"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/logkey"
)

// Logger attaches a trace id to the request context and logs one line per
// request with method, path, status, and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.NewString()
		ctx := ctxmanage.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		slog.Info("request completed",
			slog.String(logkey.TraceID, traceID),
			slog.String("Method", c.Request.Method),
			slog.String("Path", c.Request.URL.Path),
			slog.Int("Status", c.Writer.Status()),
			slog.String("Duration", time.Since(start).String()),
		)
	}
}
