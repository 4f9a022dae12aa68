package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/users"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/ctxmanage"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/logkey"
)

type userKey int

// CurrentUserKey is the request-context key under which Authentication
// stores the resolved account.
const CurrentUserKey userKey = 1

// CurrentUser returns the authenticated account attached to the request.
func CurrentUser(c *gin.Context) (users.User, bool) {
	user, ok := c.Request.Context().Value(CurrentUserKey).(users.User)
	return user, ok
}

// Authentication verifies the Bearer token and binds its subject to a live
// account. Soft-deleted users cannot authenticate even with a valid token.
func (m *Mid) Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := ctxmanage.GetTraceIdOfRequest(c)

		authHeader := c.Request.Header.Get("Authorization")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			slog.Error("missing or malformed authorization header", slog.String(logkey.TraceID, traceID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication credentials"})
			return
		}

		claims, err := m.keys.ValidateToken(parts[1])
		if err != nil {
			slog.Error("token validation failed", slog.String(logkey.TraceID, traceID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication credentials"})
			return
		}

		user, err := m.users.GetActiveUserByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			slog.Error("token subject has no active account", slog.String(logkey.TraceID, traceID), slog.String(logkey.Email, claims.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication credentials"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), auth.ClaimsKey, claims)
		ctx = context.WithValue(ctx, CurrentUserKey, user)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Authorize wraps a handler with a role gate:
// v1.POST("/create", m.Authorize(h.CreateItem, auth.RoleAdmin)).
func (m *Mid) Authorize(next gin.HandlerFunc, allowed ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := ctxmanage.GetTraceIdOfRequest(c)

		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication credentials"})
			return
		}
		for _, role := range allowed {
			if user.Role == role {
				next(c)
				return
			}
		}
		slog.Error("role not permitted", slog.String(logkey.TraceID, traceID),
			slog.String(logkey.Email, user.Email), slog.String("Role", string(user.Role)))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not enough permissions"})
	}
}
