package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/stores/kafka"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/users"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/middleware"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/ctxmanage"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/logkey"
)

func (h *Handler) Signup(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var newUser users.NewUser
	if err := c.ShouldBindJSON(&newUser); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(newUser); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	user, err := h.u.InsertUser(c.Request.Context(), newUser)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrAccountDeactivated):
			slog.Error("signup against deactivated account", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Account is deactivated. Contact support."})
		case errors.Is(err, users.ErrEmailExists):
			slog.Error("signup with existing email", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		case errors.Is(err, auth.ErrPasswordTooLong):
			slog.Error("password too long", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Password must be 72 bytes or fewer"})
		default:
			slog.Error("error creating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User creation failed"})
		}
		return
	}

	if h.k != nil {
		go func(user users.User) {
			data, err := json.Marshal(kafka.AccountCreatedEvent{
				UserID:    user.ID,
				Email:     user.Email,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				slog.Error("failed to marshal account event", slog.String(logkey.ERROR, err.Error()))
				return
			}
			key := []byte(strconv.FormatInt(user.ID, 10))
			if err := h.k.ProduceMessage(kafka.TopicAccountCreated, key, data); err != nil {
				slog.Error("failed to produce account event", slog.String(logkey.ERROR, err.Error()), slog.Int64(logkey.UserID, user.ID))
			}
		}(user)
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) Login(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var login users.Login
	if err := c.ShouldBindJSON(&login); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(login); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	user, err := h.u.Authenticate(c.Request.Context(), login.Email, login.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidCredentials):
			// same response whether the email is unknown, the password is
			// wrong, or the account is soft-deleted
			slog.Error("login failed", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		default:
			slog.Error("error authenticating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	token, err := h.authKeys.GenerateToken(user.Email)
	if err != nil {
		slog.Error("error generating token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		slog.Error("invalid user id", slog.String(logkey.TraceID, traceId), slog.String("Param", c.Param("id")))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := h.u.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			slog.Error("user not found", slog.String(logkey.TraceID, traceId), slog.Int64(logkey.UserID, userID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		slog.Error("error in fetching user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		slog.Error("invalid skip parameter", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid skip parameter"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		slog.Error("invalid limit parameter", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	includeDeleted := c.DefaultQuery("include_deleted", "false") == "true"

	list, err := h.u.ListUsers(c.Request.Context(), skip, limit, includeDeleted)
	if err != nil {
		slog.Error("error in fetching users", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		slog.Error("invalid user id", slog.String(logkey.TraceID, traceId), slog.String("Param", c.Param("id")))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := h.u.SoftDeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			slog.Error("user not found", slog.String(logkey.TraceID, traceId), slog.Int64(logkey.UserID, userID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		slog.Error("error deleting user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User deletion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ChangeRole(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var body users.ChangeRole
	if err := c.ShouldBindJSON(&body); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(body); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	user, err := h.u.SetRole(c.Request.Context(), body.Email, body.Role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRole):
			slog.Error("invalid role", slog.String(logkey.TraceID, traceId), slog.String("Role", body.Role))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Role must be 'admin' or 'shop'"})
		case errors.Is(err, users.ErrUserNotFound):
			slog.Error("user not found", slog.String(logkey.TraceID, traceId), slog.String(logkey.Email, body.Email))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			slog.Error("error changing role", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Role change failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "email": user.Email, "role": user.Role})
}
