package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/orders"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/stores/kafka"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/middleware"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/ctxmanage"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/logkey"
)

func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		slog.Error("user not found on request", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	var newOrder orders.NewOrder
	if err := c.ShouldBindJSON(&newOrder); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(newOrder); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	order, err := h.o.Checkout(c.Request.Context(), user.ID, newOrder.Lines)
	if err != nil {
		var notFound *orders.ItemNotFoundError
		var noStock *orders.InsufficientStockError
		switch {
		case errors.Is(err, orders.ErrEmptyCart):
			slog.Error("empty cart", slog.String(logkey.TraceID, traceId), slog.Int64(logkey.UserID, user.ID))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.As(err, &notFound):
			slog.Error("cart item not found", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, notFound.ItemNumber))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found: " + notFound.ItemNumber})
		case errors.As(err, &noStock):
			slog.Error("insufficient stock", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, noStock.ItemNumber))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Not enough stock for " + noStock.ItemNumber})
		default:
			slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		}
		return
	}

	h.produceOrderEvent(kafka.TopicOrderPlaced, order.ID, kafka.OrderPlacedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total.StringFixed(2),
		CreatedAt: order.CreatedAt,
	})

	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	list, err := h.o.ListOrdersByUser(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("error in fetching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) ListAllOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.o.ListOrders(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) SetOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		slog.Error("invalid order id", slog.String(logkey.TraceID, traceId), slog.String("Param", c.Param("id")))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	order, err := h.o.SetOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidStatus):
			slog.Error("invalid status", slog.String(logkey.TraceID, traceId), slog.String("Status", req.Status))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, orders.ErrOrderNotFound):
			slog.Error("order not found", slog.String(logkey.TraceID, traceId), slog.Int64(logkey.OrderID, orderID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			slog.Error("error updating order status", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}

	h.produceOrderEvent(kafka.TopicOrderStatusChanged, order.ID, kafka.OrderStatusChangedEvent{
		OrderID:   order.ID,
		Status:    string(order.Status),
		UpdatedAt: time.Now().UTC(),
	})

	c.JSON(http.StatusOK, order)
}

// produceOrderEvent publishes fire-and-forget; a dead broker must never fail
// the request that already committed.
func (h *Handler) produceOrderEvent(topic string, orderID int64, event any) {
	if h.k == nil {
		return
	}
	go func() {
		data, err := json.Marshal(event)
		if err != nil {
			slog.Error("failed to marshal order event", slog.String(logkey.ERROR, err.Error()))
			return
		}
		key := []byte(strconv.FormatInt(orderID, 10))
		if err := h.k.ProduceMessage(topic, key, data); err != nil {
			slog.Error("failed to produce order event", slog.String(logkey.ERROR, err.Error()), slog.Int64(logkey.OrderID, orderID))
		}
	}()
}
