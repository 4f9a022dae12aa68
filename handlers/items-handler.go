package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/ctxmanage"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/pkg/logkey"
)

func (h *Handler) CreateItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var newItem items.NewItem
	if err := c.ShouldBindJSON(&newItem); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	if err := h.validate.Struct(newItem); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			vErr := vErrs[0]
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			switch vErr.Tag() {
			case "required":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value missing"})
			case "min":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value is less than " + vErr.Param()})
			default:
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
			}
			return
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	insertedItem, err := h.i.InsertItem(c.Request.Context(), newItem)
	if err != nil {
		switch {
		case errors.Is(err, items.ErrDuplicateItemNumber):
			slog.Error("duplicate item number", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, newItem.ItemNumber))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Item number already exists"})
		case errors.Is(err, items.ErrNegativePrice):
			slog.Error("negative price", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, newItem.ItemNumber))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		default:
			slog.Error("error in inserting the item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Item creation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, insertedItem)
}

func (h *Handler) GetItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	itemNumber := c.Param("itemNumber")

	item, err := h.i.GetItemByNumber(c.Request.Context(), itemNumber)
	if err != nil {
		if errors.Is(err, items.ErrItemNotFound) {
			slog.Error("item not found", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, itemNumber))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("error in retrieving item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) ListItems(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.i.ListItems(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *Handler) UpdateItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	itemNumber := c.Param("itemNumber")
	if itemNumber == "" {
		slog.Error("missing item number in request", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Item number is required"})
		return
	}

	var upd items.UpdateItem
	if err := c.ShouldBindJSON(&upd); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	item, err := h.i.UpdateItem(c.Request.Context(), itemNumber, upd)
	if err != nil {
		if errors.Is(err, items.ErrItemNotFound) {
			slog.Error("item not found", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, itemNumber))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("error in updating the item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slog.Info("item updated successfully", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, itemNumber))
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

func (h *Handler) DeleteItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	itemNumber := c.Param("itemNumber")

	ok, err := h.i.DeleteItem(c.Request.Context(), itemNumber)
	if err != nil {
		slog.Error("error in deleting the item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Item deletion failed"})
		return
	}
	if !ok {
		slog.Error("item not found", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, itemNumber))
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item successfully deleted"})
}

// allowed upload extensions, lowercase
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// UploadItemImage saves the uploaded file under the uploads directory and
// points the item's image_url at it. The file write happens before any
// store mutation so a slow disk never sits inside a transaction.
func (h *Handler) UploadItemImage(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	itemNumber := c.Param("itemNumber")

	file, err := c.FormFile("file")
	if err != nil {
		slog.Error("missing upload file", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		slog.Error("unsupported image type", slog.String(logkey.TraceID, traceId), slog.String("Extension", ext))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	filename := fmt.Sprintf("%s-%s%s", itemNumber, strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadsDir, filename)); err != nil {
		slog.Error("failed to save uploaded file", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	imageURL := "/static/uploads/" + filename
	item, err := h.i.UpdateItemImageURL(c.Request.Context(), itemNumber, imageURL)
	if err != nil {
		if errors.Is(err, items.ErrItemNotFound) {
			slog.Error("item not found", slog.String(logkey.TraceID, traceId), slog.String(logkey.ItemNumber, itemNumber))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("error in updating item image", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item image"})
		return
	}

	c.JSON(http.StatusOK, item)
}
