package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/auth"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/items"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/orders"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/stores/kafka"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/internal/users"
	"github.com/ChasetopherBoi/Business-Inventory-System-Template/middleware"
)

type Handler struct {
	i          *items.Conf
	o          *orders.Conf
	u          *users.Conf
	k          *kafka.Conf // nil when the event feed is disabled
	authKeys   *auth.Keys
	validate   *validator.Validate
	uploadsDir string
}

func NewHandler(i *items.Conf, o *orders.Conf, u *users.Conf, k *kafka.Conf, authKeys *auth.Keys, uploadsDir string) *Handler {
	return &Handler{
		i:          i,
		o:          o,
		u:          u,
		k:          k,
		authKeys:   authKeys,
		validate:   validator.New(),
		uploadsDir: uploadsDir,
	}
}

func API(endpointPrefix string, i *items.Conf, o *orders.Conf, u *users.Conf, k *kafka.Conf,
	authKeys *auth.Keys, uploadsDir string) *gin.Engine {

	r := gin.New()
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	m, err := middleware.NewMid(authKeys, u)
	if err != nil {
		panic(err)
	}
	h := NewHandler(i, o, u, k, authKeys, uploadsDir)

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)
	r.Static("/static/uploads", uploadsDir)

	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/auth/login", h.Login)
		v1.POST("/users/signup", h.Signup)
		v1.GET("/items/list", h.ListItems)
		v1.GET("/items/view/:itemNumber", h.GetItem)

		v1.Use(m.Authentication())
		v1.GET("/users/me", h.Me)
		v1.GET("/users/list", m.Authorize(h.ListUsers, auth.RoleAdmin))
		v1.GET("/users/view/:id", m.Authorize(h.GetUser, auth.RoleAdmin))
		v1.DELETE("/users/delete/:id", m.Authorize(h.DeleteUser, auth.RoleAdmin))
		v1.POST("/users/change-role", m.Authorize(h.ChangeRole, auth.RoleAdmin))

		v1.POST("/items/create", m.Authorize(h.CreateItem, auth.RoleAdmin))
		v1.PUT("/items/update/:itemNumber", m.Authorize(h.UpdateItem, auth.RoleAdmin))
		v1.DELETE("/items/delete/:itemNumber", m.Authorize(h.DeleteItem, auth.RoleAdmin))
		v1.POST("/items/image/:itemNumber", m.Authorize(h.UploadItemImage, auth.RoleAdmin))

		v1.POST("/orders/checkout", m.Authorize(h.Checkout, auth.RoleShop))
		v1.GET("/orders/me", m.Authorize(h.ListMyOrders, auth.RoleShop))
		v1.GET("/orders/list", m.Authorize(h.ListAllOrders, auth.RoleAdmin))
		v1.PUT("/orders/status/:id", m.Authorize(h.SetOrderStatus, auth.RoleAdmin))
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
