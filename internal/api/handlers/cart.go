package handlers

import (
	"errors"
	"net/http"

	"storefront/internal/api/middleware"
	"storefront/internal/logger"
	"storefront/internal/service"
	"storefront/internal/store"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	activity *service.Activity
	logger   *logger.Logger
}

func NewCartHandler(activity *service.Activity, logger *logger.Logger) *CartHandler {
	return &CartHandler{
		activity: activity,
		logger:   logger,
	}
}

func (h *CartHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)

	cart, err := h.activity.Cart(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cart})
}

// Add is a foreground mutation: a persistence failure is reported to
// the caller, never swallowed.
func (h *CartHandler) Add(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("id")

	if err := h.activity.CartAdd(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("cart add for user %s, product %s: %v", userID, productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart"})
}

func (h *CartHandler) Remove(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("id")

	if err := h.activity.CartRemove(c.Request.Context(), userID, productID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotInCart):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not in cart"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.logger.Error("cart remove for user %s, product %s: %v", userID, productID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
}
