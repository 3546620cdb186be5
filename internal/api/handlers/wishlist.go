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

type WishlistHandler struct {
	activity *service.Activity
	logger   *logger.Logger
}

func NewWishlistHandler(activity *service.Activity, logger *logger.Logger) *WishlistHandler {
	return &WishlistHandler{
		activity: activity,
		logger:   logger,
	}
}

func (h *WishlistHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)

	list, err := h.activity.Wishlist(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// Toggle adds the product when absent and removes it when present.
func (h *WishlistHandler) Toggle(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("id")

	present, err := h.activity.WishlistToggle(c.Request.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("wishlist toggle for user %s, product %s: %v", userID, productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	message := "Product removed from wishlist"
	if present {
		message = "Product added to wishlist"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "present": present})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("id")

	if err := h.activity.WishlistRemove(c.Request.Context(), userID, productID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotInWishlist):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not in wishlist"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.logger.Error("wishlist remove for user %s, product %s: %v", userID, productID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wishlist updated successfully"})
}
