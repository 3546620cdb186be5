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

type KeepShoppingHandler struct {
	activity *service.Activity
	logger   *logger.Logger
}

func NewKeepShoppingHandler(activity *service.Activity, logger *logger.Logger) *KeepShoppingHandler {
	return &KeepShoppingHandler{
		activity: activity,
		logger:   logger,
	}
}

func (h *KeepShoppingHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)

	list, err := h.activity.KeepShoppingFor(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch keep shopping for"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *KeepShoppingHandler) Touch(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("id")

	if err := h.activity.KeepShoppingForTouch(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("keep shopping for touch for user %s, product %s: %v", userID, productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update keep shopping for"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Keep shopping for updated"})
}
