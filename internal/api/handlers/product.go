package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/api/middleware"
	"storefront/internal/catalog"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/store"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	catalog    *catalog.Catalog
	dispatcher *events.Dispatcher
	logger     *logger.Logger
}

func NewProductHandler(cat *catalog.Catalog, dispatcher *events.Dispatcher, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:    cat,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := h.catalog.Random(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ProductHandler) Search(c *gin.Context) {
	query := c.Query("query")

	products, err := h.catalog.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while searching"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

// Get fetches one product and records the view in the background. The
// response never depends on the view being recorded.
func (h *ProductHandler) Get(c *gin.Context) {
	id := c.Param("id")

	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	h.dispatcher.ProductViewed(product.ID, middleware.UserID(c))

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var input catalog.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": product})
}

// Purchase records a sale in the background and always succeeds for an
// existing product.
func (h *ProductHandler) Purchase(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.catalog.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	h.dispatcher.ProductPurchased(id)

	c.JSON(http.StatusOK, gin.H{"message": "Purchase recorded"})
}

func (h *ProductHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	products, err := h.catalog.Popular(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch popular products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ProductHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	products, err := h.catalog.Trending(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trending products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ProductHandler) Categories(c *gin.Context) {
	facets, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": facets})
}

func (h *ProductHandler) Brands(c *gin.Context) {
	facets, err := h.catalog.Brands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": facets})
}

func (h *ProductHandler) ByCategory(c *gin.Context) {
	products, err := h.catalog.ByCategory(c.Request.Context(), c.Param("category"), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No products found in this category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ProductHandler) ByBrand(c *gin.Context) {
	products, err := h.catalog.ByBrand(c.Request.Context(), c.Param("brand"), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No products found for this brand"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}
